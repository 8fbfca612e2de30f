package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"qrdine_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// MenuRepository defines the interface for menu-related database operations.
type MenuRepository interface {
	// MenuCategory methods
	CreateCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error)
	GetCategoryByID(id int64) (*models.MenuCategory, error)
	GetCategories(restaurantID int64, activeOnly bool) ([]models.MenuCategory, error)
	UpdateCategory(executor SQLExecutor, category *models.MenuCategory) error
	DeleteCategory(executor SQLExecutor, id int64) error

	// MenuItem methods
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByID(id int64) (*models.MenuItem, error)
	GetItems(restaurantID int64, categoryID *int64, availableOnly bool) ([]models.MenuItem, error)
	UpdateItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(executor SQLExecutor, id int64) error
	// GetItemForOrder returns the authoritative price snapshot data for an
	// available item belonging to the given restaurant. Used by OrderService.
	GetItemForOrder(itemID, restaurantID int64) (name string, price decimal.Decimal, err error)
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

// --- MenuCategory Methods ---

func (r *menuRepository) CreateCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error) {
	query := `INSERT INTO menu_categories (restaurant_id, name, description, sort_order, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		category.RestaurantID, category.Name, category.Description, category.SortOrder,
		category.IsActive, currentTime, currentTime,
	).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: menu category name '%s' already exists (constraint: %s)", ErrDuplicateKey, category.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating menu category: %v", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *menuRepository) GetCategoryByID(id int64) (*models.MenuCategory, error) {
	category := &models.MenuCategory{}
	query := `SELECT id, restaurant_id, name, description, sort_order, is_active, created_at, updated_at
	          FROM menu_categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&category.ID, &category.RestaurantID, &category.Name, &category.Description,
		&category.SortOrder, &category.IsActive, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu category by ID %d: %v", ErrDatabaseError, id, err)
	}
	return category, nil
}

func (r *menuRepository) GetCategories(restaurantID int64, activeOnly bool) ([]models.MenuCategory, error) {
	categories := []models.MenuCategory{}
	query := `SELECT id, restaurant_id, name, description, sort_order, is_active, created_at, updated_at
	          FROM menu_categories
	          WHERE restaurant_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.db.Query(query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting menu categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.MenuCategory
		if err := rows.Scan(
			&category.ID, &category.RestaurantID, &category.Name, &category.Description,
			&category.SortOrder, &category.IsActive, &category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning menu category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *menuRepository) UpdateCategory(executor SQLExecutor, category *models.MenuCategory) error {
	query := `UPDATE menu_categories
	          SET name = $1, description = $2, sort_order = $3, is_active = $4, updated_at = $5
	          WHERE id = $6 AND restaurant_id = $7`
	result, err := executor.Exec(query,
		category.Name, category.Description, category.SortOrder, category.IsActive,
		time.Now(), category.ID, category.RestaurantID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating menu category ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for menu category update ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM menu_categories WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: menu category %d still has items", ErrDatabaseError, id)
		}
		return fmt.Errorf("%w: deleting menu category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting menu category ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- MenuItem Methods ---

func (r *menuRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items
	            (restaurant_id, category_id, name, description, price, image_url,
	             is_available, is_popular, sort_order, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()

	var categoryID sql.NullInt64
	if item.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *item.CategoryID, Valid: true}
	}

	err := executor.QueryRow(query,
		item.RestaurantID, categoryID, item.Name, item.Description, item.Price, item.ImageURL,
		item.IsAvailable, item.IsPopular, item.SortOrder, currentTime, currentTime,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating menu item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *menuRepository) GetItemByID(id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	var categoryID sql.NullInt64
	query := `SELECT id, restaurant_id, category_id, name, description, price, image_url,
	                 is_available, is_popular, sort_order, created_at, updated_at
	          FROM menu_items WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&item.ID, &item.RestaurantID, &categoryID, &item.Name, &item.Description,
		&item.Price, &item.ImageURL, &item.IsAvailable, &item.IsPopular, &item.SortOrder,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, id, err)
	}
	if categoryID.Valid {
		cid := categoryID.Int64
		item.CategoryID = &cid
	}
	return item, nil
}

func (r *menuRepository) GetItems(restaurantID int64, categoryID *int64, availableOnly bool) ([]models.MenuItem, error) {
	items := []models.MenuItem{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, restaurant_id, category_id, name, description, price, image_url,
	       is_available, is_popular, sort_order, created_at, updated_at
	  FROM menu_items
	  WHERE restaurant_id = $1`)

	args := []interface{}{restaurantID}
	if categoryID != nil {
		args = append(args, *categoryID)
		queryBuilder.WriteString(fmt.Sprintf(" AND category_id = $%d", len(args)))
	}
	if availableOnly {
		queryBuilder.WriteString(" AND is_available = TRUE")
	}
	queryBuilder.WriteString(" ORDER BY sort_order, name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		var catID sql.NullInt64
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &catID, &item.Name, &item.Description,
			&item.Price, &item.ImageURL, &item.IsAvailable, &item.IsPopular, &item.SortOrder,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		if catID.Valid {
			cid := catID.Int64
			item.CategoryID = &cid
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *menuRepository) UpdateItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items
	          SET category_id = $1, name = $2, description = $3, price = $4, image_url = $5,
	              is_available = $6, is_popular = $7, sort_order = $8, updated_at = $9
	          WHERE id = $10 AND restaurant_id = $11`

	var categoryID sql.NullInt64
	if item.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *item.CategoryID, Valid: true}
	}

	result, err := executor.Exec(query,
		categoryID, item.Name, item.Description, item.Price, item.ImageURL,
		item.IsAvailable, item.IsPopular, item.SortOrder, time.Now(),
		item.ID, item.RestaurantID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for menu item update ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteItem(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) GetItemForOrder(itemID, restaurantID int64) (string, decimal.Decimal, error) {
	var name string
	var price decimal.Decimal
	query := `SELECT name, price FROM menu_items
	          WHERE id = $1 AND restaurant_id = $2 AND is_available = TRUE`
	err := r.db.QueryRow(query, itemID, restaurantID).Scan(&name, &price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", decimal.Zero, ErrNotFound
		}
		return "", decimal.Zero, fmt.Errorf("%w: getting menu item %d for order: %v", ErrDatabaseError, itemID, err)
	}
	return name, price, nil
}
