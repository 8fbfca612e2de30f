package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"qrdine_backend/internal/models"

	"github.com/lib/pq"
)

// RestaurantRepository defines the interface for tenant-related database operations.
// Restaurants are never deleted; platform admins toggle is_active instead.
type RestaurantRepository interface {
	CreateRestaurant(executor SQLExecutor, restaurant *models.Restaurant) (int64, error)
	GetRestaurantByID(id int64) (*models.Restaurant, error)
	GetRestaurantByOwner(ownerID int64) (*models.Restaurant, error)
	// GetRestaurantBySlug serves the public menu page; when activeOnly is set
	// an inactive restaurant is reported as not found.
	GetRestaurantBySlug(slug string, activeOnly bool) (*models.Restaurant, error)
	GetRestaurants(page, pageSize int) ([]models.Restaurant, int, error)
	UpdateRestaurant(executor SQLExecutor, restaurant *models.Restaurant) error
	SetActive(executor SQLExecutor, id int64, isActive bool) error
	// CountRestaurants returns total and active tenant counts for the admin
	// overview.
	CountRestaurants() (total int, active int, err error)
}

type restaurantRepository struct {
	db *sql.DB
}

// NewRestaurantRepository creates a new instance of RestaurantRepository.
func NewRestaurantRepository(db *sql.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

const restaurantColumns = `id, owner_id, name, slug, description, address, phone, logo_url, currency, is_active, created_at, updated_at`

func (r *restaurantRepository) CreateRestaurant(executor SQLExecutor, restaurant *models.Restaurant) (int64, error) {
	query := `INSERT INTO restaurants
	            (owner_id, name, slug, description, address, phone, logo_url, currency, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		restaurant.OwnerID, restaurant.Name, restaurant.Slug, restaurant.Description,
		restaurant.Address, restaurant.Phone, restaurant.LogoURL, restaurant.Currency,
		restaurant.IsActive, currentTime, currentTime,
	).Scan(&restaurant.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating restaurant: %v", ErrDatabaseError, err)
	}
	return restaurant.ID, nil
}

func (r *restaurantRepository) GetRestaurantByID(id int64) (*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	return r.scanRestaurant(r.db.QueryRow(query, id))
}

func (r *restaurantRepository) GetRestaurantByOwner(ownerID int64) (*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE owner_id = $1`
	return r.scanRestaurant(r.db.QueryRow(query, ownerID))
}

func (r *restaurantRepository) GetRestaurantBySlug(slug string, activeOnly bool) (*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE slug = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	return r.scanRestaurant(r.db.QueryRow(query, slug))
}

func (r *restaurantRepository) GetRestaurants(page, pageSize int) ([]models.Restaurant, int, error) {
	restaurants := []models.Restaurant{}
	totalCount := 0
	query := `SELECT ` + restaurantColumns + `, COUNT(*) OVER() AS total_count
	          FROM restaurants
	          ORDER BY created_at DESC
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting restaurants: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var restaurant models.Restaurant
		if err := rows.Scan(
			&restaurant.ID, &restaurant.OwnerID, &restaurant.Name, &restaurant.Slug,
			&restaurant.Description, &restaurant.Address, &restaurant.Phone, &restaurant.LogoURL,
			&restaurant.Currency, &restaurant.IsActive, &restaurant.CreatedAt, &restaurant.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning restaurant: %v", ErrDatabaseError, err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating restaurants: %v", ErrDatabaseError, err)
	}
	return restaurants, totalCount, nil
}

func (r *restaurantRepository) UpdateRestaurant(executor SQLExecutor, restaurant *models.Restaurant) error {
	// owner_id, slug and is_active are deliberately not touched here:
	// slug is fixed at onboarding (printed QR codes embed it) and is_active
	// is admin-only via SetActive.
	query := `UPDATE restaurants
	          SET name = $1, description = $2, address = $3, phone = $4, logo_url = $5,
	              currency = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		restaurant.Name, restaurant.Description, restaurant.Address, restaurant.Phone,
		restaurant.LogoURL, restaurant.Currency, time.Now(), restaurant.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating restaurant ID %d: %v", ErrDatabaseError, restaurant.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for restaurant update ID %d: %v", ErrDatabaseError, restaurant.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *restaurantRepository) SetActive(executor SQLExecutor, id int64, isActive bool) error {
	result, err := executor.Exec(
		`UPDATE restaurants SET is_active = $1, updated_at = $2 WHERE id = $3`,
		isActive, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: setting is_active for restaurant ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for restaurant activation ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *restaurantRepository) CountRestaurants() (int, int, error) {
	var total, active int
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM restaurants`
	if err := r.db.QueryRow(query).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("%w: counting restaurants: %v", ErrDatabaseError, err)
	}
	return total, active, nil
}

func (r *restaurantRepository) scanRestaurant(row *sql.Row) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{}
	err := row.Scan(
		&restaurant.ID, &restaurant.OwnerID, &restaurant.Name, &restaurant.Slug,
		&restaurant.Description, &restaurant.Address, &restaurant.Phone, &restaurant.LogoURL,
		&restaurant.Currency, &restaurant.IsActive, &restaurant.CreatedAt, &restaurant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting restaurant: %v", ErrDatabaseError, err)
	}
	return restaurant, nil
}
