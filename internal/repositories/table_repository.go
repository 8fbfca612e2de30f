package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"qrdine_backend/internal/models"

	"github.com/lib/pq"
)

// TableRepository defines the interface for restaurant-table database operations.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.RestaurantTable) (int64, error)
	GetTableByID(id int64) (*models.RestaurantTable, error)
	GetTables(restaurantID int64) ([]models.RestaurantTable, error)
	UpdateTable(executor SQLExecutor, table *models.RestaurantTable) error
	DeleteTable(executor SQLExecutor, id int64, restaurantID int64) error
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.RestaurantTable) (int64, error) {
	query := `INSERT INTO restaurant_tables (restaurant_id, name, qr_token, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		table.RestaurantID, table.Name, table.QRToken, currentTime, currentTime,
	).Scan(&table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: table name '%s' already exists (constraint: %s)", ErrDuplicateKey, table.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating restaurant table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTableByID(id int64) (*models.RestaurantTable, error) {
	table := &models.RestaurantTable{}
	query := `SELECT id, restaurant_id, name, qr_token, created_at, updated_at
	          FROM restaurant_tables WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&table.ID, &table.RestaurantID, &table.Name, &table.QRToken,
		&table.CreatedAt, &table.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting restaurant table by ID %d: %v", ErrDatabaseError, id, err)
	}
	return table, nil
}

func (r *tableRepository) GetTables(restaurantID int64) ([]models.RestaurantTable, error) {
	tables := []models.RestaurantTable{}
	query := `SELECT id, restaurant_id, name, qr_token, created_at, updated_at
	          FROM restaurant_tables
	          WHERE restaurant_id = $1
	          ORDER BY name`

	rows, err := r.db.Query(query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting restaurant tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var table models.RestaurantTable
		if err := rows.Scan(
			&table.ID, &table.RestaurantID, &table.Name, &table.QRToken,
			&table.CreatedAt, &table.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning restaurant table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, table)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating restaurant tables: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.RestaurantTable) error {
	query := `UPDATE restaurant_tables SET name = $1, updated_at = $2
	          WHERE id = $3 AND restaurant_id = $4`
	result, err := executor.Exec(query, table.Name, time.Now(), table.ID, table.RestaurantID)
	if err != nil {
		return fmt.Errorf("%w: updating restaurant table ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for table update ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, id int64, restaurantID int64) error {
	result, err := executor.Exec(
		`DELETE FROM restaurant_tables WHERE id = $1 AND restaurant_id = $2`, id, restaurantID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: table %d is referenced by existing orders", ErrDatabaseError, id)
		}
		return fmt.Errorf("%w: deleting restaurant table ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting table ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
