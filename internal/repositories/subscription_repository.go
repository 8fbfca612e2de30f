package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"qrdine_backend/internal/models"
)

// SubscriptionRepository defines the interface for subscription database operations.
type SubscriptionRepository interface {
	CreateSubscription(executor SQLExecutor, sub *models.Subscription) (int64, error)
	GetSubscriptionByRestaurant(restaurantID int64) (*models.Subscription, error)
	GetSubscriptions(page, pageSize int) ([]models.Subscription, int, error)
	UpdateStatus(executor SQLExecutor, id int64, status models.SubscriptionStatus) error
}

type subscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new instance of SubscriptionRepository.
func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateSubscription(executor SQLExecutor, sub *models.Subscription) (int64, error) {
	query := `INSERT INTO subscriptions (restaurant_id, status, trial_ends_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		sub.RestaurantID, sub.Status, sub.TrialEndsAt, currentTime, currentTime,
	).Scan(&sub.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating subscription: %v", ErrDatabaseError, err)
	}
	return sub.ID, nil
}

func (r *subscriptionRepository) GetSubscriptionByRestaurant(restaurantID int64) (*models.Subscription, error) {
	sub := &models.Subscription{}
	query := `SELECT id, restaurant_id, status, trial_ends_at, created_at, updated_at
	          FROM subscriptions WHERE restaurant_id = $1`
	err := r.db.QueryRow(query, restaurantID).Scan(
		&sub.ID, &sub.RestaurantID, &sub.Status, &sub.TrialEndsAt, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting subscription for restaurant %d: %v", ErrDatabaseError, restaurantID, err)
	}
	return sub, nil
}

func (r *subscriptionRepository) GetSubscriptions(page, pageSize int) ([]models.Subscription, int, error) {
	subs := []models.Subscription{}
	totalCount := 0
	query := `SELECT s.id, s.restaurant_id, s.status, s.trial_ends_at, s.created_at, s.updated_at,
	                 res.name as restaurant_name,
	                 COUNT(*) OVER() AS total_count
	          FROM subscriptions s
	          JOIN restaurants res ON s.restaurant_id = res.id
	          ORDER BY s.created_at DESC
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting subscriptions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sub models.Subscription
		var restaurantName sql.NullString
		if err := rows.Scan(
			&sub.ID, &sub.RestaurantID, &sub.Status, &sub.TrialEndsAt,
			&sub.CreatedAt, &sub.UpdatedAt, &restaurantName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning subscription: %v", ErrDatabaseError, err)
		}
		if restaurantName.Valid {
			name := restaurantName.String
			sub.RestaurantName = &name
		}
		subs = append(subs, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating subscriptions: %v", ErrDatabaseError, err)
	}
	return subs, totalCount, nil
}

func (r *subscriptionRepository) UpdateStatus(executor SQLExecutor, id int64, status models.SubscriptionStatus) error {
	result, err := executor.Exec(
		`UPDATE subscriptions SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: updating subscription status for ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for subscription update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
