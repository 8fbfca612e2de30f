package models

import "time"

// Restaurant represents one onboarded tenant. It is never physically deleted;
// platform admins toggle IsActive instead.
type Restaurant struct {
	ID          int64     `json:"id" db:"id"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	Address     *string   `json:"address,omitempty" db:"address"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	LogoURL     *string   `json:"logo_url,omitempty" db:"logo_url"`
	Currency    string    `json:"currency" db:"currency"` // display label only, no conversion
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SubscriptionStatus defines the type for subscription statuses
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// IsValidSubscriptionStatus checks if the provided status string is a valid SubscriptionStatus.
func IsValidSubscriptionStatus(status string) bool {
	switch SubscriptionStatus(status) {
	case SubscriptionTrial, SubscriptionActive, SubscriptionPastDue, SubscriptionCancelled:
		return true
	default:
		return false
	}
}

// Subscription is the per-tenant plan record. It gates platform access tier,
// not per-order acceptance (that is the balance gate's job).
type Subscription struct {
	ID             int64              `json:"id" db:"id"`
	RestaurantID   int64              `json:"restaurant_id" db:"restaurant_id"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	TrialEndsAt    *time.Time         `json:"trial_ends_at,omitempty" db:"trial_ends_at"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
	RestaurantName *string            `json:"restaurant_name,omitempty"` // For joining with Restaurant
}
