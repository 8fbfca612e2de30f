package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuCategory groups menu items for display ordering on the customer page.
type MenuCategory struct {
	ID           int64     `json:"id" db:"id"`
	RestaurantID int64     `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Description  *string   `json:"description,omitempty" db:"description"`
	SortOrder    int       `json:"sort_order" db:"sort_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItem is a sellable item. Its live price is the authoritative source for
// order totals; line items snapshot it at order time.
type MenuItem struct {
	ID           int64           `json:"id" db:"id"`
	RestaurantID int64           `json:"restaurant_id" db:"restaurant_id"`
	CategoryID   *int64          `json:"category_id,omitempty" db:"category_id"`
	Name         string          `json:"name" db:"name" binding:"required"`
	Description  *string         `json:"description,omitempty" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	ImageURL     *string         `json:"image_url,omitempty" db:"image_url"`
	IsAvailable  bool            `json:"is_available" db:"is_available"`
	IsPopular    bool            `json:"is_popular" db:"is_popular"`
	SortOrder    int             `json:"sort_order" db:"sort_order"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
