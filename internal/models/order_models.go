package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus defines the type for order statuses
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValidOrderStatus checks if the provided status string is a valid OrderStatus.
func IsValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusServed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusServed || s == OrderStatusCancelled
}

// CanTransitionTo reports whether a staff transition from s to next is legal.
// Terminal states admit nothing; active states may move freely (the kitchen
// flow is pending -> preparing -> ready -> served, but staff may also skip
// steps or cancel at any active point).
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	return IsValidOrderStatus(string(next))
}

// Order represents a customer order. TotalAmount is computed server-side at
// creation from the line items and is immutable thereafter; orders are never
// deleted (cancellation is a terminal status, preserving the refund trail).
type Order struct {
	ID             int64           `json:"id" db:"id"`
	RestaurantID   int64           `json:"restaurant_id" db:"restaurant_id"`
	TableID        *int64          `json:"table_id,omitempty" db:"table_id"`
	CustomerName   *string         `json:"customer_name,omitempty" db:"customer_name"`
	CustomerPhone  *string         `json:"customer_phone,omitempty" db:"customer_phone"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status         OrderStatus     `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	OrderItems     []OrderItem     `json:"order_items,omitempty"`
	TableName      *string         `json:"table_name,omitempty"`      // For joining with RestaurantTable
	RestaurantName *string         `json:"restaurant_name,omitempty"` // For admin listings
}

// OrderItem is one line item. Name and price are snapshots taken at order
// time, deliberately decoupled from the live menu; rows are immutable.
type OrderItem struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"order_id" db:"order_id"`
	MenuItemID *int64          `json:"menu_item_id,omitempty" db:"menu_item_id"`
	Name       string          `json:"name" db:"name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Quantity   int             `json:"quantity" db:"quantity"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	RestaurantID *int64  `form:"restaurant_id"`
	TableID      *int64  `form:"table_id"`
	Status       *string `form:"status"`
	Date         *string `form:"date"` // Expected format YYYY-MM-DD
	Page         int     `form:"page"`
	PageSize     int     `form:"page_size"`
}
