package models

import "time"

// RestaurantTable represents a physical table. Each table carries a QR token
// that the printed code embeds; customer orders reference tables by id.
type RestaurantTable struct {
	ID           int64     `json:"id" db:"id"`
	RestaurantID int64     `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	QRToken      string    `json:"qr_token" db:"qr_token"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
