package domain

import (
	"errors"
	"time"
)

var ErrMenuItemNotFound = errors.New("menu item not found")
var ErrMenuItemUnavailable = errors.New("menu item unavailable")

// MenuItem is a dish offered by a restaurant. Price is in Vietnamese dong,
// which has no fractional unit, so an integer is exact.
type MenuItem struct {
	ID           string    `json:"id" db:"id"`
	RestaurantID string    `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	Category     string    `json:"category,omitempty" db:"category"`
	PriceVND     int64     `json:"price_vnd" db:"price_vnd"`
	ImageURL     string    `json:"image_url,omitempty" db:"image_url"`
	Available    bool      `json:"available" db:"available"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
