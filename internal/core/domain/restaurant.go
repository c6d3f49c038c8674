package domain

import (
	"errors"
	"time"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

// Restaurant is a pickup location owned by a user with the owner role.
type Restaurant struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Address     string    `json:"address" db:"address"`
	Lat         float64   `json:"lat" db:"lat"`
	Lng         float64   `json:"lng" db:"lng"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	OpenTime    string    `json:"open_time,omitempty" db:"open_time"`
	CloseTime   string    `json:"close_time,omitempty" db:"close_time"`
	Active      bool      `json:"active" db:"active"`
	Rating      float64   `json:"rating" db:"rating"`
	ReviewCount int64     `json:"review_count" db:"review_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
