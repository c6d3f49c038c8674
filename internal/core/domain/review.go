package domain

import (
	"errors"
	"time"
)

var ErrReviewExists = errors.New("order already reviewed")
var ErrReviewNotFound = errors.New("review not found")
var ErrOrderNotReviewable = errors.New("only completed orders can be reviewed")
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Review is a customer rating tied to a completed order, one per order.
type Review struct {
	ID           string    `json:"id" db:"id"`
	OrderID      string    `json:"order_id" db:"order_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	RestaurantID string    `json:"restaurant_id" db:"restaurant_id"`
	Rating       int       `json:"rating" db:"rating"`
	Comment      string    `json:"comment,omitempty" db:"comment"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
