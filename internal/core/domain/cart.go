package domain

import (
	"errors"
	"time"
)

var ErrCartNotFound = errors.New("cart not found")
var ErrCartEmpty = errors.New("cart is empty")

// CartItem is a single menu item selection inside a cart.
type CartItem struct {
	MenuItemID string `json:"menu_item_id" db:"menu_item_id"`
	Name       string `json:"name" db:"name"`
	PriceVND   int64  `json:"price_vnd" db:"price_vnd"`
	Quantity   int    `json:"quantity" db:"quantity"`
	Note       string `json:"note,omitempty" db:"note"`
}

// Cart holds a user's pending selection. A user has at most one open cart,
// and all items in it belong to a single restaurant.
type Cart struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	RestaurantID string     `json:"restaurant_id" db:"restaurant_id"`
	Items        []CartItem `json:"items"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Subtotal returns the cart total in VND at the captured item prices.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.PriceVND * int64(it.Quantity)
	}
	return total
}
