package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of a pickup order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks whether the order has been paid via the gateway.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady},
	OrderReady:     {OrderCompleted},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotPayable = errors.New("order not eligible for payment")
var ErrAmountMismatch = errors.New("payment amount does not cover order total")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a line captured from the cart at order creation time.
type OrderItem struct {
	MenuItemID string `json:"menu_item_id" db:"menu_item_id"`
	Name       string `json:"name" db:"name"`
	PriceVND   int64  `json:"price_vnd" db:"price_vnd"`
	Quantity   int    `json:"quantity" db:"quantity"`
	Note       string `json:"note,omitempty" db:"note"`
}

// Order is the core aggregate root. Reference is the public code printed on
// the pickup receipt and embedded in bank transfer content for matching.
type Order struct {
	ID            string        `json:"id" db:"id"`
	Reference     string        `json:"reference" db:"reference"`
	UserID        string        `json:"user_id" db:"user_id"`
	RestaurantID  string        `json:"restaurant_id" db:"restaurant_id"`
	Items         []OrderItem   `json:"items"`
	TotalVND      int64         `json:"total_vnd" db:"total_vnd"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	PickupAt      time.Time     `json:"pickup_at" db:"pickup_at"`
	Note          string        `json:"note,omitempty" db:"note"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// Payable reports whether a gateway payment may still be applied.
func (o *Order) Payable() bool {
	return o.PaymentStatus == PaymentUnpaid && o.Status != OrderCancelled
}
