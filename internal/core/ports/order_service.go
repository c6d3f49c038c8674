package ports

import (
	"context"
	"time"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// CreateOrderInput turns the user's open cart into an order.
type CreateOrderInput struct {
	UserID   string
	PickupAt time.Time
	Note     string
}

// OrderStatusView is the minimal public view served on the unauthenticated
// status-by-reference endpoint.
type OrderStatusView struct {
	Reference     string               `json:"reference"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	PickupAt      time.Time            `json:"pickup_at"`
}

// ListOrdersInput carries list parameters plus the caller's identity for scoping.
type ListOrdersInput struct {
	ActorID      string
	ActorRole    string
	RestaurantID string // owners: which of their restaurants
	Status       string
	DateFrom     time.Time
	DateTo       time.Time
	Page         int
	Limit        int
}

// ListOrdersResult is one page of orders.
type ListOrdersResult struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type OrderService interface {
	CreateFromCart(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	// Get enforces visibility: customers see their own orders, owners their
	// restaurant's, admins everything.
	Get(ctx context.Context, actorID, actorRole, orderID string) (*domain.Order, error)
	List(ctx context.Context, in ListOrdersInput) (*ListOrdersResult, error)
	// Advance moves the order along the state machine (owner or admin only).
	Advance(ctx context.Context, actorID, actorRole, orderID string, next domain.OrderStatus) (*domain.Order, error)
	// Cancel is the customer-initiated transition to cancelled.
	Cancel(ctx context.Context, actorID, actorRole, orderID string) (*domain.Order, error)
	StatusByReference(ctx context.Context, reference string) (*OrderStatusView, error)
}
