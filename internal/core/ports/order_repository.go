package ports

import (
	"context"
	"time"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// ListOrdersFilter carries all query parameters for listing orders.
// UserID/RestaurantID scoping is always set by the service layer (RBAC).
type ListOrdersFilter struct {
	UserID       string // non-empty = scoped to the customer
	RestaurantID string // non-empty = scoped to the restaurant
	Status       string // optional
	DateFrom     time.Time
	DateTo       time.Time
	Page         int // 1-based
	Limit        int // capped at 100 by the service
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByReference(ctx context.Context, reference string) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// UpdateStatus sets the order status; the transition has already been
	// validated by the service against the state machine.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	// MarkPaid flips payment_status to paid only while it is still unpaid,
	// returning ErrOrderNotPayable when the guard fails.
	MarkPaid(ctx context.Context, id string) error
}
