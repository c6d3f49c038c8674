package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// CartRepository defines persistence for the single open cart per user.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// Save upserts the cart and replaces its items wholesale.
	Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	Delete(ctx context.Context, userID string) error
}
