package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// AddCartItemInput adds or bumps one menu item in the user's cart.
type AddCartItemInput struct {
	RestaurantID string
	MenuItemID   string
	Quantity     int
	Note         string
}

type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem validates the menu item, captures its current price, and adds it
	// to the cart. Adding from a different restaurant replaces the cart.
	AddItem(ctx context.Context, userID string, in AddCartItemInput) (*domain.Cart, error)
	// UpdateItem sets the quantity of an existing line; zero removes it.
	UpdateItem(ctx context.Context, userID, menuItemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, menuItemID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}
