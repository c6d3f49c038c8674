package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// SaveMenuItemInput carries the fields an owner may set on a menu item.
type SaveMenuItemInput struct {
	Name        string
	Description string
	Category    string
	PriceVND    int64
	ImageURL    string
	Available   bool
}

type MenuService interface {
	// PublicMenu returns only available items; it backs the bypass-listed
	// public menu endpoint.
	PublicMenu(ctx context.Context, restaurantID string) ([]*domain.MenuItem, error)
	// FullMenu returns every item including unavailable ones (owner view).
	FullMenu(ctx context.Context, actorID, actorRole, restaurantID string) ([]*domain.MenuItem, error)
	CreateItem(ctx context.Context, actorID, actorRole, restaurantID string, in SaveMenuItemInput) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, actorID, actorRole, restaurantID, itemID string, in SaveMenuItemInput) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, actorID, actorRole, restaurantID, itemID string) error
}
