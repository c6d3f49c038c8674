package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// MenuRepository defines persistence operations for menu items.
type MenuRepository interface {
	CreateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, restaurantID, itemID string) error
	FindItemByID(ctx context.Context, id string) (*domain.MenuItem, error)
	// FindItemsByIDs returns the subset of the given ids that exist.
	FindItemsByIDs(ctx context.Context, ids []string) ([]*domain.MenuItem, error)
	// ListByRestaurant returns a restaurant's menu. When onlyAvailable is set,
	// unavailable items are filtered out (the public view).
	ListByRestaurant(ctx context.Context, restaurantID string, onlyAvailable bool) ([]*domain.MenuItem, error)
}
