package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// SaveRestaurantInput carries the fields an owner may set on their restaurant.
type SaveRestaurantInput struct {
	Name        string
	Description string
	Address     string
	Lat         float64
	Lng         float64
	Phone       string
	OpenTime    string
	CloseTime   string
	Active      bool
}

// ListRestaurantsResult is one page of the public listing.
type ListRestaurantsResult struct {
	Items      []*domain.Restaurant
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type RestaurantService interface {
	Create(ctx context.Context, ownerID string, in SaveRestaurantInput) (*domain.Restaurant, error)
	// Update enforces ownership: only the owning user or an admin may modify.
	Update(ctx context.Context, actorID, actorRole, restaurantID string, in SaveRestaurantInput) (*domain.Restaurant, error)
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	List(ctx context.Context, filter ListRestaurantsFilter) (*ListRestaurantsResult, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*domain.Restaurant, error)
}
