package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// ListRestaurantsFilter carries query parameters for the public listing.
type ListRestaurantsFilter struct {
	Search     string // optional: partial match on name
	OnlyActive bool
	Page       int // 1-based
	Limit      int // capped at 100 by the service
}

// RestaurantRepository defines persistence operations for restaurants.
type RestaurantRepository interface {
	Create(ctx context.Context, r *domain.Restaurant) (*domain.Restaurant, error)
	Update(ctx context.Context, r *domain.Restaurant) (*domain.Restaurant, error)
	FindByID(ctx context.Context, id string) (*domain.Restaurant, error)
	// List returns a page of restaurants matching filter and the total count.
	List(ctx context.Context, filter ListRestaurantsFilter) ([]*domain.Restaurant, int64, error)
	// Nearby returns active restaurants within radiusKm of the point, closest
	// first. Distance math runs inside PostGIS.
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*domain.Restaurant, error)
	// UpdateRating stores the recomputed review aggregate.
	UpdateRating(ctx context.Context, id string, rating float64, count int64) error
}
