package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// ReviewRepository persists reviews. OrderID carries a unique constraint;
// Insert returns ErrReviewExists on a second review for the same order.
type ReviewRepository interface {
	Insert(ctx context.Context, r *domain.Review) (*domain.Review, error)
	ListByRestaurant(ctx context.Context, restaurantID string, page, limit int) ([]*domain.Review, int64, error)
	// Aggregate returns the average rating and review count for a restaurant.
	Aggregate(ctx context.Context, restaurantID string) (avg float64, count int64, err error)
}
