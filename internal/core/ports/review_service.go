package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// CreateReviewInput rates a completed order.
type CreateReviewInput struct {
	UserID  string
	OrderID string
	Rating  int
	Comment string
}

// ListReviewsResult is one page of a restaurant's reviews.
type ListReviewsResult struct {
	Items      []*domain.Review
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ReviewService interface {
	Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	ListByRestaurant(ctx context.Context, restaurantID string, page, limit int) (*ListReviewsResult, error)
}
