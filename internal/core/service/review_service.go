package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

type ReviewService struct {
	reviewRepo     ports.ReviewRepository
	orderRepo      ports.OrderRepository
	restaurantRepo ports.RestaurantRepository
	logger         zerolog.Logger
}

func NewReviewService(
	reviewRepo ports.ReviewRepository,
	orderRepo ports.OrderRepository,
	restaurantRepo ports.RestaurantRepository,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		logger:         logger,
	}
}

// Create rates a completed order. One review per order; only the customer who
// placed the order may review it.
func (s *ReviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	order, err := s.orderRepo.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != in.UserID {
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.OrderCompleted {
		return nil, domain.ErrOrderNotReviewable
	}

	review := &domain.Review{
		OrderID:      order.ID,
		UserID:       in.UserID,
		RestaurantID: order.RestaurantID,
		Rating:       in.Rating,
		Comment:      in.Comment,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.reviewRepo.Insert(ctx, review)
	if err != nil {
		return nil, err
	}

	// Refresh the denormalized aggregate. A failure here leaves the stored
	// rating one review behind, which the next review corrects.
	if avg, count, aggErr := s.reviewRepo.Aggregate(ctx, order.RestaurantID); aggErr != nil {
		s.logger.Warn().Err(aggErr).Str("restaurant_id", order.RestaurantID).Msg("rating aggregate failed")
	} else if upErr := s.restaurantRepo.UpdateRating(ctx, order.RestaurantID, avg, count); upErr != nil {
		s.logger.Warn().Err(upErr).Str("restaurant_id", order.RestaurantID).Msg("rating update failed")
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("restaurant_id", order.RestaurantID).
		Int("rating", in.Rating).
		Msg("review created")

	return created, nil
}

func (s *ReviewService) ListByRestaurant(ctx context.Context, restaurantID string, page, limit int) (*ports.ListReviewsResult, error) {
	if _, err := s.restaurantRepo.FindByID(ctx, restaurantID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	items, total, err := s.reviewRepo.ListByRestaurant(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, err
	}

	return &ports.ListReviewsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
