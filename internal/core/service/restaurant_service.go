package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxNearbyLimit   = 50
)

type RestaurantService struct {
	repo   ports.RestaurantRepository
	logger zerolog.Logger
}

func NewRestaurantService(repo ports.RestaurantRepository, logger zerolog.Logger) *RestaurantService {
	return &RestaurantService{repo: repo, logger: logger}
}

func (s *RestaurantService) Create(ctx context.Context, ownerID string, in ports.SaveRestaurantInput) (*domain.Restaurant, error) {
	now := time.Now().UTC()
	r := &domain.Restaurant{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Phone:       in.Phone,
		OpenTime:    in.OpenTime,
		CloseTime:   in.CloseTime,
		Active:      in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("restaurant_id", created.ID).Str("owner_id", ownerID).Msg("restaurant created")
	return created, nil
}

func (s *RestaurantService) Update(ctx context.Context, actorID, actorRole, restaurantID string, in ports.SaveRestaurantInput) (*domain.Restaurant, error) {
	existing, err := s.repo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && existing.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Address = in.Address
	existing.Lat = in.Lat
	existing.Lng = in.Lng
	existing.Phone = in.Phone
	existing.OpenTime = in.OpenTime
	existing.CloseTime = in.CloseTime
	existing.Active = in.Active
	existing.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, existing)
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RestaurantService) List(ctx context.Context, filter ports.ListRestaurantsFilter) (*ports.ListRestaurantsResult, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	filter.OnlyActive = true

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListRestaurantsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *RestaurantService) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*domain.Restaurant, error) {
	if radiusKm <= 0 || radiusKm > 50 {
		radiusKm = 5
	}
	if limit <= 0 || limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}
	return s.repo.Nearby(ctx, lat, lng, radiusKm, limit)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
