package service

import (
	"context"
	"time"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

type MenuService struct {
	menuRepo       ports.MenuRepository
	restaurantRepo ports.RestaurantRepository
}

func NewMenuService(menuRepo ports.MenuRepository, restaurantRepo ports.RestaurantRepository) *MenuService {
	return &MenuService{menuRepo: menuRepo, restaurantRepo: restaurantRepo}
}

func (s *MenuService) PublicMenu(ctx context.Context, restaurantID string) ([]*domain.MenuItem, error) {
	if _, err := s.restaurantRepo.FindByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.menuRepo.ListByRestaurant(ctx, restaurantID, true)
}

func (s *MenuService) FullMenu(ctx context.Context, actorID, actorRole, restaurantID string) ([]*domain.MenuItem, error) {
	if err := s.requireOwnership(ctx, actorID, actorRole, restaurantID); err != nil {
		return nil, err
	}
	return s.menuRepo.ListByRestaurant(ctx, restaurantID, false)
}

func (s *MenuService) CreateItem(ctx context.Context, actorID, actorRole, restaurantID string, in ports.SaveMenuItemInput) (*domain.MenuItem, error) {
	if err := s.requireOwnership(ctx, actorID, actorRole, restaurantID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.MenuItem{
		RestaurantID: restaurantID,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		PriceVND:     in.PriceVND,
		ImageURL:     in.ImageURL,
		Available:    in.Available,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.menuRepo.CreateItem(ctx, item)
}

func (s *MenuService) UpdateItem(ctx context.Context, actorID, actorRole, restaurantID, itemID string, in ports.SaveMenuItemInput) (*domain.MenuItem, error) {
	if err := s.requireOwnership(ctx, actorID, actorRole, restaurantID); err != nil {
		return nil, err
	}

	item, err := s.menuRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != restaurantID {
		return nil, domain.ErrMenuItemNotFound
	}

	item.Name = in.Name
	item.Description = in.Description
	item.Category = in.Category
	item.PriceVND = in.PriceVND
	item.ImageURL = in.ImageURL
	item.Available = in.Available
	item.UpdatedAt = time.Now().UTC()

	return s.menuRepo.UpdateItem(ctx, item)
}

func (s *MenuService) DeleteItem(ctx context.Context, actorID, actorRole, restaurantID, itemID string) error {
	if err := s.requireOwnership(ctx, actorID, actorRole, restaurantID); err != nil {
		return err
	}
	return s.menuRepo.DeleteItem(ctx, restaurantID, itemID)
}

// requireOwnership allows admins through and owners only on their own restaurant.
func (s *MenuService) requireOwnership(ctx context.Context, actorID, actorRole, restaurantID string) error {
	r, err := s.restaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin && r.OwnerID != actorID {
		return domain.ErrForbidden
	}
	return nil
}
