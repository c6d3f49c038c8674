package service

import (
	"context"
	"errors"
	"time"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

type CartService struct {
	cartRepo ports.CartRepository
	menuRepo ports.MenuRepository
}

func NewCartService(cartRepo ports.CartRepository, menuRepo ports.MenuRepository) *CartService {
	return &CartService{cartRepo: cartRepo, menuRepo: menuRepo}
}

func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	return cart, err
}

func (s *CartService) AddItem(ctx context.Context, userID string, in ports.AddCartItemInput) (*domain.Cart, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	item, err := s.menuRepo.FindItemByID(ctx, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != in.RestaurantID {
		return nil, domain.ErrMenuItemNotFound
	}
	if !item.Available {
		return nil, domain.ErrMenuItemUnavailable
	}

	cart, err := s.cartRepo.FindByUser(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		cart = &domain.Cart{UserID: userID, RestaurantID: in.RestaurantID}
	case err != nil:
		return nil, err
	case cart.RestaurantID != in.RestaurantID:
		// Ordering from a different restaurant starts a fresh cart.
		cart = &domain.Cart{ID: cart.ID, UserID: userID, RestaurantID: in.RestaurantID}
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].MenuItemID == in.MenuItemID {
			cart.Items[i].Quantity += in.Quantity
			if in.Note != "" {
				cart.Items[i].Note = in.Note
			}
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, domain.CartItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			PriceVND:   item.PriceVND,
			Quantity:   in.Quantity,
			Note:       in.Note,
		})
	}
	cart.UpdatedAt = time.Now().UTC()

	return s.cartRepo.Save(ctx, cart)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, menuItemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, menuItemID)
	}

	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].MenuItemID == menuItemID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now().UTC()
			return s.cartRepo.Save(ctx, cart)
		}
	}
	return nil, domain.ErrMenuItemNotFound
}

func (s *CartService) RemoveItem(ctx context.Context, userID, menuItemID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, it := range cart.Items {
		if it.MenuItemID == menuItemID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return nil, domain.ErrMenuItemNotFound
	}
	cart.Items = kept
	cart.UpdatedAt = time.Now().UTC()

	if len(cart.Items) == 0 {
		if err := s.cartRepo.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	return s.cartRepo.Save(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.cartRepo.Delete(ctx, userID)
}
