package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

func menuFixture() (*MenuService, *stubMenuRepo) {
	restRepo := newStubRestaurantRepo()
	restRepo.byID["rest-1"] = &domain.Restaurant{ID: "rest-1", OwnerID: "owner-1", Active: true}
	menuRepo := newStubMenuRepo()
	seededMenu(menuRepo)
	return NewMenuService(menuRepo, restRepo), menuRepo
}

func TestMenuService_PublicMenu_FiltersUnavailable(t *testing.T) {
	svc, _ := menuFixture()

	items, err := svc.PublicMenu(context.Background(), "rest-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, item := range items {
		if !item.Available {
			t.Errorf("public menu leaked unavailable item %q", item.Name)
		}
	}
	if len(items) != 1 {
		t.Errorf("expected 1 available item, got %d", len(items))
	}
}

func TestMenuService_FullMenu_OwnershipEnforced(t *testing.T) {
	svc, _ := menuFixture()

	if _, err := svc.FullMenu(context.Background(), "owner-2", domain.RoleOwner, "rest-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign owner, got: %v", err)
	}

	items, err := svc.FullMenu(context.Background(), "owner-1", domain.RoleOwner, "rest-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected full menu incl. unavailable items, got %d", len(items))
	}

	if _, err := svc.FullMenu(context.Background(), "admin-1", domain.RoleAdmin, "rest-1"); err != nil {
		t.Fatalf("expected admin to pass, got: %v", err)
	}
}

func TestMenuService_CreateItem(t *testing.T) {
	svc, menuRepo := menuFixture()

	item, err := svc.CreateItem(context.Background(), "owner-1", domain.RoleOwner, "rest-1", ports.SaveMenuItemInput{
		Name: "Banh mi", PriceVND: 25000, Available: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if item.RestaurantID != "rest-1" {
		t.Errorf("expected item bound to restaurant, got %q", item.RestaurantID)
	}
	if _, ok := menuRepo.items[item.ID]; !ok {
		t.Error("expected item persisted")
	}
}

func TestMenuService_UpdateItem_WrongRestaurant(t *testing.T) {
	restRepo := newStubRestaurantRepo()
	restRepo.byID["rest-1"] = &domain.Restaurant{ID: "rest-1", OwnerID: "owner-1"}
	restRepo.byID["rest-2"] = &domain.Restaurant{ID: "rest-2", OwnerID: "owner-1"}
	menuRepo := newStubMenuRepo()
	seededMenu(menuRepo)
	svc := NewMenuService(menuRepo, restRepo)

	// item-9 belongs to rest-2; updating it through rest-1 must fail even
	// though the actor owns both restaurants.
	_, err := svc.UpdateItem(context.Background(), "owner-1", domain.RoleOwner, "rest-1", "item-9", ports.SaveMenuItemInput{
		Name: "Com tam", PriceVND: 50000, Available: true,
	})
	if !errors.Is(err, domain.ErrMenuItemNotFound) {
		t.Fatalf("expected ErrMenuItemNotFound, got: %v", err)
	}
}

func TestMenuService_DeleteItem(t *testing.T) {
	svc, menuRepo := menuFixture()

	if err := svc.DeleteItem(context.Background(), "owner-1", domain.RoleOwner, "rest-1", "item-1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, ok := menuRepo.items["item-1"]; ok {
		t.Error("expected item removed")
	}

	if err := svc.DeleteItem(context.Background(), "cust-1", domain.RoleCustomer, "rest-1", "item-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for customer, got: %v", err)
	}
}
