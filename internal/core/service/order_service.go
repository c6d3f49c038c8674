package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/metrics"
)

type OrderService struct {
	orderRepo      ports.OrderRepository
	cartRepo       ports.CartRepository
	restaurantRepo ports.RestaurantRepository
	logger         zerolog.Logger
}

func NewOrderService(
	orderRepo ports.OrderRepository,
	cartRepo ports.CartRepository,
	restaurantRepo ports.RestaurantRepository,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		restaurantRepo: restaurantRepo,
		logger:         logger,
	}
}

// CreateFromCart turns the user's open cart into a pending order and clears
// the cart. Item names and prices are the ones captured in the cart.
func (s *OrderService) CreateFromCart(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	cart, err := s.cartRepo.FindByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, cart.RestaurantID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, domain.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			PriceVND:   it.PriceVND,
			Quantity:   it.Quantity,
			Note:       it.Note,
		})
	}

	now := time.Now().UTC()
	pickup := in.PickupAt
	if pickup.IsZero() || pickup.Before(now) {
		pickup = now.Add(30 * time.Minute)
	}

	order := &domain.Order{
		Reference:     generateReference(),
		UserID:        in.UserID,
		RestaurantID:  restaurant.ID,
		Items:         items,
		TotalVND:      cart.Subtotal(),
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentUnpaid,
		PickupAt:      pickup,
		Note:          in.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to create order")
		return nil, err
	}

	if err := s.cartRepo.Delete(ctx, in.UserID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", in.UserID).Msg("failed to clear cart after order")
	}

	metrics.OrdersCreatedTotal.WithLabelValues(restaurant.ID).Inc()
	s.logger.Info().
		Str("reference", created.Reference).
		Str("user_id", in.UserID).
		Str("restaurant_id", restaurant.ID).
		Int64("total_vnd", created.TotalVND).
		Msg("order created")

	return created, nil
}

func (s *OrderService) Get(ctx context.Context, actorID, actorRole, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, actorRole, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	filter := ports.ListOrdersFilter{
		Status:   in.Status,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		Page:     page,
		Limit:    limit,
	}

	switch in.ActorRole {
	case domain.RoleAdmin:
		filter.RestaurantID = in.RestaurantID
	case domain.RoleOwner:
		if in.RestaurantID == "" {
			return nil, domain.ErrRestaurantNotFound
		}
		r, err := s.restaurantRepo.FindByID(ctx, in.RestaurantID)
		if err != nil {
			return nil, err
		}
		if r.OwnerID != in.ActorID {
			return nil, domain.ErrForbidden
		}
		filter.RestaurantID = in.RestaurantID
	default:
		filter.UserID = in.ActorID
	}

	items, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Advance moves the order forward through the state machine. Customers cannot
// advance; they can only cancel.
func (s *OrderService) Advance(ctx context.Context, actorID, actorRole, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case domain.RoleAdmin:
	case domain.RoleOwner:
		r, err := s.restaurantRepo.FindByID(ctx, order.RestaurantID)
		if err != nil {
			return nil, err
		}
		if r.OwnerID != actorID {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, next)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, err
	}
	order.Status = next
	order.UpdatedAt = time.Now().UTC()

	s.logger.Info().
		Str("reference", order.Reference).
		Str("status", string(next)).
		Msg("order status updated")

	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, actorID, actorRole, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actorRole == domain.RoleCustomer && order.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	if err := s.authorize(ctx, actorID, actorRole, order); err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(domain.OrderCancelled) {
		return nil, fmt.Errorf("%w (from %s to cancelled)", domain.ErrInvalidTransition, order.Status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderCancelled); err != nil {
		return nil, err
	}
	order.Status = domain.OrderCancelled
	order.UpdatedAt = time.Now().UTC()
	return order, nil
}

func (s *OrderService) StatusByReference(ctx context.Context, reference string) (*ports.OrderStatusView, error) {
	order, err := s.orderRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return &ports.OrderStatusView{
		Reference:     order.Reference,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PickupAt:      order.PickupAt,
	}, nil
}

// authorize checks the actor may see the order: the ordering customer, the
// restaurant's owner, or an admin.
func (s *OrderService) authorize(ctx context.Context, actorID, actorRole string, order *domain.Order) error {
	switch actorRole {
	case domain.RoleAdmin:
		return nil
	case domain.RoleOwner:
		r, err := s.restaurantRepo.FindByID(ctx, order.RestaurantID)
		if err != nil {
			return err
		}
		if r.OwnerID != actorID {
			return domain.ErrForbidden
		}
		return nil
	default:
		if order.UserID != actorID {
			return domain.ErrForbidden
		}
		return nil
	}
}

// generateReference returns a pickup reference in the format PM-XXXXXXXX.
// The reference is what customers put in their bank transfer content.
func generateReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("PM-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("PM-%08X", b)
}
