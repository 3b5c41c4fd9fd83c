package order

import (
	"context"
	"fmt"
	"time"

	"goodfood/internal/cart"
	"goodfood/internal/domain"
	"goodfood/internal/notify"
	"goodfood/pkg/clock"
	"goodfood/pkg/logger"
)

// EventPublisher receives the order-confirmed event after the transition is
// persisted.
type EventPublisher interface {
	Publish(ctx context.Context, ev notify.OrderConfirmed)
}

// OrderInfo is the listing projection of an order.
type OrderInfo struct {
	ID         string
	Customer   domain.CustomerInfo
	Status     domain.OrderStatus
	LastUpdate time.Time
}

// Service drives orders through their fulfillment lifecycle. Transitions are
// guarded by the domain object and never roll back.
type Service struct {
	store  Store
	carts  *cart.Service
	policy domain.DiscountPolicy
	events EventPublisher
	clock  clock.Clock
	log    *logger.Logger
}

func NewService(store Store, carts *cart.Service, policy domain.DiscountPolicy,
	events EventPublisher, clk clock.Clock, log *logger.Logger,
) *Service {
	return &Service{
		store:  store,
		carts:  carts,
		policy: policy,
		events: events,
		clock:  clk,
		log:    log,
	}
}

// Place snapshots the customer's available cart into a new pending order.
// Without a live cart the placement fails; the caller decides what to tell
// the customer.
func (s *Service) Place(ctx context.Context, customer domain.CustomerInfo) (string, error) {
	c, err := s.carts.Available(ctx, customer)
	if err != nil {
		return "", fmt.Errorf("cannot place order: %w", err)
	}

	ord, err := domain.OrderFromCart(c, s.policy, s.clock.Now())
	if err != nil {
		return "", fmt.Errorf("cannot place order: %w", err)
	}

	if err := s.store.Add(ctx, ord); err != nil {
		return "", fmt.Errorf("cannot save order: %w", err)
	}

	if err := s.carts.Checkout(ctx, c); err != nil {
		// The order exists; a stale cart only lingers until the sweeper runs.
		s.log.Warn("cart_checkout_failed",
			fmt.Sprintf("Order %s placed but cart %d was not cleared", ord.ID, c.ID))
	}

	s.log.Info("order_placed", fmt.Sprintf("Order %s placed, total %.2f", ord.ID, ord.TotalAmount))
	return ord.ID, nil
}

// Confirm moves the order to confirmed and publishes the confirmation event.
func (s *Service) Confirm(ctx context.Context, orderID string) error {
	ord, err := s.transition(ctx, orderID, func(o *domain.Order, now time.Time) error {
		return o.Confirm(now)
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, notify.OrderConfirmed{
		OrderID:     ord.ID,
		Customer:    ord.Customer,
		Status:      ord.Status,
		TotalAmount: ord.TotalAmount,
	})
	return nil
}

func (s *Service) ReadyForPickup(ctx context.Context, orderID string) error {
	_, err := s.transition(ctx, orderID, func(o *domain.Order, now time.Time) error {
		return o.MarkReadyForPickup(now)
	})
	return err
}

func (s *Service) OutForDelivery(ctx context.Context, orderID string) error {
	_, err := s.transition(ctx, orderID, func(o *domain.Order, now time.Time) error {
		return o.MarkOutForDelivery(now)
	})
	return err
}

func (s *Service) Delivered(ctx context.Context, orderID string) error {
	_, err := s.transition(ctx, orderID, func(o *domain.Order, now time.Time) error {
		return o.MarkDelivered(now)
	})
	return err
}

// Details returns the full order, not-found errors included.
func (s *Service) Details(ctx context.Context, orderID string) (*domain.Order, error) {
	ord, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot load order %s: %w", orderID, err)
	}
	return ord, nil
}

func (s *Service) All(ctx context.Context) ([]OrderInfo, error) {
	orders, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	return toInfos(orders), nil
}

func (s *Service) AllByUser(ctx context.Context, userID string) ([]OrderInfo, error) {
	orders, err := s.store.AllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders for user %s: %w", userID, err)
	}
	return toInfos(orders), nil
}

func (s *Service) transition(ctx context.Context, orderID string,
	move func(o *domain.Order, now time.Time) error,
) (*domain.Order, error) {
	ord, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot load order %s: %w", orderID, err)
	}

	if err := move(ord, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, ord); err != nil {
		return nil, fmt.Errorf("cannot save order %s: %w", orderID, err)
	}

	s.log.Info("order_status_changed", fmt.Sprintf("Order %s is now %s", ord.ID, ord.Status))
	return ord, nil
}

func toInfos(orders []*domain.Order) []OrderInfo {
	infos := make([]OrderInfo, 0, len(orders))
	for _, o := range orders {
		infos = append(infos, OrderInfo{
			ID:         o.ID,
			Customer:   o.Customer,
			Status:     o.Status,
			LastUpdate: o.LastUpdate,
		})
	}
	return infos
}
