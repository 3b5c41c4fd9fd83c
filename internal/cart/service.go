package cart

import (
	"context"
	"fmt"
	"time"

	"goodfood/internal/domain"
	"goodfood/pkg/clock"
	"goodfood/pkg/logger"
)

// Service owns cart reads and mutations. Find-then-create is deliberately
// not atomic: two concurrent first-adds for one customer may create two
// carts. Reads pick the most recently updated available cart and the sweeper
// reclaims the strays, so the race is self-healing within one TTL.
type Service struct {
	store Store
	clock clock.Clock
	ttl   time.Duration
	log   *logger.Logger
}

func NewService(store Store, clk clock.Clock, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{
		store: store,
		clock: clk,
		ttl:   ttl,
		log:   log,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// AddToCart puts the line into the customer's live cart, creating one first
// when the customer has none. An existing line for the same food has its
// quantity replaced.
func (s *Service) AddToCart(ctx context.Context, customer domain.CustomerInfo, line domain.CartLine) error {
	c, err := s.findAvailable(ctx, customer)
	if err != nil {
		return err
	}
	if c == nil {
		c = domain.NewCart(customer, s.clock.Now())
		if err := s.store.Add(ctx, c); err != nil {
			return fmt.Errorf("cannot create cart: %w", err)
		}
	}

	c.AddOrUpdate(line, s.clock.Now())
	if err := s.store.Update(ctx, c); err != nil {
		return fmt.Errorf("cannot update cart: %w", err)
	}
	return nil
}

// Replace clears the customer's cart and repopulates it with the given
// lines. Used by bulk cart edits.
func (s *Service) Replace(ctx context.Context, customer domain.CustomerInfo, lines []domain.CartLine) error {
	c, err := s.findAvailable(ctx, customer)
	if err != nil {
		return err
	}
	if c == nil {
		c = domain.NewCart(customer, s.clock.Now())
		if err := s.store.Add(ctx, c); err != nil {
			return fmt.Errorf("cannot create cart: %w", err)
		}
	}

	c.Clear()
	for _, line := range lines {
		c.AddOrUpdate(line, s.clock.Now())
	}
	if err := s.store.Update(ctx, c); err != nil {
		return fmt.Errorf("cannot update cart: %w", err)
	}
	return nil
}

// Lines returns the lines of the customer's available cart, or an empty
// slice when the customer has no live cart.
func (s *Service) Lines(ctx context.Context, customer domain.CustomerInfo) ([]domain.CartLine, error) {
	c, err := s.findAvailable(ctx, customer)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return []domain.CartLine{}, nil
	}
	return c.Lines, nil
}

// Available returns the customer's freshest live cart, or ErrCartUnavailable.
func (s *Service) Available(ctx context.Context, customer domain.CustomerInfo) (*domain.Cart, error) {
	c, err := s.findAvailable(ctx, customer)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartUnavailable
	}
	return c, nil
}

// Checkout persists the cart after its content was snapshotted into an
// order. The cart is emptied so a follow-up add starts clean.
func (s *Service) Checkout(ctx context.Context, c *domain.Cart) error {
	c.Clear()
	if err := s.store.Update(ctx, c); err != nil {
		return fmt.Errorf("cannot update cart after checkout: %w", err)
	}
	return nil
}

// RemoveExpired deletes every cart past its TTL and returns how many went.
// Racing a concurrent cart mutation is fine: a cart deleted mid-update
// simply loses that update.
func (s *Service) RemoveExpired(ctx context.Context) (int, error) {
	carts, err := s.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot list carts: %w", err)
	}

	now := s.clock.Now()
	removed := 0
	for _, c := range carts {
		if c.IsAvailable(now, s.ttl) {
			continue
		}
		if err := s.store.Remove(ctx, c.ID); err != nil {
			s.log.Error("cart_remove_failed", fmt.Sprintf("could not remove cart %d", c.ID), err)
			continue
		}
		removed++
	}
	return removed, nil
}

// findAvailable resolves duplicate carts by recency: the most recently
// updated available cart wins. Returns nil when the customer has none.
func (s *Service) findAvailable(ctx context.Context, customer domain.CustomerInfo) (*domain.Cart, error) {
	carts, err := s.store.FindByCustomer(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("cannot find carts: %w", err)
	}

	now := s.clock.Now()
	var freshest *domain.Cart
	for _, c := range carts {
		if !c.IsAvailable(now, s.ttl) {
			continue
		}
		if freshest == nil || c.TimeUpdated.After(freshest.TimeUpdated) {
			freshest = c
		}
	}
	return freshest, nil
}
