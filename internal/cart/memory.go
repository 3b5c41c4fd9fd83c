package cart

import (
	"context"
	"sync"

	"goodfood/internal/domain"
)

// MemoryStore keeps carts in a map. Used by tests and single-process
// deployments that can afford to lose carts on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	carts  map[int64]*domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[int64]*domain.Cart)}
}

func (s *MemoryStore) FindByCustomer(_ context.Context, customer domain.CustomerInfo) ([]*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []*domain.Cart
	for _, c := range s.carts {
		if c.Customer.UserID == customer.UserID {
			found = append(found, copyCart(c))
		}
	}
	return found, nil
}

func (s *MemoryStore) Add(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	cart.ID = s.nextID
	s.carts[cart.ID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[cart.ID]; !ok {
		return ErrCartNotFound
	}
	s.carts[cart.ID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}

func (s *MemoryStore) All(_ context.Context) ([]*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Cart, 0, len(s.carts))
	for _, c := range s.carts {
		all = append(all, copyCart(c))
	}
	return all, nil
}

func copyCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Lines = make([]domain.CartLine, len(c.Lines))
	copy(cp.Lines, c.Lines)
	return &cp
}
