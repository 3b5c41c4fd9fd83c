package order

import (
	"context"
	"sort"
	"sync"

	"goodfood/internal/domain"
)

// MemoryStore keeps orders in a map, for tests and single-process use.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*domain.Order)}
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (s *MemoryStore) Add(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return ErrOrderNotFound
	}
	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *MemoryStore) All(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		all = append(all, copyOrder(o))
	}
	sortByUpdate(all)
	return all, nil
}

func (s *MemoryStore) AllByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []*domain.Order
	for _, o := range s.orders {
		if o.Customer.UserID == userID {
			found = append(found, copyOrder(o))
		}
	}
	sortByUpdate(found)
	return found, nil
}

func sortByUpdate(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].LastUpdate.Before(orders[j].LastUpdate)
	})
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Lines = make([]domain.OrderLine, len(o.Lines))
	copy(cp.Lines, o.Lines)
	return &cp
}
