package order

import (
	"context"
	"errors"

	"goodfood/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// Store is the persistence collaborator for the order aggregate. Orders are
// added once, updated on every lifecycle transition and never deleted.
type Store interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	Add(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	All(ctx context.Context) ([]*domain.Order, error)
	AllByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}
