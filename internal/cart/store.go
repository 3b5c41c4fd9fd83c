package cart

import (
	"context"
	"errors"

	"goodfood/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartUnavailable is returned when an operation needs a live cart and
	// the customer has none, or only expired ones.
	ErrCartUnavailable = errors.New("no available cart for customer")
)

// Store is the persistence collaborator for the cart aggregate. A customer
// may own several carts at once: concurrent first-adds can race and create
// duplicates, which readers resolve by recency and the sweeper reclaims.
type Store interface {
	FindByCustomer(ctx context.Context, customer domain.CustomerInfo) ([]*domain.Cart, error)
	Add(ctx context.Context, cart *domain.Cart) error
	Update(ctx context.Context, cart *domain.Cart) error
	Remove(ctx context.Context, cartID int64) error
	All(ctx context.Context) ([]*domain.Cart, error)
}
