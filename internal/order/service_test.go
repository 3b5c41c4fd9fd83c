package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodfood/internal/cart"
	"goodfood/internal/discount"
	"goodfood/internal/domain"
	"goodfood/internal/notify"
	"goodfood/pkg/clock"
	"goodfood/pkg/logger"
)

var testCustomer = domain.CustomerInfo{UserID: "42", UserName: "alice@example.com"}

type capturePublisher struct {
	events []notify.OrderConfirmed
}

func (p *capturePublisher) Publish(_ context.Context, ev notify.OrderConfirmed) {
	p.events = append(p.events, ev)
}

type fixture struct {
	orders    *Service
	carts     *cart.Service
	store     *MemoryStore
	clk       *clock.Fake
	published *capturePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("test")
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	carts := cart.NewService(cart.NewMemoryStore(), clk, 60*time.Minute, log)
	store := NewMemoryStore()
	published := &capturePublisher{}
	orders := NewService(store, carts, discount.SingleRate{}, published, clk, log)
	return &fixture{orders: orders, carts: carts, store: store, clk: clk, published: published}
}

func (f *fixture) fillCart(t *testing.T, lines ...domain.CartLine) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, f.carts.AddToCart(context.Background(), testCustomer, l))
	}
}

func TestPlaceSnapshotsCartAndClearsIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t,
		domain.CartLine{FoodID: 1, Quantity: 2, Price: 100},
		domain.CartLine{FoodID: 2, Quantity: 1, Price: 300},
	)

	id, err := f.orders.Place(ctx, testCustomer)
	require.NoError(t, err)

	ord, err := f.orders.Details(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, ord.Status)
	assert.Equal(t, 500.0, ord.TotalAmount)
	assert.Equal(t, 0.0, ord.DiscountAmount)
	require.Len(t, ord.Lines, 2)

	// The cart was spent by the placement.
	lines, err := f.carts.Lines(ctx, testCustomer)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestPlaceAppliesDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t,
		domain.CartLine{FoodID: 1, Quantity: 1, Price: 250_000},
		domain.CartLine{FoodID: 2, Quantity: 1, Price: 300_000},
	)

	id, err := f.orders.Place(ctx, testCustomer)
	require.NoError(t, err)

	ord, err := f.orders.Details(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 27_500.0, ord.DiscountAmount)
	assert.Equal(t, 522_500.0, ord.TotalAmount)
}

func TestPlaceWithoutCartFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Place(context.Background(), testCustomer)
	assert.ErrorIs(t, err, cart.ErrCartUnavailable)
}

func TestPlaceWithExpiredCartFails(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, domain.CartLine{FoodID: 1, Quantity: 1, Price: 100})

	f.clk.Advance(61 * time.Minute)

	_, err := f.orders.Place(context.Background(), testCustomer)
	assert.ErrorIs(t, err, cart.ErrCartUnavailable)
}

func TestConfirmPublishesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, domain.CartLine{FoodID: 1, Quantity: 1, Price: 100})

	id, err := f.orders.Place(ctx, testCustomer)
	require.NoError(t, err)
	placedAt := f.clk.Now()

	f.clk.Advance(time.Minute)
	require.NoError(t, f.orders.Confirm(ctx, id))

	ord, err := f.orders.Details(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, ord.Status)
	assert.False(t, ord.LastUpdate.Before(placedAt))

	require.Len(t, f.published.events, 1)
	ev := f.published.events[0]
	assert.Equal(t, id, ev.OrderID)
	assert.Equal(t, testCustomer, ev.Customer)
	assert.Equal(t, domain.StatusConfirmed, ev.Status)
	assert.Equal(t, 100.0, ev.TotalAmount)
}

func TestConfirmUnknownOrder(t *testing.T) {
	f := newFixture(t)

	err := f.orders.Confirm(context.Background(), "no-such-order")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, f.published.events)
}

func TestConfirmTwiceFailsAndPublishesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, domain.CartLine{FoodID: 1, Quantity: 1, Price: 100})

	id, err := f.orders.Place(ctx, testCustomer)
	require.NoError(t, err)

	require.NoError(t, f.orders.Confirm(ctx, id))
	assert.ErrorIs(t, f.orders.Confirm(ctx, id), domain.ErrInvalidTransition)
	assert.Len(t, f.published.events, 1)
}

func TestFulfillmentFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, domain.CartLine{FoodID: 1, Quantity: 1, Price: 100})

	id, err := f.orders.Place(ctx, testCustomer)
	require.NoError(t, err)

	// Ready-for-pickup straight from pending is rejected.
	assert.ErrorIs(t, f.orders.ReadyForPickup(ctx, id), domain.ErrInvalidTransition)

	require.NoError(t, f.orders.Confirm(ctx, id))
	require.NoError(t, f.orders.ReadyForPickup(ctx, id))
	require.NoError(t, f.orders.OutForDelivery(ctx, id))
	require.NoError(t, f.orders.Delivered(ctx, id))

	ord, err := f.orders.Details(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, ord.Status)
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := domain.CustomerInfo{UserID: "7", UserName: "bob@example.com"}
	f.fillCart(t, domain.CartLine{FoodID: 1, Quantity: 1, Price: 100})
	_, err := f.orders.Place(ctx, testCustomer)
	require.NoError(t, err)

	require.NoError(t, f.carts.AddToCart(ctx, other, domain.CartLine{FoodID: 2, Quantity: 1, Price: 200}))
	_, err = f.orders.Place(ctx, other)
	require.NoError(t, err)

	all, err := f.orders.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.orders.AllByUser(ctx, testCustomer.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, testCustomer, mine[0].Customer)
}
