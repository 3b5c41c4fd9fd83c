package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodfood/internal/domain"
	"goodfood/pkg/clock"
	"goodfood/pkg/logger"
)

func TestSweeperEvictsExpiredCarts(t *testing.T) {
	store := NewMemoryStore()
	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(store, clk, time.Minute, logger.New("test"))
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, testCustomer, domain.CartLine{FoodID: 1, Quantity: 1, Price: 10}))
	clk.Advance(2 * time.Minute)

	sweeper := NewSweeper(svc, 10*time.Millisecond, logger.New("test"))
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		all, err := store.All(ctx)
		return err == nil && len(all) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
