package cart

import (
	"context"
	"fmt"
	"time"

	"goodfood/pkg/logger"
)

// Sweeper periodically evicts expired carts. One sweeper per process is
// enough; extra runs are harmless.
type Sweeper struct {
	carts    *Service
	interval time.Duration
	log      *logger.Logger
}

func NewSweeper(carts *Service, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		carts:    carts,
		interval: interval,
		log:      log,
	}
}

// Run sweeps on a fixed interval until the context is cancelled. The
// cancellation check happens once per iteration; a sweep already underway
// finishes.
func (w *Sweeper) Run(ctx context.Context) {
	w.log.Info("sweeper_started", fmt.Sprintf("Cart expiry sweeper running every %s", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("sweeper_stopped", "Cart expiry sweeper stopped")
			return
		case <-ticker.C:
			removed, err := w.carts.RemoveExpired(ctx)
			if err != nil {
				w.log.Error("sweep_failed", "Cart sweep failed", err)
				continue
			}
			if removed > 0 {
				w.log.Info("carts_swept", fmt.Sprintf("Removed %d expired carts", removed))
			}
		}
	}
}
