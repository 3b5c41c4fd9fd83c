package notify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"goodfood/pkg/logger"
)

// Dispatcher drains the queue in bounded batches on a fixed interval. Jobs
// in one batch are sent concurrently and the whole batch is awaited before
// the next tick. Failed sends are logged and dropped: delivery here is
// best-effort by design, there is no retry and no persistence.
type Dispatcher struct {
	queue     *Queue
	mailer    Mailer
	interval  time.Duration
	batchSize int
	log       *logger.Logger
}

func NewDispatcher(queue *Queue, mailer Mailer, interval time.Duration, batchSize int, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		queue:     queue,
		mailer:    mailer,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

// Run loops until the context is cancelled. The check is cooperative: a
// batch already dispatched runs to completion, and jobs still queued when
// the loop exits are lost.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info("dispatcher_started",
		fmt.Sprintf("Email dispatcher running every %s, batch size %d", d.interval, d.batchSize))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if n := d.queue.Len(); n > 0 {
				d.log.Warn("dispatcher_stopped", fmt.Sprintf("Stopping with %d jobs still queued", n))
			} else {
				d.log.Info("dispatcher_stopped", "Email dispatcher stopped")
			}
			return
		case <-ticker.C:
			d.DrainBatch(ctx)
		}
	}
}

// DrainBatch dequeues up to batchSize jobs and sends them concurrently,
// returning once every send in the batch finished. A failing job does not
// block or discard its siblings.
func (d *Dispatcher) DrainBatch(ctx context.Context) {
	if !d.queue.AnyQueued() {
		return
	}

	g := new(errgroup.Group)
	for i := 0; i < d.batchSize; i++ {
		job, ok := d.queue.TryDequeue()
		if !ok {
			break
		}

		d.log.Debug("email_job_dequeued", fmt.Sprintf("Email job dequeued: %s", job.JobID))
		g.Go(func() error {
			if err := d.mailer.Send(ctx, job.EmailAddress, job.EmailTitle, job.EmailBody); err != nil {
				d.log.Error("email_send_failed",
					fmt.Sprintf("Dropping email job %s", job.JobID), err)
			}
			return nil
		})
	}
	g.Wait()
}
