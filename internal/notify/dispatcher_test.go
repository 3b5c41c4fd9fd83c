package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goodfood/pkg/logger"
)

type recordingMailer struct {
	mu     sync.Mutex
	sent   []string
	failFn func(address string) error
}

func (m *recordingMailer) Send(_ context.Context, address, _, _ string) error {
	if m.failFn != nil {
		if err := m.failFn(address); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, address)
	return nil
}

func (m *recordingMailer) addresses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func TestDrainBatchRespectsBatchSize(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 25; i++ {
		q.Enqueue(NewEmailJob("x@example.com", "t", "b"))
	}

	mailer := &recordingMailer{}
	d := NewDispatcher(q, mailer, time.Second, 10, logger.New("test"))

	d.DrainBatch(context.Background())
	assert.Len(t, mailer.addresses(), 10)
	assert.Equal(t, 15, q.Len())

	d.DrainBatch(context.Background())
	d.DrainBatch(context.Background())
	assert.Len(t, mailer.addresses(), 25)
	assert.Equal(t, 0, q.Len())
}

func TestDrainBatchEmptyQueue(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(NewQueue(), mailer, time.Second, 10, logger.New("test"))

	d.DrainBatch(context.Background())
	assert.Empty(t, mailer.addresses())
}

func TestDrainBatchIsolatesFailingJob(t *testing.T) {
	q := NewQueue()
	q.Enqueue(NewEmailJob("ok1@example.com", "t", "b"))
	q.Enqueue(NewEmailJob("broken@example.com", "t", "b"))
	q.Enqueue(NewEmailJob("ok2@example.com", "t", "b"))

	mailer := &recordingMailer{failFn: func(address string) error {
		if address == "broken@example.com" {
			return errors.New("smtp refused")
		}
		return nil
	}}
	d := NewDispatcher(q, mailer, time.Second, 10, logger.New("test"))

	d.DrainBatch(context.Background())

	// The failing job is dropped; its siblings still go out, and nothing is
	// requeued for retry.
	assert.ElementsMatch(t, []string{"ok1@example.com", "ok2@example.com"}, mailer.addresses())
	assert.Equal(t, 0, q.Len())
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	q := NewQueue()
	q.Enqueue(NewEmailJob("a@example.com", "t", "b"))

	mailer := &recordingMailer{}
	d := NewDispatcher(q, mailer, 5*time.Millisecond, 10, logger.New("test"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return len(mailer.addresses()) == 1
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancellation")
	}
}
