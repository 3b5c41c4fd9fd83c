package bridge

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodfood/internal/notify"
	"goodfood/pkg/logger"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"job_id":"j1"}`)

	require.NoError(t, writeFrame(&buf, payload))

	got, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrameSizeLimit(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, writeFrame(&buf, make([]byte, maxFrameSize+1)), errFrameTooLarge)
}

func TestHostPort(t *testing.T) {
	addr, err := hostPort("tcp://127.0.0.1:5556")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5556", addr)

	_, err = hostPort("ipc:///tmp/jobs")
	assert.Error(t, err)
}

// freeEndpoint reserves an ephemeral port and frees it for the listener.
func freeEndpoint(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	return fmt.Sprintf("tcp://%s", addr)
}

func TestPushPullRoundTrip(t *testing.T) {
	endpoint := freeEndpoint(t)
	received := make(chan notify.EmailJob, 1)

	listener := NewListener(endpoint, func(job notify.EmailJob) {
		received <- job
	}, logger.New("test"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		listener.Run(ctx)
		close(done)
	}()

	// Give the listener a moment to bind before pushing.
	require.Eventually(t, func() bool {
		addr, _ := hostPort(endpoint)
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, time.Second, 10*time.Millisecond)

	job := notify.NewEmailJob("alice@example.com", "New Order", "Order Confirmed")
	NewPusher(endpoint, logger.New("test")).Push(job)

	select {
	case got := <-received:
		assert.Equal(t, job, got)
	case <-time.After(time.Second):
		t.Fatal("job did not arrive over the bridge")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after cancellation")
	}
}

func TestPushWithoutReceiverIsSilent(t *testing.T) {
	// Nothing is bound at the endpoint; the push must neither block nor fail.
	pusher := NewPusher(freeEndpoint(t), logger.New("test"))
	pusher.Push(notify.NewEmailJob("a@example.com", "t", "b"))
}

func TestSinkDeliverNeverErrors(t *testing.T) {
	sink := NewSink(NewPusher(freeEndpoint(t), logger.New("test")))
	err := sink.Deliver(context.Background(), notify.NewEmailJob("a@example.com", "t", "b"))
	assert.NoError(t, err)
}
