package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"goodfood/internal/notify"
	"goodfood/pkg/logger"
)

// Pusher sends email job frames to the worker's pull endpoint,
// fire-and-forget: an unreachable or slow peer means the frame is lost and
// the sender never learns. At-most-once by construction.
type Pusher struct {
	endpoint string
	timeout  time.Duration
	log      *logger.Logger
}

func NewPusher(endpoint string, log *logger.Logger) *Pusher {
	return &Pusher{
		endpoint: endpoint,
		timeout:  2 * time.Second,
		log:      log,
	}
}

// Push writes one frame. Every failure is logged and swallowed.
func (p *Pusher) Push(job notify.EmailJob) {
	addr, err := hostPort(p.endpoint)
	if err != nil {
		p.log.Error("bridge_push_failed", "Invalid bridge endpoint", err)
		return
	}

	conn, err := net.DialTimeout("tcp", addr, p.timeout)
	if err != nil {
		p.log.Warn("bridge_push_dropped",
			fmt.Sprintf("No receiver at %s, dropping job %s", p.endpoint, job.JobID))
		return
	}
	defer conn.Close()

	payload, err := json.Marshal(job)
	if err != nil {
		p.log.Error("bridge_push_failed", "Cannot marshal email job", err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(p.timeout))
	if err := writeFrame(conn, payload); err != nil {
		p.log.Warn("bridge_push_dropped",
			fmt.Sprintf("Write failed, dropping job %s: %v", job.JobID, err))
	}
}

// Sink adapts the pusher to the notification sink interface.
type Sink struct {
	pusher *Pusher
}

func NewSink(pusher *Pusher) *Sink {
	return &Sink{pusher: pusher}
}

// Deliver never reports an error: bridge failures are invisible to the
// sender by design.
func (s *Sink) Deliver(_ context.Context, job notify.EmailJob) error {
	s.pusher.Push(job)
	return nil
}
