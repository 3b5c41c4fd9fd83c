package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"goodfood/pkg/rabbit"
)

// Sink is the single notification delivery path of a deployment. Exactly one
// sink is wired per process: the in-process queue for a monolith, the push
// socket bridge or the AMQP fanout for distributed setups. Fanning one event
// out to several sinks would duplicate every notification.
type Sink interface {
	Deliver(ctx context.Context, job EmailJob) error
}

// QueueSink hands jobs to the in-process queue for the dispatcher to drain.
type QueueSink struct {
	queue *Queue
}

func NewQueueSink(queue *Queue) *QueueSink {
	return &QueueSink{queue: queue}
}

func (s *QueueSink) Deliver(_ context.Context, job EmailJob) error {
	s.queue.Enqueue(job)
	return nil
}

// AMQPSink publishes jobs to the notifications fanout exchange for external
// workers to consume.
type AMQPSink struct {
	broker *rabbit.RabbitMQ
}

func NewAMQPSink(broker *rabbit.RabbitMQ) *AMQPSink {
	return &AMQPSink{broker: broker}
}

func (s *AMQPSink) Deliver(_ context.Context, job EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("cannot marshal email job: %w", err)
	}
	if err := s.broker.Publish(body); err != nil {
		return fmt.Errorf("cannot publish email job: %w", err)
	}
	return nil
}
