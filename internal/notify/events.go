package notify

import (
	"context"
	"fmt"

	"goodfood/internal/domain"
	"goodfood/pkg/logger"
)

// OrderConfirmed is published once per successful order confirmation.
type OrderConfirmed struct {
	OrderID     string
	Customer    domain.CustomerInfo
	Status      domain.OrderStatus
	TotalAmount float64
}

// Handler reacts to a confirmed order. Handlers must tolerate being the only
// delivery attempt; nothing replays events.
type Handler func(ctx context.Context, ev OrderConfirmed) error

// Events is a statically registered list of handlers per event type, invoked
// by direct iteration. Registration happens during wiring, before any
// publish, so the handler slice needs no locking.
type Events struct {
	log      *logger.Logger
	handlers []Handler
}

func NewEvents(log *logger.Logger) *Events {
	return &Events{log: log}
}

func (e *Events) Register(h Handler) {
	e.handlers = append(e.handlers, h)
}

// Publish invokes every handler. A failing handler is logged and the rest
// still run.
func (e *Events) Publish(ctx context.Context, ev OrderConfirmed) {
	for _, h := range e.handlers {
		if err := h(ctx, ev); err != nil {
			e.log.Error("notification_handler_failed",
				fmt.Sprintf("Handler failed for order %s", ev.OrderID), err)
		}
	}
}

// AddressResolver maps a customer to their notification address. The
// identity layer that owns real addresses is outside this module.
type AddressResolver func(customer domain.CustomerInfo) string

// EmailHandler builds the confirmation email job and hands it to the
// configured sink.
func EmailHandler(sink Sink, resolve AddressResolver) Handler {
	return func(ctx context.Context, ev OrderConfirmed) error {
		job := NewEmailJob(resolve(ev.Customer), "New Order", "Order Confirmed")
		return sink.Deliver(ctx, job)
	}
}

// SMSHandler logs the confirmation in place of a real SMS gateway.
func SMSHandler(log *logger.Logger) Handler {
	return func(_ context.Context, ev OrderConfirmed) error {
		log.Info("sms_notification",
			fmt.Sprintf("Order %s for %s is %s, total %.2f",
				ev.OrderID, ev.Customer.UserName, ev.Status, ev.TotalAmount))
		return nil
	}
}
