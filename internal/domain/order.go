package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"

	// Reserved terminal states. Nothing drives an order into them yet.
	StatusCancelled OrderStatus = "cancelled"
	StatusFailed    OrderStatus = "failed"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrNegativeTotal     = errors.New("order total cannot be negative")
	ErrEmptyCart         = errors.New("cannot place an order from an empty cart")
)

// DiscountPolicy maps an order line total to a discount amount.
type DiscountPolicy interface {
	Discount(total float64) float64
}

type OrderLine struct {
	FoodID    int
	Quantity  int
	FoodPrice float64
}

func (l OrderLine) Total() float64 {
	return l.FoodPrice * float64(l.Quantity)
}

// Order is created once from a cart snapshot and then mutated only through
// lifecycle transitions. It is never deleted.
type Order struct {
	ID             string
	Customer       CustomerInfo
	Lines          []OrderLine
	Status         OrderStatus
	LastUpdate     time.Time
	DiscountAmount float64
	TotalAmount    float64
}

// OrderFromCart snapshots the cart lines, applies the discount policy and
// places the order in its initial pending state. A discount exceeding the
// line total is a programming error in the policy, not something to clamp.
func OrderFromCart(cart *Cart, policy DiscountPolicy, now time.Time) (*Order, error) {
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]OrderLine, 0, len(cart.Lines))
	lineTotal := 0.0
	for _, cl := range cart.Lines {
		lines = append(lines, OrderLine{
			FoodID:    cl.FoodID,
			Quantity:  cl.Quantity,
			FoodPrice: cl.Price,
		})
		lineTotal += cl.Total()
	}

	discount := policy.Discount(lineTotal)
	total := lineTotal - discount
	if total < 0 {
		return nil, fmt.Errorf("%w: line total %.2f, discount %.2f", ErrNegativeTotal, lineTotal, discount)
	}

	return &Order{
		ID:             uuid.NewString(),
		Customer:       cart.Customer,
		Lines:          lines,
		Status:         StatusPending,
		LastUpdate:     now,
		DiscountAmount: discount,
		TotalAmount:    total,
	}, nil
}

// Confirm moves a pending order to confirmed.
func (o *Order) Confirm(now time.Time) error {
	return o.transition(StatusPending, StatusConfirmed, now)
}

// MarkReadyForPickup moves a confirmed order to ready for pickup.
func (o *Order) MarkReadyForPickup(now time.Time) error {
	return o.transition(StatusConfirmed, StatusReadyForPickup, now)
}

// MarkOutForDelivery moves a ready order out for delivery.
func (o *Order) MarkOutForDelivery(now time.Time) error {
	return o.transition(StatusReadyForPickup, StatusOutForDelivery, now)
}

// MarkDelivered completes the order.
func (o *Order) MarkDelivered(now time.Time) error {
	return o.transition(StatusOutForDelivery, StatusDelivered, now)
}

func (o *Order) transition(from, to OrderStatus, now time.Time) error {
	if o.Status != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.LastUpdate = now
	return nil
}
