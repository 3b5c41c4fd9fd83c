package domain

import "time"

type CustomerInfo struct {
	UserID   string
	UserName string
}

type CartLine struct {
	FoodID          int
	FoodName        string
	FoodDescription string
	FoodImagePath   string
	Quantity        int
	Price           float64
}

func (l CartLine) Total() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart is the per-customer staging area for selected items. A cart expires
// once its age reaches the configured TTL; expired carts are reclaimed by
// the sweeper, never revived.
type Cart struct {
	ID          int64
	Customer    CustomerInfo
	Lines       []CartLine
	TimeCreated time.Time
	TimeUpdated time.Time
}

func NewCart(customer CustomerInfo, now time.Time) *Cart {
	return &Cart{
		Customer:    customer,
		TimeCreated: now,
		TimeUpdated: now,
	}
}

// AddOrUpdate appends the line, or replaces the quantity of an existing line
// with the same FoodID. The new quantity wins outright; it is not added to
// the old one.
func (c *Cart) AddOrUpdate(line CartLine, now time.Time) {
	for i := range c.Lines {
		if c.Lines[i].FoodID == line.FoodID {
			c.Lines[i].Quantity = line.Quantity
			c.TimeUpdated = now
			return
		}
	}
	c.Lines = append(c.Lines, line)
	c.TimeUpdated = now
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// IsAvailable reports whether the cart is younger than ttl. The comparison
// is strict: a cart exactly ttl old is already unavailable.
func (c *Cart) IsAvailable(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.TimeCreated) < ttl
}

func (c *Cart) LineTotal() float64 {
	total := 0.0
	for _, line := range c.Lines {
		total += line.Total()
	}
	return total
}
