package domain

import (
	"errors"
	"fmt"
	"time"
)

// OrderStatus captures the lifecycle of an accepted order.
type OrderStatus string

const StatusPlaced OrderStatus = "placed"

// OrderLine is one product position within an order. The unit price is the
// catalog price at placement time, recorded by the backend, never taken from
// the client.
type OrderLine struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Order represents an accepted checkout submission.
type Order struct {
	ID        string      `json:"id"`
	Status    OrderStatus `json:"status"`
	Lines     []OrderLine `json:"lines"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if len(o.Lines) == 0 {
		return errors.New("order must contain at least one line")
	}
	seen := make(map[string]struct{}, len(o.Lines))
	for _, line := range o.Lines {
		if line.ProductID == "" {
			return errors.New("product_id is required")
		}
		if line.Quantity < 1 {
			return fmt.Errorf("quantity for %s must be at least 1", line.ProductID)
		}
		if _, dup := seen[line.ProductID]; dup {
			return fmt.Errorf("duplicate line for product %s", line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

// TotalCents sums the order lines at their recorded prices.
func (o Order) TotalCents() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}

// RejectionReason explains why a submitted line was refused.
type RejectionReason string

const (
	ReasonOutOfStock   RejectionReason = "out_of_stock"
	ReasonPriceChanged RejectionReason = "price_changed"
	ReasonNotFound     RejectionReason = "not_found"
)

// RejectedLine names one submitted line that was refused and why.
type RejectedLine struct {
	ProductID string          `json:"product_id"`
	Reason    RejectionReason `json:"reason"`
}

// Placement is the outcome of a checkout submission: an accepted order, or
// the set of refused lines. Exactly one of the two fields is populated.
type Placement struct {
	Order    *Order
	Rejected []RejectedLine
}

// Accepted reports whether the submission produced an order.
func (p Placement) Accepted() bool {
	return p.Order != nil
}
