package ports

import (
	"context"

	"github.com/montluxe/storefront/internal/cart/domain"
)

// Storage persists cart line items between sessions. Implementations own one
// durable record: a failed Save must leave the previous record intact, and
// Load must surface a missing record as an empty set of lines rather than an
// error. A corrupt or unreadable record is an error; the store degrades it to
// an empty cart.
type Storage interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Save(ctx context.Context, lines []domain.LineItem) error
}

// CheckoutGateway submits an order to the backend. Transport problems and
// non-2xx statuses are returned as errors; a decoded response may still name
// rejected lines.
type CheckoutGateway interface {
	PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error)
}
