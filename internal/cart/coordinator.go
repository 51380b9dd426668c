package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/montluxe/storefront/internal/cart/domain"
	"github.com/montluxe/storefront/internal/cart/metrics"
	"github.com/montluxe/storefront/internal/cart/ports"
	"github.com/montluxe/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no line items.
	// No backend call is made.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutInProgress is returned when a submission is attempted while
	// another one is still in flight.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// RejectedLinesError reports the lines the backend refused. The offending
// lines have already been dropped from the cart when this error is returned;
// the remainder of the cart is intact and resubmittable.
type RejectedLinesError struct {
	Lines []domain.RejectedLine
}

func (e *RejectedLinesError) Error() string {
	return fmt.Sprintf("checkout rejected %d line item(s)", len(e.Lines))
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCoordinatorLogger sets the logger for submission outcomes.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// WithCoordinatorMetrics enables checkout metrics.
func WithCoordinatorMetrics(m *metrics.Metrics) CoordinatorOption {
	return func(c *Coordinator) { c.metrics = m }
}

// Coordinator turns the current cart into a validated order submission. A
// submission moves from idle to submitting to exactly one terminal outcome:
// a confirmation, a set of rejected lines, or a transport failure that leaves
// the cart untouched.
type Coordinator struct {
	store      *Store
	gateway    ports.CheckoutGateway
	logger     *slog.Logger
	metrics    *metrics.Metrics
	newKey     func() string
	submitting atomic.Bool

	// One submission cycle shares one idempotency key: after a transport
	// failure the retry presents the same key, so a submission the backend
	// committed but whose response was lost is replayed, not duplicated. The
	// key is discarded on a terminal outcome or when the cart lines change.
	attemptKey   string
	attemptLines []domain.CheckoutLine
}

// NewCoordinator wires the coordinator to its cart store and backend gateway.
func NewCoordinator(store *Store, gateway ports.CheckoutGateway, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:   store,
		gateway: gateway,
		logger:  slog.Default(),
		newKey:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit places one order for the current cart contents.
//
// The backend is invoked exactly once per call; there is no automatic retry.
// On success the cart is cleared. On a structured rejection the named lines
// are dropped and the rest of the cart survives. On any transport failure the
// cart is left exactly as it was, so the user can simply try again. The retry
// reuses the failed attempt's idempotency key as long as the cart has not
// changed, letting the backend deduplicate a committed-but-lost order.
func (c *Coordinator) Submit(ctx context.Context) (domain.Confirmation, error) {
	snapshot := c.store.Snapshot()
	if snapshot.Empty() {
		return domain.Confirmation{}, ErrEmptyCart
	}

	if !c.submitting.CompareAndSwap(false, true) {
		return domain.Confirmation{}, ErrCheckoutInProgress
	}
	defer c.submitting.Store(false)

	ctx, span := telemetry.StartSpan(ctx, "CheckoutCoordinator.Submit")
	defer span.End()
	telemetry.AddSpanAttributes(span,
		attribute.Int("cart.lines", len(snapshot.Lines)),
		attribute.Int64("cart.subtotal_cents", snapshot.SubtotalCents),
	)

	req := domain.NewCheckoutRequest(snapshot)
	req.IdempotencyKey = c.attemptKeyFor(req.Lines)

	start := time.Now()
	resp, err := c.gateway.PlaceOrder(ctx, req)
	duration := time.Since(start).Seconds()

	if err != nil {
		c.record(ctx, "transport_failure", duration)
		telemetry.RecordSpanError(span, err)
		c.logger.WarnContext(ctx, "checkout submission failed, cart unchanged", "error", err)
		return domain.Confirmation{}, fmt.Errorf("submit order: %w", err)
	}

	c.attemptKey = ""
	c.attemptLines = nil

	if len(resp.Rejected) > 0 {
		ids := make([]string, len(resp.Rejected))
		for i, line := range resp.Rejected {
			ids[i] = line.ProductID
		}
		c.store.RemoveItems(ctx, ids)

		c.record(ctx, "rejected", duration)
		rejErr := &RejectedLinesError{Lines: resp.Rejected}
		telemetry.RecordSpanError(span, rejErr)
		c.logger.InfoContext(ctx, "checkout rejected line items, lines dropped",
			"rejected", len(resp.Rejected),
		)
		return domain.Confirmation{}, rejErr
	}

	c.store.Clear(ctx)
	c.record(ctx, "success", duration)
	telemetry.SetSpanSuccess(span)
	telemetry.AddSpanAttributes(span, attribute.String("order.id", resp.OrderID))
	c.logger.InfoContext(ctx, "order placed", "order_id", resp.OrderID)

	return domain.Confirmation{OrderID: resp.OrderID}, nil
}

// attemptKeyFor returns the idempotency key for a submission of lines. The
// key from a transport-failed attempt is reused only for an identical set of
// lines; an edited cart is a new submission and gets a new key. Callers hold
// the submitting guard.
func (c *Coordinator) attemptKeyFor(lines []domain.CheckoutLine) string {
	if c.attemptKey != "" && sameLines(c.attemptLines, lines) {
		return c.attemptKey
	}
	c.attemptKey = c.newKey()
	c.attemptLines = lines
	return c.attemptKey
}

func sameLines(a, b []domain.CheckoutLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *Coordinator) record(ctx context.Context, outcome string, duration float64) {
	if c.metrics != nil {
		c.metrics.RecordCheckout(ctx, outcome, duration)
	}
}
