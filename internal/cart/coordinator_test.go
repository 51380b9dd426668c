package cart_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/montluxe/storefront/internal/cart"
	"github.com/montluxe/storefront/internal/cart/adapters/memory"
	"github.com/montluxe/storefront/internal/cart/domain"
	"github.com/montluxe/storefront/internal/cart/metrics"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type mockGateway struct {
	placeOrderFn func(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error)
	calls        atomic.Int64
}

func (m *mockGateway) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	m.calls.Add(1)
	if m.placeOrderFn != nil {
		return m.placeOrderFn(ctx, req)
	}
	return domain.CheckoutResponse{OrderID: "order-1"}, nil
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart is rejected without a backend call", func(t *testing.T) {
		store := cart.NewStore(ctx, memory.NewStorage())
		gateway := &mockGateway{}
		coordinator := cart.NewCoordinator(store, gateway)

		_, err := coordinator.Submit(ctx)

		if !errors.Is(err, cart.ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
		if gateway.calls.Load() != 0 {
			t.Errorf("expected no backend calls, got %d", gateway.calls.Load())
		}
	})

	t.Run("success clears the cart and returns the order id", func(t *testing.T) {
		store := cart.NewStore(ctx, memory.NewStorage())
		if err := store.AddItem(ctx, watchA, 2); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		gateway := &mockGateway{
			placeOrderFn: func(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
				if len(req.Lines) != 1 || req.Lines[0].ProductID != "prod-a" || req.Lines[0].Quantity != 2 {
					t.Errorf("unexpected request lines: %+v", req.Lines)
				}
				return domain.CheckoutResponse{OrderID: "order-42"}, nil
			},
		}
		coordinator := cart.NewCoordinator(store, gateway)

		confirmation, err := coordinator.Submit(ctx)

		if err != nil {
			t.Fatalf("expected success, got: %v", err)
		}
		if confirmation.OrderID != "order-42" {
			t.Errorf("expected order-42, got %s", confirmation.OrderID)
		}
		if !store.Snapshot().Empty() {
			t.Error("expected cart cleared after success")
		}
	})

	t.Run("transport failure leaves the cart untouched and is retryable", func(t *testing.T) {
		store := cart.NewStore(ctx, memory.NewStorage())
		if err := store.AddItem(ctx, watchA, 2); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		transportErr := errors.New("connection refused")
		failing := true
		gateway := &mockGateway{
			placeOrderFn: func(context.Context, domain.CheckoutRequest) (domain.CheckoutResponse, error) {
				if failing {
					return domain.CheckoutResponse{}, transportErr
				}
				return domain.CheckoutResponse{OrderID: "order-2"}, nil
			},
		}
		coordinator := cart.NewCoordinator(store, gateway)

		_, err := coordinator.Submit(ctx)
		if !errors.Is(err, transportErr) {
			t.Fatalf("expected the transport error to surface, got %v", err)
		}
		if got := store.Snapshot().SubtotalCents; got != 2000 {
			t.Fatalf("expected cart unchanged (subtotal 2000), got %d", got)
		}

		failing = false
		if _, err := coordinator.Submit(ctx); err != nil {
			t.Fatalf("expected retry to succeed, got: %v", err)
		}
	})

	t.Run("rejected lines are dropped and the remainder is resubmittable", func(t *testing.T) {
		// Cart: A qty 2 @ $10, B qty 1 @ $5 => subtotal $25.
		store := cart.NewStore(ctx, memory.NewStorage())
		if err := store.AddItem(ctx, watchA, 2); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if err := store.AddItem(ctx, watchB, 1); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if got := store.Snapshot().SubtotalCents; got != 2500 {
			t.Fatalf("expected subtotal 2500, got %d", got)
		}

		rejectB := true
		gateway := &mockGateway{
			placeOrderFn: func(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
				if rejectB {
					return domain.CheckoutResponse{
						Rejected: []domain.RejectedLine{{ProductID: "prod-b", Reason: domain.ReasonOutOfStock}},
					}, nil
				}
				if len(req.Lines) != 1 || req.Lines[0].ProductID != "prod-a" {
					t.Errorf("expected resubmission for prod-a only, got %+v", req.Lines)
				}
				return domain.CheckoutResponse{OrderID: "order-3"}, nil
			},
		}
		coordinator := cart.NewCoordinator(store, gateway)

		_, err := coordinator.Submit(ctx)

		var rejected *cart.RejectedLinesError
		if !errors.As(err, &rejected) {
			t.Fatalf("expected RejectedLinesError, got %v", err)
		}
		if len(rejected.Lines) != 1 || rejected.Lines[0].ProductID != "prod-b" {
			t.Fatalf("unexpected rejected lines: %+v", rejected.Lines)
		}
		if rejected.Lines[0].Reason != domain.ReasonOutOfStock {
			t.Errorf("expected out_of_stock, got %s", rejected.Lines[0].Reason)
		}

		snapshot := store.Snapshot()
		if len(snapshot.Lines) != 1 || snapshot.Lines[0].ProductID != "prod-a" {
			t.Fatalf("expected only prod-a to remain, got %+v", snapshot.Lines)
		}
		if snapshot.SubtotalCents != 2000 {
			t.Errorf("expected subtotal 2000, got %d", snapshot.SubtotalCents)
		}

		rejectB = false
		confirmation, err := coordinator.Submit(ctx)
		if err != nil {
			t.Fatalf("expected resubmission to succeed, got: %v", err)
		}
		if confirmation.OrderID != "order-3" {
			t.Errorf("expected order-3, got %s", confirmation.OrderID)
		}
		if !store.Snapshot().Empty() {
			t.Error("expected cart cleared after the second submission")
		}
	})

	t.Run("a price change rejection is surfaced like any other reason", func(t *testing.T) {
		store := cart.NewStore(ctx, memory.NewStorage())
		if err := store.AddItem(ctx, watchA, 1); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		gateway := &mockGateway{
			placeOrderFn: func(context.Context, domain.CheckoutRequest) (domain.CheckoutResponse, error) {
				return domain.CheckoutResponse{
					Rejected: []domain.RejectedLine{{ProductID: "prod-a", Reason: domain.ReasonPriceChanged}},
				}, nil
			},
		}
		coordinator := cart.NewCoordinator(store, gateway)

		_, err := coordinator.Submit(ctx)

		var rejected *cart.RejectedLinesError
		if !errors.As(err, &rejected) {
			t.Fatalf("expected RejectedLinesError, got %v", err)
		}
		if rejected.Lines[0].Reason != domain.ReasonPriceChanged {
			t.Errorf("expected price_changed, got %s", rejected.Lines[0].Reason)
		}
		if !store.Snapshot().Empty() {
			t.Error("expected the rejected line to be dropped")
		}
	})
}

func TestSubmitIdempotencyKey(t *testing.T) {
	ctx := context.Background()

	t.Run("a retry after a transport failure reuses the key", func(t *testing.T) {
		store := cart.NewStore(ctx, memory.NewStorage())
		if err := store.AddItem(ctx, watchA, 2); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		var keys []string
		failing := true
		gateway := &mockGateway{
			placeOrderFn: func(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
				keys = append(keys, req.IdempotencyKey)
				if failing {
					return domain.CheckoutResponse{}, errors.New("connection reset")
				}
				return domain.CheckoutResponse{OrderID: "order-9"}, nil
			},
		}
		coordinator := cart.NewCoordinator(store, gateway)

		if _, err := coordinator.Submit(ctx); err == nil {
			t.Fatal("expected the first submission to fail")
		}

		failing = false
		if _, err := coordinator.Submit(ctx); err != nil {
			t.Fatalf("expected the retry to succeed, got: %v", err)
		}

		if len(keys) != 2 || keys[0] == "" {
			t.Fatalf("expected two keyed submissions, got %v", keys)
		}
		if keys[0] != keys[1] {
			t.Errorf("expected the retry to carry the same key, got %q and %q", keys[0], keys[1])
		}

		// A later submission is a new order and must not reuse the key.
		if err := store.AddItem(ctx, watchB, 1); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if _, err := coordinator.Submit(ctx); err != nil {
			t.Fatalf("expected the new submission to succeed, got: %v", err)
		}
		if keys[2] == keys[0] {
			t.Errorf("expected a fresh key after a confirmed order, got %q again", keys[2])
		}
	})

	t.Run("editing the cart after a failure discards the key", func(t *testing.T) {
		store := cart.NewStore(ctx, memory.NewStorage())
		if err := store.AddItem(ctx, watchA, 1); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		var keys []string
		failing := true
		gateway := &mockGateway{
			placeOrderFn: func(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
				keys = append(keys, req.IdempotencyKey)
				if failing {
					return domain.CheckoutResponse{}, errors.New("connection reset")
				}
				return domain.CheckoutResponse{OrderID: "order-10"}, nil
			},
		}
		coordinator := cart.NewCoordinator(store, gateway)

		if _, err := coordinator.Submit(ctx); err == nil {
			t.Fatal("expected the first submission to fail")
		}

		// Changing the quantity makes the retry a different order.
		if err := store.UpdateQuantity(ctx, watchA.ID, 3); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		failing = false
		if _, err := coordinator.Submit(ctx); err != nil {
			t.Fatalf("expected the second submission to succeed, got: %v", err)
		}

		if len(keys) != 2 || keys[0] == keys[1] {
			t.Fatalf("expected distinct keys for distinct payloads, got %v", keys)
		}
	})
}

func TestSubmitMetrics(t *testing.T) {
	ctx := context.Background()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := metrics.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	store := cart.NewStore(ctx, memory.NewStorage())
	if err := store.AddItem(ctx, watchA, 1); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	failing := true
	gateway := &mockGateway{
		placeOrderFn: func(context.Context, domain.CheckoutRequest) (domain.CheckoutResponse, error) {
			if failing {
				return domain.CheckoutResponse{}, errors.New("connection refused")
			}
			return domain.CheckoutResponse{OrderID: "order-1"}, nil
		},
	}
	coordinator := cart.NewCoordinator(store, gateway, cart.WithCoordinatorMetrics(m))

	if _, err := coordinator.Submit(ctx); err == nil {
		t.Fatal("expected the first submission to fail")
	}
	failing = false
	if _, err := coordinator.Submit(ctx); err != nil {
		t.Fatalf("expected the retry to succeed, got: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	outcomes := 0
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if metric.Name != "checkout_submissions_total" {
				continue
			}
			sum, ok := metric.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatal("Expected Sum[int64] data type")
			}
			outcomes = len(sum.DataPoints)
		}
	}

	// One data point per outcome attribute: transport_failure and success.
	if outcomes != 2 {
		t.Errorf("expected 2 outcome data points, got %d", outcomes)
	}
}

func TestSubmitConcurrencyGuard(t *testing.T) {
	ctx := context.Background()

	store := cart.NewStore(ctx, memory.NewStorage())
	if err := store.AddItem(ctx, watchA, 1); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	release := make(chan struct{})
	inFlight := make(chan struct{})
	var inFlightOnce sync.Once
	gateway := &mockGateway{
		placeOrderFn: func(context.Context, domain.CheckoutRequest) (domain.CheckoutResponse, error) {
			inFlightOnce.Do(func() { close(inFlight) })
			<-release
			return domain.CheckoutResponse{OrderID: "order-1"}, nil
		},
	}
	coordinator := cart.NewCoordinator(store, gateway)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = coordinator.Submit(ctx)
	}()

	<-inFlight
	_, secondErr := coordinator.Submit(ctx)
	if !errors.Is(secondErr, cart.ErrCheckoutInProgress) {
		t.Errorf("expected ErrCheckoutInProgress for the concurrent call, got %v", secondErr)
	}

	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("expected the first submission to succeed, got: %v", firstErr)
	}
	if gateway.calls.Load() != 1 {
		t.Errorf("expected exactly one backend call, got %d", gateway.calls.Load())
	}

	// The guard resets: a later submission is allowed again.
	if err := store.AddItem(ctx, watchB, 1); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := coordinator.Submit(ctx); err != nil {
		t.Errorf("expected a fresh submission after completion to succeed, got: %v", err)
	}
}
