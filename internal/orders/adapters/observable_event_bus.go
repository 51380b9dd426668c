package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/montluxe/storefront/internal/kafka"
	"github.com/montluxe/storefront/internal/orders/ports"
	"github.com/montluxe/storefront/internal/telemetry"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderPlaced(ctx context.Context, orderID string) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderPlaced")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("event.type", "order.placed"),
		attribute.String("topic", "order.placed"),
	)

	start := time.Now()
	err := e.bus.PublishOrderPlaced(ctx, orderID)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "order.placed", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (e *ObservableEventBus) PublishCheckoutRejected(ctx context.Context, productIDs []string) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishCheckoutRejected")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("event.type", "checkout.rejected"),
		attribute.String("topic", "checkout.rejected"),
		attribute.Int("rejected.count", len(productIDs)),
	)

	start := time.Now()
	err := e.bus.PublishCheckoutRejected(ctx, productIDs)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "checkout.rejected", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
