package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	mutationsTotal     metric.Int64Counter
	checkoutsTotal     metric.Int64Counter
	checkoutDuration   metric.Float64Histogram
	persistenceFailure metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.mutationsTotal, err = meter.Int64Counter(
		"cart_mutations_total",
		metric.WithDescription("Total number of cart mutations"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cart_mutations_total counter: %w", err)
	}

	m.checkoutsTotal, err = meter.Int64Counter(
		"checkout_submissions_total",
		metric.WithDescription("Total number of checkout submissions by outcome"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_submissions_total counter: %w", err)
	}

	m.checkoutDuration, err = meter.Float64Histogram(
		"checkout_duration_seconds",
		metric.WithDescription("Duration of checkout submissions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_duration histogram: %w", err)
	}

	m.persistenceFailure, err = meter.Int64Counter(
		"cart_persistence_failures_total",
		metric.WithDescription("Cart writes that failed and were absorbed"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cart_persistence_failures_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordMutation(ctx context.Context, operation string) {
	m.mutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (m *Metrics) RecordCheckout(ctx context.Context, outcome string, durationSeconds float64) {
	m.checkoutsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
	m.checkoutDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordPersistenceFailure(ctx context.Context) {
	m.persistenceFailure.Add(ctx, 1)
}
