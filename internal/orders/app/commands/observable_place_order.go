package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/montluxe/storefront/internal/orders/domain"
	"github.com/montluxe/storefront/internal/orders/metrics"
	"github.com/montluxe/storefront/internal/telemetry"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Placement, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	outcome := "error"
	defer func() {
		o.metrics.RecordPlacementDuration(ctx, time.Since(start).Seconds())
		o.metrics.RecordOrderPlaced(ctx, outcome)
	}()

	o.logger.InfoContext(ctx, "placing order",
		"line_count", len(cmd.Lines),
	)

	placement, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"line_count", len(cmd.Lines),
		)
		return nil, err
	}

	if !placement.Accepted() {
		outcome = "rejected"
		for _, line := range placement.Rejected {
			o.metrics.RecordRejectedLine(ctx, string(line.Reason))
		}
		telemetry.AddSpanAttributes(span,
			attribute.Int("order.rejected_lines", len(placement.Rejected)),
		)
		o.logger.InfoContext(ctx, "checkout rejected",
			"rejected_lines", len(placement.Rejected),
		)
		telemetry.SetSpanSuccess(span)
		return placement, nil
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", placement.Order.ID),
		attribute.Int64("order.total_cents", placement.Order.TotalCents()),
		attribute.String("order.status", string(placement.Order.Status)),
	)

	o.logger.InfoContext(ctx, "order placed successfully",
		"order_id", placement.Order.ID,
	)

	outcome = "placed"
	telemetry.SetSpanSuccess(span)

	return placement, nil
}
