// Package kafka publishes order lifecycle events to Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	topicOrderPlaced      = "order.placed"
	topicCheckoutRejected = "checkout.rejected"

	writeTimeout = 10 * time.Second
)

// EventBus publishes order events to Kafka.
type EventBus struct {
	writer *kafkago.Writer
}

// NewEventBus builds a publisher for the given brokers. Topics are created
// by the broker on first write when auto-creation is enabled.
func NewEventBus(brokers []string) *EventBus {
	return &EventBus{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Balancer:     &kafkago.LeastBytes{},
			WriteTimeout: writeTimeout,
			RequiredAcks: kafkago.RequireOne,
		},
	}
}

type orderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type checkoutRejectedEvent struct {
	ProductIDs []string  `json:"product_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *EventBus) PublishOrderPlaced(ctx context.Context, orderID string) error {
	return e.publish(ctx, topicOrderPlaced, orderID, orderPlacedEvent{
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	})
}

func (e *EventBus) PublishCheckoutRejected(ctx context.Context, productIDs []string) error {
	key := ""
	if len(productIDs) > 0 {
		key = productIDs[0]
	}
	return e.publish(ctx, topicCheckoutRejected, key, checkoutRejectedEvent{
		ProductIDs: productIDs,
		OccurredAt: time.Now().UTC(),
	})
}

func (e *EventBus) publish(ctx context.Context, topic, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	err = e.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// Close flushes buffered messages and releases the writer.
func (e *EventBus) Close() error {
	return e.writer.Close()
}
