package order

import (
	"context"
	"time"
)

// EventPublisher is the broker contract for order events.
// *broker.KafkaProducer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	SoldPrice float64 `json:"sold_price"`
}
