package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/product"
	"github.com/nvmanh/techshop-catalog-service/pkg/broker"
)

// StockListener applies warehouse replenishment events to product stock.
type StockListener struct {
	consumer *broker.KafkaConsumer
	uc       product.UseCase
	logger   *zap.Logger
}

func NewStockListener(consumer *broker.KafkaConsumer, uc product.UseCase, logger *zap.Logger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type StockReplenishedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   StockPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type StockPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event StockReplenishedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "StockReplenished" {
		return
	}

	l.logger.Info("Processing StockReplenished event",
		zap.String("product_id", event.Payload.ProductID),
		zap.Int("quantity", event.Payload.Quantity),
	)

	if err := l.uc.ReplenishStock(ctx, event.Payload.ProductID, event.Payload.Quantity); err != nil {
		l.logger.Error("Failed to replenish stock",
			zap.String("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
	}
}
