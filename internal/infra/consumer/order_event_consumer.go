package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/RoyceAzure/lab/bookstore/internal/infra/producer"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var ErrConsumerClosed = errors.New("consumer closed")

type OrderEventHandler interface {
	HandleOrderStatusEvent(ctx context.Context, event producer.OrderStatusEvent) error
}

// OrderEventConsumer 消費訂單狀態事件並轉交 handler（寄信）
// 通知屬 best-effort，handler 失敗只記 log 不重新入隊
type OrderEventConsumer struct {
	reader    *kafka.Reader
	handler   OrderEventHandler
	logger    *zerolog.Logger
	closeOnce sync.Once
	closeChan chan struct{}
}

func NewOrderEventConsumer(brokers []string, topic, groupID string, handler OrderEventHandler, logger *zerolog.Logger) *OrderEventConsumer {
	return &OrderEventConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		handler:   handler,
		logger:    logger,
		closeChan: make(chan struct{}),
	}
}

func (c *OrderEventConsumer) Start(ctx context.Context) error {
	for {
		select {
		case <-c.closeChan:
			return ErrConsumerClosed
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.logger.Error().Err(err).Msg("read order event failed")
			continue
		}

		var event producer.OrderStatusEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error().Err(err).
				Str("key", string(msg.Key)).
				Msg("unknown order event format")
			continue
		}

		if err := c.handler.HandleOrderStatusEvent(ctx, event); err != nil {
			c.logger.Error().Err(err).
				Str("order_id", event.OrderID).
				Str("status", event.Status).
				Msg("handle order event failed")
		}
	}
}

func (c *OrderEventConsumer) Stop() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		c.reader.Close()
	})
}
