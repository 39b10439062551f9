package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderStatusEvent 訂單狀態異動事件，通知服務消費
type OrderStatusEvent struct {
	OrderID   string          `json:"order_id"`
	UserID    int             `json:"user_id"`
	UserEmail string          `json:"user_email"`
	Status    string          `json:"status"`
	Items     []OrderItemData `json:"items"`
	Timestamp time.Time       `json:"timestamp"`
}

type OrderItemData struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

type IOrderEventProducer interface {
	ProduceOrderStatusEvent(ctx context.Context, event OrderStatusEvent) error
	Close() error
}

// 用 userID 當 message key，同一使用者的事件落同分區保序
type OrderEventProducer struct {
	writer *kafka.Writer
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	return &OrderEventProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *OrderEventProducer) ProduceOrderStatusEvent(ctx context.Context, event OrderStatusEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.UserID)),
		Value: data,
		Time:  event.Timestamp,
	})
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}
