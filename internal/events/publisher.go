package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderCaptured     = "order.captured"
	EventTypeOrderCaptured = "OrderCaptured"
)

// OrderCaptured is emitted once an order's payment has been verified and stock taken.
type OrderCaptured struct {
	EventID     string             `json:"event_id"`
	OrderID     string             `json:"order_id"`
	UserID      string             `json:"user_id"`
	PaymentID   string             `json:"payment_id"`
	Items       []domain.OrderItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Currency    string             `json:"currency"`
	CapturedAt  time.Time          `json:"captured_at"`
}

func NewOrderCaptured(o *domain.Order) OrderCaptured {
	return OrderCaptured{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		UserID:      o.UserID,
		PaymentID:   o.PaymentID,
		Items:       o.Items,
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency,
		CapturedAt:  o.OrderUpdateDate,
	}
}

type Publisher interface {
	PublishOrderCaptured(ctx context.Context, event OrderCaptured) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicOrderCaptured,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderCaptured(ctx context.Context, event OrderCaptured) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order captured event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // keeps events of one order on one partition
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderCaptured)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order captured event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCaptured(context.Context, OrderCaptured) error { return nil }

func (NopPublisher) Close() error { return nil }
