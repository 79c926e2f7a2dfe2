// Package kafka publishes order domain events to a Kafka topic for downstream
// consumers (analytics, notifications). Events are JSON envelopes keyed by
// order id so that all events of one order keep their relative order.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	eventVersion = 1
)

// Envelope wraps every event written to the topic.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
}

// ItemPayload is one line of an OrderCreatedPayload.
type ItemPayload struct {
	ProductID    string       `json:"product_id"`
	ProductName  string       `json:"product_name"`
	ProductPrice kernel.Money `json:"product_price"`
	Qty          int          `json:"qty"`
	Subtotal     kernel.Money `json:"subtotal"`
}

// OrderCreatedPayload is the payload of order.created.
type OrderCreatedPayload struct {
	OrderID     string        `json:"order_id"`
	OrderCode   string        `json:"order_code"`
	UserID      string        `json:"user_id"`
	TotalQty    int           `json:"total_qty"`
	FinalAmount kernel.Money  `json:"final_amount"`
	Items       []ItemPayload `json:"items"`
}

// StatusChangedPayload is the payload of order.status_changed.
type StatusChangedPayload struct {
	OrderID     string `json:"order_id"`
	OrderCode   string `json:"order_code"`
	UserID      string `json:"user_id"`
	OrderStatus string `json:"order_status"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.OrderEventPublisher on top of a kafka-go writer.
type Publisher struct {
	writer   messageWriter
	producer string
	now      func() time.Time
}

// NewWriter builds an asynchronous writer; delivery failures are logged by
// the Completion callback instead of failing the request that caused them.
func NewWriter(brokersCSV, topic string, logger *slog.Logger) *kafka.Writer {
	log := logger.With("component", "kafka_publisher", "topic", topic)
	return &kafka.Writer{
		Addr:         kafka.TCP(SplitBrokers(brokersCSV)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn("failed to deliver order events", "count", len(messages), "error", err)
			}
		},
	}
}

// SplitBrokers parses a comma separated broker list, skipping blanks.
func SplitBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewPublisher wraps writer. producer names this service in every envelope.
func NewPublisher(writer messageWriter, producer string) *Publisher {
	return &Publisher{
		writer:   writer,
		producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// OrderCreated publishes order.created.
func (p *Publisher) OrderCreated(ctx context.Context, o *order.Order) error {
	items := make([]ItemPayload, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemPayload{
			ProductID:    item.ProductID().String(),
			ProductName:  item.ProductName(),
			ProductPrice: item.ProductPrice(),
			Qty:          item.Qty(),
			Subtotal:     item.Subtotal(),
		})
	}

	return p.publish(ctx, EventOrderCreated, o, OrderCreatedPayload{
		OrderID:     o.ID().String(),
		OrderCode:   o.Code(),
		UserID:      o.UserID().String(),
		TotalQty:    o.TotalQty(),
		FinalAmount: o.FinalAmount(),
		Items:       items,
	})
}

// OrderStatusChanged publishes order.status_changed.
func (p *Publisher) OrderStatusChanged(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, EventOrderStatusChanged, o, StatusChangedPayload{
		OrderID:     o.ID().String(),
		OrderCode:   o.Code(),
		UserID:      o.UserID().String(),
		OrderStatus: o.Status().String(),
	})
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, eventType string, o *order.Order, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	now := p.now()
	data, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    now,
		Producer:      p.producer,
		CorrelationID: o.ID().String(),
		Payload:       raw,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.ID().String()),
		Value: data,
		Time:  now,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}
