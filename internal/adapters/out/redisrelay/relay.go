// Package redisrelay spreads status events across service instances.
//
// A customer's stream may be held open by any instance behind the load
// balancer, while the status change can be handled by another one. The
// Publisher sends every status event to a Redis pub/sub channel and each
// instance runs a Subscriber that hands received events to its local
// realtime.Broadcaster.
package redisrelay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/realtime"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is used when no channel is configured.
const DefaultChannel = "orders:status"

// Message is the wire format on the channel.
type Message struct {
	UserID  string                `json:"user_id"`
	Event   string                `json:"event"`
	Payload realtime.StatusUpdate `json:"payload"`
}

// NewClient connects to addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publisher implements ports.OrderEventPublisher by publishing to Redis.
type Publisher struct {
	client  redisPublisher
	channel string
}

// NewPublisher creates a publisher on channel.
func NewPublisher(client redisPublisher, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// OrderCreated is a no-op; only status changes are relayed.
func (p *Publisher) OrderCreated(_ context.Context, _ *order.Order) error {
	return nil
}

// OrderStatusChanged relays the new status to every instance.
func (p *Publisher) OrderStatusChanged(ctx context.Context, o *order.Order) error {
	data, err := Encode(o)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// Encode renders the relay message of o's current status.
func Encode(o *order.Order) ([]byte, error) {
	return json.Marshal(Message{
		UserID:  o.UserID().String(),
		Event:   realtime.EventOrderStatusUpdate,
		Payload: realtime.NewStatusUpdate(o),
	})
}

// Subscriber delivers relayed events to the local broadcaster.
type Subscriber struct {
	client      *redis.Client
	channel     string
	broadcaster *realtime.Broadcaster
	logger      *slog.Logger
}

// NewSubscriber creates a subscriber; call Run to start receiving.
func NewSubscriber(
	client *redis.Client,
	channel string,
	broadcaster *realtime.Broadcaster,
	logger *slog.Logger,
) *Subscriber {
	return &Subscriber{
		client:      client,
		channel:     channel,
		broadcaster: broadcaster,
		logger:      logger.With("component", "redis_relay", "channel", channel),
	}
}

// Run blocks until ctx is cancelled or the subscription breaks.
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer func() {
		_ = pubsub.Close()
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	s.logger.Info("subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}
			if err := s.Deliver(msg.Payload); err != nil {
				s.logger.Warn("dropping malformed relay message", "error", err)
			}
		}
	}
}

// Deliver decodes one relay message and sends it to the local connections of its user.
func (s *Subscriber) Deliver(payload string) error {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return err
	}

	userID, err := kernel.UUIDFromString(msg.UserID)
	if err != nil {
		return err
	}
	if msg.Event == "" {
		msg.Event = realtime.EventOrderStatusUpdate
	}

	s.broadcaster.SendToUser(userID, msg.Event, msg.Payload)
	return nil
}
