package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"fooddelivery/internal/core/domain/model/kernel"
)

// Event names written to clients.
const (
	EventConnected         = "connected"
	EventOrderStatusUpdate = "order_status_update"
)

// Metrics receives broadcaster activity. internal/pkg/metrics provides the
// Prometheus implementation.
type Metrics interface {
	ConnectionOpened()
	ConnectionClosed()
	EventDelivered(event string)
	EventFailed(event string)
}

type noopMetrics struct{}

func (noopMetrics) ConnectionOpened()     {}
func (noopMetrics) ConnectionClosed()     {}
func (noopMetrics) EventDelivered(string) {}
func (noopMetrics) EventFailed(string)    {}

// Option customizes a Broadcaster.
type Option func(*Broadcaster)

// WithMetrics reports connection and delivery counts to m.
func WithMetrics(m Metrics) Option {
	return func(b *Broadcaster) {
		b.metrics = m
	}
}

type entry struct {
	userID kernel.UUID
	conn   Connection
	once   sync.Once
}

// Broadcaster fans events out to every open connection of a user.
//
// Example:
//
//	b := realtime.NewBroadcaster(logger)
//	remove := b.AddConnection(userID, conn)
//	defer remove()
//
//	b.SendToUser(userID, realtime.EventOrderStatusUpdate, update)
type Broadcaster struct {
	mu      sync.RWMutex
	conns   map[kernel.UUID]map[*entry]struct{}
	logger  *slog.Logger
	metrics Metrics
}

// NewBroadcaster creates an empty registry.
func NewBroadcaster(logger *slog.Logger, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		conns:   make(map[kernel.UUID]map[*entry]struct{}),
		logger:  logger.With("component", "broadcaster"),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddConnection registers conn for userID and returns the function that
// removes it again. The connection is also removed as soon as its Done
// channel closes. Removal is idempotent.
func (b *Broadcaster) AddConnection(userID kernel.UUID, conn Connection) func() {
	e := &entry{userID: userID, conn: conn}

	b.mu.Lock()
	set, ok := b.conns[userID]
	if !ok {
		set = make(map[*entry]struct{})
		b.conns[userID] = set
	}
	set[e] = struct{}{}
	b.mu.Unlock()

	b.metrics.ConnectionOpened()
	b.logger.Debug("stream connected", "user_id", userID.String())

	go func() {
		<-conn.Done()
		b.remove(e)
	}()

	return func() { b.remove(e) }
}

// SendToUser encodes payload as JSON and queues it on every connection of
// userID. Users without connections are skipped silently. A connection that
// rejects the frame, closed or too far behind, is removed and closed; the
// caller never sees an error and never waits for a client.
func (b *Broadcaster) SendToUser(userID kernel.UUID, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	for _, e := range b.snapshot(&userID) {
		if sendErr := e.conn.Send(event, data); sendErr != nil {
			b.metrics.EventFailed(event)
			b.logger.Warn("stream write failed, dropping connection",
				"user_id", userID.String(), "event", event, "error", sendErr)
			b.drop(e)
			continue
		}
		b.metrics.EventDelivered(event)
	}
}

// Heartbeat writes a keep-alive to every connection and drops the ones that fail.
func (b *Broadcaster) Heartbeat() {
	for _, e := range b.snapshot(nil) {
		if err := e.conn.Heartbeat(); err != nil {
			b.logger.Debug("heartbeat failed, dropping connection",
				"user_id", e.userID.String(), "error", err)
			b.drop(e)
		}
	}
}

// CloseAll ends every open connection so that stream handlers return during
// shutdown. Each connection deregisters once its Done channel closes.
func (b *Broadcaster) CloseAll() {
	for _, e := range b.snapshot(nil) {
		_ = e.conn.Close()
	}
}

// ConnectionCount returns the number of open connections across all users.
func (b *Broadcaster) ConnectionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, set := range b.conns {
		n += len(set)
	}
	return n
}

// UserConnectionCount returns the number of open connections of userID.
func (b *Broadcaster) UserConnectionCount(userID kernel.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns[userID])
}

// snapshot copies the entries of one user, or of everyone when userID is nil,
// so writes happen without holding the lock.
func (b *Broadcaster) snapshot(userID *kernel.UUID) []*entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*entry
	if userID != nil {
		for e := range b.conns[*userID] {
			out = append(out, e)
		}
		return out
	}
	for _, set := range b.conns {
		for e := range set {
			out = append(out, e)
		}
	}
	return out
}

func (b *Broadcaster) drop(e *entry) {
	b.remove(e)
	_ = e.conn.Close()
}

func (b *Broadcaster) remove(e *entry) {
	e.once.Do(func() {
		b.mu.Lock()
		if set, ok := b.conns[e.userID]; ok {
			delete(set, e)
			if len(set) == 0 {
				delete(b.conns, e.userID)
			}
		}
		b.mu.Unlock()

		b.metrics.ConnectionClosed()
		b.logger.Debug("stream disconnected", "user_id", e.userID.String())
	})
}
