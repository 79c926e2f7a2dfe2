package realtime

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("response writer does not support streaming")

// ErrConnectionClosed is returned by writes after Close.
var ErrConnectionClosed = errors.New("connection closed")

// ErrSendQueueFull is returned when a client has stopped reading and its
// pending frames reached the queue bound.
var ErrSendQueueFull = errors.New("connection send queue is full")

// Defaults for NewSSEConnection.
const (
	DefaultWriteTimeout = 10 * time.Second
	DefaultSendQueue    = 16
)

// Connection is one open push channel to a client.
type Connection interface {
	// Send queues one named event carrying an already encoded JSON payload.
	// It never waits for the client.
	Send(event string, data []byte) error

	// Heartbeat queues an idle keep-alive.
	Heartbeat() error

	// Close ends the connection. It is safe to call more than once.
	Close() error

	// Done is closed once the connection has ended and nothing writes to the
	// client anymore.
	Done() <-chan struct{}
}

// SSEOption customizes an SSEConnection.
type SSEOption func(*SSEConnection)

// WithWriteTimeout bounds each frame write. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) SSEOption {
	return func(c *SSEConnection) {
		c.writeTimeout = d
	}
}

// WithSendQueue sets how many frames may wait for a slow client.
func WithSendQueue(n int) SSEOption {
	return func(c *SSEConnection) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// SSEConnection adapts an http.ResponseWriter to Connection.
//
// Frames go through a bounded queue drained by one writer goroutine, which is
// the only code touching the response writer after construction. Done closes
// when that goroutine exits, so a handler waiting on Done returns only once no
// write is in flight.
type SSEConnection struct {
	w            http.ResponseWriter
	flusher      http.Flusher
	rc           *http.ResponseController
	writeTimeout time.Duration
	queueSize    int

	frames    chan string
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewSSEConnection writes the event-stream response headers and starts the
// writer. clientGone is typically the request context's Done channel.
func NewSSEConnection(w http.ResponseWriter, clientGone <-chan struct{}, opts ...SSEOption) (*SSEConnection, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	c := &SSEConnection{
		w:            w,
		flusher:      flusher,
		rc:           http.NewResponseController(w),
		writeTimeout: DefaultWriteTimeout,
		queueSize:    DefaultSendQueue,
		closing:      make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.frames = make(chan string, c.queueSize)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	go c.run(clientGone)

	return c, nil
}

// Send implements Connection.
func (c *SSEConnection) Send(event string, data []byte) error {
	return c.enqueue(fmt.Sprintf("event: %s\ndata: %s\n\n", event, data))
}

// Heartbeat implements Connection.
func (c *SSEConnection) Heartbeat() error {
	return c.enqueue(": heartbeat\n\n")
}

// Close implements Connection. Frames already queued are still written, each
// within the write timeout. Close does not wait; use Done for that.
func (c *SSEConnection) Close() error {
	c.closeOnce.Do(func() {
		close(c.closing)
	})
	return nil
}

// Done implements Connection.
func (c *SSEConnection) Done() <-chan struct{} {
	return c.done
}

func (c *SSEConnection) enqueue(frame string) error {
	select {
	case <-c.closing:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.frames <- frame:
		return nil
	default:
		return ErrSendQueueFull
	}
}

func (c *SSEConnection) run(clientGone <-chan struct{}) {
	defer close(c.done)
	defer c.clearDeadline()
	defer c.Close()

	for {
		select {
		case <-clientGone:
			return
		case <-c.closing:
			c.drain()
			return
		case frame := <-c.frames:
			if err := c.write(frame); err != nil {
				return
			}
		}
	}
}

func (c *SSEConnection) drain() {
	for {
		select {
		case frame := <-c.frames:
			if err := c.write(frame); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *SSEConnection) write(frame string) error {
	if c.writeTimeout > 0 {
		err := c.rc.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		if err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
	}

	if _, err := io.WriteString(c.w, frame); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

// clearDeadline leaves the underlying connection without a write deadline
// for whatever the server writes after the handler returns.
func (c *SSEConnection) clearDeadline() {
	if c.writeTimeout > 0 {
		_ = c.rc.SetWriteDeadline(time.Time{})
	}
}
