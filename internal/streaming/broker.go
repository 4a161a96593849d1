package streaming

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"photo-timeline/internal/logging"
	"photo-timeline/internal/metrics"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a write to the client exceeded the configured timeout.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected.
	ErrClientGone = errors.New("client disconnected")

	// ErrBrokerClosed indicates that the broker was closed while the stream was open.
	ErrBrokerClosed = errors.New("broker closed")

	// ErrStreamingUnsupported is returned when the response writer cannot flush.
	ErrStreamingUnsupported = errors.New("streaming unsupported by response writer")
)

// Config configures the broker and the streams it serves.
type Config struct {
	// BufferSize is the number of events queued per subscriber before drops.
	BufferSize int
	// WriteTimeout bounds a single write to a client.
	WriteTimeout time.Duration
	// HeartbeatInterval between keep-alive comments. Zero disables them.
	HeartbeatInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		BufferSize:        8,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
	}
}

// Event is a single named server-sent event with a JSON payload.
type Event struct {
	Name string
	Data []byte
}

// Frame returns the event in text/event-stream framing.
func (e Event) Frame() []byte {
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", e.Name, e.Data))
}

// Broker fans published events out to subscribers.
type Broker struct {
	config Config

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
	done   chan struct{}
}

// NewBroker creates a broker.
func NewBroker(config Config) *Broker {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}
	return &Broker{
		config: config,
		subs:   make(map[chan Event]struct{}),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a new subscriber. The returned function unsubscribes
// and is safe to call more than once.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.config.BufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	metrics.EventSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			_, ok := b.subs[ch]
			delete(b.subs, ch)
			b.mu.Unlock()
			if ok {
				metrics.EventSubscribers.Dec()
			}
		})
	}
}

// Subscribers returns the number of connected subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish encodes v as JSON and delivers it to every subscriber that has
// room in its buffer. It never blocks.
func (b *Broker) Publish(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", name, err)
	}
	ev := Event{Name: name, Data: data}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBrokerClosed
	}

	metrics.EventsPublishedTotal.WithLabelValues(name).Inc()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			metrics.EventsDroppedTotal.WithLabelValues(name).Inc()
			logging.Debug("Dropped %s event for slow subscriber", name)
		}
	}
	return nil
}

// Close disconnects all subscribers. Further publishes fail with ErrBrokerClosed.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for ch := range b.subs {
		delete(b.subs, ch)
		metrics.EventSubscribers.Dec()
	}
}
