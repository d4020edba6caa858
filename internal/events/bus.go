// Package events carries order lifecycle events from the mutation path to
// interested subscribers. Delivery is best-effort: emitting never blocks a
// mutation and never reports failure back to it.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/order/models"
	"orderflow/internal/platform/metrics"
)

// Lifecycle event names.
const (
	AfterOrderCreate = "afterOrderCreate"
	AfterOrderUpdate = "afterOrderUpdate"
	AfterOrderCancel = "afterOrderCancel"
)

// Event is one lifecycle notification. Action is an optional refinement of
// the event (shipped, refunded, ...) consumed by template selection.
type Event struct {
	Name      string        `json:"name"`
	Order     *models.Order `json:"order"`
	UpdatedBy string        `json:"updatedBy,omitempty"`
	Action    string        `json:"action,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Handler consumes one event. Errors are logged and swallowed by the bus.
type Handler func(ctx context.Context, event Event) error

// Bus fans events out to handlers on a background worker. A full buffer
// drops the event rather than blocking the emitter.
type Bus struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	handlers map[string][]Handler

	queue   chan Event
	done    chan struct{}
	drained chan struct{}
	closed  sync.Once
}

// Option configures a Bus.
type Option func(*Bus)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bus) {
		b.metrics = m
	}
}

// WithBuffer sets the queue capacity. Values below 1 are ignored.
func WithBuffer(size int) Option {
	return func(b *Bus) {
		if size > 0 {
			b.queue = make(chan Event, size)
		}
	}
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{
		logger:   slog.Default(),
		handlers: make(map[string][]Handler),
		queue:    make(chan Event, 256),
		done:     make(chan struct{}),
		drained:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

// On registers a handler for an event name. Registration is expected at
// startup, before events flow, but is safe at any time.
func (b *Bus) On(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Emit queues an event for delivery. It fills in the timestamp when unset,
// never blocks, and drops the event with a warning when the buffer is full
// or the bus is closed.
func (b *Bus) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case <-b.done:
		b.logger.WarnContext(ctx, "lifecycle event dropped: bus closed", "event", event.Name)
		b.metrics.IncrementLifecycleEventsDropped()
		return
	default:
	}

	select {
	case b.queue <- event:
	default:
		b.logger.WarnContext(ctx, "lifecycle event dropped: buffer full", "event", event.Name)
		b.metrics.IncrementLifecycleEventsDropped()
	}
}

// Close stops accepting events and blocks until everything already queued
// has been delivered. Emit after Close drops silently.
func (b *Bus) Close() {
	b.closed.Do(func() {
		close(b.done)
	})
	<-b.drained
}

func (b *Bus) run() {
	defer close(b.drained)
	for {
		select {
		case event := <-b.queue:
			b.dispatch(event)
		case <-b.done:
			for {
				select {
				case event := <-b.queue:
					b.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) dispatch(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Name]
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(handler, event)
	}
}

func (b *Bus) invoke(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("lifecycle handler panicked", "event", event.Name, "panic", r)
		}
	}()

	if err := handler(context.Background(), event); err != nil {
		b.logger.Error("lifecycle handler failed", "event", event.Name, "error", err)
	}
}
