package alert

import (
	"context"
	"log/slog"
	"sync"

	"enrolld/internal/platform/metrics"
)

// Buffered decouples event emission from delivery. Events are queued on
// a channel and delivered by a background goroutine; when the buffer is
// full the event is dropped rather than blocking the hot path.
type Buffered struct {
	next    Notifier
	events  chan Event
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	closed bool
}

// BufferedOption configures a Buffered notifier.
type BufferedOption func(*Buffered)

// WithBufferedLogger sets a logger for drop and delivery reporting.
func WithBufferedLogger(logger *slog.Logger) BufferedOption {
	return func(b *Buffered) {
		b.logger = logger
	}
}

// WithBufferedMetrics records emitted and dropped events.
func WithBufferedMetrics(m *metrics.Metrics) BufferedOption {
	return func(b *Buffered) {
		b.metrics = m
	}
}

// NewBuffered starts a buffered notifier in front of next.
func NewBuffered(next Notifier, size int, opts ...BufferedOption) *Buffered {
	if size <= 0 {
		size = 64
	}
	b := &Buffered{
		next:   next,
		events: make(chan Event, size),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.wg.Add(1)
	go b.process()
	return b
}

func (b *Buffered) process() {
	defer b.wg.Done()
	for event := range b.events {
		// Delivery outlives the request that produced the event.
		b.next.Notify(context.Background(), event)
	}
}

// Notify queues the event. Never blocks; drops when the buffer is full
// or the notifier is closed.
func (b *Buffered) Notify(_ context.Context, event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	select {
	case b.events <- event:
	default:
		if b.metrics != nil {
			b.metrics.AlertsDropped.Inc()
		}
		if b.logger != nil {
			b.logger.Warn("alert buffer full, event dropped",
				"kind", event.Kind,
				"subject_id", event.SubjectID,
			)
		}
	}
}

// Close stops accepting events and waits for the queue to drain.
func (b *Buffered) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.events)
	b.wg.Wait()
}
