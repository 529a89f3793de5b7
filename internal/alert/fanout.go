package alert

import (
	"context"
	"log/slog"
)

// Fanout delivers each event to every registered sink. A panicking sink
// is isolated so it cannot take down the others or the caller.
type Fanout struct {
	sinks  []Notifier
	logger *slog.Logger
}

// NewFanout builds a fanout over the given sinks.
func NewFanout(logger *slog.Logger, sinks ...Notifier) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

// Notify delivers the event to all sinks in order.
func (f *Fanout) Notify(ctx context.Context, event Event) {
	for _, sink := range f.sinks {
		f.deliver(ctx, sink, event)
	}
}

func (f *Fanout) deliver(ctx context.Context, sink Notifier, event Event) {
	defer func() {
		if r := recover(); r != nil && f.logger != nil {
			f.logger.Error("alert sink panicked",
				"kind", event.Kind,
				"subject_id", event.SubjectID,
				"panic", r,
			)
		}
	}()
	sink.Notify(ctx, event)
}
