package alert

import "context"

// Notifier receives operator events. Implementations must be safe for
// concurrent use and should return quickly; slow delivery belongs
// behind Buffered.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, event Event)

// Notify calls f.
func (f Func) Notify(ctx context.Context, event Event) {
	f(ctx, event)
}

// Discard drops every event. Useful when alerting is disabled.
var Discard Notifier = Func(func(context.Context, Event) {})
