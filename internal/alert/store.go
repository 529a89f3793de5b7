package alert

import (
	"context"
	"log/slog"

	"enrolld/pkg/domain"
)

// Store is append-only alert history, queryable by operators.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID domain.SubjectID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// StoreSink persists each event into alert history. History is
// best-effort like every other sink: append failures are logged and
// swallowed.
type StoreSink struct {
	store  Store
	logger *slog.Logger
}

// NewStoreSink creates a sink appending to the given store.
func NewStoreSink(store Store, logger *slog.Logger) *StoreSink {
	return &StoreSink{store: store, logger: logger}
}

// Notify appends the event.
func (s *StoreSink) Notify(ctx context.Context, event Event) {
	if err := s.store.Append(ctx, event); err != nil && s.logger != nil {
		s.logger.Error("failed to persist alert event",
			"kind", event.Kind,
			"subject_id", event.SubjectID,
			"error", err,
		)
	}
}
