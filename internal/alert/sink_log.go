package alert

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. It is the sink every
// deployment gets, regardless of which transports are configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink writing to the given logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the event at a level matching its severity.
func (s *LogSink) Notify(_ context.Context, event Event) {
	attrs := []any{
		"alert_id", event.ID,
		"kind", event.Kind,
		"subject_id", event.SubjectID,
		"timestamp", event.Timestamp,
	}
	if event.RequestID != "" {
		attrs = append(attrs, "request_id", event.RequestID)
	}
	if event.Device != "" {
		attrs = append(attrs, "device", event.Device)
	}

	switch event.Severity {
	case SeverityWarning:
		s.logger.Warn("registry alert", attrs...)
	default:
		s.logger.Info("registry alert", attrs...)
	}
}
