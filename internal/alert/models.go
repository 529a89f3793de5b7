// Package alert delivers operator notifications for registry activity.
// Emission is fire-and-forget: a failing or slow sink must never change
// the outcome of the registration or verification that produced the event.
package alert

import (
	"time"

	"enrolld/pkg/domain"
)

// Kind identifies the event variant.
type Kind string

const (
	// KindRegistrationSucceeded fires when a new subject record is created.
	KindRegistrationSucceeded Kind = "registration_succeeded"
	// KindUnregisteredAttempt fires when verification targets an id that
	// was never enrolled.
	KindUnregisteredAttempt Kind = "unregistered_attempt"
	// KindRepeatVerification fires when an already-verified subject is
	// presented again. Carries the original registration time.
	KindRepeatVerification Kind = "repeat_verification"
	// KindMismatchAttempt fires on a credential mismatch.
	KindMismatchAttempt Kind = "mismatch_attempt"
)

// Severity ranks events for operator triage.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Event is emitted from domain logic to capture registry activity. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID           domain.AlertID   `json:"id"`
	Kind         Kind             `json:"kind"`
	Severity     Severity         `json:"severity"`
	SubjectID    domain.SubjectID `json:"subject_id,omitempty"`
	DisplayName  string           `json:"display_name,omitempty"`
	RegisteredAt *time.Time       `json:"registered_at,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
	RequestID    string           `json:"request_id,omitempty"`
	Device       string           `json:"device,omitempty"`
}

// severityFor assigns triage severity per event kind. Every anomalous
// verification attempt is a warning; registration is informational.
func severityFor(kind Kind) Severity {
	switch kind {
	case KindUnregisteredAttempt, KindRepeatVerification, KindMismatchAttempt:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// NewEvent builds an event with identity and severity filled in.
func NewEvent(kind Kind, subjectID domain.SubjectID, ts time.Time) Event {
	return Event{
		ID:        domain.NewAlertID(),
		Kind:      kind,
		Severity:  severityFor(kind),
		SubjectID: subjectID,
		Timestamp: ts.UTC(),
	}
}
