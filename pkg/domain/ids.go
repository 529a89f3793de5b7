// Package domain provides the registry's identifier and credential value types.
// Parsing happens at trust boundaries (handlers, CLI inputs) so the rest of the
// code can rely on well-formed values.
package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "enrolld/pkg/domain-errors"
)

// SubjectID is the unique registry key for an enrolled subject. It is an
// opaque string chosen by the enrolling collaborator (a registration number
// in the reference deployment), not something the registry mints itself.
type SubjectID string

// MaxSubjectIDLength bounds identifiers at trust boundaries.
const MaxSubjectIDLength = 128

// ParseSubjectID validates an externally supplied identifier.
// Identifiers must be non-empty after trimming, within length bounds, and
// free of control characters.
func ParseSubjectID(s string) (SubjectID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "subject identifier cannot be empty")
	}
	if len(s) > MaxSubjectIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "subject identifier too long")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "subject identifier contains control characters")
		}
	}
	return SubjectID(s), nil
}

func (id SubjectID) String() string { return string(id) }

func (id SubjectID) IsEmpty() bool { return id == "" }

// AlertID identifies a stored alert event.
type AlertID uuid.UUID

// NewAlertID mints a fresh alert identifier.
func NewAlertID() AlertID { return AlertID(uuid.New()) }

func ParseAlertID(s string) (AlertID, error) {
	if s == "" {
		return AlertID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "alert ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return AlertID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "invalid alert ID format")
	}
	return AlertID(id), nil
}

func (id AlertID) String() string { return uuid.UUID(id).String() }

func (id AlertID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the canonical UUID form so JSON payloads carry a
// string instead of a byte array.
func (id AlertID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (id *AlertID) UnmarshalText(data []byte) error {
	parsed, err := ParseAlertID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
