// Package models defines the subject record and verification outcomes
// for the enrollment registry.
package models

import (
	"time"

	"enrolld/pkg/domain"
	dErrors "enrolld/pkg/domain-errors"
)

// Subject is a registered identity record. The credential token is the
// reference sample captured at enrollment and is never serialized to
// external callers.
type Subject struct {
	ID           domain.SubjectID       `json:"id"`
	DisplayName  string                 `json:"display_name"`
	ContactInfo  string                 `json:"contact_info,omitempty"`
	NationalID   string                 `json:"national_id,omitempty"`
	PhotoRef     string                 `json:"photo_ref,omitempty"`
	Credential   domain.CredentialToken `json:"-"`
	Verified     bool                   `json:"verified"`
	RegisteredAt time.Time              `json:"registered_at"`
	VerifiedAt   *time.Time             `json:"verified_at,omitempty"`
}

// NewSubject constructs a subject record at registration time.
// Display name is required so operators can identify the record; the
// remaining profile fields are optional enrollment metadata.
func NewSubject(id domain.SubjectID, displayName string, credential domain.CredentialToken, now time.Time) (*Subject, error) {
	if displayName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "display name is required")
	}
	if credential == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "credential sample is required")
	}
	return &Subject{
		ID:           id,
		DisplayName:  displayName,
		Credential:   credential,
		Verified:     false,
		RegisteredAt: now.UTC(),
	}, nil
}

// MarkVerified flips the record into the verified state. It is
// idempotence-hostile on purpose: a record can only transition once.
func (s *Subject) MarkVerified(now time.Time) error {
	if s.Verified {
		return dErrors.New(dErrors.CodeConflict, "subject already verified")
	}
	s.Verified = true
	at := now.UTC()
	s.VerifiedAt = &at
	return nil
}

// Clone returns a deep copy so stores can hand out records without
// sharing mutable state with callers.
func (s *Subject) Clone() *Subject {
	cp := *s
	if s.VerifiedAt != nil {
		at := *s.VerifiedAt
		cp.VerifiedAt = &at
	}
	return &cp
}

// VerificationOutcome classifies the result of a verification attempt.
type VerificationOutcome string

const (
	// OutcomeVerified means the credential matched and the record was
	// transitioned to verified.
	OutcomeVerified VerificationOutcome = "verified"
	// OutcomeAlreadyVerified means the record was verified before this
	// attempt; the presented credential was not compared.
	OutcomeAlreadyVerified VerificationOutcome = "already_verified"
	// OutcomeCredentialMismatch means the record exists and is
	// unverified but the presented credential did not match.
	OutcomeCredentialMismatch VerificationOutcome = "credential_mismatch"
	// OutcomeUnknownSubject means no record exists for the identifier.
	OutcomeUnknownSubject VerificationOutcome = "unknown_subject"
)

// VerificationResult carries the outcome plus the subject snapshot when
// one exists. Subject is nil for OutcomeUnknownSubject.
type VerificationResult struct {
	Outcome VerificationOutcome `json:"outcome"`
	Subject *Subject            `json:"subject,omitempty"`
}
