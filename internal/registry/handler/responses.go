package handler

import (
	"time"

	"enrolld/internal/registry/models"
)

// SubjectResponse is the external view of a record. The credential
// token is deliberately absent: it never leaves the registry.
type SubjectResponse struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"display_name"`
	ContactInfo  string     `json:"contact_info,omitempty"`
	NationalID   string     `json:"national_id,omitempty"`
	PhotoRef     string     `json:"photo_ref,omitempty"`
	Verified     bool       `json:"verified"`
	RegisteredAt time.Time  `json:"registered_at"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
}

type VerifyResponse struct {
	Outcome string           `json:"outcome"`
	Subject *SubjectResponse `json:"subject,omitempty"`
}

type ListSubjectsResponse struct {
	Subjects []*SubjectResponse `json:"subjects"`
	Count    int                `json:"count"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toSubjectResponse(s *models.Subject) *SubjectResponse {
	if s == nil {
		return nil
	}
	return &SubjectResponse{
		ID:           s.ID.String(),
		DisplayName:  s.DisplayName,
		ContactInfo:  s.ContactInfo,
		NationalID:   s.NationalID,
		PhotoRef:     s.PhotoRef,
		Verified:     s.Verified,
		RegisteredAt: s.RegisteredAt,
		VerifiedAt:   s.VerifiedAt,
	}
}

func toVerifyResponse(result *models.VerificationResult) *VerifyResponse {
	return &VerifyResponse{
		Outcome: string(result.Outcome),
		Subject: toSubjectResponse(result.Subject),
	}
}
