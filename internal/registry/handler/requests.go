package handler

import (
	"strings"

	"enrolld/internal/registry/service"
	"enrolld/pkg/domain"
	dErrors "enrolld/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service inputs before processing.

type RegisterSubjectRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ContactInfo string `json:"contact_info,omitempty"`
	NationalID  string `json:"national_id,omitempty"`
	PhotoRef    string `json:"photo_ref,omitempty"`
	Credential  string `json:"credential"`
}

func (r *RegisterSubjectRequest) Normalize() {
	if r == nil {
		return
	}
	r.ID = strings.TrimSpace(r.ID)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.ContactInfo = strings.TrimSpace(r.ContactInfo)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.PhotoRef = strings.TrimSpace(r.PhotoRef)
}

func (r *RegisterSubjectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	if r.DisplayName == "" {
		return dErrors.New(dErrors.CodeValidation, "display_name is required")
	}
	if r.Credential == "" {
		return dErrors.New(dErrors.CodeValidation, "credential is required")
	}
	return nil
}

// ToInput converts the HTTP request to a service input.
func (r *RegisterSubjectRequest) ToInput() (service.RegisterInput, error) {
	credential, err := domain.TokenFromString(r.Credential)
	if err != nil {
		return service.RegisterInput{}, err
	}
	return service.RegisterInput{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		ContactInfo: r.ContactInfo,
		NationalID:  r.NationalID,
		PhotoRef:    r.PhotoRef,
		Credential:  credential,
	}, nil
}

type VerifySubjectRequest struct {
	Credential string `json:"credential"`
}

func (r *VerifySubjectRequest) Normalize() {}

func (r *VerifySubjectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Credential == "" {
		return dErrors.New(dErrors.CodeValidation, "credential is required")
	}
	return nil
}
