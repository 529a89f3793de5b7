// Package store provides subject persistence backends for the registry.
package store

import (
	"context"
	"time"

	"enrolld/internal/registry/models"
	"enrolld/internal/sentinel"
	"enrolld/pkg/domain"
)

// Sentinel errors shared by all backends so services can branch on
// storage outcomes without knowing the implementation.
var (
	ErrNotFound        = sentinel.ErrNotFound
	ErrDuplicate       = sentinel.ErrDuplicate
	ErrAlreadyVerified = sentinel.ErrAlreadyVerified
)

// SubjectStore is the persistence contract for subject records.
//
// Create and MarkVerified are the only mutating operations and both are
// conditional: Create inserts only if the identifier is free, and
// MarkVerified flips the verified flag only if it is currently false.
// Backends must make each of them atomic.
type SubjectStore interface {
	// Create inserts the subject if no record exists for its identifier.
	// Returns ErrDuplicate (possibly wrapped) when the identifier is taken.
	Create(ctx context.Context, subject *models.Subject) error

	// FindByID returns the record for the identifier, or ErrNotFound.
	FindByID(ctx context.Context, id domain.SubjectID) (*models.Subject, error)

	// MarkVerified transitions the record to verified at the given time.
	// Returns ErrNotFound if no record exists and ErrAlreadyVerified if
	// the record was verified before this call.
	MarkVerified(ctx context.Context, id domain.SubjectID, at time.Time) error

	// List returns all records ordered by registration time.
	List(ctx context.Context) ([]*models.Subject, error)

	// Count returns the number of registered subjects.
	Count(ctx context.Context) (int, error)
}
