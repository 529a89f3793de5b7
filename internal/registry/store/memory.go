package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"enrolld/internal/registry/models"
	"enrolld/pkg/domain"
)

// InMemory keeps subject records in a map guarded by an RWMutex.
// It is the default backend for tests and the demo environment.
type InMemory struct {
	mu       sync.RWMutex
	subjects map[domain.SubjectID]*models.Subject
}

// NewInMemory creates an empty in-memory subject store.
func NewInMemory() *InMemory {
	return &InMemory{subjects: make(map[domain.SubjectID]*models.Subject)}
}

// Create inserts the subject if its identifier is not already taken.
func (s *InMemory) Create(_ context.Context, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("subject is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subjects[subject.ID]; exists {
		return fmt.Errorf("subject id %q already registered: %w", subject.ID, ErrDuplicate)
	}
	s.subjects[subject.ID] = subject.Clone()
	return nil
}

// FindByID returns a copy of the record for the identifier.
func (s *InMemory) FindByID(_ context.Context, id domain.SubjectID) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if subject, ok := s.subjects[id]; ok {
		return subject.Clone(), nil
	}
	return nil, ErrNotFound
}

// MarkVerified flips the record to verified if it is currently unverified.
func (s *InMemory) MarkVerified(_ context.Context, id domain.SubjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject, ok := s.subjects[id]
	if !ok {
		return ErrNotFound
	}
	if subject.Verified {
		return ErrAlreadyVerified
	}
	return subject.MarkVerified(at)
}

// List returns copies of all records ordered by registration time.
func (s *InMemory) List(_ context.Context) ([]*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		out = append(out, subject.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out, nil
}

// Count returns the number of registered subjects.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subjects), nil
}

// Clear removes all records. Intended for tests.
func (s *InMemory) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = make(map[domain.SubjectID]*models.Subject)
}
