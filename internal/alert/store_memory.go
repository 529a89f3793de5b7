package alert

import (
	"context"
	"sync"

	"enrolld/pkg/domain"
)

// InMemoryStore keeps alert history in memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	events    []Event
	bySubject map[domain.SubjectID][]int
}

// NewInMemoryStore creates an empty in-memory alert store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bySubject: make(map[domain.SubjectID][]int)}
}

// Append records the event.
func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := len(s.events)
	s.events = append(s.events, event)
	if event.SubjectID != "" {
		s.bySubject[event.SubjectID] = append(s.bySubject[event.SubjectID], idx)
	}
	return nil
}

// ListBySubject returns all events for one subject in emission order.
func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID domain.SubjectID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	indices := s.bySubject[subjectID]
	out := make([]Event, 0, len(indices))
	for _, idx := range indices {
		out = append(out, s.events[idx])
	}
	return out, nil
}

// ListRecent returns the newest events, most recent first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]Event, 0, limit)
	for i := len(s.events) - 1; i >= len(s.events)-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// Clear removes all events. Intended for tests.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.bySubject = make(map[domain.SubjectID][]int)
}
