package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"enrolld/internal/platform/metrics"
	"enrolld/internal/registry/models"
	"enrolld/internal/sentinel"
	"enrolld/pkg/domain"
)

const snapshotVersion = 1

// Snapshot is a durable subject store backed by a single JSON file.
// Every mutation rewrites the whole snapshot through a temp file and an
// atomic rename, so the file on disk is always a complete, parseable
// image of the registry.
type Snapshot struct {
	mu       sync.RWMutex
	path     string
	subjects map[domain.SubjectID]*models.Subject
	metrics  *metrics.Metrics
}

// SnapshotOption configures the snapshot store.
type SnapshotOption func(s *Snapshot)

// WithSnapshotMetrics records persist durations and failures.
func WithSnapshotMetrics(m *metrics.Metrics) SnapshotOption {
	return func(s *Snapshot) {
		s.metrics = m
	}
}

// snapshotFile is the on-disk envelope. Unlike the API representation,
// it carries the credential token: the snapshot is the system of record
// and must round-trip the reference sample.
type snapshotFile struct {
	Version  int              `json:"version"`
	Subjects []snapshotRecord `json:"subjects"`
}

type snapshotRecord struct {
	ID           domain.SubjectID `json:"id"`
	DisplayName  string           `json:"display_name"`
	ContactInfo  string           `json:"contact_info,omitempty"`
	NationalID   string           `json:"national_id,omitempty"`
	PhotoRef     string           `json:"photo_ref,omitempty"`
	Credential   string           `json:"credential"`
	Verified     bool             `json:"verified"`
	RegisteredAt time.Time        `json:"registered_at"`
	VerifiedAt   *time.Time       `json:"verified_at,omitempty"`
}

// NewSnapshot opens the snapshot at path, loading existing records. A
// missing file starts an empty registry; an unreadable or malformed
// file is a hard error wrapping sentinel.ErrCorrupt so startup can
// refuse to run against damaged state.
func NewSnapshot(path string, opts ...SnapshotOption) (*Snapshot, error) {
	s := &Snapshot{
		path:     path,
		subjects: make(map[domain.SubjectID]*models.Subject),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse snapshot %s: %v: %w", s.path, err, sentinel.ErrCorrupt)
	}
	if file.Version != snapshotVersion {
		return fmt.Errorf("snapshot %s has unsupported version %d: %w", s.path, file.Version, sentinel.ErrCorrupt)
	}

	for _, rec := range file.Subjects {
		if rec.ID == "" {
			return fmt.Errorf("snapshot %s contains a record without an id: %w", s.path, sentinel.ErrCorrupt)
		}
		if _, exists := s.subjects[rec.ID]; exists {
			return fmt.Errorf("snapshot %s contains duplicate id %q: %w", s.path, rec.ID, sentinel.ErrCorrupt)
		}
		s.subjects[rec.ID] = &models.Subject{
			ID:           rec.ID,
			DisplayName:  rec.DisplayName,
			ContactInfo:  rec.ContactInfo,
			NationalID:   rec.NationalID,
			PhotoRef:     rec.PhotoRef,
			Credential:   domain.CredentialToken(rec.Credential),
			Verified:     rec.Verified,
			RegisteredAt: rec.RegisteredAt,
			VerifiedAt:   rec.VerifiedAt,
		}
	}
	return nil
}

// persist writes the full registry image. Callers must hold the write lock.
func (s *Snapshot) persist() error {
	start := time.Now()
	err := s.persistLocked()
	if s.metrics != nil {
		s.metrics.SnapshotPersist.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.StoreErrors.WithLabelValues("persist").Inc()
		}
	}
	return err
}

func (s *Snapshot) persistLocked() error {
	file := snapshotFile{Version: snapshotVersion}
	for _, subject := range s.subjects {
		file.Subjects = append(file.Subjects, snapshotRecord{
			ID:           subject.ID,
			DisplayName:  subject.DisplayName,
			ContactInfo:  subject.ContactInfo,
			NationalID:   subject.NationalID,
			PhotoRef:     subject.PhotoRef,
			Credential:   string(subject.Credential),
			Verified:     subject.Verified,
			RegisteredAt: subject.RegisteredAt,
			VerifiedAt:   subject.VerifiedAt,
		})
	}
	sort.Slice(file.Subjects, func(i, j int) bool {
		if file.Subjects[i].RegisteredAt.Equal(file.Subjects[j].RegisteredAt) {
			return file.Subjects[i].ID < file.Subjects[j].ID
		}
		return file.Subjects[i].RegisteredAt.Before(file.Subjects[j].RegisteredAt)
	})

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".enrolld-snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %v: %w", err, sentinel.ErrUnavailable)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot temp file: %v: %w", err, sentinel.ErrUnavailable)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync snapshot temp file: %v: %w", err, sentinel.ErrUnavailable)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot temp file: %v: %w", err, sentinel.ErrUnavailable)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %v: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}

// Create inserts the subject if its identifier is free, then persists
// the new image. On persist failure the in-memory record is kept so
// reads stay consistent with what the caller was told was accepted; the
// returned error wraps sentinel.ErrUnavailable to flag lost durability.
func (s *Snapshot) Create(_ context.Context, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("subject is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subjects[subject.ID]; exists {
		return fmt.Errorf("subject id %q already registered: %w", subject.ID, ErrDuplicate)
	}
	s.subjects[subject.ID] = subject.Clone()
	return s.persist()
}

// FindByID returns a copy of the record for the identifier.
func (s *Snapshot) FindByID(_ context.Context, id domain.SubjectID) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if subject, ok := s.subjects[id]; ok {
		return subject.Clone(), nil
	}
	return nil, ErrNotFound
}

// MarkVerified flips the record to verified and persists the new image.
func (s *Snapshot) MarkVerified(_ context.Context, id domain.SubjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject, ok := s.subjects[id]
	if !ok {
		return ErrNotFound
	}
	if subject.Verified {
		return ErrAlreadyVerified
	}
	if err := subject.MarkVerified(at); err != nil {
		return err
	}
	return s.persist()
}

// List returns copies of all records ordered by registration time.
func (s *Snapshot) List(_ context.Context) ([]*models.Subject, error) {
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
func (s *Snapshot) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subjects), nil
}
