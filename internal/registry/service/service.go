// Package service implements registration and verification over the
// subject store.
//
//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks SubjectStore
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"enrolld/internal/alert"
	"enrolld/internal/platform/metrics"
	"enrolld/internal/registry/models"
	"enrolld/internal/registry/tracer"
	"enrolld/internal/sentinel"
	"enrolld/pkg/domain"
	dErrors "enrolld/pkg/domain-errors"
	"enrolld/pkg/requestcontext"
)

// SubjectStore is the persistence contract the service depends on.
type SubjectStore interface {
	Create(ctx context.Context, subject *models.Subject) error
	FindByID(ctx context.Context, id domain.SubjectID) (*models.Subject, error)
	MarkVerified(ctx context.Context, id domain.SubjectID, at time.Time) error
	List(ctx context.Context) ([]*models.Subject, error)
	Count(ctx context.Context) (int, error)
}

// Service orchestrates subject registration and verification.
type Service struct {
	store   SubjectStore
	logger  *slog.Logger
	alerts  alert.Notifier
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// Option configures the Service.
type Option func(s *Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAlerts sets the operator alert sink.
func WithAlerts(notifier alert.Notifier) Option {
	return func(s *Service) {
		s.alerts = notifier
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for span emission.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates a registry service over the given store.
func New(store SubjectStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		alerts: alert.Discard,
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput carries the enrollment request. ID and Credential are
// required; the profile fields are optional metadata.
type RegisterInput struct {
	ID          string
	DisplayName string
	ContactInfo string
	NationalID  string
	PhotoRef    string
	Credential  domain.CredentialToken
}

// Register enrolls a new subject. The identifier must be unused; a
// taken identifier is a conflict and leaves the existing record intact.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Subject, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegister)
	var err error
	defer func() { span.End(err) }()

	id, err := domain.ParseSubjectID(in.ID)
	if err != nil {
		s.incRejected("invalid_id")
		return nil, err
	}
	span.SetAttributes(tracer.String(tracer.AttrSubjectID, id.String()))

	now := requestcontext.Now(ctx)
	subject, err := models.NewSubject(id, strings.TrimSpace(in.DisplayName), in.Credential, now)
	if err != nil {
		s.incRejected("invalid_profile")
		return nil, err
	}
	subject.ContactInfo = strings.TrimSpace(in.ContactInfo)
	subject.NationalID = strings.TrimSpace(in.NationalID)
	subject.PhotoRef = strings.TrimSpace(in.PhotoRef)

	if err = s.store.Create(ctx, subject); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrDuplicate):
			s.incRejected("duplicate_id")
			err = dErrors.New(dErrors.CodeConflict, "subject identifier already registered")
		case errors.Is(err, sentinel.ErrUnavailable):
			s.incStoreError("create")
			err = dErrors.Wrap(err, dErrors.CodeStorageFailure, "failed to persist registration")
		default:
			s.incStoreError("create")
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to register subject")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SubjectsRegistered.Inc()
	}
	s.log().Info("subject registered",
		"subject_id", subject.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, span, alert.KindRegistrationSucceeded, subject)

	return subject, nil
}

// Verify runs a verification attempt against the stored record and
// classifies it into exactly one outcome. The checks are ordered:
// existence first, then verification state, then credential equality.
// Only a successful match mutates the record, and it does so at most
// once for the lifetime of the subject.
func (s *Service) Verify(ctx context.Context, rawID string, credential domain.CredentialToken) (*models.VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify)
	var err error
	defer func() { span.End(err) }()

	id, err := domain.ParseSubjectID(rawID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.String(tracer.AttrSubjectID, id.String()))

	subject, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = nil
			return s.concludeUnknown(ctx, span, id), nil
		}
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
		return nil, err
	}

	if subject.Verified {
		return s.conclude(ctx, span, models.OutcomeAlreadyVerified, subject, alert.KindRepeatVerification), nil
	}

	if !subject.Credential.Equal(credential) {
		return s.conclude(ctx, span, models.OutcomeCredentialMismatch, subject, alert.KindMismatchAttempt), nil
	}

	now := requestcontext.Now(ctx)
	if err = s.store.MarkVerified(ctx, id, now); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyVerified):
			// Lost a race with a concurrent attempt; the record is
			// verified either way.
			err = nil
			if reread, rerr := s.store.FindByID(ctx, id); rerr == nil {
				subject = reread
			}
			return s.conclude(ctx, span, models.OutcomeAlreadyVerified, subject, alert.KindRepeatVerification), nil
		case errors.Is(err, sentinel.ErrNotFound):
			err = nil
			return s.concludeUnknown(ctx, span, id), nil
		case errors.Is(err, sentinel.ErrUnavailable):
			s.incStoreError("mark_verified")
			err = dErrors.Wrap(err, dErrors.CodeStorageFailure, "failed to persist verification")
		default:
			s.incStoreError("mark_verified")
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark subject verified")
		}
		return nil, err
	}

	if merr := subject.MarkVerified(now); merr != nil {
		// Store accepted the transition; keep its view authoritative.
		if reread, rerr := s.store.FindByID(ctx, id); rerr == nil {
			subject = reread
		}
	}
	// The success path is the one outcome that is not an anomaly, so it
	// emits no operator alert.
	return s.conclude(ctx, span, models.OutcomeVerified, subject, ""), nil
}

// Get returns the record for the identifier.
func (s *Service) Get(ctx context.Context, rawID string) (*models.Subject, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGet)
	var err error
	defer func() { span.End(err) }()

	id, err := domain.ParseSubjectID(rawID)
	if err != nil {
		return nil, err
	}

	subject, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = dErrors.New(dErrors.CodeNotFound, "subject not found")
			return nil, err
		}
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
		return nil, err
	}
	return subject, nil
}

// List returns all registered subjects ordered by registration time.
func (s *Service) List(ctx context.Context) ([]*models.Subject, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanList)
	var err error
	defer func() { span.End(err) }()

	subjects, err := s.store.List(ctx)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list subjects")
		return nil, err
	}
	span.SetAttributes(tracer.Int64(tracer.AttrCount, int64(len(subjects))))
	return subjects, nil
}

// Count returns the number of registered subjects.
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count subjects")
	}
	return count, nil
}

func (s *Service) conclude(ctx context.Context, span tracer.Span, outcome models.VerificationOutcome, subject *models.Subject, kind alert.Kind) *models.VerificationResult {
	span.SetAttributes(tracer.String(tracer.AttrOutcome, string(outcome)))
	s.metrics.IncVerification(string(outcome))
	s.log().Info("verification attempt",
		"subject_id", subject.ID,
		"outcome", outcome,
		"request_id", requestcontext.RequestID(ctx),
	)
	if kind != "" {
		s.emit(ctx, span, kind, subject)
	}
	return &models.VerificationResult{Outcome: outcome, Subject: subject}
}

func (s *Service) concludeUnknown(ctx context.Context, span tracer.Span, id domain.SubjectID) *models.VerificationResult {
	span.SetAttributes(tracer.String(tracer.AttrOutcome, string(models.OutcomeUnknownSubject)))
	s.metrics.IncVerification(string(models.OutcomeUnknownSubject))
	s.log().Warn("verification attempt for unknown subject",
		"subject_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)

	event := alert.NewEvent(alert.KindUnregisteredAttempt, id, requestcontext.Now(ctx))
	event.RequestID = requestcontext.RequestID(ctx)
	event.Device = requestcontext.Device(ctx)
	s.alerts.Notify(ctx, event)
	s.metrics.IncAlert(string(alert.KindUnregisteredAttempt))
	span.AddEvent(tracer.EventAlertEmitted, tracer.String("kind", string(alert.KindUnregisteredAttempt)))

	return &models.VerificationResult{Outcome: models.OutcomeUnknownSubject}
}

// emit sends an operator alert enriched with the subject snapshot and
// request metadata. Alerting never fails the calling operation.
func (s *Service) emit(ctx context.Context, span tracer.Span, kind alert.Kind, subject *models.Subject) {
	event := alert.NewEvent(kind, subject.ID, requestcontext.Now(ctx))
	event.DisplayName = subject.DisplayName
	if kind == alert.KindRepeatVerification {
		// Repeat attempts report when the subject was originally enrolled.
		registeredAt := subject.RegisteredAt
		event.RegisteredAt = &registeredAt
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Device = requestcontext.Device(ctx)

	s.alerts.Notify(ctx, event)
	s.metrics.IncAlert(string(kind))
	span.AddEvent(tracer.EventAlertEmitted, tracer.String("kind", string(kind)))
}

func (s *Service) incRejected(reason string) {
	if s.metrics != nil {
		s.metrics.RegistrationsRejected.WithLabelValues(reason).Inc()
	}
}

func (s *Service) incStoreError(operation string) {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}

func (s *Service) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}
