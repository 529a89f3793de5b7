package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"enrolld/internal/registry/models"
	"enrolld/internal/registry/service"
	"enrolld/pkg/domain"
	"enrolld/pkg/platform/httputil"
	"enrolld/pkg/requestcontext"
)

// Service defines the interface for registry operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.Subject, error)
	Verify(ctx context.Context, rawID string, credential domain.CredentialToken) (*models.VerificationResult, error)
	Get(ctx context.Context, rawID string) (*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts public registry routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subjects", h.HandleRegisterSubject)
	r.Get("/subjects/{id}", h.HandleGetSubject)
	r.Post("/subjects/{id}/verify", h.HandleVerifySubject)
}

// RegisterAdmin mounts operator routes; callers wrap them in admin auth.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/subjects", h.HandleListSubjects)
}

// HandleRegisterSubject enrolls a new subject.
func (h *Handler) HandleRegisterSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterSubjectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	subject, err := h.service.Register(ctx, in)
	if err != nil {
		h.logger.ErrorContext(ctx, "register subject failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toSubjectResponse(subject))
}

// HandleGetSubject returns a single subject record.
func (h *Handler) HandleGetSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	subject, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.ErrorContext(ctx, "get subject failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSubjectResponse(subject))
}

// HandleVerifySubject runs a verification attempt. Known subjects get a
// 200 with the classified outcome; an unknown identifier is a 404 so
// probes cannot distinguish a mismatch from a missing record by
// guessing credentials.
func (h *Handler) HandleVerifySubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifySubjectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	credential, err := domain.TokenFromString(req.Credential)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Verify(ctx, chi.URLParam(r, "id"), credential)
	if err != nil {
		h.logger.ErrorContext(ctx, "verify subject failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == models.OutcomeUnknownSubject {
		status = http.StatusNotFound
	}
	httputil.WriteJSON(w, status, toVerifyResponse(result))
}

// HandleListSubjects returns all records for operators.
func (h *Handler) HandleListSubjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	subjects, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list subjects failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	resp := &ListSubjectsResponse{
		Subjects: make([]*SubjectResponse, 0, len(subjects)),
		Count:    len(subjects),
	}
	for _, subject := range subjects {
		resp.Subjects = append(resp.Subjects, toSubjectResponse(subject))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
