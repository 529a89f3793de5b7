package operator

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"enrolld/internal/alert"
	"enrolld/pkg/domain"
	dErrors "enrolld/pkg/domain-errors"
	"enrolld/pkg/platform/httputil"
	"enrolld/pkg/requestcontext"
)

const defaultAlertLimit = 100

// Handler serves the operator alert console.
type Handler struct {
	alerts alert.Store
	logger *slog.Logger
}

// NewHandler creates an operator handler over the alert history store.
func NewHandler(alerts alert.Store, logger *slog.Logger) *Handler {
	return &Handler{alerts: alerts, logger: logger}
}

// Register mounts operator routes; callers wrap them in Authenticate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/alerts", h.HandleListAlerts)
	r.Get("/admin/subjects/{id}/alerts", h.HandleListSubjectAlerts)
}

// AlertsResponse is the alert history payload.
type AlertsResponse struct {
	Alerts []alert.Event `json:"alerts"`
	Count  int           `json:"count"`
}

// HandleListAlerts returns recent alerts, newest first. An optional
// limit query parameter bounds the page size.
func (h *Handler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	limit := defaultAlertLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	events, err := h.alerts.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list alerts failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list alerts"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &AlertsResponse{Alerts: events, Count: len(events)})
}

// HandleListSubjectAlerts returns the alert history for one subject in
// emission order.
func (h *Handler) HandleListSubjectAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := domain.ParseSubjectID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.alerts.ListBySubject(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "list subject alerts failed", "error", err, "request_id", requestID, "subject_id", id)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list alerts"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &AlertsResponse{Alerts: events, Count: len(events)})
}
