package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "enrolld/pkg/domain-errors"
)

// Normalizable request types canonicalize their fields before validation,
// typically trimming whitespace.
type Normalizable interface {
	Normalize()
}

// Validatable request types reject structurally invalid input before the
// service layer sees it.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes a JSON body into T, then runs Normalize and
// Validate when T implements them. On any failure it writes the error
// response itself and returns ok=false, so handlers just bail out:
//
//	req, ok := httputil.DecodeAndPrepare[RegisterSubjectRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if n, ok := any(&req).(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "invalid request",
				"error", err,
				"request_id", requestID,
			)
			var domainErr *dErrors.Error
			if errors.As(err, &domainErr) {
				WriteError(w, err)
			} else {
				WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
			}
			return nil, false
		}
	}

	return &req, true
}
