package operator

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrolld/internal/alert"
	dErrors "enrolld/pkg/domain-errors"
	"enrolld/pkg/requestcontext"
)

const signingKey = "test-signing-key-at-least-32-bytes!"

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(signingKey, time.Hour)

	token, err := svc.Generate(context.Background(), "op-1", "auditor")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "auditor", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService(signingKey, time.Minute)

	past := time.Now().Add(-time.Hour)
	ctx := requestcontext.WithTime(context.Background(), past)
	token, err := svc.Generate(ctx, "op-1", "")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTokenService_RejectsWrongKey(t *testing.T) {
	token, err := NewTokenService(signingKey, time.Hour).Generate(context.Background(), "op-1", "")
	require.NoError(t, err)

	_, err = NewTokenService("completely-different-signing-key!!", time.Hour).Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTokenService_RejectsEmptyOperator(t *testing.T) {
	_, err := NewTokenService(signingKey, time.Hour).Generate(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func newOperatorRouter(t *testing.T, store alert.Store) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	tokens := NewTokenService(signingKey, time.Hour)
	h := NewHandler(store, logger)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(Authenticate(tokens, "shared-admin-token", logger))
		h.Register(r)
	})
	return r
}

func seedAlerts(t *testing.T, store alert.Store) {
	t.Helper()
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	events := []alert.Event{
		alert.NewEvent(alert.KindRegistrationSucceeded, "alice", base),
		alert.NewEvent(alert.KindUnregisteredAttempt, "ghost", base.Add(time.Minute)),
		alert.NewEvent(alert.KindRepeatVerification, "alice", base.Add(2*time.Minute)),
	}
	for _, event := range events {
		require.NoError(t, store.Append(context.Background(), event))
	}
}

func TestHandleListAlerts(t *testing.T) {
	store := alert.NewInMemoryStore()
	seedAlerts(t, store)
	router := newOperatorRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/admin/alerts", nil)
	req.Header.Set("X-Admin-Token", "shared-admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AlertsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, alert.KindRepeatVerification, resp.Alerts[0].Kind)
}

func TestHandleListAlerts_Limit(t *testing.T) {
	store := alert.NewInMemoryStore()
	seedAlerts(t, store)
	router := newOperatorRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/admin/alerts?limit=1", nil)
	req.Header.Set("X-Admin-Token", "shared-admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AlertsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)

	req = httptest.NewRequest(http.MethodGet, "/admin/alerts?limit=bogus", nil)
	req.Header.Set("X-Admin-Token", "shared-admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListSubjectAlerts(t *testing.T) {
	store := alert.NewInMemoryStore()
	seedAlerts(t, store)
	router := newOperatorRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/admin/subjects/alice/alerts", nil)
	req.Header.Set("X-Admin-Token", "shared-admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AlertsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, alert.KindRegistrationSucceeded, resp.Alerts[0].Kind)
}

func TestAuthenticate(t *testing.T) {
	store := alert.NewInMemoryStore()
	router := newOperatorRouter(t, store)
	tokens := NewTokenService(signingKey, time.Hour)

	t.Run("no credentials rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/alerts", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong admin token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/alerts", nil)
		req.Header.Set("X-Admin-Token", "wrong")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		token, err := tokens.Generate(context.Background(), "op-1", "auditor")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/alerts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed bearer rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/alerts", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage bearer rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/alerts", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
