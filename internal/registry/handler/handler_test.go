package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"enrolld/internal/platform/middleware"
	"enrolld/internal/registry/service"
	"enrolld/internal/registry/store"
)

const adminToken = "secret-token"

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	svc := service.New(store.NewInMemory())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	h.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(adminToken, logger))
		h.RegisterAdmin(r)
	})
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) registerSubject(id string) {
	body := fmt.Sprintf(`{"id":%q,"display_name":"Subject %s","credential":"cred-%s"}`, id, id, id)
	rec := s.do(http.MethodPost, "/subjects", body, nil)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestRegisterSubject() {
	rec := s.do(http.MethodPost, "/subjects",
		`{"id":"REG-001","display_name":"Alice Example","contact_info":"alice@example.com","credential":"sample-1"}`, nil)
	s.Equal(http.StatusCreated, rec.Code)

	var resp SubjectResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("REG-001", resp.ID)
	s.Equal("Alice Example", resp.DisplayName)
	s.False(resp.Verified)

	// The credential never appears in the payload.
	s.NotContains(rec.Body.String(), "sample-1")
	s.NotContains(rec.Body.String(), "credential")
}

func (s *HandlerSuite) TestRegisterSubject_DuplicateIsConflict() {
	s.registerSubject("REG-001")

	rec := s.do(http.MethodPost, "/subjects",
		`{"id":"REG-001","display_name":"Impostor","credential":"other"}`, nil)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestRegisterSubject_MissingFields() {
	cases := []struct {
		name string
		body string
	}{
		{"empty id", `{"id":"","display_name":"X","credential":"c"}`},
		{"blank id", `{"id":"   ","display_name":"X","credential":"c"}`},
		{"missing display name", `{"id":"REG-001","credential":"c"}`},
		{"missing credential", `{"id":"REG-001","display_name":"X"}`},
		{"malformed json", `{not json`},
	}
	for _, tc := range cases {
		rec := s.do(http.MethodPost, "/subjects", tc.body, nil)
		s.Equal(http.StatusBadRequest, rec.Code, tc.name)
	}
}

func (s *HandlerSuite) TestGetSubject() {
	s.registerSubject("REG-001")

	rec := s.do(http.MethodGet, "/subjects/REG-001", "", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/subjects/ghost", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestVerifySubject_Outcomes() {
	s.registerSubject("REG-001")

	// Mismatch first: still a 200, outcome classified.
	rec := s.do(http.MethodPost, "/subjects/REG-001/verify", `{"credential":"wrong"}`, nil)
	s.Equal(http.StatusOK, rec.Code)
	var resp VerifyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("credential_mismatch", resp.Outcome)

	// Matching credential verifies.
	rec = s.do(http.MethodPost, "/subjects/REG-001/verify", `{"credential":"cred-REG-001"}`, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("verified", resp.Outcome)
	s.Require().NotNil(resp.Subject)
	s.True(resp.Subject.Verified)

	// Second attempt reports already verified, even with a mismatch.
	rec = s.do(http.MethodPost, "/subjects/REG-001/verify", `{"credential":"wrong"}`, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("already_verified", resp.Outcome)
}

func (s *HandlerSuite) TestVerifySubject_UnknownIs404() {
	rec := s.do(http.MethodPost, "/subjects/ghost/verify", `{"credential":"anything"}`, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	var resp VerifyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("unknown_subject", resp.Outcome)
	s.Nil(resp.Subject)
}

func (s *HandlerSuite) TestVerifySubject_MissingCredential() {
	s.registerSubject("REG-001")

	rec := s.do(http.MethodPost, "/subjects/REG-001/verify", `{}`, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// TestAdminTokenRequired verifies middleware wiring - admin endpoints
// reject requests without a valid admin token. Kept here to catch
// wiring regressions in isolation without spinning up the full server.
func (s *HandlerSuite) TestAdminTokenRequired() {
	rec := s.do(http.MethodGet, "/admin/subjects", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code, "expected 401 when admin token missing")
}

func (s *HandlerSuite) TestListSubjects() {
	s.registerSubject("REG-001")
	s.registerSubject("REG-002")

	rec := s.do(http.MethodGet, "/admin/subjects", "", map[string]string{"X-Admin-Token": adminToken})
	s.Equal(http.StatusOK, rec.Code)

	var resp ListSubjectsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Count)
	s.Len(resp.Subjects, 2)
}
