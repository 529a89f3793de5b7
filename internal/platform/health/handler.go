// Package health exposes liveness and readiness probes for the registry
// service. Readiness aggregates checks registered against the configured
// backends (snapshot file, postgres, redis, kafka).
package health

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"enrolld/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc reports the health of one dependency. Nil means healthy.
type CheckFunc func() error

type namedCheck struct {
	name  string
	check CheckFunc
}

// Handler serves the health endpoints.
type Handler struct {
	started     time.Time
	environment string

	mu     sync.RWMutex
	checks []namedCheck
}

// New creates a health handler with no registered checks.
func New(environment string) *Handler {
	return &Handler{
		started:     time.Now(),
		environment: environment,
	}
}

// RegisterCheck adds a named dependency check to the readiness probe.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, namedCheck{name: name, check: check})
}

// Register mounts the health routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleStatus)
	r.Get("/health/live", h.handleLiveness)
	r.Get("/health/ready", h.handleReadiness)
}

func (h *Handler) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleReadiness runs every registered check and returns 503 when any
// dependency is down, so orchestrators stop routing traffic here.
func (h *Handler) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := make([]namedCheck, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	sort.Slice(checks, func(i, j int) bool { return checks[i].name < checks[j].name })

	resp := readinessResponse{
		Status: "ready",
		Checks: make(map[string]string, len(checks)),
	}
	code := http.StatusOK
	for _, c := range checks {
		if err := c.check(); err != nil {
			resp.Checks[c.name] = "down: " + err.Error()
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.name] = "up"
	}

	httputil.WriteJSON(w, code, resp)
}

type statusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, statusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
