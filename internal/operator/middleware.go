package operator

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	dErrors "enrolld/pkg/domain-errors"
	"enrolld/pkg/platform/httputil"
)

type contextKey struct{}

var claimsKey contextKey

// ClaimsFromContext returns the operator claims set by Authenticate, or
// nil when the request was authorized via the shared admin token.
func ClaimsFromContext(ctx context.Context) *TokenClaims {
	claims, _ := ctx.Value(claimsKey).(*TokenClaims)
	return claims
}

// Authenticate authorizes operator requests. A bearer token is
// validated against the token service; the shared X-Admin-Token header
// is accepted as a fallback so small deployments can skip token
// issuance entirely.
func Authenticate(tokens *TokenService, adminToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); auth != "" {
				raw, ok := strings.CutPrefix(auth, "Bearer ")
				if !ok {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "malformed authorization header"))
					return
				}
				claims, err := tokens.Validate(raw)
				if err != nil {
					logger.Warn("operator token rejected", "error", err, "path", r.URL.Path)
					httputil.WriteError(w, err)
					return
				}
				ctx := context.WithValue(r.Context(), claimsKey, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			provided := r.Header.Get("X-Admin-Token")
			if adminToken == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "operator credentials required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
