// Package device derives a human-readable device summary from the User-Agent
// so anomaly alerts can tell the operator what kind of client submitted a
// verification attempt. It should be registered after the metadata middleware
// (which extracts the raw User-Agent).
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"enrolld/pkg/requestcontext"
)

// Middleware parses the User-Agent already present in the context and injects
// a "Browser on OS" summary for alert enrichment.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ua := requestcontext.UserAgent(ctx); ua != "" {
			ctx = requestcontext.WithDevice(ctx, Summarize(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Summarize extracts a display name from a User-Agent string.
// Returns format: "Browser on OS" (e.g., "Chrome on Android", "Safari on iOS").
func Summarize(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
