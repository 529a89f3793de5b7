package device

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"enrolld/pkg/requestcontext"
)

const chromeAndroidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"

func TestSummarize(t *testing.T) {
	t.Run("mobile user agent includes platform", func(t *testing.T) {
		got := Summarize(chromeAndroidUA)
		assert.Contains(t, got, "Chrome")
		assert.Contains(t, got, " on ")
	})

	t.Run("empty user agent", func(t *testing.T) {
		assert.Equal(t, "Unknown Device", Summarize(""))
	})

	t.Run("garbage user agent still produces a summary", func(t *testing.T) {
		got := Summarize("definitely-not-a-browser/1.0")
		assert.NotEmpty(t, got)
	})
}

func TestMiddleware_InjectsDeviceSummary(t *testing.T) {
	var captured string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = requestcontext.Device(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestcontext.WithUserAgent(req.Context(), chromeAndroidUA))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, captured, "Chrome")
}
