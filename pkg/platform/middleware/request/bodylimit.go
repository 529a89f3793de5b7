// Package request holds middleware that shapes the incoming request
// before handlers run.
package request

import "net/http"

// BodyLimit caps request body size via http.MaxBytesReader. Oversized
// bodies surface as a decode error (413) in the JSON layer, so this must
// sit before any handler that reads the body.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
