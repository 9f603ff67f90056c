package http

import (
	"net/http"

	"safefetch/internal/handler/http/respond"
)

const (
	maxPathLength  = 2048
	maxQueryLength = 8192
	// MaxRequestBody bounds POST /api/fetch bodies, which carry a URL and two flags.
	MaxRequestBody = 64 << 10
)

// InputValidation rejects oversized request lines before any handler runs:
// paths over 2KB and query strings over 8KB answer 414. Bodies are capped at
// MaxRequestBody.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength {
				respond.Message(w, http.StatusRequestURITooLong, "URI too long")
				return
			}
			if len(r.URL.RawQuery) > maxQueryLength {
				respond.Message(w, http.StatusRequestURITooLong, "query string too long")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
			next.ServeHTTP(w, r)
		})
	}
}
