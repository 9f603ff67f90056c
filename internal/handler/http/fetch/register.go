package fetch

import (
	"net/http"
)

// Register mounts the fetch endpoints on mux. limit, when non-nil, wraps
// both routes (the per-IP rate limiter in production).
func Register(mux *http.ServeMux, svc Service, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}
	mux.Handle("GET  /api/fetch", limit(GetHandler{Svc: svc}))
	mux.Handle("POST /api/fetch", limit(PostHandler{Svc: svc}))
}
