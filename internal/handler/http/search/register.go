package search

import (
	"net/http"
)

// Register mounts GET /api/search on mux, wrapped by limit when non-nil.
func Register(mux *http.ServeMux, svc Service, limit func(http.Handler) http.Handler) {
	h := http.Handler(Handler{Svc: svc})
	if limit != nil {
		h = limit(h)
	}
	mux.Handle("GET /api/search", h)
}
