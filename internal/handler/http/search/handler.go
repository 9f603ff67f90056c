// Package search exposes the web search pass-through over HTTP.
package search

import (
	"context"
	"errors"
	"net/http"

	"safefetch/internal/handler/http/respond"
	searchuc "safefetch/internal/usecase/search"
)

// Service is the search use case as seen by the handler.
type Service interface {
	Search(ctx context.Context, query string) (*searchuc.Result, error)
}

// Handler serves GET /api/search.
type Handler struct{ Svc Service }

// ServeHTTP forwards the query to the upstream search API.
// @Summary      Web search
// @Description  Passes the query to the configured search API and returns its JSON response and status unchanged
// @Tags         search
// @Produce      json
// @Param        q query string true "Search terms"
// @Success      200 {object} object "Upstream search response"
// @Failure      400 {object} respond.ErrorBody "Blank query"
// @Failure      429 {object} respond.ErrorBody "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorBody "Search is not configured or the upstream call failed"
// @Failure      503 {object} respond.ErrorBody "Upstream temporarily unavailable"
// @Router       /api/search [get]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		switch {
		case errors.Is(err, searchuc.ErrQueryRequired):
			respond.Error(w, http.StatusBadRequest, err)
		case errors.Is(err, searchuc.ErrNotConfigured):
			respond.Error(w, http.StatusInternalServerError, err)
		case errors.Is(err, searchuc.ErrUnavailable):
			respond.Error(w, http.StatusServiceUnavailable, err)
		default:
			respond.Message(w, http.StatusInternalServerError, "Failed to perform search: "+respond.SanitizeError(err))
		}
		return
	}

	respond.Raw(w, res.StatusCode, res.ContentType, res.Body)
}
