package fetch

import (
	"encoding/json"
	"errors"
	"net/http"

	"safefetch/internal/handler/http/respond"
	fetchuc "safefetch/internal/usecase/fetch"
)

// GetHandler serves GET /api/fetch.
type GetHandler struct{ Svc Service }

// ServeHTTP fetches a page through the proxy.
// @Summary      Fetch a web page
// @Description  Validates the URL against the outbound network policy, fetches it once and returns the reduced content
// @Tags         fetch
// @Produce      json
// @Param        url                query string true  "Absolute http(s) URL"
// @Param        textOnly           query bool   false "Return visible text instead of cleaned HTML"
// @Param        extractMainContent query bool   false "Also return the main content region"
// @Param        format             query string false "html (default) or markdown"
// @Success      200 {object} entity.FetchResult
// @Failure      400 {object} respond.ErrorBody "URL rejected by validation"
// @Failure      429 {object} respond.ErrorBody "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorBody "Transport or processing failure"
// @Router       /api/fetch [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	textOnly, err := parseFlag("textOnly", q.Get("textOnly"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	mainContent, err := parseFlag("extractMainContent", q.Get("extractMainContent"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	req, err := RequestDTO{
		URL:                q.Get("url"),
		TextOnly:           textOnly,
		ExtractMainContent: mainContent,
		Format:             q.Get("format"),
	}.toRequest()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	serve(w, r, h.Svc, req)
}

// PostHandler serves POST /api/fetch with a JSON body.
type PostHandler struct{ Svc Service }

// ServeHTTP fetches a page through the proxy.
// @Summary      Fetch a web page (JSON body)
// @Tags         fetch
// @Accept       json
// @Produce      json
// @Param        request body RequestDTO true "Fetch request"
// @Success      200 {object} entity.FetchResult
// @Failure      400 {object} respond.ErrorBody "Malformed body or URL rejected by validation"
// @Failure      429 {object} respond.ErrorBody "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorBody "Transport or processing failure"
// @Router       /api/fetch [post]
func (h PostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var dto RequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Message(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := dto.toRequest()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}

	serve(w, r, h.Svc, req)
}

// serve runs the use case. Upstream non-2xx statuses are mirrored.
func serve(w http.ResponseWriter, r *http.Request, svc Service, req fetchuc.Request) {
	result, err := svc.HandleFetch(r.Context(), req)
	if err != nil {
		if f, ok := fetchuc.AsFailure(err); ok {
			respond.Message(w, f.StatusCode, f.Message)
			return
		}
		respond.Message(w, http.StatusInternalServerError, "An error occurred: "+err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, result)
}
