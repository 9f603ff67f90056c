package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"safefetch/internal/domain/entity"
	fetchuc "safefetch/internal/usecase/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	got    fetchuc.Request
	called bool
	result *entity.FetchResult
	err    error
}

func (s *stubService) HandleFetch(_ context.Context, req fetchuc.Request) (*entity.FetchResult, error) {
	s.called = true
	s.got = req
	return s.result, s.err
}

func newMux(svc Service) *http.ServeMux {
	mux := http.NewServeMux()
	Register(mux, svc, nil)
	return mux
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestGetHandler_ParsesQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  fetchuc.Request
	}{
		{
			name:  "defaults",
			query: "url=https://example.com",
			want:  fetchuc.Request{URL: "https://example.com"},
		},
		{
			name:  "all flags",
			query: "url=https://example.com/a&textOnly=true&extractMainContent=1",
			want:  fetchuc.Request{URL: "https://example.com/a", TextOnly: true, ExtractMainContent: true},
		},
		{
			name:  "markdown format",
			query: "url=https://example.com&format=Markdown",
			want:  fetchuc.Request{URL: "https://example.com", Markdown: true},
		},
		{
			name:  "missing url reaches the use case",
			query: "",
			want:  fetchuc.Request{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{result: &entity.FetchResult{StatusCode: 200, Keywords: []string{}}}
			rec := httptest.NewRecorder()
			newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch?"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, svc.got)
		})
	}
}

func TestGetHandler_BadParameters(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"bad textOnly", "url=https://example.com&textOnly=yes", "invalid textOnly: must be true or false"},
		{"bad extractMainContent", "url=https://example.com&extractMainContent=maybe", "invalid extractMainContent: must be true or false"},
		{"bad format", "url=https://example.com&format=pdf", "invalid format: must be html or markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := httptest.NewRecorder()
			newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch?"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			assert.False(t, svc.called)
		})
	}
}

func TestGetHandler_Success(t *testing.T) {
	svc := &stubService{result: &entity.FetchResult{
		URL:         "https://example.com/",
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Title:       "Example",
		Keywords:    []string{},
		Content:     "<p>Hello</p>",
	}}

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch?url=https://example.com", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"url": "https://example.com/",
		"statusCode": 200,
		"contentType": "text/html; charset=utf-8",
		"title": "Example",
		"description": "",
		"keywords": [],
		"content": "<p>Hello</p>",
		"mainContent": ""
	}`, rec.Body.String())
}

func TestHandlers_MapFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "validation",
			err:      &fetchuc.Failure{Kind: fetchuc.KindPolicy, StatusCode: 400, Message: "Access to private/internal networks is not allowed."},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Access to private/internal networks is not allowed.",
		},
		{
			name:     "upstream status mirrored",
			err:      &fetchuc.Failure{Kind: fetchuc.KindUpstream, StatusCode: 404, Message: "Failed to fetch content: NotFound"},
			wantCode: http.StatusNotFound,
			wantMsg:  "Failed to fetch content: NotFound",
		},
		{
			name:     "transport",
			err:      &fetchuc.Failure{Kind: fetchuc.KindTransport, StatusCode: 500, Message: "Failed to fetch content: request timed out"},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Failed to fetch content: request timed out",
		},
		{
			name:     "untyped error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "An error occurred: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, method := range []string{http.MethodGet, http.MethodPost} {
				svc := &stubService{err: tt.err}
				req := httptest.NewRequest(http.MethodGet, "/api/fetch?url=https://example.com", nil)
				if method == http.MethodPost {
					req = httptest.NewRequest(http.MethodPost, "/api/fetch", strings.NewReader(`{"url":"https://example.com"}`))
				}
				rec := httptest.NewRecorder()
				newMux(svc).ServeHTTP(rec, req)

				assert.Equal(t, tt.wantCode, rec.Code, method)
				assert.Equal(t, tt.wantMsg, decodeError(t, rec), method)
			}
		})
	}
}

func TestPostHandler(t *testing.T) {
	svc := &stubService{result: &entity.FetchResult{StatusCode: 200, Keywords: []string{}}}
	body := `{"url":"https://example.com","textOnly":true,"extractMainContent":true,"format":"markdown"}`

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fetch", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fetchuc.Request{URL: "https://example.com", TextOnly: true, ExtractMainContent: true, Markdown: true}, svc.got)
}

func TestPostHandler_BadBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"malformed json", `{"url":`, http.StatusBadRequest, "invalid request body"},
		{"wrong type", `{"url":"https://example.com","textOnly":"yes"}`, http.StatusBadRequest, "invalid request body"},
		{"bad format", `{"url":"https://example.com","format":"pdf"}`, http.StatusBadRequest, "invalid format: must be html or markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := httptest.NewRecorder()
			newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fetch", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			assert.False(t, svc.called)
		})
	}
}

func TestPostHandler_BodyTooLarge(t *testing.T) {
	svc := &stubService{}
	mux := newMux(svc)
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 16)
		mux.ServeHTTP(w, r)
	})

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fetch",
		strings.NewReader(`{"url":"https://example.com/a/very/long/path"}`)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, svc.called)
}

func TestRegister_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(&stubService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/fetch", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRegister_AppliesLimit(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, &stubService{}, func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch?url=https://example.com", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
