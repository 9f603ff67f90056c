package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{
			name:     "normal request",
			target:   "/api/fetch?url=https://example.com",
			wantCode: http.StatusOK,
		},
		{
			name:     "path at limit",
			target:   "/" + strings.Repeat("a", maxPathLength-1),
			wantCode: http.StatusOK,
		},
		{
			name:     "path too long",
			target:   "/" + strings.Repeat("a", maxPathLength),
			wantCode: http.StatusRequestURITooLong,
			wantBody: `{"error":"URI too long"}`,
		},
		{
			name:     "query too long",
			target:   "/api/fetch?url=https://example.com/" + strings.Repeat("q", maxQueryLength),
			wantCode: http.StatusRequestURITooLong,
			wantBody: `{"error":"query string too long"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantBody != "" && strings.TrimSpace(rec.Body.String()) != tt.wantBody {
				t.Errorf("expected body %s, got %s", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestInputValidation_BodySizeLimit(t *testing.T) {
	var readErr error
	handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	body := strings.NewReader(strings.Repeat("x", MaxRequestBody+1))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/fetch", body))

	if readErr == nil {
		t.Fatal("expected error reading oversized body")
	}
	var maxErr *http.MaxBytesError
	if !errors.As(readErr, &maxErr) {
		t.Errorf("expected MaxBytesError, got %T", readErr)
	}
}

func TestInputValidation_NormalBody(t *testing.T) {
	var got string
	handler := InputValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
	}))

	payload := `{"url":"https://example.com","textOnly":true}`
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/fetch", strings.NewReader(payload)))

	if got != payload {
		t.Errorf("expected body %q, got %q", payload, got)
	}
}
