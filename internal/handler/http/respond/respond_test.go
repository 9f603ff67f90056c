package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedCode int
		expectedBody string
	}{
		{
			name:         "success with map",
			code:         http.StatusOK,
			data:         map[string]string{"message": "success"},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"success"}`,
		},
		{
			name:         "success with struct",
			code:         http.StatusCreated,
			data:         struct{ ID int }{ID: 123},
			expectedCode: http.StatusCreated,
			expectedBody: `{"ID":123}`,
		},
		{
			name:         "nil body",
			code:         http.StatusNoContent,
			data:         nil,
			expectedCode: http.StatusNoContent,
			expectedBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			if w.Code != tt.expectedCode {
				t.Errorf("Code = %v, want %v", w.Code, tt.expectedCode)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %v, want application/json", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tt.expectedBody {
				t.Errorf("Body = %v, want %v", body, tt.expectedBody)
			}
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusOK {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestMessage(t *testing.T) {
	w := httptest.NewRecorder()
	Message(w, http.StatusBadRequest, "URL is required.")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Code = %v, want 400", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != `{"error":"URL is required."}` {
		t.Errorf("Body = %v", body)
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		err          error
		expectedBody string
	}{
		{
			name:         "client error is returned",
			code:         http.StatusBadRequest,
			err:          errors.New("invalid request body"),
			expectedBody: `{"error":"invalid request body"}`,
		},
		{
			name:         "server error is hidden",
			code:         http.StatusInternalServerError,
			err:          errors.New("dial tcp 10.0.0.1:5432: key=secret"),
			expectedBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			if w.Code != tt.code {
				t.Errorf("Code = %v, want %v", w.Code, tt.code)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tt.expectedBody {
				t.Errorf("Body = %v, want %v", body, tt.expectedBody)
			}
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)

	if w.Body.Len() != 0 {
		t.Errorf("expected no body for nil error, got %q", w.Body.String())
	}
}

func TestRaw(t *testing.T) {
	w := httptest.NewRecorder()
	Raw(w, http.StatusForbidden, "application/json; charset=UTF-8", []byte(`{"error":{"code":403}}`))

	if w.Code != http.StatusForbidden {
		t.Errorf("Code = %v, want 403", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=UTF-8" {
		t.Errorf("Content-Type = %v", ct)
	}
	if w.Body.String() != `{"error":{"code":403}}` {
		t.Errorf("Body = %v", w.Body.String())
	}

	w = httptest.NewRecorder()
	Raw(w, http.StatusOK, "", []byte(`{}`))
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("default Content-Type = %v", ct)
	}
}
