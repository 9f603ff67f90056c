// Package respond provides utilities for sending HTTP responses in JSON format.
// Every error body has the shape {"error": message}.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; only logging is possible.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Message writes msg as an error body. msg must already be safe to show to
// the caller.
func Message(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: msg})
}

// Error writes err.Error() as an error body.
func Error(w http.ResponseWriter, code int, err error) {
	Message(w, code, err.Error())
}

// SafeError writes err for 4xx codes and a generic message for 5xx codes,
// logging the sanitized detail of the latter.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	if code < http.StatusInternalServerError {
		Message(w, code, err.Error())
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	Message(w, code, "internal server error")
}

// Raw writes body verbatim with the given status and content type. An empty
// content type defaults to application/json.
func Raw(w http.ResponseWriter, code int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.Default().Debug("failed to write response body", slog.Any("error", err))
	}
}
