package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"safefetch/internal/handler/http/respond"
)

// Timeout bounds the whole request, answering 504 {"error":"request timeout"}
// if the handler has not written a response by then. The handler's context
// is canceled at the deadline. A mutex ensures that only one of the handler
// and the timeout path writes the response.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			done := make(chan struct{})
			panicked := make(chan any, 1)
			tw := &timeoutResponseWriter{w: w, h: make(http.Header)}

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
			case p := <-panicked:
				// Re-raise on the serving goroutine so Recover sees it.
				panic(p)
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if !tw.written {
					respond.Message(w, http.StatusGatewayTimeout, "request timeout")
				}
			}
		})
	}
}

// timeoutResponseWriter buffers headers in its own map and drops writes once
// the timeout response has been sent. The handler goroutine never touches the
// underlying writer's header map.
type timeoutResponseWriter struct {
	w        http.ResponseWriter
	h        http.Header
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (w *timeoutResponseWriter) Header() http.Header {
	return w.h
}

func (w *timeoutResponseWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.timedOut && !w.written {
		w.writeHeaderLocked(statusCode)
	}
}

func (w *timeoutResponseWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !w.written {
		w.writeHeaderLocked(http.StatusOK)
	}
	return w.w.Write(data)
}

func (w *timeoutResponseWriter) writeHeaderLocked(statusCode int) {
	dst := w.w.Header()
	for k, v := range w.h {
		dst[k] = v
	}
	w.written = true
	w.w.WriteHeader(statusCode)
}
