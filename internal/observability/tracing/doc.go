// Package tracing wires OpenTelemetry spans into the HTTP edge and the fetch
// pipeline.
//
// Example usage:
//
//	shutdown := tracing.Init()
//	defer shutdown(context.Background())
//
//	handler := tracing.Middleware(mux)
package tracing
