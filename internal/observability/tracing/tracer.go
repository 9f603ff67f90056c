package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span this module creates.
const TracerName = "safefetch"

// GetTracer returns a tracer from the currently installed global provider.
// Before Init it yields no-op spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "fetch.validate")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Init installs an SDK tracer provider and the W3C trace-context propagator
// globally. Spans get real trace ids for log correlation; they are exported
// only through the span processors passed in opts. The returned function
// flushes and shuts the provider down.
func Init(opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}
