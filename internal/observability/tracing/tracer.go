package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used by every span in the service.
const InstrumentationName = "tweet-takeaways"

var tracer = otel.Tracer(InstrumentationName)

// GetTracer returns the service tracer. It delegates to whichever provider
// is installed globally, so spans created before otel.SetTracerProvider
// are still exported once a provider is set.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "summarize.pipeline")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
