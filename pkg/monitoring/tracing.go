package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name registered with OTel.
const tracerName = "clustersim"

// Tracer is the package-level OTel tracer for the simulator.
// It returns a noop tracer when no TracerProvider is registered,
// making instrumentation zero-cost in the default configuration.
var Tracer = otel.Tracer(tracerName)

// StartTickSpan starts a new span covering one full pipeline pass.
// Callers must call span.End() when the tick completes.
func StartTickSpan(ctx context.Context, tick int64) (context.Context, trace.Span) {
	return Tracer.Start(ctx, "Tick",
		trace.WithAttributes(
			attribute.Int64("clustersim.tick", tick),
		),
	)
}

// StartControllerSpan starts a child span for a single controller's
// reconciliation within a tick.
func StartControllerSpan(ctx context.Context, controller string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, "Reconcile",
		trace.WithAttributes(
			attribute.String("clustersim.controller", controller),
		),
	)
}

// RecordSpanError records an error on a span and sets the span status to Error.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
