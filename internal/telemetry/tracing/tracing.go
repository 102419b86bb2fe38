package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("fitprogress-backend")

// EndSpanWithErrCheck marks the span as failed when err is set, then ends it.
// Meant to be deferred with a named error return.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordSoftError records an error that was absorbed by the caller,
// leaving the span status untouched.
func RecordSoftError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.AddEvent("soft-failure")
}
