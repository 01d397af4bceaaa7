package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTel reports to t when given, otherwise to the global provider under
// the "jotter" instrumentation scope.
func NewOTel(t ...trace.Tracer) *OTelTracer {
	if len(t) > 0 && t[0] != nil {
		return &OTelTracer{tracer: t[0]}
	}
	return &OTelTracer{tracer: otel.Tracer("jotter")}
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, otelSpan{span}
}

type otelSpan struct {
	trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.Span.RecordError(err)
		s.Span.SetStatus(codes.Error, err.Error())
	}
	s.Span.End()
}

var _ Tracer = (*OTelTracer)(nil)
