package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// SpanManager wraps persistence requests in trace spans.
type SpanManager interface {
	StartSyncSpan(ctx context.Context, method, url string) (context.Context, trace.Span)
	EndSpanWithError(span trace.Span, err error)
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// NoopSpanManager starts non-recording spans and leaves ctx untouched.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

// StartSyncSpan returns ctx unchanged with a non-recording span.
func (NoopSpanManager) StartSyncSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(trace.Span, error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(context.Context, string, ...attribute.KeyValue) {}

var _ SpanManager = spanManager{}

type spanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager using a tracer taken from the
// global OTel provider at the time of the call.
func NewSpanManager() SpanManager {
	return spanManager{tracer: otel.Tracer("recordproxy")}
}

// StartSyncSpan starts a client span named "recordproxy.sync.<method>".
func (m spanManager) StartSyncSpan(ctx context.Context, method, url string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "recordproxy.sync."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("sync.method", method),
			attribute.String("sync.url", url),
		),
	)
}

// EndSpanWithError sets the span status from err and ends it. A nil span
// is ignored.
func (spanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent annotates the recording span in ctx, if there is one.
func (spanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
