package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the typedctx tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("typedctx")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSessionSpan starts a span for a registry session.
	// Returns the context with span and the span itself.
	StartSessionSpan(ctx context.Context, registryName, sessionID string) (context.Context, trace.Span)

	// StartUpdateSpan starts a span for a write or structured update on a key.
	// The update span should be a child of the session span.
	StartUpdateSpan(ctx context.Context, key string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartSessionSpan starts a span for a registry session.
func (m *otelSpanManager) StartSessionSpan(ctx context.Context, registryName, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "typedctx.session",
		trace.WithAttributes(
			attribute.String("registry.name", registryName),
			attribute.String("session.id", sessionID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartUpdateSpan starts a span for an update on a key.
func (m *otelSpanManager) StartUpdateSpan(ctx context.Context, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "typedctx.update."+key,
		trace.WithAttributes(
			attribute.String("entry.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartSessionSpan starts a span for a registry session.
// Uses the global OTel tracer.
func StartSessionSpan(ctx context.Context, registryName, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "typedctx.session",
		trace.WithAttributes(
			attribute.String("registry.name", registryName),
			attribute.String("session.id", sessionID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartUpdateSpan starts a span for an update on a key.
// Uses the global OTel tracer.
func StartUpdateSpan(ctx context.Context, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "typedctx.update."+key,
		trace.WithAttributes(
			attribute.String("entry.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
