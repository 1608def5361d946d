package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordInsert does nothing.
func (NoopMetrics) RecordInsert(_ context.Context, _ string, _ error) {}

// RecordRead does nothing.
func (NoopMetrics) RecordRead(_ context.Context, _ string, _ bool) {}

// RecordWrite does nothing.
func (NoopMetrics) RecordWrite(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordStructuredUpdate does nothing.
func (NoopMetrics) RecordStructuredUpdate(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordSnapshot does nothing.
func (NoopMetrics) RecordSnapshot(_ context.Context, _ string, _ int64) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing.
// We use the OTel noop package for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartSessionSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartSessionSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartUpdateSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartUpdateSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
