package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInsert records an insert attempt and whether it was rejected.
	RecordInsert(ctx context.Context, key string, err error)

	// RecordRead records a typed read and whether it produced a value.
	RecordRead(ctx context.Context, key string, hit bool)

	// RecordWrite records a write with its duration and error status.
	RecordWrite(ctx context.Context, key string, duration time.Duration, err error)

	// RecordStructuredUpdate records a structured transform with its duration
	// and error status.
	RecordStructuredUpdate(ctx context.Context, key string, duration time.Duration, err error)

	// RecordSnapshot records a snapshot save operation.
	RecordSnapshot(ctx context.Context, snapshotID string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	inserts           metric.Int64Counter
	insertRejections  metric.Int64Counter
	reads             metric.Int64Counter
	writes            metric.Int64Counter
	writeLatency      metric.Float64Histogram
	writeErrors       metric.Int64Counter
	structuredUpdates metric.Int64Counter
	structuredLatency metric.Float64Histogram
	snapshotSize      metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("typedctx")

	inserts, err := meter.Int64Counter("typedctx.insert.total",
		metric.WithDescription("Number of insert attempts"),
	)
	if err != nil {
		return nil, err
	}

	insertRejections, err := meter.Int64Counter("typedctx.insert.rejections",
		metric.WithDescription("Number of inserts rejected for duplicate keys"),
	)
	if err != nil {
		return nil, err
	}

	reads, err := meter.Int64Counter("typedctx.read.total",
		metric.WithDescription("Number of typed reads"),
	)
	if err != nil {
		return nil, err
	}

	writes, err := meter.Int64Counter("typedctx.write.total",
		metric.WithDescription("Number of write operations"),
	)
	if err != nil {
		return nil, err
	}

	writeLatency, err := meter.Float64Histogram("typedctx.write.latency_ms",
		metric.WithDescription("Write operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	writeErrors, err := meter.Int64Counter("typedctx.write.errors",
		metric.WithDescription("Number of failed write operations"),
	)
	if err != nil {
		return nil, err
	}

	structuredUpdates, err := meter.Int64Counter("typedctx.structured.updates",
		metric.WithDescription("Number of structured transforms applied"),
	)
	if err != nil {
		return nil, err
	}

	structuredLatency, err := meter.Float64Histogram("typedctx.structured.latency_ms",
		metric.WithDescription("Structured transform latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	snapshotSize, err := meter.Int64Histogram("typedctx.snapshot.size_bytes",
		metric.WithDescription("Snapshot size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		inserts:           inserts,
		insertRejections:  insertRejections,
		reads:             reads,
		writes:            writes,
		writeLatency:      writeLatency,
		writeErrors:       writeErrors,
		structuredUpdates: structuredUpdates,
		structuredLatency: structuredLatency,
		snapshotSize:      snapshotSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordInsert records an insert attempt.
func (m *otelMetrics) RecordInsert(ctx context.Context, key string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("key", key),
	}

	m.inserts.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.insertRejections.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRead records a typed read.
func (m *otelMetrics) RecordRead(ctx context.Context, key string, hit bool) {
	attrs := []attribute.KeyValue{
		attribute.String("key", key),
		attribute.Bool("hit", hit),
	}
	m.reads.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordWrite records a write operation.
func (m *otelMetrics) RecordWrite(ctx context.Context, key string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("key", key),
	}

	m.writes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.writeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.writeErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordStructuredUpdate records a structured transform.
func (m *otelMetrics) RecordStructuredUpdate(ctx context.Context, key string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("key", key),
		attribute.Bool("success", err == nil),
	}
	m.structuredUpdates.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.structuredLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordSnapshot records a snapshot save.
func (m *otelMetrics) RecordSnapshot(ctx context.Context, snapshotID string, sizeBytes int64) {
	attrs := []attribute.KeyValue{
		attribute.String("snapshot_id", snapshotID),
	}
	m.snapshotSize.Record(ctx, sizeBytes, metric.WithAttributes(attrs...))
}
