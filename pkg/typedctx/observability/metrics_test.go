package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a function to collect metrics.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	// Save the original provider
	originalProvider := otel.GetMeterProvider()

	// Set test provider
	otel.SetMeterProvider(provider)

	// Return cleanup function
	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	// NewMetricsRecorder uses the global provider
	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	// Should not be a noop (since we set up a real provider)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordInsert(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	// Create a fresh metrics instance using the test provider
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records insert count", func(t *testing.T) {
		m.RecordInsert(ctx, "stuff", nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "typedctx.insert.total")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)

		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "key" && attr.Value.AsString() == "stuff" {
					found = true
					assert.GreaterOrEqual(t, dp.Value, int64(1))
				}
			}
		}
		assert.True(t, found, "Expected to find datapoint for key=stuff")
	})

	t.Run("records rejection when insert fails", func(t *testing.T) {
		m.RecordInsert(ctx, "stuff", errors.New("key already present"))

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "typedctx.insert.rejections")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)
	})
}

func TestRecordRead(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRead(ctx, "stuff", true)
	m.RecordRead(ctx, "missing", false)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "typedctx.read.total")
	require.NotNil(t, metric)

	sum, ok := metric.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")

	// One datapoint per (key, hit) attribute set
	assert.Len(t, sum.DataPoints, 2)
}

func TestRecordWrite(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records write count and latency", func(t *testing.T) {
		m.RecordWrite(ctx, "stuff", 50*time.Millisecond, nil)

		rm := collectMetrics(t, reader)

		count := findMetric(rm, "typedctx.write.total")
		require.NotNil(t, count)

		latency := findMetric(rm, "typedctx.write.latency_ms")
		require.NotNil(t, latency)

		hist, ok := latency.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
	})

	t.Run("records errors when present", func(t *testing.T) {
		m.RecordWrite(ctx, "stuff", 10*time.Millisecond, errors.New("type mismatch"))

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "typedctx.write.errors")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)
	})
}

func TestRecordStructuredUpdate(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordStructuredUpdate(ctx, "stuff", 5*time.Millisecond, nil)

	rm := collectMetrics(t, reader)

	count := findMetric(rm, "typedctx.structured.updates")
	require.NotNil(t, count)

	latency := findMetric(rm, "typedctx.structured.latency_ms")
	require.NotNil(t, latency)
}

func TestRecordSnapshot(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordSnapshot(context.Background(), "snap-1", 1024)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "typedctx.snapshot.size_bytes")
	require.NotNil(t, metric)

	hist, ok := metric.Data.(metricdata.Histogram[int64])
	require.True(t, ok, "Expected Histogram type")
	require.NotEmpty(t, hist.DataPoints)
}
