package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics_ImplementsInterface(t *testing.T) {
	var _ MetricsRecorder = NoopMetrics{}
}

func TestNoopMetrics_DoesNotPanic(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	t.Run("record insert", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordInsert(ctx, "key", nil)
			m.RecordInsert(ctx, "key", errors.New("duplicate"))
		})
	})

	t.Run("record read", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordRead(ctx, "key", true)
			m.RecordRead(ctx, "", false)
		})
	})

	t.Run("record write", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordWrite(ctx, "key", 100*time.Millisecond, nil)
			m.RecordWrite(nil, "", 0, errors.New("test"))
		})
	})

	t.Run("record structured update", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordStructuredUpdate(ctx, "key", time.Millisecond, nil)
		})
	})

	t.Run("record snapshot", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordSnapshot(ctx, "snap-1", 0)
		})
	})
}

func TestNoopSpanManager_ImplementsInterface(t *testing.T) {
	var _ SpanManager = NoopSpanManager{}
}

func TestNoopSpanManager_DoesNotPanic(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		ctx, span := sm.StartSessionSpan(ctx, "reg", "s-1")
		_, update := sm.StartUpdateSpan(ctx, "key")
		sm.AddSpanEvent(ctx, "event", attribute.Bool("ok", true))
		sm.EndSpanWithError(update, nil)
		sm.EndSpanWithError(span, errors.New("ignored"))
	})
}

func TestNoopSpanManager_ReturnsContextUnchanged(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	got, _ := sm.StartSessionSpan(ctx, "reg", "s-1")
	assert.Equal(t, ctx, got)

	got, _ = sm.StartUpdateSpan(ctx, "key")
	assert.Equal(t, ctx, got)
}
