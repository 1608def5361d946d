// Package observability provides production-grade observability features
// for typedctx: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with session_id and key fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "session-123", "stuff")
//	enriched.Info("updating entry") // includes session_id, key
func EnrichLogger(logger *slog.Logger, sessionID, key string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_id", sessionID),
		slog.String("key", key),
	)
}

// LogInsert logs a successful insert.
func LogInsert(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Debug("entry inserted",
		slog.String("key", key),
	)
}

// LogInsertRejected logs an insert refused because the key exists.
func LogInsertRejected(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Warn("insert rejected, key already present",
		slog.String("key", key),
	)
}

// LogRead logs a typed read, including whether it produced a value.
func LogRead(logger *slog.Logger, key string, hit bool) {
	if logger == nil {
		return
	}
	logger.Debug("entry read",
		slog.String("key", key),
		slog.Bool("hit", hit),
	)
}

// LogWrite logs a persisted mutation.
func LogWrite(logger *slog.Logger, key string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("entry updated",
		slog.String("key", key),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogWriteError logs a failed write.
func LogWriteError(logger *slog.Logger, key string, err error) {
	if logger == nil {
		return
	}
	logger.Error("entry update failed",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// LogStructuredUpdate logs a structured transform applied to an entry.
func LogStructuredUpdate(logger *slog.Logger, key string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("structured update applied",
		slog.String("key", key),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSnapshotSaved logs snapshot creation.
func LogSnapshotSaved(logger *slog.Logger, snapshotID string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("snapshot saved",
		slog.String("snapshot_id", snapshotID),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogSnapshotError logs a snapshot failure (non-fatal).
func LogSnapshotError(logger *slog.Logger, snapshotID string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("snapshot failed",
		slog.String("snapshot_id", snapshotID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
