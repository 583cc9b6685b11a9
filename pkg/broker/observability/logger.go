// Package observability provides logging, metrics, and tracing for the
// broker.
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

// EnrichLogger tags every record with the broker instance ID.
func EnrichLogger(logger *slog.Logger, brokerID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("broker_id", brokerID))
}

// LogPublish logs a completed dispatch.
func LogPublish(logger *slog.Logger, event string, id uint64, handlers int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event published",
		slog.String("event", event),
		slog.Uint64("invocation_id", id),
		slog.Int("handlers", handlers),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStage logs data staged for an invocation.
func LogStage(logger *slog.Logger, id uint64, key string, lifetime string) {
	if logger == nil {
		return
	}
	logger.Debug("invocation data staged",
		slog.Uint64("invocation_id", id),
		slog.String("key", key),
		slog.String("lifetime", lifetime),
	)
}

// LogRead logs a data lookup.
func LogRead(logger *slog.Logger, id uint64, key string, hit bool) {
	if logger == nil {
		return
	}
	logger.Debug("invocation data read",
		slog.Uint64("invocation_id", id),
		slog.String("key", key),
		slog.Bool("hit", hit),
	)
}

// LogClarify logs an amendment; applied is false when the invocation had
// no data.
func LogClarify(logger *slog.Logger, id uint64, key string, applied bool) {
	if logger == nil {
		return
	}
	logger.Debug("invocation data clarified",
		slog.Uint64("invocation_id", id),
		slog.String("key", key),
		slog.Bool("applied", applied),
	)
}

// LogRemove logs a removal request.
func LogRemove(logger *slog.Logger, id uint64, tag string, removed bool) {
	if logger == nil {
		return
	}
	logger.Debug("invocation data remove",
		slog.Uint64("invocation_id", id),
		slog.String("tag", tag),
		slog.Bool("removed", removed),
	)
}

// LogDuplicate logs a rejected stage.
func LogDuplicate(logger *slog.Logger, id uint64, err error) {
	if logger == nil {
		return
	}
	logger.Warn("duplicate invocation data",
		slog.Uint64("invocation_id", id),
		slog.String("error", err.Error()),
	)
}

// LogHandlerPanic logs a recovered handler panic.
func LogHandlerPanic(logger *slog.Logger, event string, id uint64, recovered any) {
	if logger == nil {
		return
	}
	logger.Error("handler panicked",
		slog.String("event", event),
		slog.Uint64("invocation_id", id),
		slog.Any("panic", recovered),
	)
}

// LogJournalError logs a failed journal write (non-fatal).
func LogJournalError(logger *slog.Logger, event string, id uint64, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal write failed",
		slog.String("event", event),
		slog.Uint64("invocation_id", id),
		slog.String("error", err.Error()),
	)
}

// TimedOperation returns a function reporting elapsed milliseconds.
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
