// Package observability provides logging, metrics, and tracing hooks for
// asyncflow emitters.
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
	"strings"
	"time"
)

// EnrichLogger adds emitter context to a logger.
// Returns a new logger with the emitter_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, emitter.ID())
//	enriched.Info("wired") // includes emitter_id
func EnrichLogger(logger *slog.Logger, emitterID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("emitter_id", emitterID))
}

// LogEmit logs the dispatch of an event.
func LogEmit(logger *slog.Logger, event string, direct, global int) {
	if logger == nil {
		return
	}
	logger.Debug("emitting event",
		slog.String("event", event),
		slog.Int("listeners", direct),
		slog.Int("global_listeners", global),
	)
}

// LogListenerError logs a listener that returned an error during dispatch.
func LogListenerError(logger *slog.Logger, event string, err error) {
	if logger == nil {
		return
	}
	logger.Error("listener failed",
		slog.String("event", event),
		slog.String("error", err.Error()),
	)
}

// LogJoinComplete logs a combinator whose join condition was met.
func LogJoinComplete(logger *slog.Logger, kind string, events []string) {
	if logger == nil {
		return
	}
	logger.Debug("join completed",
		slog.String("kind", kind),
		slog.String("events", strings.Join(events, " ")),
	)
}

// LogMaxListeners warns that an event has more listeners than configured.
// This usually means listeners are added in a loop and never removed.
func LogMaxListeners(logger *slog.Logger, event string, count, max int) {
	if logger == nil {
		return
	}
	logger.Warn("possible listener leak",
		slog.String("event", event),
		slog.Int("listeners", count),
		slog.Int("max_listeners", max),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
