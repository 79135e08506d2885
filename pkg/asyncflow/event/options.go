package event

import (
	"log/slog"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/observability"
)

// config holds the optional collaborators of an Emitter.
type config struct {
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	maxListeners int
}

func defaultConfig() config {
	return config{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures an Emitter.
type Option func(*config)

// WithLogger sets the logger used for dispatch and leak diagnostics.
// A nil logger disables logging.
//
// Example:
//
//	e := event.New(event.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
// Default: disabled
func WithMetrics(enabled bool) Option {
	return func(c *config) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(c *config) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithTracing enables an OpenTelemetry span per EmitContext call using the
// global tracer provider.
// Default: disabled
func WithTracing(enabled bool) Option {
	return func(c *config) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithMaxListeners logs a warning the first time any single event name
// accumulates more than n listeners. Zero disables the check.
// Default: 0
func WithMaxListeners(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxListeners = n
		}
	}
}
