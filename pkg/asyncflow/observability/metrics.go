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

// MetricsRecorder records emitter metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEmit records one dispatch of an event with its duration and error status.
	RecordEmit(ctx context.Context, event string, listeners int, duration time.Duration, err error)

	// RecordJoin records a combinator completing its join.
	RecordJoin(ctx context.Context, kind string, events int)
}

type otelMetrics struct {
	emits          metric.Int64Counter
	emitLatency    metric.Float64Histogram
	listenerErrors metric.Int64Counter
	listeners      metric.Int64Histogram
	joins          metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("asyncflow")

	emits, err := meter.Int64Counter("asyncflow.emit.count",
		metric.WithDescription("Number of emitted events"),
	)
	if err != nil {
		return nil, err
	}

	emitLatency, err := meter.Float64Histogram("asyncflow.emit.latency_ms",
		metric.WithDescription("Time spent dispatching an event to its listeners"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	listenerErrors, err := meter.Int64Counter("asyncflow.listener.errors",
		metric.WithDescription("Number of dispatches stopped by a listener error"),
	)
	if err != nil {
		return nil, err
	}

	listeners, err := meter.Int64Histogram("asyncflow.emit.listeners",
		metric.WithDescription("Listeners reached per dispatch"),
	)
	if err != nil {
		return nil, err
	}

	joins, err := meter.Int64Counter("asyncflow.join.completions",
		metric.WithDescription("Number of completed combinator joins"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		emits:          emits,
		emitLatency:    emitLatency,
		listenerErrors: listenerErrors,
		listeners:      listeners,
		joins:          joins,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
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

// RecordEmit records one dispatch.
func (m *otelMetrics) RecordEmit(ctx context.Context, event string, listeners int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("event", event))

	m.emits.Add(ctx, 1, attrs)
	m.emitLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.listeners.Record(ctx, int64(listeners), attrs)

	if err != nil {
		m.listenerErrors.Add(ctx, 1, attrs)
	}
}

// RecordJoin records a completed join.
func (m *otelMetrics) RecordJoin(ctx context.Context, kind string, events int) {
	m.joins.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Int("events", events),
	))
}
