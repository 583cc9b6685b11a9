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

// MetricsRecorder records broker metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordPublish records a dispatched publish.
	RecordPublish(ctx context.Context, event string, handlers int, duration time.Duration, err error)

	// RecordStage records a stage attempt; duplicate marks a rejected one.
	RecordStage(ctx context.Context, lifetime string, duplicate bool)

	// RecordRead records a lookup.
	RecordRead(ctx context.Context, hit bool)

	// RecordRemove records a removal request.
	RecordRemove(ctx context.Context, removed bool)
}

type otelMetrics struct {
	publishes      metric.Int64Counter
	publishLatency metric.Float64Histogram
	handlers       metric.Int64Histogram
	stages         metric.Int64Counter
	duplicates     metric.Int64Counter
	reads          metric.Int64Counter
	removals       metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventbroker")
	m := &otelMetrics{}
	var err error

	if m.publishes, err = meter.Int64Counter("eventbroker.publish.count",
		metric.WithDescription("Number of dispatched publishes"),
	); err != nil {
		return nil, err
	}
	if m.publishLatency, err = meter.Float64Histogram("eventbroker.publish.latency_ms",
		metric.WithDescription("Publish latency including all handlers"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.handlers, err = meter.Int64Histogram("eventbroker.dispatch.handlers",
		metric.WithDescription("Handlers invoked per publish"),
	); err != nil {
		return nil, err
	}
	if m.stages, err = meter.Int64Counter("eventbroker.store.stages",
		metric.WithDescription("Values staged into invocation bags"),
	); err != nil {
		return nil, err
	}
	if m.duplicates, err = meter.Int64Counter("eventbroker.store.duplicates",
		metric.WithDescription("Stages rejected for an occupied key"),
	); err != nil {
		return nil, err
	}
	if m.reads, err = meter.Int64Counter("eventbroker.store.reads",
		metric.WithDescription("Invocation data lookups"),
	); err != nil {
		return nil, err
	}
	if m.removals, err = meter.Int64Counter("eventbroker.store.removals",
		metric.WithDescription("Invocation data removal requests"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by the global OTel
// meter provider, or a no-op recorder if instrument creation fails.
//
//	otel.SetMeterProvider(yourProvider)
//	b := broker.New(broker.WithMetrics(observability.NewMetricsRecorder()))
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordPublish(ctx context.Context, event string, handlers int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("event", event),
		attribute.Bool("success", err == nil),
	)
	m.publishes.Add(ctx, 1, attrs)
	m.publishLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.handlers.Record(ctx, int64(handlers), metric.WithAttributes(attribute.String("event", event)))
}

func (m *otelMetrics) RecordStage(ctx context.Context, lifetime string, duplicate bool) {
	attrs := metric.WithAttributes(attribute.String("lifetime", lifetime))
	if duplicate {
		m.duplicates.Add(ctx, 1, attrs)
		return
	}
	m.stages.Add(ctx, 1, attrs)
}

func (m *otelMetrics) RecordRead(ctx context.Context, hit bool) {
	m.reads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

func (m *otelMetrics) RecordRemove(ctx context.Context, removed bool) {
	m.removals.Add(ctx, 1, metric.WithAttributes(attribute.Bool("removed", removed)))
}
