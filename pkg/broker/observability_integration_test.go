package broker_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/eventbroker/pkg/broker"
	"github.com/randalmurphal/eventbroker/pkg/broker/observability"
)

func TestBroker_Logging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := broker.New(broker.WithLogger(logger), broker.WithID("log-test"))
	defer b.Close()
	capture(b, "e")

	require.NoError(t, broker.Prepare(b, "hp", 1))
	require.Error(t, broker.Prepare(b, "hp", 1))
	id, err := b.Notify(context.Background(), "e")
	require.NoError(t, err)
	broker.GetInvokableData[int](b, id, "hp")
	b.RemoveInvokableData(id, "hp")

	out := buf.String()
	assert.Contains(t, out, "broker_id=log-test")
	assert.Contains(t, out, "invocation data staged")
	assert.Contains(t, out, "duplicate invocation data")
	assert.Contains(t, out, "event published")
	assert.Contains(t, out, "invocation data read")
	assert.Contains(t, out, "invocation data remove")
}

func TestBroker_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		_ = provider.Shutdown(context.Background())
	})

	b := newTestBroker(t, broker.WithMetrics(observability.NewMetricsRecorder()))
	capture(b, "e")

	id, err := b.Publish(context.Background(), "e", 1)
	require.NoError(t, err)
	broker.GetInvokableData[int](b, id, "")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	assert.True(t, names["eventbroker.publish.count"])
	assert.True(t, names["eventbroker.store.stages"])
	assert.True(t, names["eventbroker.store.reads"])
}

func TestBroker_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	b := newTestBroker(t, broker.WithTracing(observability.NewSpanManager()))
	capture(b, "e")

	_, err := b.Notify(context.Background(), "e")
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "eventbroker.publish", spans[0].Name)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "handlers.dispatched", spans[0].Events[0].Name)

	var count int64 = -1
	for _, kv := range spans[0].Attributes {
		if kv.Key == "handler.count" {
			count = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(1), count)
}
