package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("eventbroker")

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return exporter
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartPublishSpan(t *testing.T) {
	exporter := setupTracingTest(t)
	sm := NewSpanManager()

	ctx, span := sm.StartPublishSpan(context.Background(), "Updated", 7)
	sm.AddSpanEvent(ctx, "handlers.dispatched", attribute.Int("handler.count", 2))
	sm.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "eventbroker.publish", s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)

	name, ok := attrValue(s.Attributes, "event.name")
	require.True(t, ok)
	assert.Equal(t, "Updated", name.AsString())

	id, ok := attrValue(s.Attributes, "invocation.id")
	require.True(t, ok)
	assert.Equal(t, int64(7), id.AsInt64())

	require.Len(t, s.Events, 1)
	assert.Equal(t, "handlers.dispatched", s.Events[0].Name)
}

func TestEndSpanWithError(t *testing.T) {
	exporter := setupTracingTest(t)
	sm := NewSpanManager()

	_, span := sm.StartPublishSpan(context.Background(), "Updated", 2)
	sm.EndSpanWithError(span, errors.New("duplicate entry"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "duplicate entry", spans[0].Status.Description)

	assert.NotPanics(t, func() { sm.EndSpanWithError(nil, nil) })
}

func TestAddSpanEvent_NoSpan(t *testing.T) {
	setupTracingTest(t)
	assert.NotPanics(t, func() {
		NewSpanManager().AddSpanEvent(context.Background(), "orphan")
	})
}
