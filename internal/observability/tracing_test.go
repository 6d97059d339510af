package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "skillswap-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer)
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "swap_service", "UpdateStatus", attribute.Int("swap.id", 1))
	require.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
	assert.False(t, span.IsRecording())
}

func TestInitTracingExporters(t *testing.T) {
	t.Cleanup(func() { _, _ = InitTracing(TracingConfig{ServiceName: "skillswap-test"}) })

	shutdown, err := InitTracing(TracingConfig{ServiceName: "skillswap-test", Enabled: true, Exporter: "none", SamplerRatio: 1})
	require.NoError(t, err)
	_, span := StartSpan(context.Background(), "seed", "run")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))

	_, err = InitTracing(TracingConfig{ServiceName: "skillswap-test", Enabled: true, Exporter: "zipkin"})
	assert.Error(t, err)

	_, err = InitTracing(TracingConfig{ServiceName: "skillswap-test", Enabled: true, Exporter: "otlp"})
	assert.Error(t, err)
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", newSampler(1.5).Description())
	assert.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}
