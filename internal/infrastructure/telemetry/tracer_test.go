package telemetry_test

import (
	"context"
	"testing"

	"github.com/kivalao/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "kivalao-test",
	}

	tp, err := telemetry.NewTracerProvider(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	t.Run("shutdown is a no-op", func(t *testing.T) {
		assert.NoError(t, tp.Shutdown(context.Background()))
	})

	t.Run("force flush is a no-op", func(t *testing.T) {
		assert.NoError(t, tp.ForceFlush(context.Background()))
	})

	t.Run("tracer still produces usable spans", func(t *testing.T) {
		tracer := tp.Tracer("disabled-check")
		require.NotNil(t, tracer)

		_, span := tracer.Start(context.Background(), "noop")
		assert.NotPanics(t, func() {
			span.End()
		})
	})
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// Needs a reachable OTLP collector, so only run it explicitly.
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "kivalao-test",
		Insecure:          true,
	}

	tp, err := telemetry.NewTracerProvider(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	_, span := tp.Tracer("integration-check").Start(context.Background(), "ping")
	span.End()

	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}
