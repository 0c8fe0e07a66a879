package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"guildconsole/config"
)

func enabledConfig() *config.Config {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	return cfg
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestMetricsProvider_RecordsSourceCalls(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	mp := NewMetricsProvider(enabledConfig())
	require.NoError(t, mp.initialize(ctx, reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	mp.RecordSourceCall("currency_settings", "read", "success", 20*time.Millisecond)
	mp.RecordSourceCall("currency_settings", "read", "success", 30*time.Millisecond)
	mp.RecordSourceCall("raffle_settings", "upsert", "error", time.Millisecond)
	mp.RecordSnapshotWrite("success")

	metrics := collect(t, reader)

	calls, ok := metrics[SourceCallsTotal].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, point := range calls.DataPoints {
		total += point.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, calls.DataPoints, 2, "one series per source, operation and outcome")

	durations, ok := metrics[SourceCallDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.NotEmpty(t, durations.DataPoints)

	writes, ok := metrics[SnapshotWritesTotal].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, writes.DataPoints, 1)
	assert.Equal(t, int64(1), writes.DataPoints[0].Value)
}

func TestMetricsProvider_DisabledIsSafe(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() *config.Config
	}{
		{
			name: "otel disabled",
			cfg:  config.NewTestConfig,
		},
		{
			name: "exporter none",
			cfg: func() *config.Config {
				cfg := enabledConfig()
				cfg.OTelExporterType = "none"
				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := NewMetricsProvider(tt.cfg())
			require.NoError(t, mp.Initialize(context.Background()))

			assert.False(t, mp.isEnabled())
			assert.NotPanics(t, func() {
				mp.RecordSourceCall("currency_settings", "read", "success", time.Millisecond)
				mp.RecordSnapshotWrite("error")
				mp.RecordNATSMessagePublished("settings_saved")
			})
			assert.NoError(t, mp.Shutdown(context.Background()))
		})
	}
}

func TestMetricsProvider_NilIsSafe(t *testing.T) {
	var mp *MetricsProvider
	assert.NotPanics(t, func() {
		mp.RecordNATSMessagePublished("settings_saved")
	})
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := enabledConfig()
	cfg.OTelExporterType = "prometheus"

	mp := NewMetricsProvider(cfg)
	assert.Error(t, mp.Initialize(context.Background()))
}
