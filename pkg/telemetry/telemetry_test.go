package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/opd-ai/go-topdrive/pkg/config"
)

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	rec, err := NewRecorder(mp)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		rec.RecordTick(ctx, float64(i*10), "1")
	}
	rec.RecordShift(ctx, "N", "1")
	rec.RecordShift(ctx, "1", "2")
	rec.RecordLimiterTrip(ctx)
	rec.RecordContact(ctx)

	metrics := collect(t, reader)
	assert.Equal(t, int64(5), counterTotal(t, metrics["topdrive.ticks"]))
	assert.Equal(t, int64(2), counterTotal(t, metrics["topdrive.gear_shifts"]))
	assert.Equal(t, int64(1), counterTotal(t, metrics["topdrive.rev_limiter_trips"]))
	assert.Equal(t, int64(1), counterTotal(t, metrics["topdrive.boundary_contacts"]))

	hist, ok := metrics["topdrive.speed_mph"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(5), hist.DataPoints[0].Count)
	assert.Equal(t, 100.0, hist.DataPoints[0].Sum)
}

func TestNewRecorder_GlobalProvider(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)
	rec.RecordTick(context.Background(), 12, "N")
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.MeterProvider())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_RequiresWriter(t *testing.T) {
	_, err := Setup(context.Background(), config.TelemetryConfig{Enabled: true, IntervalMs: 1000}, nil)
	assert.Error(t, err)
}

func TestSetup_ExportsOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: true, IntervalMs: 60000}, &buf)
	require.NoError(t, err)
	require.True(t, p.Enabled())

	rec, err := NewRecorder(p.MeterProvider())
	require.NoError(t, err)
	rec.RecordTick(context.Background(), 42, "3")

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "topdrive.ticks")
	assert.Contains(t, buf.String(), ServiceName)
}
