package monitoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a manual-reader meter provider and returns
// the reader plus a cleanup function.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}
	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumForProducer extracts the counter value attributed to one producer.
func sumForProducer(m *metricdata.Metrics, producer string) (int64, bool) {
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		return 0, false
	}
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == "producer" && attr.Value.AsString() == producer {
				return dp.Value, true
			}
		}
	}
	return 0, false
}

func TestOtelTimingRecorder(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	// Build instruments against the test provider directly; the package
	// default is latched to whichever provider was global first.
	timings, err := newOtelTimings()
	require.NoError(t, err)
	component := otelComponentTimingRecorder{timings: timings}

	t.Run("success increments executions and latency", func(t *testing.T) {
		recorder := component.ProducerTimingRecorderFor(TokenFor("fetch"))
		recorder.RecordSuccess(5_000_000)

		rm := collectMetrics(t, reader)

		executions := findMetric(rm, "prodgraph.producer.executions")
		require.NotNil(t, executions)
		count, found := sumForProducer(executions, "fetch")
		require.True(t, found)
		assert.GreaterOrEqual(t, count, int64(1))

		latency := findMetric(rm, "prodgraph.producer.latency")
		require.NotNil(t, latency)
		hist, ok := latency.Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		require.NotEmpty(t, hist.DataPoints)
	})

	t.Run("failure increments failures", func(t *testing.T) {
		recorder := component.ProducerTimingRecorderFor(TokenFor("flaky"))
		recorder.RecordFailure(errProducer, 1_000_000)

		rm := collectMetrics(t, reader)
		failures := findMetric(rm, "prodgraph.producer.failures")
		require.NotNil(t, failures)
		count, found := sumForProducer(failures, "flaky")
		require.True(t, found)
		assert.GreaterOrEqual(t, count, int64(1))
	})

	t.Run("skip increments skips", func(t *testing.T) {
		recorder := component.ProducerTimingRecorderFor(TokenFor("skipped"))
		recorder.RecordSkip(errProducer)

		rm := collectMetrics(t, reader)
		skips := findMetric(rm, "prodgraph.producer.skips")
		require.NotNil(t, skips)
		count, found := sumForProducer(skips, "skipped")
		require.True(t, found)
		assert.GreaterOrEqual(t, count, int64(1))
	})

	t.Run("method duration records histogram sample", func(t *testing.T) {
		recorder := component.ProducerTimingRecorderFor(TokenFor("timed"))
		recorder.RecordMethod(0, 7_000_000)

		rm := collectMetrics(t, reader)
		duration := findMetric(rm, "prodgraph.producer.method.duration")
		require.NotNil(t, duration)
		hist, ok := duration.Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		require.NotEmpty(t, hist.DataPoints)
	})
}

func TestMetricsTimingRecorderFactory_ReturnsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	factory := MetricsTimingRecorderFactory()
	component := factory.Create(nil)
	require.NotNil(t, component)
	assert.NotNil(t, component.ProducerTimingRecorderFor(TokenFor("p")))
}
