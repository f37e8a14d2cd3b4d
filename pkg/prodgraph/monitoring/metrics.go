package monitoring

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// otelTimings holds the OTel instruments for producer timing samples.
type otelTimings struct {
	executions     metric.Int64Counter
	failures       metric.Int64Counter
	skips          metric.Int64Counter
	methodDuration metric.Float64Histogram
	latency        metric.Float64Histogram
}

var (
	defaultTimings     *otelTimings
	defaultTimingsOnce sync.Once
	defaultTimingsErr  error
)

// getDefaultTimings returns the default OTel instruments, lazily
// initialized on first use from the global meter provider.
func getDefaultTimings() (*otelTimings, error) {
	defaultTimingsOnce.Do(func() {
		defaultTimings, defaultTimingsErr = newOtelTimings()
	})
	return defaultTimings, defaultTimingsErr
}

func newOtelTimings() (*otelTimings, error) {
	meter := otel.Meter("prodgraph")

	executions, err := meter.Int64Counter("prodgraph.producer.executions",
		metric.WithDescription("Number of successful producer executions"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("prodgraph.producer.failures",
		metric.WithDescription("Number of failed producer executions"),
	)
	if err != nil {
		return nil, err
	}

	skips, err := meter.Int64Counter("prodgraph.producer.skips",
		metric.WithDescription("Number of producers whose method never ran"),
	)
	if err != nil {
		return nil, err
	}

	methodDuration, err := meter.Float64Histogram("prodgraph.producer.method.duration",
		metric.WithDescription("Producer method execution time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("prodgraph.producer.latency",
		metric.WithDescription("Producer latency, request to resolution"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelTimings{
		executions:     executions,
		failures:       failures,
		skips:          skips,
		methodDuration: methodDuration,
		latency:        latency,
	}, nil
}

// MetricsTimingRecorderFactory returns a timing recorder factory backed
// by OpenTelemetry metrics. Instruments are registered against the
// global meter provider; configure the provider before producers run:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
//
// If instrument registration fails, the failure is logged and the
// factory produces no-op recorders.
func MetricsTimingRecorderFactory() TimingRecorderFactory {
	return TimingRecorderFactoryFunc(func(component any) ComponentTimingRecorder {
		timings, err := getDefaultTimings()
		if err != nil {
			slog.Error("failed to initialize producer metrics",
				slog.String("error", err.Error()))
			return NoopComponentTimingRecorder()
		}
		return otelComponentTimingRecorder{timings: timings}
	})
}

type otelComponentTimingRecorder struct {
	timings *otelTimings
}

func (c otelComponentTimingRecorder) ProducerTimingRecorderFor(token Token) ProducerTimingRecorder {
	return otelProducerTimingRecorder{
		timings: c.timings,
		attrs:   metric.WithAttributes(attribute.String("producer", token.Name())),
	}
}

type otelProducerTimingRecorder struct {
	timings *otelTimings
	attrs   metric.MeasurementOption
}

func (r otelProducerTimingRecorder) RecordMethod(startedNanos, durationNanos int64) {
	ms := float64(time.Duration(durationNanos).Milliseconds())
	r.timings.methodDuration.Record(context.Background(), ms, r.attrs)
}

func (r otelProducerTimingRecorder) RecordSuccess(latencyNanos int64) {
	ctx := context.Background()
	r.timings.executions.Add(ctx, 1, r.attrs)
	r.timings.latency.Record(ctx, float64(time.Duration(latencyNanos).Milliseconds()), r.attrs)
}

func (r otelProducerTimingRecorder) RecordFailure(err error, latencyNanos int64) {
	ctx := context.Background()
	r.timings.failures.Add(ctx, 1, r.attrs)
	r.timings.latency.Record(ctx, float64(time.Duration(latencyNanos).Milliseconds()), r.attrs)
}

func (r otelProducerTimingRecorder) RecordSkip(err error) {
	r.timings.skips.Add(context.Background(), 1, r.attrs)
}
