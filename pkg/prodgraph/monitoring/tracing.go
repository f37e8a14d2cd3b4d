package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the prodgraph tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("prodgraph")

// TracingMonitorFactory returns a monitor factory that emits one OTel
// span per producer execution: the span opens when the producer is
// requested, records method start/finish as events, and closes with the
// terminal success or failure status.
//
// Spans are created from the global OTel tracer provider. Configure the
// provider before producers run:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func TracingMonitorFactory() MonitorFactory {
	return MonitorFactoryFunc(func(component any) ComponentMonitor {
		return tracingComponentMonitor{}
	})
}

type tracingComponentMonitor struct{}

func (tracingComponentMonitor) ProducerMonitorFor(token Token) ProducerMonitor {
	return &tracingProducerMonitor{token: token}
}

// tracingProducerMonitor holds the span for one producer execution.
// Lifecycle ordering guarantees the span exists before it is used.
type tracingProducerMonitor struct {
	token Token
	span  trace.Span
}

func (m *tracingProducerMonitor) Requested() {
	_, m.span = tracer.Start(context.Background(),
		"prodgraph.producer."+m.token.Name(),
		trace.WithAttributes(attribute.String("producer", m.token.Name())),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *tracingProducerMonitor) Ready() {
	if m.span != nil {
		m.span.AddEvent("dependencies ready")
	}
}

func (m *tracingProducerMonitor) MethodStarting() {
	if m.span != nil {
		m.span.AddEvent("method starting")
	}
}

func (m *tracingProducerMonitor) MethodFinished() {
	if m.span != nil {
		m.span.AddEvent("method finished")
	}
}

func (m *tracingProducerMonitor) Succeeded(any) {
	if m.span == nil {
		return
	}
	m.span.SetStatus(codes.Ok, "")
	m.span.End()
}

func (m *tracingProducerMonitor) Failed(err error) {
	if m.span == nil {
		return
	}
	m.span.RecordError(err)
	m.span.SetStatus(codes.Error, err.Error())
	m.span.End()
}
