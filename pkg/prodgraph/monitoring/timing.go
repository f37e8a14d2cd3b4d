package monitoring

import (
	"log/slog"
	"time"
)

// ProducerTimingRecorder records timing statistics for a single
// producer. It is structurally a ProducerMonitor specialized to
// start/duration/latency samples; dispatch applies the same zero/one/
// many fan-out and fault isolation.
//
// All times are in nanoseconds. Started times are relative to the
// creation of the component timing recorder, so samples from one graph
// instance share an epoch.
type ProducerTimingRecorder interface {
	// RecordMethod records the execution of the producer's compute
	// method: when it started relative to the component epoch, and how
	// long the synchronous invocation took.
	RecordMethod(startedNanos, durationNanos int64)

	// RecordSuccess records the end-to-end latency, request to resolved
	// value.
	RecordSuccess(latencyNanos int64)

	// RecordFailure records the end-to-end latency of a failed request.
	RecordFailure(err error, latencyNanos int64)

	// RecordSkip records that the producer's method was never executed,
	// typically because a dependency failed or the producer was
	// cancelled before starting.
	RecordSkip(err error)
}

// ComponentTimingRecorder hands out producer timing recorders for one
// graph instance.
type ComponentTimingRecorder interface {
	ProducerTimingRecorderFor(token Token) ProducerTimingRecorder
}

// TimingRecorderFactory creates one ComponentTimingRecorder per graph
// instance.
type TimingRecorderFactory interface {
	Create(component any) ComponentTimingRecorder
}

// TimingRecorderFactoryFunc adapts a function to TimingRecorderFactory.
type TimingRecorderFactoryFunc func(component any) ComponentTimingRecorder

// Create implements TimingRecorderFactory.
func (f TimingRecorderFactoryFunc) Create(component any) ComponentTimingRecorder {
	return f(component)
}

// DelegatingTimingRecorderFactory returns a factory that fans out to the
// given factories with the same guarantees as DelegatingMonitorFactory:
// no panic escapes, no nil is returned, completion-side calls unwind in
// reverse registration order.
func DelegatingTimingRecorderFactory(factories []TimingRecorderFactory) TimingRecorderFactory {
	switch len(factories) {
	case 0:
		return NoopTimingRecorderFactory()
	case 1:
		return nonThrowingTimingRecorderFactory{delegate: factories[0]}
	default:
		return delegatingTimingRecorderFactory{delegates: factories}
	}
}

// guardRecorder invokes fn and converts a panic into a log entry.
func guardRecorder(method string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("timing recorder panicked",
				slog.String("method", method),
				slog.Any("panic", r))
		}
	}()
	fn()
}

type nonThrowingTimingRecorderFactory struct {
	delegate TimingRecorderFactory
}

func (f nonThrowingTimingRecorderFactory) Create(component any) (recorder ComponentTimingRecorder) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("timing recorder factory panicked", slog.Any("panic", r))
			recorder = NoopComponentTimingRecorder()
		}
	}()
	created := f.delegate.Create(component)
	if created == nil {
		return NoopComponentTimingRecorder()
	}
	return nonThrowingComponentTimingRecorder{delegate: created}
}

type nonThrowingComponentTimingRecorder struct {
	delegate ComponentTimingRecorder
}

func (c nonThrowingComponentTimingRecorder) ProducerTimingRecorderFor(token Token) (recorder ProducerTimingRecorder) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("component timing recorder panicked",
				slog.String("token", token.Name()),
				slog.Any("panic", r))
			recorder = NoopProducerTimingRecorder()
		}
	}()
	created := c.delegate.ProducerTimingRecorderFor(token)
	if created == nil {
		return NoopProducerTimingRecorder()
	}
	return nonThrowingProducerTimingRecorder{delegate: created}
}

type nonThrowingProducerTimingRecorder struct {
	delegate ProducerTimingRecorder
}

func (r nonThrowingProducerTimingRecorder) RecordMethod(startedNanos, durationNanos int64) {
	guardRecorder("RecordMethod", func() { r.delegate.RecordMethod(startedNanos, durationNanos) })
}

func (r nonThrowingProducerTimingRecorder) RecordSuccess(latencyNanos int64) {
	guardRecorder("RecordSuccess", func() { r.delegate.RecordSuccess(latencyNanos) })
}

func (r nonThrowingProducerTimingRecorder) RecordFailure(err error, latencyNanos int64) {
	guardRecorder("RecordFailure", func() { r.delegate.RecordFailure(err, latencyNanos) })
}

func (r nonThrowingProducerTimingRecorder) RecordSkip(err error) {
	guardRecorder("RecordSkip", func() { r.delegate.RecordSkip(err) })
}

type delegatingTimingRecorderFactory struct {
	delegates []TimingRecorderFactory
}

func (f delegatingTimingRecorderFactory) Create(component any) ComponentTimingRecorder {
	recorders := make([]ComponentTimingRecorder, 0, len(f.delegates))
	for _, delegate := range f.delegates {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("timing recorder factory panicked", slog.Any("panic", r))
				}
			}()
			if c := delegate.Create(component); c != nil {
				recorders = append(recorders, c)
			}
		}()
	}
	switch len(recorders) {
	case 0:
		return NoopComponentTimingRecorder()
	case 1:
		return nonThrowingComponentTimingRecorder{delegate: recorders[0]}
	default:
		return delegatingComponentTimingRecorder{delegates: recorders}
	}
}

type delegatingComponentTimingRecorder struct {
	delegates []ComponentTimingRecorder
}

func (c delegatingComponentTimingRecorder) ProducerTimingRecorderFor(token Token) ProducerTimingRecorder {
	recorders := make([]ProducerTimingRecorder, 0, len(c.delegates))
	for _, delegate := range c.delegates {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("component timing recorder panicked",
						slog.String("token", token.Name()),
						slog.Any("panic", r))
				}
			}()
			if pr := delegate.ProducerTimingRecorderFor(token); pr != nil {
				recorders = append(recorders, pr)
			}
		}()
	}
	switch len(recorders) {
	case 0:
		return NoopProducerTimingRecorder()
	case 1:
		return nonThrowingProducerTimingRecorder{delegate: recorders[0]}
	default:
		return delegatingProducerTimingRecorder{delegates: recorders}
	}
}

// delegatingProducerTimingRecorder fans each record call out to every
// installed recorder. Completion-side calls unwind in reverse
// registration order, mirroring the monitor dispatch.
type delegatingProducerTimingRecorder struct {
	delegates []ProducerTimingRecorder
}

func (r delegatingProducerTimingRecorder) RecordMethod(startedNanos, durationNanos int64) {
	for _, d := range r.delegates {
		d := d
		guardRecorder("RecordMethod", func() { d.RecordMethod(startedNanos, durationNanos) })
	}
}

func (r delegatingProducerTimingRecorder) RecordSuccess(latencyNanos int64) {
	for i := len(r.delegates) - 1; i >= 0; i-- {
		d := r.delegates[i]
		guardRecorder("RecordSuccess", func() { d.RecordSuccess(latencyNanos) })
	}
}

func (r delegatingProducerTimingRecorder) RecordFailure(err error, latencyNanos int64) {
	for i := len(r.delegates) - 1; i >= 0; i-- {
		d := r.delegates[i]
		guardRecorder("RecordFailure", func() { d.RecordFailure(err, latencyNanos) })
	}
}

func (r delegatingProducerTimingRecorder) RecordSkip(err error) {
	for i := len(r.delegates) - 1; i >= 0; i-- {
		d := r.delegates[i]
		guardRecorder("RecordSkip", func() { d.RecordSkip(err) })
	}
}

// TimingMonitorFactory bridges the two hierarchies: it produces
// lifecycle monitors that clock each producer with a wall clock and
// report samples to the timing recorders created by recorderFactory.
func TimingMonitorFactory(recorderFactory TimingRecorderFactory) MonitorFactory {
	return MonitorFactoryFunc(func(component any) ComponentMonitor {
		return &timingComponentMonitor{
			recorder: recorderFactory.Create(component),
			epoch:    time.Now(),
		}
	})
}

type timingComponentMonitor struct {
	recorder ComponentTimingRecorder
	epoch    time.Time
}

func (c *timingComponentMonitor) ProducerMonitorFor(token Token) ProducerMonitor {
	return &timingProducerMonitor{
		recorder: c.recorder.ProducerTimingRecorderFor(token),
		epoch:    c.epoch,
	}
}

// timingProducerMonitor translates one producer's lifecycle into timing
// samples. Lifecycle ordering guarantees each field is written before it
// is read.
type timingProducerMonitor struct {
	recorder    ProducerTimingRecorder
	epoch       time.Time
	requestedAt time.Time
	startedAt   time.Time
	started     bool
}

func (m *timingProducerMonitor) Requested() {
	m.requestedAt = time.Now()
}

func (m *timingProducerMonitor) Ready() {}

func (m *timingProducerMonitor) MethodStarting() {
	m.startedAt = time.Now()
	m.started = true
}

func (m *timingProducerMonitor) MethodFinished() {
	m.recorder.RecordMethod(
		m.startedAt.Sub(m.epoch).Nanoseconds(),
		time.Since(m.startedAt).Nanoseconds())
}

func (m *timingProducerMonitor) Succeeded(any) {
	m.recorder.RecordSuccess(time.Since(m.requestedAt).Nanoseconds())
}

func (m *timingProducerMonitor) Failed(err error) {
	if !m.started {
		m.recorder.RecordSkip(err)
		return
	}
	m.recorder.RecordFailure(err, time.Since(m.requestedAt).Nanoseconds())
}
