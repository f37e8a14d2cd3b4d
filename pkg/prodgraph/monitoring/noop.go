package monitoring

// noopProducerMonitor does nothing. A single shared instance backs every
// producer with no observers installed, so monitoring adds no
// per-producer allocation in the unmonitored case.
type noopProducerMonitor struct{}

// Compile-time interface check.
var _ ProducerMonitor = noopProducerMonitor{}

func (noopProducerMonitor) Requested() {}
func (noopProducerMonitor) Ready() {}
func (noopProducerMonitor) MethodStarting() {}
func (noopProducerMonitor) MethodFinished() {}
func (noopProducerMonitor) Succeeded(any) {}
func (noopProducerMonitor) Failed(error) {}

var sharedNoopProducerMonitor ProducerMonitor = noopProducerMonitor{}

// NoopProducerMonitor returns the shared monitor that does nothing.
func NoopProducerMonitor() ProducerMonitor {
	return sharedNoopProducerMonitor
}

// noopComponentMonitor hands out the no-op producer monitor.
type noopComponentMonitor struct{}

// Compile-time interface check.
var _ ComponentMonitor = noopComponentMonitor{}

func (noopComponentMonitor) ProducerMonitorFor(Token) ProducerMonitor {
	return sharedNoopProducerMonitor
}

var sharedNoopComponentMonitor ComponentMonitor = noopComponentMonitor{}

// NoopComponentMonitor returns the shared component monitor that does
// nothing.
func NoopComponentMonitor() ComponentMonitor {
	return sharedNoopComponentMonitor
}

// NoopMonitorFactory returns a factory whose component monitors do
// nothing.
func NoopMonitorFactory() MonitorFactory {
	return MonitorFactoryFunc(func(any) ComponentMonitor {
		return sharedNoopComponentMonitor
	})
}

// noopTimingRecorder does nothing.
type noopTimingRecorder struct{}

// Compile-time interface check.
var _ ProducerTimingRecorder = noopTimingRecorder{}

func (noopTimingRecorder) RecordMethod(int64, int64) {}
func (noopTimingRecorder) RecordSuccess(int64) {}
func (noopTimingRecorder) RecordFailure(error, int64) {}
func (noopTimingRecorder) RecordSkip(error) {}

var sharedNoopTimingRecorder ProducerTimingRecorder = noopTimingRecorder{}

// NoopProducerTimingRecorder returns the shared timing recorder that
// does nothing.
func NoopProducerTimingRecorder() ProducerTimingRecorder {
	return sharedNoopTimingRecorder
}

// noopComponentTimingRecorder hands out the no-op timing recorder.
type noopComponentTimingRecorder struct{}

// Compile-time interface check.
var _ ComponentTimingRecorder = noopComponentTimingRecorder{}

func (noopComponentTimingRecorder) ProducerTimingRecorderFor(Token) ProducerTimingRecorder {
	return sharedNoopTimingRecorder
}

var sharedNoopComponentTimingRecorder ComponentTimingRecorder = noopComponentTimingRecorder{}

// NoopComponentTimingRecorder returns the shared component timing
// recorder that does nothing.
func NoopComponentTimingRecorder() ComponentTimingRecorder {
	return sharedNoopComponentTimingRecorder
}

// NoopTimingRecorderFactory returns a factory whose component recorders
// do nothing.
func NoopTimingRecorderFactory() TimingRecorderFactory {
	return TimingRecorderFactoryFunc(func(any) ComponentTimingRecorder {
		return sharedNoopComponentTimingRecorder
	})
}
