package monitoring

// ProducerMonitor observes the lifecycle of a single producer. For each
// producer the methods are called in this order:
//
//  1. Requested - the producer's output was requested for the first time
//  2. Ready - all of the producer's dependency futures have completed
//  3. MethodStarting - the compute method is about to be invoked
//  4. MethodFinished - the compute method returned
//  5. exactly one of Succeeded or Failed, once the result resolves
//
// Implementations need not be safe for use by multiple producers; the
// component monitor hands out one ProducerMonitor per producer token.
// Dispatch guarantees that a panic in any method is logged and
// suppressed without affecting graph computation.
type ProducerMonitor interface {
	// Requested is called when the producer's output is first requested.
	Requested()

	// Ready is called once all of the producer's dependencies are ready.
	Ready()

	// MethodStarting is called immediately before the compute method.
	// It runs on the same goroutine that executes the method.
	MethodStarting()

	// MethodFinished is called when the compute method has returned.
	// It runs on the same goroutine that executed the method.
	MethodFinished()

	// Succeeded is called when the producer's future resolves with a
	// value.
	Succeeded(value any)

	// Failed is called when the producer's future resolves with an
	// error, including cancellation.
	Failed(err error)
}

// ComponentMonitor hands out producer monitors for one graph instance.
type ComponentMonitor interface {
	// ProducerMonitorFor returns the monitor observing the producer
	// identified by token. Called once per producer per component.
	ProducerMonitorFor(token Token) ProducerMonitor
}

// MonitorFactory creates one ComponentMonitor per graph instance, given
// an opaque component handle. Installed factories are asked exactly once
// per component.
type MonitorFactory interface {
	Create(component any) ComponentMonitor
}

// MonitorFactoryFunc adapts a function to MonitorFactory.
type MonitorFactoryFunc func(component any) ComponentMonitor

// Create implements MonitorFactory.
func (f MonitorFactoryFunc) Create(component any) ComponentMonitor {
	return f(component)
}
