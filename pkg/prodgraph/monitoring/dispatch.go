package monitoring

import "log/slog"

// DelegatingMonitorFactory returns a factory that fans out to the given
// factories and guarantees that no method called on it, even
// transitively, panics or returns nil.
//
// With zero factories every call is a shared no-op; with one, calls are
// forwarded through a panic-isolating wrapper; with several, producer
// monitors fan out to each installed monitor. Requested, Ready, and
// MethodStarting are dispatched in registration order; MethodFinished,
// Succeeded, and Failed are dispatched in reverse registration order,
// mirroring nested-scope unwind: the monitor that started observing last
// finishes observing first.
func DelegatingMonitorFactory(factories []MonitorFactory) MonitorFactory {
	switch len(factories) {
	case 0:
		return NoopMonitorFactory()
	case 1:
		return nonThrowingMonitorFactory{delegate: factories[0]}
	default:
		return delegatingMonitorFactory{delegates: factories}
	}
}

// CreateComponentMonitor builds the component monitor for one graph
// instance from the installed factories. It never panics and never
// returns nil: a panic while constructing monitors is logged and yields
// a no-op monitor.
func CreateComponentMonitor(component any, factories []MonitorFactory) (monitor ComponentMonitor) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while constructing producer monitors",
				slog.Any("panic", r))
			monitor = NoopComponentMonitor()
		}
	}()
	return DelegatingMonitorFactory(factories).Create(component)
}

// logMonitorPanic records a recovered panic from a monitor method.
func logMonitorPanic(method string, r any) {
	slog.Error("producer monitor panicked",
		slog.String("method", method),
		slog.Any("panic", r))
}

// guard invokes fn and converts a panic into a log entry.
func guard(method string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logMonitorPanic(method, r)
		}
	}()
	fn()
}

// nonThrowingMonitorFactory wraps a single factory so that panics and
// nil returns cannot escape.
type nonThrowingMonitorFactory struct {
	delegate MonitorFactory
}

func (f nonThrowingMonitorFactory) Create(component any) (monitor ComponentMonitor) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("monitor factory panicked",
				slog.Any("panic", r))
			monitor = NoopComponentMonitor()
		}
	}()
	created := f.delegate.Create(component)
	if created == nil {
		return NoopComponentMonitor()
	}
	return nonThrowingComponentMonitor{delegate: created}
}

// nonThrowingComponentMonitor wraps a single component monitor.
type nonThrowingComponentMonitor struct {
	delegate ComponentMonitor
}

func (m nonThrowingComponentMonitor) ProducerMonitorFor(token Token) (pm ProducerMonitor) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("component monitor panicked",
				slog.String("token", token.Name()),
				slog.Any("panic", r))
			pm = NoopProducerMonitor()
		}
	}()
	created := m.delegate.ProducerMonitorFor(token)
	if created == nil {
		return NoopProducerMonitor()
	}
	return nonThrowingProducerMonitor{delegate: created}
}

// nonThrowingProducerMonitor forwards to a single monitor, isolating
// each call.
type nonThrowingProducerMonitor struct {
	delegate ProducerMonitor
}

func (m nonThrowingProducerMonitor) Requested() {
	guard("Requested", m.delegate.Requested)
}

func (m nonThrowingProducerMonitor) Ready() {
	guard("Ready", m.delegate.Ready)
}

func (m nonThrowingProducerMonitor) MethodStarting() {
	guard("MethodStarting", m.delegate.MethodStarting)
}

func (m nonThrowingProducerMonitor) MethodFinished() {
	guard("MethodFinished", m.delegate.MethodFinished)
}

func (m nonThrowingProducerMonitor) Succeeded(value any) {
	guard("Succeeded", func() { m.delegate.Succeeded(value) })
}

func (m nonThrowingProducerMonitor) Failed(err error) {
	guard("Failed", func() { m.delegate.Failed(err) })
}

// delegatingMonitorFactory fans component creation out to several
// factories, isolating each.
type delegatingMonitorFactory struct {
	delegates []MonitorFactory
}

func (f delegatingMonitorFactory) Create(component any) ComponentMonitor {
	monitors := make([]ComponentMonitor, 0, len(f.delegates))
	for _, delegate := range f.delegates {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("monitor factory panicked",
						slog.Any("panic", r))
				}
			}()
			if m := delegate.Create(component); m != nil {
				monitors = append(monitors, m)
			}
		}()
	}
	switch len(monitors) {
	case 0:
		return NoopComponentMonitor()
	case 1:
		return nonThrowingComponentMonitor{delegate: monitors[0]}
	default:
		return delegatingComponentMonitor{delegates: monitors}
	}
}

// delegatingComponentMonitor collects one producer monitor per delegate
// for each token, isolating each lookup.
type delegatingComponentMonitor struct {
	delegates []ComponentMonitor
}

func (m delegatingComponentMonitor) ProducerMonitorFor(token Token) ProducerMonitor {
	monitors := make([]ProducerMonitor, 0, len(m.delegates))
	for _, delegate := range m.delegates {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("component monitor panicked",
						slog.String("token", token.Name()),
						slog.Any("panic", r))
				}
			}()
			if pm := delegate.ProducerMonitorFor(token); pm != nil {
				monitors = append(monitors, pm)
			}
		}()
	}
	switch len(monitors) {
	case 0:
		return NoopProducerMonitor()
	case 1:
		return nonThrowingProducerMonitor{delegate: monitors[0]}
	default:
		return delegatingProducerMonitor{delegates: monitors}
	}
}

// delegatingProducerMonitor fans each lifecycle call out to every
// installed monitor. Completion callbacks unwind in reverse registration
// order.
type delegatingProducerMonitor struct {
	delegates []ProducerMonitor
}

func (m delegatingProducerMonitor) Requested() {
	for _, d := range m.delegates {
		guard("Requested", d.Requested)
	}
}

func (m delegatingProducerMonitor) Ready() {
	for _, d := range m.delegates {
		guard("Ready", d.Ready)
	}
}

func (m delegatingProducerMonitor) MethodStarting() {
	for _, d := range m.delegates {
		guard("MethodStarting", d.MethodStarting)
	}
}

func (m delegatingProducerMonitor) MethodFinished() {
	for i := len(m.delegates) - 1; i >= 0; i-- {
		guard("MethodFinished", m.delegates[i].MethodFinished)
	}
}

func (m delegatingProducerMonitor) Succeeded(value any) {
	for i := len(m.delegates) - 1; i >= 0; i-- {
		d := m.delegates[i]
		guard("Succeeded", func() { d.Succeeded(value) })
	}
}

func (m delegatingProducerMonitor) Failed(err error) {
	for i := len(m.delegates) - 1; i >= 0; i-- {
		d := m.delegates[i]
		guard("Failed", func() { d.Failed(err) })
	}
}
