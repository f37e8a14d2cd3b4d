package prodgraph

import (
	"sync"

	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
)

// EscapedProducer wraps futures obtained from a collaborator outside the
// graph's own memoization scheme. Unlike Node, Get is not memoized: each
// request invokes the external call and can yield a fresh future, so
// cancellation has to track every outstanding future explicitly.
//
// Outstanding futures deregister themselves from the tracking set on
// completion, so the set holds only not-yet-resolved futures.
type EscapedProducer[T any] struct {
	call func() *future.Future[T]

	mu          sync.Mutex
	cancelled   bool
	outstanding map[*future.Future[T]]struct{}
}

var _ CancellableProducer[int] = (*EscapedProducer[int])(nil)

// NewEscapedProducer creates a producer around an external call that
// yields a fresh future per invocation.
func NewEscapedProducer[T any](call func() *future.Future[T]) *EscapedProducer[T] {
	if call == nil {
		panic("prodgraph: external call cannot be nil")
	}
	return &EscapedProducer[T]{
		call:        call,
		outstanding: make(map[*future.Future[T]]struct{}),
	}
}

// Get invokes the external call and returns its future. Once the
// producer has been cancelled, every subsequent Get returns an
// immediately-cancelled future without invoking the call.
func (e *EscapedProducer[T]) Get() *future.Future[T] {
	e.mu.Lock()
	if e.cancelled {
		e.mu.Unlock()
		return future.ImmediateCancelled[T]()
	}
	f := e.call()
	if f == nil {
		e.mu.Unlock()
		panic("prodgraph: external call returned nil future")
	}
	e.outstanding[f] = struct{}{}
	e.mu.Unlock()

	// Registered outside the lock: a completed future runs its listener
	// immediately, and the listener takes the lock itself.
	f.Listen(func() {
		e.mu.Lock()
		delete(e.outstanding, f)
		e.mu.Unlock()
	})
	return f
}

// Cancel marks the producer cancelled for all future Get calls and
// best-effort cancels every currently outstanding future. Futures that
// already completed are simply skipped.
func (e *EscapedProducer[T]) Cancel(interrupt bool) {
	e.mu.Lock()
	e.cancelled = true
	pending := make([]*future.Future[T], 0, len(e.outstanding))
	for f := range e.outstanding {
		pending = append(pending, f)
	}
	e.mu.Unlock()

	for _, f := range pending {
		f.Cancel(interrupt)
	}
}

// NewDependencyView returns a handle whose futures cannot cancel the
// external futures they observe. Like Get, each request yields a fresh
// future.
func (e *EscapedProducer[T]) NewDependencyView() Producer[T] {
	return producerFunc[T](func() *future.Future[T] {
		return future.NonCancellationPropagating(e.Get())
	})
}

// NewEntryPointView returns a handle that watches the futures it hands
// out: when one of them is observed cancelled, typically by the external
// system, the listener is notified with the interrupt flag used.
func (e *EscapedProducer[T]) NewEntryPointView(listener CancellationListener) Producer[T] {
	return producerFunc[T](func() *future.Future[T] {
		f := e.Get()
		f.Listen(func() {
			if f.Cancelled() {
				listener(f.Interrupted())
			}
		})
		return f
	})
}
