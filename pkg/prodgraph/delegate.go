package prodgraph

import (
	"sync"

	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
)

// DelegateProducer is a placeholder node used to break
// initialization-order cycles during graph construction: it is wired by
// reference first, then bound to its real implementation exactly once
// with SetDelegate.
//
// Using the producer before SetDelegate, or binding it twice, is a
// wiring bug and panics. The graph generator guarantees a delegate is
// fully bound before first use; there is no race to tolerate here.
type DelegateProducer[T any] struct {
	mu       sync.Mutex
	delegate CancellableProducer[T]

	getOnce sync.Once
	fut     *future.Future[T]
}

var _ CancellableProducer[int] = (*DelegateProducer[int])(nil)

// NewDelegateProducer creates an unbound delegate placeholder.
func NewDelegateProducer[T any]() *DelegateProducer[T] {
	return &DelegateProducer[T]{}
}

// SetDelegate binds the placeholder to its real implementation.
// May be called exactly once; a second call panics.
func (d *DelegateProducer[T]) SetDelegate(inner CancellableProducer[T]) {
	if inner == nil {
		panic("prodgraph: delegate cannot be nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.delegate != nil {
		panic("prodgraph: delegate already set")
	}
	d.delegate = inner
}

// inner returns the bound implementation, panicking if unbound.
func (d *DelegateProducer[T]) inner() CancellableProducer[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.delegate == nil {
		panic("prodgraph: delegate not set")
	}
	return d.delegate
}

// Get forwards to the bound producer. The initial forwarding is
// memoized, so every caller shares the one future obtained from the
// delegate.
func (d *DelegateProducer[T]) Get() *future.Future[T] {
	inner := d.inner()
	d.getOnce.Do(func() {
		d.fut = inner.Get()
	})
	return d.fut
}

// Cancel forwards to the bound producer.
func (d *DelegateProducer[T]) Cancel(interrupt bool) {
	d.inner().Cancel(interrupt)
}

// NewDependencyView forwards to the bound producer.
func (d *DelegateProducer[T]) NewDependencyView() Producer[T] {
	return d.inner().NewDependencyView()
}

// NewEntryPointView forwards to the bound producer.
func (d *DelegateProducer[T]) NewEntryPointView(listener CancellationListener) Producer[T] {
	return d.inner().NewEntryPointView(listener)
}
