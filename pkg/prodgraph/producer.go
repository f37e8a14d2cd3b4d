package prodgraph

import (
	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
)

// Producer is the consumption surface of a single graph node: a deferred
// computation of type T, requested through Get.
//
// Get never blocks. Implementations differ in whether the returned
// future is memoized (Node) or fresh per call (EscapedProducer).
type Producer[T any] interface {
	// Get requests the producer's value and returns a future for it.
	Get() *future.Future[T]
}

// CancellationListener is notified when an entry-point view's future is
// cancelled, with the interrupt flag that was used. The listener decides
// any follow-up action, typically cancelling the node itself.
type CancellationListener func(interrupt bool)

// CancellableProducer is the full capability surface that every node
// implementation in the graph satisfies directly. There is no runtime
// capability probing: wiring code always holds producers through this
// interface.
type CancellableProducer[T any] interface {
	Producer[T]

	// Cancel requests cancellation of the underlying computation.
	// The interrupt flag requests interruption of a running computation.
	// Cancelling an already-resolved producer is a no-op.
	Cancel(interrupt bool)

	// NewDependencyView returns a handle over the same eventual result
	// whose cancellation does not affect the underlying producer.
	NewDependencyView() Producer[T]

	// NewEntryPointView returns a handle over the same eventual result
	// whose cancellation notifies the listener instead of cancelling the
	// underlying producer.
	NewEntryPointView(listener CancellationListener) Producer[T]
}

// producerFunc adapts a future-returning function to Producer.
type producerFunc[T any] func() *future.Future[T]

func (f producerFunc[T]) Get() *future.Future[T] {
	return f()
}

// ImmediateProducer returns a producer that always succeeds with value.
func ImmediateProducer[T any](value T) Producer[T] {
	f := future.Immediate(value)
	return producerFunc[T](func() *future.Future[T] { return f })
}

// ImmediateFailedProducer returns a producer that always fails with err.
func ImmediateFailedProducer[T any](err error) Producer[T] {
	f := future.ImmediateError[T](err)
	return producerFunc[T](func() *future.Future[T] { return f })
}

// ProducerFromFunc returns a producer that executes fn synchronously on
// every Get call, yielding an already-completed future. Used to bridge
// plain provision bindings into the graph.
func ProducerFromFunc[T any](fn func() (T, error)) Producer[T] {
	if fn == nil {
		panic("prodgraph: producer function cannot be nil")
	}
	return producerFunc[T](func() *future.Future[T] {
		value, err := fn()
		if err != nil {
			return future.ImmediateError[T](err)
		}
		return future.Immediate(value)
	})
}

// view is a consumer-scoped handle over a producer's result. Requesting
// it forces the underlying computation; cancelling its future never
// reaches the shared result.
type view[T any] struct {
	force func()
	fut   *future.Future[T]
}

func (v *view[T]) Get() *future.Future[T] {
	v.force()
	return v.fut
}

// newDependencyView builds a view over result that forces the owning
// producer on first request.
func newDependencyView[T any](force func(), result *future.Future[T]) Producer[T] {
	return &view[T]{force: force, fut: future.NonCancellationPropagating(result)}
}

// newEntryPointView builds a view that additionally notifies listener
// when the view's own future is observed cancelled.
func newEntryPointView[T any](force func(), result *future.Future[T], listener CancellationListener) Producer[T] {
	viewFut := future.NonCancellationPropagating(result)
	viewFut.Listen(func() {
		if viewFut.Cancelled() {
			listener(viewFut.Interrupted())
		}
	})
	return &view[T]{force: force, fut: viewFut}
}
