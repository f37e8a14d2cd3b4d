package prodgraph

import (
	"context"
	"sync/atomic"

	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
	"github.com/randalmurphal/prodgraph/pkg/prodgraph/monitoring"
)

// Awaitable is the type-erased handle a node holds on a dependency's
// future: completion is observed through the Done channel. Every
// *future.Future satisfies it.
type Awaitable interface {
	Done() <-chan struct{}
}

// nodeConfig holds per-node construction options.
type nodeConfig struct {
	monitor monitoring.ProducerMonitor
	deps    []Awaitable
}

// NodeOption configures a node at construction time.
type NodeOption func(*nodeConfig)

// WithMonitor attaches a lifecycle monitor to the node. The monitor is
// invoked at the defined lifecycle points of the node's single
// computation; a nil monitor is replaced with a no-op.
func WithMonitor(m monitoring.ProducerMonitor) NodeOption {
	return func(c *nodeConfig) {
		if m != nil {
			c.monitor = m
		}
	}
}

// WithDependencies delays the node's computation until every given
// dependency future has completed. The node only observes completion;
// reading dependency values is the compute function's business.
func WithDependencies(deps ...Awaitable) NodeOption {
	return func(c *nodeConfig) {
		c.deps = append(c.deps, deps...)
	}
}

// Node is a memoized asynchronous producer. The first Get starts its
// computation exactly once; every caller shares the same result future.
// Cancelling the node marks it started, so a late first request cannot
// begin a computation that is already unwanted.
type Node[T any] struct {
	compute   func() *future.Future[T]
	monitor   monitoring.ProducerMonitor
	deps      []Awaitable
	requested atomic.Bool
	result    *future.Future[T]
	cancel    future.CancelFunc
}

var _ CancellableProducer[int] = (*Node[int])(nil)

// NewNode creates a memoized node around a value-returning compute
// function. The function runs on its own goroutine; the context it
// receives is cancelled when the node is cancelled with interrupt set.
func NewNode[T any](compute func(ctx context.Context) (T, error), opts ...NodeOption) *Node[T] {
	if compute == nil {
		panic("prodgraph: compute function cannot be nil")
	}
	n := newNode[T](opts)
	n.compute = func() *future.Future[T] {
		m := n.monitor
		m.MethodStarting()
		f := future.Go(context.Background(), func(ctx context.Context) (T, error) {
			defer m.MethodFinished()
			return compute(ctx)
		})
		return f
	}
	return n
}

// NewFutureNode creates a memoized node around a compute function that is
// itself asynchronous: it returns a future rather than a value. The
// method-starting/finished monitor window covers the synchronous call
// that obtains the future; success or failure is reported when the
// future resolves.
func NewFutureNode[T any](compute func() *future.Future[T], opts ...NodeOption) *Node[T] {
	if compute == nil {
		panic("prodgraph: compute function cannot be nil")
	}
	n := newNode[T](opts)
	n.compute = func() *future.Future[T] {
		n.monitor.MethodStarting()
		defer n.monitor.MethodFinished()
		return compute()
	}
	return n
}

func newNode[T any](opts []NodeOption) *Node[T] {
	cfg := nodeConfig{monitor: monitoring.NoopProducerMonitor()}
	for _, opt := range opts {
		opt(&cfg)
	}
	result, cancel := future.NewProtected[T]()
	return &Node[T]{
		monitor: cfg.monitor,
		deps:    cfg.deps,
		result:  result,
		cancel:  cancel,
	}
}

// Get requests the node's value. The first call starts the computation;
// subsequent calls, concurrent or sequential, return the same future
// without re-invoking the compute function.
func (n *Node[T]) Get() *future.Future[T] {
	if n.requested.CompareAndSwap(false, true) {
		n.start()
	}
	return n.result
}

// start runs the node's single computation: report the request, wait for
// dependencies, then invoke compute and bind its future to the result.
func (n *Node[T]) start() {
	m := n.monitor
	m.Requested()
	n.result.Listen(func() {
		value, err := n.result.Result()
		if err != nil {
			m.Failed(err)
			return
		}
		m.Succeeded(value)
	})

	if len(n.deps) == 0 {
		m.Ready()
		n.result.SetFuture(n.compute())
		return
	}
	go func() {
		for _, dep := range n.deps {
			<-dep.Done()
		}
		if n.result.IsDone() {
			// Cancelled while waiting; don't start a doomed computation.
			return
		}
		m.Ready()
		n.result.SetFuture(n.compute())
	}()
}

// Cancel marks the node started, so a later Get cannot begin the
// computation, and cancels the result future. Resolving computations are
// interrupted only when interrupt is set; an already-resolved node is
// unaffected.
func (n *Node[T]) Cancel(interrupt bool) {
	n.requested.Store(true)
	n.cancel(interrupt)
}

// NewDependencyView returns a handle over the node's eventual result
// whose cancellation never cancels the node. It protects the shared
// computation from a single consumer's cancellation.
func (n *Node[T]) NewDependencyView() Producer[T] {
	return newDependencyView(n.forceGet, n.result)
}

// NewEntryPointView returns a handle over the node's eventual result
// whose cancellation notifies the listener with the interrupt flag used.
// Cascading cancellation, if desired, is the listener's responsibility.
func (n *Node[T]) NewEntryPointView(listener CancellationListener) Producer[T] {
	return newEntryPointView(n.forceGet, n.result, listener)
}

func (n *Node[T]) forceGet() {
	n.Get()
}
