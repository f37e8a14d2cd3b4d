package future

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// ErrCancelled is returned by Result and Wait when a future was cancelled
// before it produced a value.
var ErrCancelled = errors.New("future cancelled")

// CancelFunc cancels a protected future. The interrupt flag requests that
// a running computation be interrupted rather than merely abandoned.
// Returns false if the future was already complete.
type CancelFunc func(interrupt bool) bool

// PanicError captures a panic raised inside a computation run by Go.
// It includes the stack trace for debugging.
type PanicError struct {
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("computation panicked: %v", e.Value)
}

// Future is a single-assignment asynchronous result of type T.
//
// A Future is completed exactly once: by Set, SetError, the adopted result
// of SetFuture, or Cancel. Completing an already-completed future via Set,
// SetError, or SetFuture is a programming error and panics, with one
// exception: completing a cancelled future is a silent no-op, since the
// computation's result is simply discarded.
//
// All methods are safe for concurrent use.
type Future[T any] struct {
	mu          sync.Mutex
	done        chan struct{}
	value       T
	err         error
	cancelled   bool
	interrupted bool
	assigned    bool
	protected   bool
	listeners   []func()
}

// New creates an incomplete future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// NewProtected creates a future whose public Cancel method is a no-op,
// along with the CancelFunc that actually cancels it. A producer node
// keeps the CancelFunc private so that handing the future to consumers
// never hands out the ability to cancel the shared computation.
func NewProtected[T any]() (*Future[T], CancelFunc) {
	f := New[T]()
	f.protected = true
	return f, f.cancel
}

// Immediate returns a future already completed with the given value.
func Immediate[T any](value T) *Future[T] {
	f := New[T]()
	f.trySet(value)
	return f
}

// ImmediateError returns a future already failed with the given error.
func ImmediateError[T any](err error) *Future[T] {
	f := New[T]()
	f.trySetError(err)
	return f
}

// ImmediateCancelled returns a future that is already cancelled.
func ImmediateCancelled[T any]() *Future[T] {
	f := New[T]()
	f.cancel(false)
	return f
}

// Go runs fn on a new goroutine and returns a future for its result.
//
// The context handed to fn is cancelled when the future is cancelled with
// interrupt set, and when fn returns. Cancelling the future without
// interrupt leaves fn running; its eventual result is discarded. A panic
// inside fn fails the future with a *PanicError rather than crashing the
// process.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	f := New[T]()
	f.Listen(func() {
		if f.Cancelled() && f.Interrupted() {
			cancel()
		}
	})
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				f.trySetError(&PanicError{Value: r, Stack: string(debug.Stack())})
			}
		}()
		value, err := fn(runCtx)
		if err != nil {
			f.trySetError(err)
			return
		}
		f.trySet(value)
	}()
	return f
}

// Set completes the future with a value.
// Panics if the future was already assigned a result; no-op if cancelled.
func (f *Future[T]) Set(value T) {
	if !f.trySet(value) && !f.Cancelled() {
		panic("future: result assigned twice")
	}
}

// SetError fails the future with an error.
// Panics if the future was already assigned a result; no-op if cancelled.
func (f *Future[T]) SetError(err error) {
	if !f.trySetError(err) && !f.Cancelled() {
		panic("future: result assigned twice")
	}
}

// SetFuture completes this future with the eventual result of src,
// including cancellation. Cancelling this future after SetFuture
// propagates the cancellation to src.
//
// Panics if the future was already assigned a result; no-op if cancelled.
func (f *Future[T]) SetFuture(src *Future[T]) {
	f.mu.Lock()
	if f.isDoneLocked() {
		cancelled := f.cancelled
		interrupted := f.interrupted
		f.mu.Unlock()
		if cancelled {
			src.Cancel(interrupted)
			return
		}
		panic("future: result assigned twice")
	}
	if f.assigned {
		f.mu.Unlock()
		panic("future: result assigned twice")
	}
	f.assigned = true
	f.mu.Unlock()

	f.Listen(func() {
		if f.Cancelled() {
			src.Cancel(f.Interrupted())
		}
	})
	src.Listen(func() {
		f.adopt(src)
	})
}

// Cancel requests cancellation. For a protected future this is a no-op
// that returns false; the owning node cancels through its private
// CancelFunc instead. Cancelling a completed future returns false.
func (f *Future[T]) Cancel(interrupt bool) bool {
	if f.protected {
		return false
	}
	return f.cancel(interrupt)
}

// Done returns a channel that is closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future has completed.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Cancelled reports whether the future completed by cancellation.
func (f *Future[T]) Cancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// Interrupted reports whether the future was cancelled with the interrupt
// flag set.
func (f *Future[T]) Interrupted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled && f.interrupted
}

// Result blocks until the future completes and returns its value or
// error. A cancelled future returns ErrCancelled.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Wait blocks until the future completes or ctx is done, whichever comes
// first. Waiting does not cancel the future.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Listen registers fn to run exactly once when the future completes,
// including by cancellation. If the future is already complete, fn runs
// immediately on the calling goroutine; otherwise it runs on the
// completing goroutine.
func (f *Future[T]) Listen(fn func()) {
	f.mu.Lock()
	if f.isDoneLocked() {
		f.mu.Unlock()
		fn()
		return
	}
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// trySet completes the future with a value if it is still incomplete.
func (f *Future[T]) trySet(value T) bool {
	f.mu.Lock()
	if f.isDoneLocked() {
		f.mu.Unlock()
		return false
	}
	f.value = value
	listeners := f.completeLocked()
	f.mu.Unlock()
	runListeners(listeners)
	return true
}

// trySetError fails the future if it is still incomplete.
func (f *Future[T]) trySetError(err error) bool {
	f.mu.Lock()
	if f.isDoneLocked() {
		f.mu.Unlock()
		return false
	}
	f.err = err
	listeners := f.completeLocked()
	f.mu.Unlock()
	runListeners(listeners)
	return true
}

// cancel marks the future cancelled, bypassing protection.
func (f *Future[T]) cancel(interrupt bool) bool {
	f.mu.Lock()
	if f.isDoneLocked() {
		f.mu.Unlock()
		return false
	}
	f.cancelled = true
	f.interrupted = interrupt
	f.err = ErrCancelled
	listeners := f.completeLocked()
	f.mu.Unlock()
	runListeners(listeners)
	return true
}

// adopt copies the terminal state of a completed src into f.
// Used by SetFuture and NonCancellationPropagating once src is done.
func (f *Future[T]) adopt(src *Future[T]) {
	src.mu.Lock()
	value, err := src.value, src.err
	cancelled, interrupted := src.cancelled, src.interrupted
	src.mu.Unlock()

	if cancelled {
		f.cancel(interrupted)
		return
	}
	if err != nil {
		f.trySetError(err)
		return
	}
	f.trySet(value)
}

// isDoneLocked reports completion; callers must hold f.mu.
func (f *Future[T]) isDoneLocked() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// completeLocked closes the done channel and detaches the listener list.
// Callers must hold f.mu and run the returned listeners after unlocking.
func (f *Future[T]) completeLocked() []func() {
	close(f.done)
	listeners := f.listeners
	f.listeners = nil
	return listeners
}

func runListeners(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
