package future

import "sync/atomic"

// AllAsList returns a future for the values of all input futures, in
// input order. It fails as soon as any input fails, with that input's
// error; if an input is cancelled, the output is cancelled. Cancelling
// the output attempts to cancel every input.
//
// An empty input completes immediately with an empty slice.
func AllAsList[T any](futures []*Future[T]) *Future[[]T] {
	if len(futures) == 0 {
		return Immediate([]T{})
	}

	out := New[[]T]()
	out.Listen(func() {
		if out.Cancelled() {
			interrupt := out.Interrupted()
			for _, f := range futures {
				f.Cancel(interrupt)
			}
		}
	})

	results := make([]T, len(futures))
	var remaining atomic.Int32
	remaining.Store(int32(len(futures)))

	for i, f := range futures {
		i, f := i, f
		f.Listen(func() {
			value, err := f.Result()
			if err != nil {
				if f.Cancelled() {
					out.cancel(f.Interrupted())
				} else {
					out.trySetError(err)
				}
				return
			}
			results[i] = value
			if remaining.Add(-1) == 0 {
				out.trySet(results)
			}
		})
	}
	return out
}

// WhenAll returns a future that completes once every input future has
// completed, regardless of individual success or failure. It never fails.
// Used to settle captured aggregates, whose per-element outcomes are read
// individually afterwards.
func WhenAll[T any](futures []*Future[T]) *Future[struct{}] {
	if len(futures) == 0 {
		return Immediate(struct{}{})
	}

	out := New[struct{}]()
	var remaining atomic.Int32
	remaining.Store(int32(len(futures)))

	for _, f := range futures {
		f.Listen(func() {
			if remaining.Add(-1) == 0 {
				out.trySet(struct{}{})
			}
		})
	}
	return out
}

// Transform returns a future for fn applied to f's value. Failure and
// cancellation propagate from f to the output; cancelling the output
// propagates back to f. fn runs on the goroutine that completes f.
func Transform[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	out := New[U]()
	out.Listen(func() {
		if out.Cancelled() {
			f.Cancel(out.Interrupted())
		}
	})
	f.Listen(func() {
		value, err := f.Result()
		if err != nil {
			if f.Cancelled() {
				out.cancel(f.Interrupted())
			} else {
				out.trySetError(err)
			}
			return
		}
		out.trySet(fn(value))
	})
	return out
}

// TransformErr is Transform for functions that can fail: a non-nil error
// from fn fails the output future.
func TransformErr[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out := New[U]()
	out.Listen(func() {
		if out.Cancelled() {
			f.Cancel(out.Interrupted())
		}
	})
	f.Listen(func() {
		value, err := f.Result()
		if err != nil {
			if f.Cancelled() {
				out.cancel(f.Interrupted())
			} else {
				out.trySetError(err)
			}
			return
		}
		mapped, err := fn(value)
		if err != nil {
			out.trySetError(err)
			return
		}
		out.trySet(mapped)
	})
	return out
}

// Catching returns a future that completes with f's value on success, or
// with fn(err) when f fails. Cancellation of f is treated as a failure
// with ErrCancelled. Used to fold failures into explicit outcome values.
func Catching[T any](f *Future[T], fn func(error) T) *Future[T] {
	out := New[T]()
	f.Listen(func() {
		value, err := f.Result()
		if err != nil {
			out.trySet(fn(err))
			return
		}
		out.trySet(value)
	})
	return out
}

// NonCancellationPropagating returns a view of f that observes the same
// terminal value, failure, or cancellation, but whose own cancellation
// does not reach f. The view records the interrupt flag it was cancelled
// with, so an entry point can inspect how it was cancelled.
//
// If f is already complete it is returned directly.
func NonCancellationPropagating[T any](f *Future[T]) *Future[T] {
	if f.IsDone() {
		return f
	}
	out := New[T]()
	f.Listen(func() {
		out.adopt(f)
	})
	return out
}
