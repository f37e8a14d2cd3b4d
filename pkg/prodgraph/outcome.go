package prodgraph

// Outcome is the captured result of one aggregate contribution: either a
// value or the error that prevented one. Captured aggregates resolve to
// collections of outcomes instead of failing wholesale.
type Outcome[T any] struct {
	value T
	err   error
}

// Successful returns an outcome holding a value.
func Successful[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Failed returns an outcome holding the error that prevented a value.
func Failed[T any](err error) Outcome[T] {
	if err == nil {
		panic("prodgraph: failed outcome requires a non-nil error")
	}
	return Outcome[T]{err: err}
}

// Get returns the contribution's value, or the error it failed with.
func (o Outcome[T]) Get() (T, error) {
	return o.value, o.err
}

// Succeeded reports whether the contribution produced a value.
func (o Outcome[T]) Succeeded() bool {
	return o.err == nil
}
