package prodgraph

import (
	"reflect"

	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
)

// isNilValue reports whether a contributed value is nil for a type that
// can be nil (pointer, map, slice, interface, func, chan). Non-nillable
// value types never trigger a nil-contribution failure.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// sameProducer reports whether two contributed producers are the same
// object. Producers backed by uncomparable types cannot be identity
// checked and are treated as distinct.
func sameProducer[T any](a, b Producer[T]) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// containsProducer reports whether p was already contributed.
func containsProducer[T any](list []Producer[T], p Producer[T]) bool {
	for _, q := range list {
		if sameProducer(q, p) {
			return true
		}
	}
	return false
}

// mustGet requests a contribution's future, treating a nil return as a
// wiring bug.
func mustGet[T any](p Producer[T]) *future.Future[T] {
	f := p.Get()
	if f == nil {
		panic("prodgraph: contributed producer returned nil future")
	}
	return f
}
