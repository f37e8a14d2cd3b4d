package prodgraph

import (
	"fmt"

	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
)

// mapContribution is one key's producer in a map aggregate.
type mapContribution[K comparable, V any] struct {
	key      K
	producer Producer[V]
}

// MapProducer is the strict map aggregate: it requests every
// contribution concurrently and resolves to a map of their values,
// failing wholesale if any contribution fails or resolves to nil.
// Keys are guaranteed unique at build time.
type MapProducer[K comparable, V any] struct {
	*Node[map[K]V]
	contributions []mapContribution[K, V]
}

// EmptyMapProducer returns a producer that resolves immediately to an
// empty map without scheduling any asynchronous work.
func EmptyMapProducer[K comparable, V any]() Producer[map[K]V] {
	return ImmediateProducer(map[K]V{})
}

// MapBuilder accumulates keyed contributions. Builders are single-use
// and intended for wiring code: contribute everything, then Build once.
type MapBuilder[K comparable, V any] struct {
	contributions []mapContribution[K, V]
	index         map[K]struct{}
	built         bool
}

// NewMapBuilder creates a builder for a strict map aggregate.
func NewMapBuilder[K comparable, V any]() *MapBuilder[K, V] {
	return &MapBuilder[K, V]{index: make(map[K]struct{})}
}

// Put contributes a producer under a key.
// Returns the builder for method chaining.
//
// Panics if p is nil, if the key was already contributed, or if the same
// producer object was contributed twice; all indicate a wiring bug and
// fail at build time, before any computation is requested.
func (b *MapBuilder[K, V]) Put(key K, p Producer[V]) *MapBuilder[K, V] {
	b.checkUsable()
	if p == nil {
		panic("prodgraph: contributed producer cannot be nil")
	}
	if _, dup := b.index[key]; dup {
		panic(fmt.Sprintf("prodgraph: duplicate key in map binding: %v", key))
	}
	for _, c := range b.contributions {
		if sameProducer(c.producer, p) {
			panic("prodgraph: duplicate producer contributed to map binding")
		}
	}
	b.index[key] = struct{}{}
	b.contributions = append(b.contributions, mapContribution[K, V]{key: key, producer: p})
	return b
}

// PutAll absorbs every contribution of an already-built map aggregate
// verbatim, for a derived scope that inherits and extends a parent
// scope's map. Duplicate keys across the two aggregates panic.
// Returns the builder for method chaining.
func (b *MapBuilder[K, V]) PutAll(other *MapProducer[K, V]) *MapBuilder[K, V] {
	if other == nil {
		panic("prodgraph: absorbed aggregate cannot be nil")
	}
	for _, c := range other.contributions {
		b.Put(c.key, c.producer)
	}
	return b
}

// Build finalizes the aggregate. The builder must not be used again.
func (b *MapBuilder[K, V]) Build(opts ...NodeOption) *MapProducer[K, V] {
	b.checkUsable()
	b.built = true
	m := &MapProducer[K, V]{contributions: b.contributions}
	m.Node = NewFutureNode(m.compute, opts...)
	return m
}

func (b *MapBuilder[K, V]) checkUsable() {
	if b.built {
		panic("prodgraph: map builder used after Build")
	}
}

// compute requests every contribution concurrently. A nil value under
// any key fails the whole map; the first propagated failure wins.
func (m *MapProducer[K, V]) compute() *future.Future[map[K]V] {
	futures := make([]*future.Future[V], 0, len(m.contributions))
	for _, c := range m.contributions {
		futures = append(futures, mustGet(c.producer))
	}

	return future.TransformErr(future.AllAsList(futures),
		func(values []V) (map[K]V, error) {
			out := make(map[K]V, len(values))
			for i, value := range values {
				if isNilValue(value) {
					return nil, ErrNilElement
				}
				out[m.contributions[i].key] = value
			}
			return out, nil
		})
}

// OutcomeMapProducer is the captured map aggregate: each key's success
// or failure is individually wrapped in an Outcome, and the aggregate
// itself always succeeds.
type OutcomeMapProducer[K comparable, V any] struct {
	*Node[map[K]Outcome[V]]
	contributions []mapContribution[K, V]
}

// OutcomeMapBuilder accumulates keyed contributions for a captured map
// aggregate. Single-use, like MapBuilder.
type OutcomeMapBuilder[K comparable, V any] struct {
	contributions []mapContribution[K, V]
	index         map[K]struct{}
	built         bool
}

// NewOutcomeMapBuilder creates a builder for a captured map aggregate.
func NewOutcomeMapBuilder[K comparable, V any]() *OutcomeMapBuilder[K, V] {
	return &OutcomeMapBuilder[K, V]{index: make(map[K]struct{})}
}

// Put contributes a producer under a key.
// Returns the builder for method chaining.
func (b *OutcomeMapBuilder[K, V]) Put(key K, p Producer[V]) *OutcomeMapBuilder[K, V] {
	b.checkUsable()
	if p == nil {
		panic("prodgraph: contributed producer cannot be nil")
	}
	if _, dup := b.index[key]; dup {
		panic(fmt.Sprintf("prodgraph: duplicate key in map binding: %v", key))
	}
	for _, c := range b.contributions {
		if sameProducer(c.producer, p) {
			panic("prodgraph: duplicate producer contributed to map binding")
		}
	}
	b.index[key] = struct{}{}
	b.contributions = append(b.contributions, mapContribution[K, V]{key: key, producer: p})
	return b
}

// PutAll absorbs every contribution of an already-built captured map
// aggregate verbatim. Returns the builder for method chaining.
func (b *OutcomeMapBuilder[K, V]) PutAll(other *OutcomeMapProducer[K, V]) *OutcomeMapBuilder[K, V] {
	if other == nil {
		panic("prodgraph: absorbed aggregate cannot be nil")
	}
	for _, c := range other.contributions {
		b.Put(c.key, c.producer)
	}
	return b
}

// Build finalizes the aggregate. The builder must not be used again.
func (b *OutcomeMapBuilder[K, V]) Build(opts ...NodeOption) *OutcomeMapProducer[K, V] {
	b.checkUsable()
	b.built = true
	m := &OutcomeMapProducer[K, V]{contributions: b.contributions}
	m.Node = NewFutureNode(m.compute, opts...)
	return m
}

func (b *OutcomeMapBuilder[K, V]) checkUsable() {
	if b.built {
		panic("prodgraph: map builder used after Build")
	}
}

// compute requests every contribution concurrently and waits for all of
// them to settle, then wraps each key's result in an outcome. A nil
// value becomes a failed outcome under its key.
func (m *OutcomeMapProducer[K, V]) compute() *future.Future[map[K]Outcome[V]] {
	futures := make([]*future.Future[V], 0, len(m.contributions))
	for _, c := range m.contributions {
		futures = append(futures, mustGet(c.producer))
	}

	return future.Transform(future.WhenAll(futures),
		func(struct{}) map[K]Outcome[V] {
			out := make(map[K]Outcome[V], len(futures))
			for i, f := range futures {
				key := m.contributions[i].key
				value, err := f.Result()
				switch {
				case err != nil:
					out[key] = Failed[V](err)
				case isNilValue(value):
					out[key] = Failed[V](ErrNilElement)
				default:
					out[key] = Successful(value)
				}
			}
			return out
		})
}
