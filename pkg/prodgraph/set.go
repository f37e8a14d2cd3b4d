package prodgraph

import (
	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
)

// SetProducer is the strict set aggregate: it requests every
// contribution concurrently and resolves to the deduplicated union of
// their values, failing wholesale if any contribution fails or resolves
// to nil.
//
// Element order is implementation-defined but stable for a given wiring:
// individual contributions first, then bulk collections, in registration
// order, first occurrence of a duplicate winning.
type SetProducer[T comparable] struct {
	*Node[[]T]
	individual  []Producer[T]
	collections []Producer[[]T]
}

// EmptySetProducer returns a producer that resolves immediately to an
// empty set without scheduling any asynchronous work.
func EmptySetProducer[T comparable]() Producer[[]T] {
	return ImmediateProducer([]T{})
}

// SetBuilder accumulates set contributions. Builders are single-use and
// intended for wiring code: contribute everything, then Build once.
type SetBuilder[T comparable] struct {
	individual  []Producer[T]
	collections []Producer[[]T]
	built       bool
}

// NewSetBuilder creates a builder for a strict set aggregate.
func NewSetBuilder[T comparable]() *SetBuilder[T] {
	return &SetBuilder[T]{}
}

// AddProducer contributes a single-element producer.
// Returns the builder for method chaining.
//
// Panics if p is nil or was already contributed; both indicate a wiring
// bug, not a runtime condition.
func (b *SetBuilder[T]) AddProducer(p Producer[T]) *SetBuilder[T] {
	b.checkUsable()
	if p == nil {
		panic("prodgraph: contributed producer cannot be nil")
	}
	if containsProducer(b.individual, p) {
		panic("prodgraph: duplicate producer contributed to set binding")
	}
	b.individual = append(b.individual, p)
	return b
}

// AddCollectionProducer contributes a bulk producer whose whole
// collection is flattened into the set.
// Returns the builder for method chaining.
func (b *SetBuilder[T]) AddCollectionProducer(p Producer[[]T]) *SetBuilder[T] {
	b.checkUsable()
	if p == nil {
		panic("prodgraph: contributed producer cannot be nil")
	}
	if containsProducer(b.collections, p) {
		panic("prodgraph: duplicate producer contributed to set binding")
	}
	b.collections = append(b.collections, p)
	return b
}

// AddAll absorbs every contribution of an already-built set aggregate,
// for a derived scope that inherits and extends a parent scope's set.
// Returns the builder for method chaining.
func (b *SetBuilder[T]) AddAll(other *SetProducer[T]) *SetBuilder[T] {
	if other == nil {
		panic("prodgraph: absorbed aggregate cannot be nil")
	}
	for _, p := range other.individual {
		b.AddProducer(p)
	}
	for _, p := range other.collections {
		b.AddCollectionProducer(p)
	}
	return b
}

// Build finalizes the aggregate. The builder must not be used again.
func (b *SetBuilder[T]) Build(opts ...NodeOption) *SetProducer[T] {
	b.checkUsable()
	b.built = true
	s := &SetProducer[T]{
		individual:  b.individual,
		collections: b.collections,
	}
	s.Node = NewFutureNode(s.compute, opts...)
	return s
}

func (b *SetBuilder[T]) checkUsable() {
	if b.built {
		panic("prodgraph: set builder used after Build")
	}
}

// compute requests every contribution concurrently and flattens the
// results. A nil contributed collection or nil element fails the whole
// set; the first propagated failure wins.
func (s *SetProducer[T]) compute() *future.Future[[]T] {
	individualFutures := make([]*future.Future[T], 0, len(s.individual))
	for _, p := range s.individual {
		individualFutures = append(individualFutures, mustGet(p))
	}

	futureCollections := make([]*future.Future[[]T], 0, len(s.collections)+1)
	futureCollections = append(futureCollections, future.AllAsList(individualFutures))
	for _, p := range s.collections {
		futureCollections = append(futureCollections, mustGet(p))
	}

	return future.TransformErr(future.AllAsList(futureCollections),
		func(collections [][]T) ([]T, error) {
			seen := make(map[T]struct{})
			out := []T{}
			for i, collection := range collections {
				// The first entry aggregates the individual futures and
				// is never nil; contributed collections can be.
				if i > 0 && collection == nil {
					return nil, ErrNilCollection
				}
				for _, value := range collection {
					if isNilValue(value) {
						return nil, ErrNilElement
					}
					if _, dup := seen[value]; dup {
						continue
					}
					seen[value] = struct{}{}
					out = append(out, value)
				}
			}
			return out, nil
		})
}

// OutcomeSetProducer is the captured set aggregate: every contribution's
// success or failure is individually wrapped in an Outcome, and the
// aggregate itself always succeeds. A nil contributed collection becomes
// a single failed outcome; a nil element becomes a failed outcome at
// that position.
type OutcomeSetProducer[T any] struct {
	*Node[[]Outcome[T]]
	individual  []Producer[T]
	collections []Producer[[]T]
}

// OutcomeSetBuilder accumulates contributions for a captured set
// aggregate. Single-use, like SetBuilder.
type OutcomeSetBuilder[T any] struct {
	individual  []Producer[T]
	collections []Producer[[]T]
	built       bool
}

// NewOutcomeSetBuilder creates a builder for a captured set aggregate.
func NewOutcomeSetBuilder[T any]() *OutcomeSetBuilder[T] {
	return &OutcomeSetBuilder[T]{}
}

// AddProducer contributes a single-element producer.
// Returns the builder for method chaining.
func (b *OutcomeSetBuilder[T]) AddProducer(p Producer[T]) *OutcomeSetBuilder[T] {
	b.checkUsable()
	if p == nil {
		panic("prodgraph: contributed producer cannot be nil")
	}
	if containsProducer(b.individual, p) {
		panic("prodgraph: duplicate producer contributed to set binding")
	}
	b.individual = append(b.individual, p)
	return b
}

// AddCollectionProducer contributes a bulk producer whose whole
// collection is flattened into the set.
// Returns the builder for method chaining.
func (b *OutcomeSetBuilder[T]) AddCollectionProducer(p Producer[[]T]) *OutcomeSetBuilder[T] {
	b.checkUsable()
	if p == nil {
		panic("prodgraph: contributed producer cannot be nil")
	}
	if containsProducer(b.collections, p) {
		panic("prodgraph: duplicate producer contributed to set binding")
	}
	b.collections = append(b.collections, p)
	return b
}

// AddAll absorbs every contribution of an already-built captured set
// aggregate. Returns the builder for method chaining.
func (b *OutcomeSetBuilder[T]) AddAll(other *OutcomeSetProducer[T]) *OutcomeSetBuilder[T] {
	if other == nil {
		panic("prodgraph: absorbed aggregate cannot be nil")
	}
	for _, p := range other.individual {
		b.AddProducer(p)
	}
	for _, p := range other.collections {
		b.AddCollectionProducer(p)
	}
	return b
}

// Build finalizes the aggregate. The builder must not be used again.
func (b *OutcomeSetBuilder[T]) Build(opts ...NodeOption) *OutcomeSetProducer[T] {
	b.checkUsable()
	b.built = true
	s := &OutcomeSetProducer[T]{
		individual:  b.individual,
		collections: b.collections,
	}
	s.Node = NewFutureNode(s.compute, opts...)
	return s
}

func (b *OutcomeSetBuilder[T]) checkUsable() {
	if b.built {
		panic("prodgraph: set builder used after Build")
	}
}

// compute requests every contribution concurrently and waits for all of
// them to settle, then wraps each one's result in an outcome. Outcomes
// appear in contribution order: individuals first, then bulk
// collections.
func (s *OutcomeSetProducer[T]) compute() *future.Future[[]Outcome[T]] {
	futures := make([]*future.Future[[]T], 0, len(s.individual)+len(s.collections))
	for _, p := range s.individual {
		futures = append(futures, future.Transform(mustGet(p),
			func(value T) []T { return []T{value} }))
	}
	for _, p := range s.collections {
		futures = append(futures, mustGet(p))
	}

	return future.Transform(future.WhenAll(futures),
		func(struct{}) []Outcome[T] {
			out := []Outcome[T]{}
			for _, f := range futures {
				collection, err := f.Result()
				if err != nil {
					out = append(out, Failed[T](err))
					continue
				}
				if collection == nil {
					out = append(out, Failed[T](ErrNilCollection))
					continue
				}
				for _, value := range collection {
					if isNilValue(value) {
						out = append(out, Failed[T](ErrNilElement))
						continue
					}
					out = append(out, Successful(value))
				}
			}
			return out
		})
}
