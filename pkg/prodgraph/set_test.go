package prodgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/prodgraph/pkg/prodgraph/future"
)

// TestSetProducer_CollectsAllContributions verifies individuals come
// first, bulk collections after, in registration order.
func TestSetProducer_CollectsAllContributions(t *testing.T) {
	s := NewSetBuilder[string]().
		AddProducer(ImmediateProducer("a")).
		AddProducer(ImmediateProducer("b")).
		AddCollectionProducer(ImmediateProducer([]string{"c", "d"})).
		Build()

	values, err := s.Get().Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, values)
}

// TestSetProducer_DeduplicatesValues keeps the first occurrence.
func TestSetProducer_DeduplicatesValues(t *testing.T) {
	s := NewSetBuilder[int]().
		AddProducer(ImmediateProducer(1)).
		AddProducer(ImmediateProducer(2)).
		AddCollectionProducer(ImmediateProducer([]int{2, 3, 1})).
		Build()

	values, err := s.Get().Result()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

// TestSetProducer_FailurePropagates fails the whole set with the
// contribution's error.
func TestSetProducer_FailurePropagates(t *testing.T) {
	s := NewSetBuilder[int]().
		AddProducer(ImmediateProducer(1)).
		AddProducer(ImmediateFailedProducer[int](errCompute)).
		Build()

	_, err := s.Get().Result()
	assert.ErrorIs(t, err, errCompute)
}

// TestSetProducer_NilCollection fails the whole set.
func TestSetProducer_NilCollection(t *testing.T) {
	s := NewSetBuilder[int]().
		AddCollectionProducer(ProducerFromFunc(func() ([]int, error) {
			return nil, nil
		})).
		Build()

	_, err := s.Get().Result()
	assert.ErrorIs(t, err, ErrNilCollection)
}

// TestSetProducer_NilElement fails the whole set.
func TestSetProducer_NilElement(t *testing.T) {
	s := NewSetBuilder[*string]().
		AddProducer(ImmediateProducer[*string](nil)).
		Build()

	_, err := s.Get().Result()
	assert.ErrorIs(t, err, ErrNilElement)
}

// TestSetProducer_Empty resolves immediately without asynchronous work.
func TestSetProducer_Empty(t *testing.T) {
	s := NewSetBuilder[int]().Build()

	f := s.Get()
	require.True(t, f.IsDone())
	values, err := f.Result()
	require.NoError(t, err)
	assert.Empty(t, values)
}

// TestEmptySetProducer resolves immediately.
func TestEmptySetProducer(t *testing.T) {
	f := EmptySetProducer[int]().Get()
	require.True(t, f.IsDone())
	values, err := f.Result()
	require.NoError(t, err)
	assert.Empty(t, values)
}

// TestSetProducer_RequestsContributionsConcurrently verifies
// contributions are requested before any of them resolves.
func TestSetProducer_RequestsContributionsConcurrently(t *testing.T) {
	a, b := future.New[int](), future.New[int]()
	requested := 0
	take := func(f *future.Future[int]) Producer[int] {
		return producerFunc[int](func() *future.Future[int] {
			requested++
			return f
		})
	}

	s := NewSetBuilder[int]().
		AddProducer(take(a)).
		AddProducer(take(b)).
		Build()

	f := s.Get()
	assert.Equal(t, 2, requested)
	assert.False(t, f.IsDone())

	a.Set(1)
	b.Set(2)
	values, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, values)
}

// TestSetBuilder_Misuse_Panics covers the wiring-bug panics.
func TestSetBuilder_Misuse_Panics(t *testing.T) {
	t.Run("nil producer", func(t *testing.T) {
		assert.PanicsWithValue(t, "prodgraph: contributed producer cannot be nil", func() {
			NewSetBuilder[int]().AddProducer(nil)
		})
	})

	t.Run("duplicate producer", func(t *testing.T) {
		p := ImmediateProducer(1)
		assert.PanicsWithValue(t, "prodgraph: duplicate producer contributed to set binding", func() {
			NewSetBuilder[int]().AddProducer(p).AddProducer(p)
		})
	})

	t.Run("reuse after build", func(t *testing.T) {
		b := NewSetBuilder[int]()
		b.Build()
		assert.PanicsWithValue(t, "prodgraph: set builder used after Build", func() {
			b.AddProducer(ImmediateProducer(1))
		})
	})
}

// TestSetBuilder_AddAll absorbs a built aggregate's contributions.
func TestSetBuilder_AddAll(t *testing.T) {
	parent := NewSetBuilder[int]().
		AddProducer(ImmediateProducer(1)).
		AddCollectionProducer(ImmediateProducer([]int{2})).
		Build()

	child := NewSetBuilder[int]().
		AddAll(parent).
		AddProducer(ImmediateProducer(3)).
		Build()

	values, err := child.Get().Result()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, values)
}

// TestOutcomeSetProducer_CapturesEachContribution verifies per-element
// isolation: failures sit next to successes.
func TestOutcomeSetProducer_CapturesEachContribution(t *testing.T) {
	s := NewOutcomeSetBuilder[int]().
		AddProducer(ImmediateProducer(1)).
		AddProducer(ImmediateFailedProducer[int](errCompute)).
		AddCollectionProducer(ImmediateProducer([]int{2, 3})).
		Build()

	outcomes, err := s.Get().Result()
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	value, err := outcomes[0].Get()
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	_, err = outcomes[1].Get()
	assert.ErrorIs(t, err, errCompute)

	value, err = outcomes[2].Get()
	require.NoError(t, err)
	assert.Equal(t, 2, value)

	value, err = outcomes[3].Get()
	require.NoError(t, err)
	assert.Equal(t, 3, value)
}

// TestOutcomeSetProducer_NilCollectionBecomesFailedOutcome captures nil
// contributions instead of failing the aggregate.
func TestOutcomeSetProducer_NilCollectionBecomesFailedOutcome(t *testing.T) {
	s := NewOutcomeSetBuilder[int]().
		AddProducer(ImmediateProducer(1)).
		AddCollectionProducer(ProducerFromFunc(func() ([]int, error) {
			return nil, nil
		})).
		Build()

	outcomes, err := s.Get().Result()
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.True(t, outcomes[0].Succeeded())
	_, err = outcomes[1].Get()
	assert.ErrorIs(t, err, ErrNilCollection)
}

// TestOutcomeSetProducer_WaitsForAllContributions settles only after
// every contribution has, success or failure.
func TestOutcomeSetProducer_WaitsForAllContributions(t *testing.T) {
	slow := future.New[int]()
	s := NewOutcomeSetBuilder[int]().
		AddProducer(ImmediateFailedProducer[int](errCompute)).
		AddProducer(producerFunc[int](func() *future.Future[int] { return slow })).
		Build()

	f := s.Get()
	assert.False(t, f.IsDone())

	slow.Set(9)
	outcomes, err := f.Result()
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Succeeded())
	assert.True(t, outcomes[1].Succeeded())
}

// TestSetProducer_IsNode verifies aggregates carry the full node
// surface: memoized, cancellable, viewable.
func TestSetProducer_IsNode(t *testing.T) {
	s := NewSetBuilder[int]().
		AddProducer(NewNode(func(ctx context.Context) (int, error) { return 1, nil })).
		Build()

	var _ CancellableProducer[[]int] = s

	f1 := s.Get()
	f2 := s.Get()
	assert.Same(t, f1, f2)

	values, err := s.NewDependencyView().Get().Result()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, values)
}
