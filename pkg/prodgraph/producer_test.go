package prodgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImmediateProducer always yields the same completed future.
func TestImmediateProducer(t *testing.T) {
	p := ImmediateProducer("x")

	f := p.Get()
	require.True(t, f.IsDone())
	value, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, "x", value)
	assert.Same(t, f, p.Get())
}

// TestImmediateFailedProducer always yields the same failed future.
func TestImmediateFailedProducer(t *testing.T) {
	p := ImmediateFailedProducer[string](errCompute)

	_, err := p.Get().Result()
	assert.ErrorIs(t, err, errCompute)
}

// TestProducerFromFunc executes the function per request, synchronously.
func TestProducerFromFunc(t *testing.T) {
	calls := 0
	p := ProducerFromFunc(func() (int, error) {
		calls++
		if calls > 1 {
			return 0, errors.New("exhausted")
		}
		return calls, nil
	})

	value, err := p.Get().Result()
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	_, err = p.Get().Result()
	assert.EqualError(t, err, "exhausted")
	assert.Equal(t, 2, calls)
}

// TestProducerFromFunc_Nil_Panics rejects nil functions.
func TestProducerFromFunc_Nil_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "prodgraph: producer function cannot be nil", func() {
		ProducerFromFunc[int](nil)
	})
}

// TestOutcome covers the captured-result wrapper.
func TestOutcome(t *testing.T) {
	t.Run("successful", func(t *testing.T) {
		o := Successful(3)
		assert.True(t, o.Succeeded())
		value, err := o.Get()
		require.NoError(t, err)
		assert.Equal(t, 3, value)
	})

	t.Run("failed", func(t *testing.T) {
		o := Failed[int](errCompute)
		assert.False(t, o.Succeeded())
		_, err := o.Get()
		assert.ErrorIs(t, err, errCompute)
	})

	t.Run("failed requires an error", func(t *testing.T) {
		assert.PanicsWithValue(t, "prodgraph: failed outcome requires a non-nil error", func() {
			Failed[int](nil)
		})
	})
}
