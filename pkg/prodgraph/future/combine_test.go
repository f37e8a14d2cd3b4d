package future

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllAsList_Success collects values in input order.
func TestAllAsList_Success(t *testing.T) {
	a, b, c := New[int](), New[int](), New[int]()
	out := AllAsList([]*Future[int]{a, b, c})

	// Complete out of order; results stay in input order.
	b.Set(2)
	c.Set(3)
	assert.False(t, out.IsDone())
	a.Set(1)

	values, err := out.Result()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

// TestAllAsList_Empty completes immediately without any goroutines.
func TestAllAsList_Empty(t *testing.T) {
	out := AllAsList[int](nil)
	require.True(t, out.IsDone())

	values, err := out.Result()
	require.NoError(t, err)
	assert.Empty(t, values)
}

// TestAllAsList_FailFast fails as soon as any input fails, without
// waiting for the rest.
func TestAllAsList_FailFast(t *testing.T) {
	a, b := New[int](), New[int]()
	out := AllAsList([]*Future[int]{a, b})

	a.SetError(errBoom)

	require.True(t, out.IsDone())
	_, err := out.Result()
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, b.IsDone())
}

// TestAllAsList_InputCancellation cancels the output when an input is
// cancelled.
func TestAllAsList_InputCancellation(t *testing.T) {
	a, b := New[int](), New[int]()
	out := AllAsList([]*Future[int]{a, b})

	a.Cancel(true)

	assert.True(t, out.Cancelled())
	assert.True(t, out.Interrupted())
}

// TestAllAsList_OutputCancellation propagates cancellation to every
// input.
func TestAllAsList_OutputCancellation(t *testing.T) {
	a, b := New[int](), New[int]()
	out := AllAsList([]*Future[int]{a, b})

	require.True(t, out.Cancel(true))

	assert.True(t, a.Cancelled())
	assert.True(t, a.Interrupted())
	assert.True(t, b.Cancelled())
}

// TestWhenAll_SettlesRegardlessOfFailure completes only after every
// input has completed, and never fails itself.
func TestWhenAll_SettlesRegardlessOfFailure(t *testing.T) {
	a, b, c := New[int](), New[int](), New[int]()
	out := WhenAll([]*Future[int]{a, b, c})

	a.SetError(errBoom)
	b.Cancel(false)
	assert.False(t, out.IsDone())

	c.Set(3)
	require.True(t, out.IsDone())
	_, err := out.Result()
	assert.NoError(t, err)
}

// TestWhenAll_Empty completes immediately.
func TestWhenAll_Empty(t *testing.T) {
	out := WhenAll[int](nil)
	assert.True(t, out.IsDone())
}

// TestTransform maps the value and propagates failure unchanged.
func TestTransform(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		f := New[int]()
		out := Transform(f, func(v int) int { return v * 2 })
		f.Set(21)

		value, err := out.Result()
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	})

	t.Run("error", func(t *testing.T) {
		f := New[int]()
		out := Transform(f, func(v int) int { return v })
		f.SetError(errBoom)

		_, err := out.Result()
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("output cancellation reaches input", func(t *testing.T) {
		f := New[int]()
		out := Transform(f, func(v int) int { return v })
		out.Cancel(true)

		assert.True(t, f.Cancelled())
		assert.True(t, f.Interrupted())
	})
}

// TestTransformErr fails the output when the mapping fails.
func TestTransformErr(t *testing.T) {
	f := New[int]()
	mapErr := errors.New("bad value")
	out := TransformErr(f, func(v int) (int, error) {
		if v < 0 {
			return 0, mapErr
		}
		return v, nil
	})
	f.Set(-1)

	_, err := out.Result()
	assert.ErrorIs(t, err, mapErr)
}

// TestCatching folds failures and cancellation into fallback values.
func TestCatching(t *testing.T) {
	t.Run("success passes through", func(t *testing.T) {
		out := Catching(Immediate(1), func(error) int { return -1 })
		value, err := out.Result()
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})

	t.Run("failure is caught", func(t *testing.T) {
		out := Catching(ImmediateError[int](errBoom), func(err error) int {
			assert.ErrorIs(t, err, errBoom)
			return -1
		})
		value, err := out.Result()
		require.NoError(t, err)
		assert.Equal(t, -1, value)
	})

	t.Run("cancellation is caught", func(t *testing.T) {
		f := New[int]()
		out := Catching(f, func(err error) int {
			assert.ErrorIs(t, err, ErrCancelled)
			return -1
		})
		f.Cancel(false)

		value, err := out.Result()
		require.NoError(t, err)
		assert.Equal(t, -1, value)
	})
}

// TestNonCancellationPropagating verifies the one-way view contract.
func TestNonCancellationPropagating(t *testing.T) {
	t.Run("completed future returned directly", func(t *testing.T) {
		f := Immediate(1)
		assert.Same(t, f, NonCancellationPropagating(f))
	})

	t.Run("value flows to view", func(t *testing.T) {
		f := New[int]()
		view := NonCancellationPropagating(f)
		f.Set(5)

		value, err := view.Result()
		require.NoError(t, err)
		assert.Equal(t, 5, value)
	})

	t.Run("underlying cancellation flows to view", func(t *testing.T) {
		f := New[int]()
		view := NonCancellationPropagating(f)
		f.Cancel(true)

		assert.True(t, view.Cancelled())
		assert.True(t, view.Interrupted())
	})

	t.Run("view cancellation does not reach underlying", func(t *testing.T) {
		f := New[int]()
		view := NonCancellationPropagating(f)

		require.True(t, view.Cancel(true))
		assert.False(t, f.IsDone())

		// The underlying future still completes normally.
		f.Set(9)
		value, err := f.Result()
		require.NoError(t, err)
		assert.Equal(t, 9, value)
	})
}
