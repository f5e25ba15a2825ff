package target

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestTarget_EvaluatesToCounter(t *testing.T) {
	tt := NewPureTest(ID("t", "leaf"), 5)

	v, err := tt.Node().Evaluate(context.Background(), NewArgs(nil, ""))
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 1, tt.EvalCount())
	assert.Equal(t, 5, tt.LastEvaluated())
}

func TestTestTarget_SumsIntInputs(t *testing.T) {
	a := NewPureTest(ID("t", "a"), 1)
	b := NewPureTest(ID("t", "b"), 2)
	sum := NewTest(ID("t", "sum"), 10, a.Node(), b.Node())

	v, err := sum.Node().Evaluate(context.Background(), NewArgs([]any{1, 2}, ""))
	require.NoError(t, err)
	assert.Equal(t, 13, v)
}

func TestTestTarget_PureNeverDirty(t *testing.T) {
	tt := NewPureTest(ID("t", "leaf"), 1)

	assert.False(t, tt.Node().Dirty())
	tt.SetCounter(99)
	assert.False(t, tt.Node().Dirty(), "pure targets ignore counter drift")
}

func TestTestTarget_ImpureDirtyOnDrift(t *testing.T) {
	tt := NewTest(ID("t", "leaf"), 1)

	// Never evaluated: recorded counter is zero, live counter is one.
	assert.True(t, tt.Node().Dirty())

	_, err := tt.Node().Evaluate(context.Background(), NewArgs(nil, ""))
	require.NoError(t, err)
	assert.False(t, tt.Node().Dirty(), "clean right after evaluation")

	tt.Bump()
	assert.True(t, tt.Node().Dirty(), "dirty once the counter moves")

	_, err = tt.Node().Evaluate(context.Background(), NewArgs(nil, ""))
	require.NoError(t, err)
	assert.False(t, tt.Node().Dirty())
}

func TestTestTarget_DirtyClearsWhenCounterRestored(t *testing.T) {
	tt := NewTest(ID("t", "leaf"), 4)

	_, err := tt.Node().Evaluate(context.Background(), NewArgs(nil, ""))
	require.NoError(t, err)

	tt.SetCounter(7)
	assert.True(t, tt.Node().Dirty())
	tt.SetCounter(4)
	assert.False(t, tt.Node().Dirty(), "same counter as last evaluation is clean")
}

func TestTestTarget_SetImpureToggles(t *testing.T) {
	tt := NewPureTest(ID("t", "leaf"), 1)
	tt.SetCounter(2)
	assert.False(t, tt.Node().Dirty())

	tt.SetImpure(true)
	assert.True(t, tt.Node().Dirty())

	tt.SetImpure(false)
	assert.False(t, tt.Node().Dirty())
}

func TestTestTarget_CounterAccessors(t *testing.T) {
	tt := NewPureTest(ID("t", "leaf"), 3)

	assert.Equal(t, 3, tt.Counter())
	tt.Bump()
	assert.Equal(t, 4, tt.Counter())
	tt.SetCounter(-2)
	assert.Equal(t, -2, tt.Counter())
}

func TestTestTarget_SingleNodeIdentity(t *testing.T) {
	tt := NewTest(ID("t", "leaf"), 1)

	// The same node handle every time, never a fresh wrapper.
	assert.Same(t, tt.Node(), tt.Node())
	assert.Equal(t, ID("t", "leaf"), tt.Node().ID())
}
