package target

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_String(t *testing.T) {
	assert.Equal(t, "core.compile", ID("core", "compile").String())
	assert.Equal(t, "compile", ID("", "compile").String())
}

func TestIdentity_Path(t *testing.T) {
	assert.Equal(t, "core/compile", ID("core", "compile").Path())
	assert.Equal(t, "compile", ID("", "compile").Path())
}

func TestNew_CopiesInputs(t *testing.T) {
	a := Path(ID("t", "a"), "/tmp/a")
	b := Path(ID("t", "b"), "/tmp/b")

	inputs := []Node{a, b}
	tgt := New(ID("t", "sum"), inputs, func(ctx context.Context, args *Args) (int, error) {
		return 0, nil
	})

	// Mutating the caller's slice must not affect the target.
	inputs[0] = b
	require.Len(t, tgt.Inputs(), 2)
	assert.Same(t, a, tgt.Inputs()[0].(*Target[string]))
	assert.Same(t, b, tgt.Inputs()[1].(*Target[string]))
}

func TestTargetDirty_DefaultNever(t *testing.T) {
	tgt := Path(ID("t", "p"), "/tmp/p")
	assert.False(t, tgt.Dirty())
}

func TestTargetDirty_WithPredicate(t *testing.T) {
	dirty := false
	tgt := Path(ID("t", "p"), "/tmp/p", WithDirty[string](func() bool { return dirty }))

	assert.False(t, tgt.Dirty())
	dirty = true
	assert.True(t, tgt.Dirty(), "predicate must be asked fresh every pass")
}

func TestTargetEncode_WrongType(t *testing.T) {
	tgt := Path(ID("t", "p"), "/tmp/p")

	_, err := tgt.Encode(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode")
}

func TestTargetEncodeDecode_RoundTrip(t *testing.T) {
	tgt := Path(ID("t", "p"), "/tmp/p")

	data, err := tgt.Encode("/tmp/p")
	require.NoError(t, err)

	v, err := tgt.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p", v)
}

func TestArgs_Indexing(t *testing.T) {
	args := NewArgs([]any{1, "two", []int{3}}, "/tmp/out")

	assert.Equal(t, 3, args.Len())
	assert.Equal(t, 1, args.Value(0))
	assert.Equal(t, "two", args.Value(1))
	assert.Equal(t, "/tmp/out", args.Dest())
}

func TestArgs_CopiesValues(t *testing.T) {
	values := []any{1, 2}
	args := NewArgs(values, "")

	values[0] = 99
	assert.Equal(t, 1, args.Value(0), "args must own its values")
}

func TestIn_Typed(t *testing.T) {
	args := NewArgs([]any{7, "x"}, "")

	n, err := In[int](args, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	s, err := In[string](args, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestIn_OutOfRange(t *testing.T) {
	args := NewArgs([]any{7}, "")

	_, err := In[int](args, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = In[int](args, -1)
	require.Error(t, err)
}

func TestIn_WrongType(t *testing.T) {
	args := NewArgs([]any{"seven"}, "")

	_, err := In[int](args, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has type string")
}

func TestPath_EvaluatesToConstant(t *testing.T) {
	tgt := Path(ID("src", "main"), "/src/main.go")

	require.Empty(t, tgt.Inputs())
	v, err := tgt.Evaluate(context.Background(), NewArgs(nil, ""))
	require.NoError(t, err)
	assert.Equal(t, "/src/main.go", v)

	// Constant: same answer every time.
	v2, err := tgt.Evaluate(context.Background(), NewArgs(nil, ""))
	require.NoError(t, err)
	assert.Equal(t, v, v2)
}
