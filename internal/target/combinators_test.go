package target

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalNode(t *testing.T, n Node, values ...any) any {
	t.Helper()
	v, err := n.Evaluate(context.Background(), NewArgs(values, ""))
	require.NoError(t, err)
	return v
}

func TestMap_AppliesFunction(t *testing.T) {
	src := Path(ID("t", "src"), "/src")
	doubled := Map(ID("t", "doubled"), src, func(s string) string { return s + s })

	require.Len(t, doubled.Inputs(), 1)
	assert.Same(t, src, doubled.Inputs()[0].(*Target[string]))
	assert.Equal(t, "/src/src", evalNode(t, doubled, "/src"))
}

func TestMap_ChangesType(t *testing.T) {
	src := Path(ID("t", "src"), "/src")
	length := Map(ID("t", "len"), src, func(s string) int { return len(s) })

	assert.Equal(t, 4, evalNode(t, length, "/src"))
}

func TestMap_Composition(t *testing.T) {
	// Mapping f then g must produce the same value as mapping g∘f.
	src := NewPureTest(ID("t", "n"), 3)
	f := func(n int) int { return n + 1 }
	g := func(n int) int { return n * 10 }

	inner := Map(ID("t", "f"), src.Node(), f)
	outer := Map(ID("t", "g"), inner, g)
	composed := Map(ID("t", "gf"), src.Node(), func(n int) int { return g(f(n)) })

	base := evalNode(t, src.Node())
	step := evalNode(t, outer, evalNode(t, inner, base))
	assert.Equal(t, evalNode(t, composed, base), step)
	assert.Equal(t, 40, step)
}

func TestMap_WrongInputType(t *testing.T) {
	src := Path(ID("t", "src"), "/src")
	m := Map(ID("t", "m"), src, func(s string) int { return len(s) })

	_, err := m.Evaluate(context.Background(), NewArgs([]any{42}, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has type int")
}

func TestZip_PairsInOrder(t *testing.T) {
	a := NewPureTest(ID("t", "a"), 1)
	b := Path(ID("t", "b"), "/b")
	zipped := Zip(ID("t", "ab"), a.Node(), b)

	require.Len(t, zipped.Inputs(), 2)
	v := evalNode(t, zipped, 1, "/b")
	assert.Equal(t, Pair[int, string]{First: 1, Second: "/b"}, v)
}

func TestZip_ComponentsRecoverable(t *testing.T) {
	// Projecting the pair must recover each source's value exactly.
	a := NewPureTest(ID("t", "a"), 7)
	b := NewPureTest(ID("t", "b"), 11)
	zipped := Zip(ID("t", "ab"), a.Node(), b.Node())
	first := Map(ID("t", "fst"), zipped, func(p Pair[int, int]) int { return p.First })
	second := Map(ID("t", "snd"), zipped, func(p Pair[int, int]) int { return p.Second })

	pair := evalNode(t, zipped, 7, 11)
	assert.Equal(t, 7, evalNode(t, first, pair))
	assert.Equal(t, 11, evalNode(t, second, pair))
}

func TestZip_SwappedSourcesSwapSlots(t *testing.T) {
	a := NewPureTest(ID("t", "a"), 7)
	b := NewPureTest(ID("t", "b"), 11)

	ab := evalNode(t, Zip(ID("t", "ab"), a.Node(), b.Node()), 7, 11)
	ba := evalNode(t, Zip(ID("t", "ba"), b.Node(), a.Node()), 11, 7)

	assert.Equal(t, Pair[int, int]{First: 7, Second: 11}, ab)
	assert.Equal(t, Pair[int, int]{First: 11, Second: 7}, ba)
}

func TestChain_MergesBothValues(t *testing.T) {
	a := NewPureTest(ID("t", "a"), 2)
	b := Path(ID("t", "b"), "xyz")
	merged := Chain(ID("t", "m"), a.Node(), b, func(n int, s string) int {
		return n + len(s)
	})

	require.Len(t, merged.Inputs(), 2)
	assert.Equal(t, 5, evalNode(t, merged, 2, "xyz"))
}

func TestChain_EquivalentToZipThenMap(t *testing.T) {
	a := NewPureTest(ID("t", "a"), 3)
	b := NewPureTest(ID("t", "b"), 4)
	merge := func(x, y int) int { return x*10 + y }

	chained := Chain(ID("t", "chain"), a.Node(), b.Node(), merge)
	zipped := Zip(ID("t", "zip"), a.Node(), b.Node())
	mapped := Map(ID("t", "map"), zipped, func(p Pair[int, int]) int {
		return merge(p.First, p.Second)
	})

	direct := evalNode(t, chained, 3, 4)
	viaPair := evalNode(t, mapped, evalNode(t, zipped, 3, 4))
	assert.Equal(t, direct, viaPair)
	assert.Equal(t, 34, direct)
}

func TestSequence_PreservesOrder(t *testing.T) {
	a := NewPureTest(ID("t", "a"), 1)
	b := NewPureTest(ID("t", "b"), 2)
	c := NewPureTest(ID("t", "c"), 3)
	seq := Sequence(ID("t", "seq"), a.Node(), b.Node(), c.Node())

	require.Len(t, seq.Inputs(), 3)
	assert.Equal(t, []int{1, 2, 3}, evalNode(t, seq, 1, 2, 3))
}

func TestSequence_Empty(t *testing.T) {
	seq := Sequence[int](ID("t", "empty"))

	require.Empty(t, seq.Inputs())
	assert.Equal(t, []int{}, evalNode(t, seq))
}

func TestSequence_SingleElement(t *testing.T) {
	a := NewPureTest(ID("t", "a"), 9)
	seq := Sequence(ID("t", "one"), a.Node())

	assert.Equal(t, []int{9}, evalNode(t, seq, 9))
}
