package target

import "context"

// Pair carries the outputs of two combined targets. First always holds
// the first source's value and Second the second source's value.
type Pair[A, B any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
}

// Map builds a target that applies a pure function to the source
// target's output. The result has exactly one input (the source) and
// is never dirty beyond the source's dirtiness.
func Map[T, V any](id Identity, src *Target[T], f func(T) V, opts ...Option[V]) *Target[V] {
	eval := func(ctx context.Context, args *Args) (V, error) {
		var zero V
		v, err := In[T](args, 0)
		if err != nil {
			return zero, err
		}
		return f(v), nil
	}
	return New(id, []Node{src}, eval, opts...)
}

// Zip builds a target combining two targets into a pair. The result
// has exactly two inputs; the first source's value lands in
// Pair.First and the second source's value in Pair.Second, each read
// exactly once and independently.
func Zip[A, B any](id Identity, a *Target[A], b *Target[B], opts ...Option[Pair[A, B]]) *Target[Pair[A, B]] {
	eval := func(ctx context.Context, args *Args) (Pair[A, B], error) {
		var zero Pair[A, B]
		av, err := In[A](args, 0)
		if err != nil {
			return zero, err
		}
		bv, err := In[B](args, 1)
		if err != nil {
			return zero, err
		}
		return Pair[A, B]{First: av, Second: bv}, nil
	}
	return New(id, []Node{a, b}, eval, opts...)
}

// Chain combines two targets with a caller-supplied merge function.
// Semantically equivalent to Zip followed by Map of the merge over the
// pair, collapsed into one node so no intermediate identity is needed.
// Arbitrary-arity combination is built by folding Chain pairwise.
func Chain[A, B, R any](id Identity, a *Target[A], b *Target[B], merge func(A, B) R, opts ...Option[R]) *Target[R] {
	eval := func(ctx context.Context, args *Args) (R, error) {
		var zero R
		av, err := In[A](args, 0)
		if err != nil {
			return zero, err
		}
		bv, err := In[B](args, 1)
		if err != nil {
			return zero, err
		}
		return merge(av, bv), nil
	}
	return New(id, []Node{a, b}, eval, opts...)
}

// Sequence builds a target whose inputs are exactly the given targets
// in order and whose output is the slice of their values, preserving
// positional order regardless of evaluation order. An empty sequence
// is legal and yields an empty slice.
func Sequence[T any](id Identity, targets ...*Target[T]) *Target[[]T] {
	inputs := make([]Node, len(targets))
	for i, t := range targets {
		inputs[i] = t
	}
	eval := func(ctx context.Context, args *Args) ([]T, error) {
		out := make([]T, args.Len())
		for i := range out {
			v, err := In[T](args, i)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return New(id, inputs, eval)
}
