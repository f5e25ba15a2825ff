package target

import "context"

// Path builds a constant-path leaf: zero inputs, evaluation returns
// the pre-supplied filesystem path unconditionally, never dirty unless
// a caller explicitly overrides the dirty predicate. It is pure data
// and cannot fail.
func Path(id Identity, path string, opts ...Option[string]) *Target[string] {
	eval := func(ctx context.Context, args *Args) (string, error) {
		return path, nil
	}
	return New(id, nil, eval, opts...)
}
