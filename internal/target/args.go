package target

import "fmt"

// Args is the execution context an evaluator hands to a target: an
// ordered, indexable view over the resolved values of the target's
// inputs (index i corresponds to position i in Inputs()), plus the
// output directory scoped to the target's identity for filesystem-
// touching targets.
//
// An Args is immutable and exclusively owned by one evaluation of one
// target; no target may observe another target's context.
type Args struct {
	values []any
	dest   string
}

// NewArgs builds an execution context. values must be ordered exactly
// as the target declared its inputs. dest may be empty for targets
// that never touch the filesystem.
func NewArgs(values []any, dest string) *Args {
	var valuesCopy []any
	if len(values) > 0 {
		valuesCopy = make([]any, len(values))
		copy(valuesCopy, values)
	}
	return &Args{values: valuesCopy, dest: dest}
}

// Len returns the number of resolved input values.
func (a *Args) Len() int { return len(a.values) }

// Value returns the resolved value of input i.
// Panics if i is out of range, mirroring slice indexing.
func (a *Args) Value(i int) any { return a.values[i] }

// Dest returns the output directory assigned to this evaluation, or ""
// when none was assigned.
func (a *Args) Dest() string { return a.dest }

// In returns the resolved value of input i as type T.
func In[T any](a *Args, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(a.values) {
		return zero, fmt.Errorf("input index %d out of range (have %d inputs)", i, len(a.values))
	}
	v, ok := a.values[i].(T)
	if !ok {
		return zero, fmt.Errorf("input %d has type %T, want %T", i, a.values[i], zero)
	}
	return v, nil
}
