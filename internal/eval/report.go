package eval

import "github.com/ChallenHB/mill/internal/target"

// Status classifies a target's outcome within one run.
type Status string

const (
	// StatusSucceeded means the target's value was computed or reused.
	StatusSucceeded Status = "succeeded"

	// StatusFailed means the target's own evaluation failed.
	StatusFailed Status = "failed"

	// StatusBlocked means the target was never run because a
	// transitive input failed.
	StatusBlocked Status = "blocked"
)

// Result is the per-target outcome of a run.
type Result struct {
	Identity target.Identity
	Status   Status

	// Value and Serialized are set for succeeded targets.
	Value      any
	Serialized []byte

	// Err is set for failed targets (a *TargetError) and blocked
	// targets (a *BlockedError).
	Err error

	// BlockedBy is the upstream root cause for blocked targets.
	BlockedBy target.Identity
}

// Report is what one evaluation run returns to its caller.
type Report struct {
	// RunToken uniquely identifies this run.
	RunToken string

	// Roots lists the originally requested targets in request order.
	Roots []target.Identity

	// Results maps each originally requested target to its outcome.
	Results map[target.Identity]*Result

	// Evaluated lists, in walk order, the identities whose evaluate
	// function was invoked this run (including early-cutoff re-runs).
	Evaluated []target.Identity

	// Changed lists, in walk order, the identities whose cached value
	// changed this run: the invalidation set consumed by watch-mode
	// callers.
	Changed []target.Identity
}

// Result returns the outcome for a requested target, or nil if the
// identity was not among the run's roots.
func (r *Report) Result(id target.Identity) *Result {
	return r.Results[id]
}

// WasEvaluated reports whether the identity's evaluate ran this run.
func (r *Report) WasEvaluated(id target.Identity) bool {
	for _, e := range r.Evaluated {
		if e == id {
			return true
		}
	}
	return false
}

// WasChanged reports whether the identity is in the changed set.
func (r *Report) WasChanged(id target.Identity) bool {
	for _, c := range r.Changed {
		if c == id {
			return true
		}
	}
	return false
}
