package target

import (
	"context"
	"sync"
)

// TestTarget is a synthetic leaf for exercising the evaluator's
// incremental behavior. It models an external resource (e.g. a
// watched file) via a mutable counter the harness bumps between runs.
//
// Evaluation records the live counter into the "as of last evaluation"
// slot and returns counter + sum of the integer input values. The
// dirty predicate, when the target is impure, reports dirty exactly
// when the live counter differs from the counter recorded at last
// evaluation. Pure targets never force re-evaluation.
//
// The counter cell is lock-protected: the harness mutates it between
// runs while the dirty predicate reads it under the same lock.
type TestTarget struct {
	tgt *Target[int]

	mu            sync.Mutex
	counter       int
	lastEvaluated int
	impure        bool
	evals         int
}

// NewTest constructs an impure test target: its dirty predicate is
// enabled, so counter changes force re-evaluation. inputs must produce
// int values; their sum is added to the counter on evaluation.
func NewTest(id Identity, counter int, inputs ...Node) *TestTarget {
	return newTestTarget(id, counter, true, inputs)
}

// NewPureTest constructs a pure test target with zero inputs: it never
// forces re-evaluation beyond input changes.
func NewPureTest(id Identity, counter int) *TestTarget {
	return newTestTarget(id, counter, false, nil)
}

func newTestTarget(id Identity, counter int, impure bool, inputs []Node) *TestTarget {
	tt := &TestTarget{
		counter: counter,
		impure:  impure,
	}
	tt.tgt = New(id, inputs, tt.evaluate, WithDirty[int](tt.dirtyCheck))
	return tt
}

// Node returns the graph node for this test target, for wiring into
// combinators and evaluator roots. There is exactly one node per
// TestTarget; the handle itself never enters the graph.
func (t *TestTarget) Node() *Target[int] { return t.tgt }

func (t *TestTarget) evaluate(ctx context.Context, args *Args) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastEvaluated = t.counter
	t.evals++

	sum := t.counter
	for i := 0; i < args.Len(); i++ {
		if n, ok := args.Value(i).(int); ok {
			sum += n
		}
	}
	return sum, nil
}

// dirtyCheck reports dirty when impure and the live counter moved
// since the last evaluation.
func (t *TestTarget) dirtyCheck() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.impure && t.counter != t.lastEvaluated
}

// Counter returns the live counter value.
func (t *TestTarget) Counter() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counter
}

// SetCounter sets the live counter, modelling external mutation.
func (t *TestTarget) SetCounter(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counter = n
}

// Bump increments the live counter by one.
func (t *TestTarget) Bump() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counter++
}

// SetImpure toggles the dirty predicate between impure (enabled) and
// pure (never dirty) modes.
func (t *TestTarget) SetImpure(impure bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.impure = impure
}

// LastEvaluated returns the counter value recorded at last evaluation.
func (t *TestTarget) LastEvaluated() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastEvaluated
}

// EvalCount returns how many times this target has been evaluated.
func (t *TestTarget) EvalCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.evals
}
