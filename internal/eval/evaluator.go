package eval

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ChallenHB/mill/internal/store"
	"github.com/ChallenHB/mill/internal/target"
)

// Evaluator runs incremental evaluation over target graphs.
//
// One Evaluate call is one run: plan the induced subgraph, walk it in
// topological order, evaluate each target at most once, and report.
// The cache persists across runs on the same Evaluator; attach a
// store to persist across processes.
//
// Thread-safety model:
//   - Evaluate(): must not be called concurrently with itself
//   - The cache is the only state shared across runs
type Evaluator struct {
	cache  *cache
	clock  *Clock
	tokens RunTokenGenerator
	st     *store.Store
	outDir string

	// clockSynced tracks whether the clock has been advanced past the
	// store's persisted tokens.
	clockSynced bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithStore attaches a persistent result cache. Entries are written
// through on success and reloaded on cache miss, and the logical
// clock resumes past all persisted tokens.
func WithStore(st *store.Store) Option {
	return func(e *Evaluator) {
		e.st = st
	}
}

// WithOutDir sets the base directory under which per-target output
// directories are created (outDir/<module>/<name>). Targets only see
// their own directory.
func WithOutDir(dir string) Option {
	return func(e *Evaluator) {
		e.outDir = dir
	}
}

// WithRunTokens overrides the run token generator (for testing).
func WithRunTokens(gen RunTokenGenerator) Option {
	return func(e *Evaluator) {
		e.tokens = gen
	}
}

// New creates an Evaluator with an empty in-memory cache.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		cache:  newCache(),
		clock:  NewClock(),
		tokens: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the evaluator's logical clock.
// Used for testing and introspection.
func (e *Evaluator) Clock() *Clock {
	return e.clock
}

// Evaluate runs one evaluation of the requested root targets.
//
// Definition-time errors (cycle, duplicate identity) abort the run
// before anything is evaluated. Evaluation failures never abort the
// run: the failed target is reported, its dependents are reported as
// blocked, and independent branches still complete so their results
// are cached for the next run.
func (e *Evaluator) Evaluate(ctx context.Context, roots ...target.Node) (*Report, error) {
	p, err := newPlan(roots)
	if err != nil {
		return nil, err
	}

	if err := e.syncClock(ctx); err != nil {
		return nil, err
	}

	runToken := e.tokens.Generate()
	slog.Debug("run starting", "run", runToken, "targets", p.size())

	report := &Report{
		RunToken: runToken,
		Results:  make(map[target.Identity]*Result, len(roots)),
	}
	outcomes := make(map[target.Identity]*Result, p.size())

	for _, node := range p.order {
		outcomes[node.ID()] = e.evaluateNode(ctx, node, outcomes, report)
	}

	for _, root := range roots {
		report.Roots = append(report.Roots, root.ID())
		report.Results[root.ID()] = outcomes[root.ID()]
	}

	if e.st != nil {
		if err := e.st.WriteRun(ctx, store.Run{RunToken: runToken, Changed: len(report.Changed)}); err != nil {
			slog.Warn("run record not persisted", "run", runToken, "error", err)
		}
	}

	slog.Info("run finished",
		"run", runToken,
		"evaluated", len(report.Evaluated),
		"changed", len(report.Changed),
	)
	return report, nil
}

// evaluateNode decides and, if needed, performs one target's
// evaluation. Called in topological order, so every input already has
// an outcome.
func (e *Evaluator) evaluateNode(ctx context.Context, node target.Node, outcomes map[target.Identity]*Result, report *Report) *Result {
	id := node.ID()

	// Blocked: some transitive input failed. Never evaluated.
	for _, in := range node.Inputs() {
		dep := outcomes[in.ID()]
		if dep.Status == StatusSucceeded {
			continue
		}
		cause := in.ID()
		if dep.Status == StatusBlocked {
			cause = dep.BlockedBy
		}
		slog.Debug("target blocked", "target", id, "cause", cause)
		return &Result{
			Identity:  id,
			Status:    StatusBlocked,
			Err:       &BlockedError{Identity: id, Cause: cause},
			BlockedBy: cause,
		}
	}

	ent, cached := e.lookup(ctx, id)

	need := !cached
	if !need {
		for _, in := range node.Inputs() {
			if inEnt, ok := e.cache.get(in.ID()); ok && inEnt.token > ent.token {
				need = true
				break
			}
		}
	}
	// Dirty predicate is asked fresh on every pass, never cached.
	if !need && node.Dirty() {
		need = true
	}

	if !need {
		v, err := e.decodedValue(node, ent)
		if err != nil {
			// Codec defect: the stored form no longer round-trips.
			return e.failure(id, err)
		}
		return &Result{Identity: id, Status: StatusSucceeded, Value: v, Serialized: ent.serialized}
	}

	args, err := e.buildArgs(node)
	if err != nil {
		return e.failure(id, err)
	}

	report.Evaluated = append(report.Evaluated, id)
	v, err := node.Evaluate(ctx, args)
	if err != nil {
		// The previous cache entry, if any, stays untouched.
		return e.failure(id, err)
	}

	data, err := node.Encode(v)
	if err != nil {
		return e.failure(id, fmt.Errorf("encode output: %w", err))
	}

	// Early cutoff: a byte-identical result keeps its old token, so
	// downstream targets are not re-evaluated and the identity stays
	// out of the changed set.
	if cached && bytes.Equal(data, ent.serialized) {
		ent.value = v
		ent.decoded = true
		slog.Debug("target unchanged", "target", id)
		return &Result{Identity: id, Status: StatusSucceeded, Value: v, Serialized: ent.serialized}
	}

	tok := e.clock.Next()
	if e.st != nil {
		err := e.st.WriteResult(ctx, store.Result{
			Identity: id.String(),
			Value:    string(data),
			Token:    tok,
			RunToken: report.RunToken,
		})
		if err != nil {
			// Persisting failed: neither cache is updated, so the
			// previous entry stays good in both.
			return e.failure(id, fmt.Errorf("persist result: %w", err))
		}
	}
	e.cache.put(id, &entry{value: v, decoded: true, serialized: data, token: tok})
	report.Changed = append(report.Changed, id)
	slog.Debug("target changed", "target", id, "token", tok)

	return &Result{Identity: id, Status: StatusSucceeded, Value: v, Serialized: data}
}

// failure records a direct target failure.
func (e *Evaluator) failure(id target.Identity, err error) *Result {
	slog.Debug("target failed", "target", id, "error", err)
	return &Result{
		Identity: id,
		Status:   StatusFailed,
		Err:      &TargetError{Identity: id, Err: err},
	}
}

// buildArgs assembles the execution context for one target from its
// inputs' cached values. All inputs have succeeded by the time this
// runs, so every value is present.
func (e *Evaluator) buildArgs(node target.Node) (*target.Args, error) {
	inputs := node.Inputs()
	values := make([]any, len(inputs))
	for i, in := range inputs {
		ent, ok := e.cache.get(in.ID())
		if !ok {
			return nil, fmt.Errorf("input %s has no resolved value", in.ID())
		}
		v, err := e.decodedValue(in, ent)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in.ID(), err)
		}
		values[i] = v
	}

	dest := ""
	if e.outDir != "" {
		dest = filepath.Join(e.outDir, node.ID().Path())
	}
	return target.NewArgs(values, dest), nil
}

// decodedValue returns the entry's value, decoding the serialized
// form on first access for entries loaded from the store.
func (e *Evaluator) decodedValue(node target.Node, ent *entry) (any, error) {
	if ent.decoded {
		return ent.value, nil
	}
	v, err := node.Decode(ent.serialized)
	if err != nil {
		return nil, fmt.Errorf("decode cached value: %w", err)
	}
	ent.value = v
	ent.decoded = true
	return v, nil
}

// lookup finds a cache entry in memory, falling back to the store.
func (e *Evaluator) lookup(ctx context.Context, id target.Identity) (*entry, bool) {
	if ent, ok := e.cache.get(id); ok {
		return ent, true
	}
	if e.st == nil {
		return nil, false
	}

	r, ok, err := e.st.ReadResult(ctx, id.String())
	if err != nil {
		slog.Warn("cache read failed, treating as miss", "target", id, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	ent := &entry{serialized: []byte(r.Value), token: r.Token}
	e.cache.put(id, ent)
	return ent, true
}

// syncClock advances the logical clock past all persisted tokens once
// per evaluator, so new tokens always compare newer.
func (e *Evaluator) syncClock(ctx context.Context) error {
	if e.st == nil || e.clockSynced {
		return nil
	}
	max, err := e.st.MaxToken(ctx)
	if err != nil {
		return fmt.Errorf("resume clock from store: %w", err)
	}
	if max > e.clock.Current() {
		e.clock = NewClockAt(max)
	}
	e.clockSynced = true
	return nil
}
