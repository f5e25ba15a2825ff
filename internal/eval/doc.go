// Package eval implements the incremental evaluator over the target
// graph.
//
// ARCHITECTURE:
//
// Single-Writer Evaluation Walk:
// Each run plans the induced subgraph of the requested roots (cycle
// and duplicate-identity detection, deterministic topological order)
// and then walks that order in a single goroutine. This ensures:
//   - Predictable evaluation order
//   - A deterministic report and changed set
//   - Simple reasoning about failure propagation
//
// Per-target decision, in order:
//  1. Any input failed or blocked -> this target is blocked, never run
//  2. No cache entry for its identity -> evaluate
//  3. Any input's freshness token newer than the entry -> evaluate
//  4. Dirty predicate (asked fresh every pass) returns true -> evaluate
//  5. Otherwise reuse the cached value without invoking evaluate
//
// Freshness tokens come from a monotonic logical clock. A target that
// re-evaluates to a byte-identical serialized value keeps its old
// token, so downstream targets are not re-evaluated (early cutoff) and
// the identity is not reported in the changed set.
//
// A failed evaluation never touches the target's previous cache entry.
// With a store attached, entries are written through to SQLite and
// reloaded on miss, so a fresh process resumes incremental work.
package eval
