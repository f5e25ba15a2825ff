// Package target defines the typed build-graph node model and its
// combinator algebra.
//
// A Target[T] declares the value it produces, the targets whose values
// it consumes (in a fixed order), a stable Identity used as its cache
// key, and how to compute its output from an Args view over the
// resolved input values.
//
// The package is intentionally split into:
//   - Node model: Target, Identity, Args, dirty predicates
//   - Algebra: Map, Zip, Chain, Sequence (pure functions over targets)
//   - Leaf kinds: Path (constant), Command (external process),
//     TestTarget (synthetic counter for exercising the evaluator)
//   - Codec: canonical JSON encode/decode for every output type
//
// Targets never evaluate themselves. Evaluation, caching, and dirty
// scheduling belong to internal/eval; this package only states the
// contract each node carries.
package target
