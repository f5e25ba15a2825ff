// Package harness provides a declarative scenario harness for
// exercising the evaluator's incremental behavior.
//
// A scenario declares counter leaves (synthetic test targets), derived
// nodes built from the combinator algebra, and a list of runs. Each
// run may mutate leaf counters before evaluating its roots, modelling
// external state changing between builds, and asserts on the resulting
// report: values, which targets re-evaluated, and which cached values
// changed.
//
// Scenarios can be built in code or loaded from YAML files, and runs
// can be snapshotted against golden files for exact-report regression
// coverage.
package harness
