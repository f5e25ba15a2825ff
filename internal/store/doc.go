// Package store provides the durable result cache backing the
// evaluator between runs.
//
// Results are keyed by target identity and hold the serialized value
// (canonical JSON TEXT), the freshness token stamped when the value
// was written, and the token of the run that wrote it. Each run also
// records a row in the runs table for post-hoc inspection.
//
// Uses SQLite with WAL mode. Writes are whole-row upserts: a result
// row is either fully replaced or untouched, matching the evaluator's
// rule that a failed evaluation never corrupts a previous good entry.
package store
