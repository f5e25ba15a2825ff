package target

import (
	"context"
	"fmt"
	"path/filepath"
)

// Identity is the stable definition-context key of a target.
//
// It is assigned once at construction by the surrounding project layer
// and serves as the cache key and the human-readable display name. Two
// distinct target instances must not share an Identity unless they are
// meant to be treated as the same cached entity.
type Identity struct {
	// Module groups related targets (e.g. "core", "app").
	Module string
	// Name identifies the target within its module (e.g. "compile").
	Name string
}

// ID constructs an Identity from a module and name.
func ID(module, name string) Identity {
	return Identity{Module: module, Name: name}
}

// String renders the identity as "module.name" ("name" if module is empty).
func (id Identity) String() string {
	if id.Module == "" {
		return id.Name
	}
	return id.Module + "." + id.Name
}

// Path renders the identity as a filesystem-safe relative path segment,
// used to scope per-target output directories.
func (id Identity) Path() string {
	if id.Module == "" {
		return id.Name
	}
	return filepath.Join(id.Module, id.Name)
}

// Node is the type-erased view of a target used by the evaluator to
// walk the graph. Every Target[T] implements Node.
//
// Encode and Decode operate on the target's own output values. The
// round-trip law Decode(Encode(v)) == v must hold for every value the
// target can produce.
type Node interface {
	// ID returns the target's stable identity.
	ID() Identity

	// Inputs returns the targets whose resolved values this target
	// consumes, in declared order. The slice must not be mutated.
	Inputs() []Node

	// Dirty reports whether the target forces re-evaluation regardless
	// of input staleness. It is asked fresh on every scheduling pass.
	// Targets with no dirty predicate always return false.
	Dirty() bool

	// Evaluate computes the target's output from the resolved input
	// values. For targets without a dirty predicate it must be a
	// deterministic function of args.
	Evaluate(ctx context.Context, args *Args) (any, error)

	// Encode serializes one of this target's output values.
	Encode(v any) ([]byte, error)

	// Decode restores a value previously produced by Encode.
	Decode(data []byte) (any, error)
}

// Target is a node in the build dependency graph producing one typed,
// cacheable value.
type Target[T any] struct {
	id     Identity
	inputs []Node
	dirty  func() bool
	eval   func(ctx context.Context, args *Args) (T, error)
	codec  Codec[T]
}

// Option configures a Target at construction.
type Option[T any] func(*Target[T])

// WithDirty installs a dirty predicate. The predicate is consulted on
// every scheduling pass; returning true forces re-evaluation even when
// all inputs are up to date.
func WithDirty[T any](pred func() bool) Option[T] {
	return func(t *Target[T]) {
		t.dirty = pred
	}
}

// WithCodec overrides the default canonical JSON codec for the
// target's output type.
func WithCodec[T any](c Codec[T]) Option[T] {
	return func(t *Target[T]) {
		t.codec = c
	}
}

// New constructs a target with the given identity, input targets (in
// the order their values will appear in Args), and evaluation function.
//
// The inputs slice is copied to keep the declared order immutable.
func New[T any](id Identity, inputs []Node, eval func(ctx context.Context, args *Args) (T, error), opts ...Option[T]) *Target[T] {
	var inputsCopy []Node
	if len(inputs) > 0 {
		inputsCopy = make([]Node, len(inputs))
		copy(inputsCopy, inputs)
	}

	t := &Target[T]{
		id:     id,
		inputs: inputsCopy,
		eval:   eval,
		codec:  JSON[T](),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the target's stable identity.
func (t *Target[T]) ID() Identity { return t.id }

// Inputs returns the declared input targets in order.
func (t *Target[T]) Inputs() []Node { return t.inputs }

// Dirty consults the dirty predicate, if any.
func (t *Target[T]) Dirty() bool {
	if t.dirty == nil {
		return false
	}
	return t.dirty()
}

// Evaluate runs the target's evaluation function.
func (t *Target[T]) Evaluate(ctx context.Context, args *Args) (any, error) {
	return t.eval(ctx, args)
}

// Encode serializes an output value via the target's codec.
func (t *Target[T]) Encode(v any) ([]byte, error) {
	tv, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("target %s: encode: value has type %T, want %T", t.id, v, tv)
	}
	return t.codec.Encode(tv)
}

// Decode restores an output value via the target's codec.
func (t *Target[T]) Decode(data []byte) (any, error) {
	return t.codec.Decode(data)
}
