package cli

import (
	"fmt"

	"github.com/ChallenHB/mill/internal/target"
)

// Registry is the explicit name -> target map the embedding project
// layer hands to the CLI. The core does no reflective discovery: every
// runnable target is registered here, by name, by the caller.
type Registry struct {
	names   []string
	targets map[string]target.Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]target.Node)}
}

// Register adds a named target. Registration order is preserved and
// duplicate names are rejected.
func (r *Registry) Register(name string, t target.Node) error {
	if name == "" {
		return fmt.Errorf("register: empty target name")
	}
	if t == nil {
		return fmt.Errorf("register %q: nil target", name)
	}
	if _, exists := r.targets[name]; exists {
		return fmt.Errorf("register %q: duplicate target name", name)
	}
	r.names = append(r.names, name)
	r.targets[name] = t
	return nil
}

// MustRegister is Register that panics on error, for build-script
// top-level wiring.
func (r *Registry) MustRegister(name string, t target.Node) {
	if err := r.Register(name, t); err != nil {
		panic(err)
	}
}

// Get looks up a target by name.
func (r *Registry) Get(name string) (target.Node, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered targets.
func (r *Registry) Len() int { return len(r.names) }

// resolve maps command-line target names to nodes. With no names, all
// registered targets are returned in registration order.
func (r *Registry) resolve(names []string) ([]target.Node, error) {
	if len(names) == 0 {
		names = r.names
	}
	nodes := make([]target.Node, 0, len(names))
	for _, name := range names {
		t, ok := r.targets[name]
		if !ok {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		nodes = append(nodes, t)
	}
	return nodes, nil
}
