package harness

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ChallenHB/mill/internal/eval"
	"github.com/ChallenHB/mill/internal/target"
)

// Scenario declares a build graph of synthetic targets and a sequence
// of evaluation runs over it.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Leaves declares the counter leaves.
	Leaves []Leaf `yaml:"leaves"`

	// Nodes declares derived targets over the leaves (and each other),
	// in dependency order: a node may only reference names declared
	// before it.
	Nodes []DerivedNode `yaml:"nodes,omitempty"`

	// Runs lists the evaluation runs, in order.
	Runs []Run `yaml:"runs"`
}

// Leaf declares one synthetic counter target.
type Leaf struct {
	Name string `yaml:"name"`

	// Counter is the leaf's initial counter value.
	Counter int `yaml:"counter"`

	// Impure enables the dirty predicate: counter changes force
	// re-evaluation on the next run.
	Impure bool `yaml:"impure,omitempty"`
}

// DerivedNode declares a combinator-built target.
//
// Ops:
//   - "double": Map over one int source, doubling it
//   - "sum": Chain-fold over two or more int sources, adding them
//   - "sequence": Sequence over int sources, yielding their values in order
//   - "pair": Zip over exactly two int sources
type DerivedNode struct {
	Name string   `yaml:"name"`
	Op   string   `yaml:"op"`
	Of   []string `yaml:"of"`
}

// Run is one evaluation pass: optional counter mutations, the roots to
// request, and the assertions to check against the report.
type Run struct {
	// Set assigns leaf counters before evaluating, modelling external
	// state changing between builds.
	Set map[string]int `yaml:"set,omitempty"`

	// Impure flips leaves between impure and pure modes before
	// evaluating.
	Impure map[string]bool `yaml:"impure,omitempty"`

	// Roots names the requested targets.
	Roots []string `yaml:"roots"`

	// Expect lists assertions against this run's report.
	Expect []Assertion `yaml:"expect,omitempty"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	return &s, nil
}

// Harness is a built scenario: the target graph plus a fresh evaluator.
type Harness struct {
	scenario *Scenario
	leaves   map[string]*target.TestTarget
	nodes    map[string]target.Node
	ints     map[string]*target.Target[int]
	ev       *eval.Evaluator
}

// New builds the scenario's target graph and an evaluator with fixed
// run tokens ("run-1", "run-2", ...) for deterministic reports.
func New(s *Scenario) (*Harness, error) {
	h := &Harness{
		scenario: s,
		leaves:   make(map[string]*target.TestTarget),
		nodes:    make(map[string]target.Node),
		ints:     make(map[string]*target.Target[int]),
	}

	for _, leaf := range s.Leaves {
		if _, dup := h.nodes[leaf.Name]; dup {
			return nil, fmt.Errorf("scenario %s: duplicate name %q", s.Name, leaf.Name)
		}
		var tt *target.TestTarget
		if leaf.Impure {
			tt = target.NewTest(ident(leaf.Name), leaf.Counter)
		} else {
			tt = target.NewPureTest(ident(leaf.Name), leaf.Counter)
		}
		h.leaves[leaf.Name] = tt
		h.nodes[leaf.Name] = tt.Node()
		h.ints[leaf.Name] = tt.Node()
	}

	for _, node := range s.Nodes {
		if _, dup := h.nodes[node.Name]; dup {
			return nil, fmt.Errorf("scenario %s: duplicate name %q", s.Name, node.Name)
		}
		built, err := h.buildNode(node)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: node %q: %w", s.Name, node.Name, err)
		}
		h.nodes[node.Name] = built
	}

	tokens := make([]string, len(s.Runs))
	for i := range tokens {
		tokens[i] = fmt.Sprintf("run-%d", i+1)
	}
	h.ev = eval.New(eval.WithRunTokens(eval.NewFixedGenerator(tokens...)))

	return h, nil
}

// buildNode constructs one derived target from the combinator algebra.
func (h *Harness) buildNode(node DerivedNode) (target.Node, error) {
	sources := make([]*target.Target[int], len(node.Of))
	for i, name := range node.Of {
		src, ok := h.ints[name]
		if !ok {
			return nil, fmt.Errorf("unknown or non-int source %q", name)
		}
		sources[i] = src
	}

	switch node.Op {
	case "double":
		if len(sources) != 1 {
			return nil, fmt.Errorf("double takes exactly one source, got %d", len(sources))
		}
		t := target.Map(ident(node.Name), sources[0], func(n int) int { return n * 2 })
		h.ints[node.Name] = t
		return t, nil

	case "sum":
		if len(sources) < 2 {
			return nil, fmt.Errorf("sum takes at least two sources, got %d", len(sources))
		}
		// Pairwise Chain fold; intermediate nodes get derived identities
		// and only the last fold step carries the declared name.
		add := func(a, b int) int { return a + b }
		var acc *target.Target[int]
		if len(sources) == 2 {
			acc = target.Chain(ident(node.Name), sources[0], sources[1], add)
		} else {
			acc = target.Chain(foldIdent(node.Name, 1), sources[0], sources[1], add)
			for i := 2; i < len(sources); i++ {
				id := foldIdent(node.Name, i)
				if i == len(sources)-1 {
					id = ident(node.Name)
				}
				acc = target.Chain(id, acc, sources[i], add)
			}
		}
		h.ints[node.Name] = acc
		return acc, nil

	case "sequence":
		t := target.Sequence(ident(node.Name), sources...)
		return t, nil

	case "pair":
		if len(sources) != 2 {
			return nil, fmt.Errorf("pair takes exactly two sources, got %d", len(sources))
		}
		t := target.Zip(ident(node.Name), sources[0], sources[1])
		return t, nil

	default:
		return nil, fmt.Errorf("unknown op %q", node.Op)
	}
}

// Leaf returns a declared leaf's handle.
func (h *Harness) Leaf(name string) *target.TestTarget {
	return h.leaves[name]
}

// Node returns any declared target by name.
func (h *Harness) Node(name string) target.Node {
	return h.nodes[name]
}

// Evaluator returns the harness's evaluator.
func (h *Harness) Evaluator() *eval.Evaluator {
	return h.ev
}

// ExecuteRun applies one run's mutations and evaluates its roots.
func (h *Harness) ExecuteRun(ctx context.Context, run Run) (*eval.Report, error) {
	for name, counter := range run.Set {
		leaf, ok := h.leaves[name]
		if !ok {
			return nil, fmt.Errorf("set: unknown leaf %q", name)
		}
		leaf.SetCounter(counter)
	}
	for name, impure := range run.Impure {
		leaf, ok := h.leaves[name]
		if !ok {
			return nil, fmt.Errorf("impure: unknown leaf %q", name)
		}
		leaf.SetImpure(impure)
	}

	roots := make([]target.Node, len(run.Roots))
	for i, name := range run.Roots {
		node, ok := h.nodes[name]
		if !ok {
			return nil, fmt.Errorf("roots: unknown target %q", name)
		}
		roots[i] = node
	}

	return h.ev.Evaluate(ctx, roots...)
}

// ExecuteAll runs every declared run in order and returns the reports.
func (h *Harness) ExecuteAll(ctx context.Context) ([]*eval.Report, error) {
	reports := make([]*eval.Report, 0, len(h.scenario.Runs))
	for i, run := range h.scenario.Runs {
		report, err := h.ExecuteRun(ctx, run)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ident renders a scenario-level name as a target identity.
func ident(name string) target.Identity {
	return target.ID("", name)
}

// foldIdent names the intermediate nodes of a sum fold.
func foldIdent(name string, step int) target.Identity {
	return target.ID("", fmt.Sprintf("%s#%d", name, step))
}
