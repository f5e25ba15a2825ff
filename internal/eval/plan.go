package eval

import (
	"github.com/ChallenHB/mill/internal/target"
)

// plan is the induced subgraph of one evaluation run: the requested
// roots plus their transitive inputs, in one valid topological order.
//
// The order is deterministic: roots are walked in the order given and
// inputs in declared order, so the same graph always plans the same
// walk.
type plan struct {
	order []target.Node
	nodes map[target.Identity]target.Node
}

// walk colors for cycle detection.
const (
	colorWhite = iota // unvisited
	colorGray         // on the current DFS path
	colorBlack        // fully planned
)

// newPlan computes the induced subgraph and its topological order.
// Fails before any evaluation with a PlanError when the graph contains
// a cycle or two distinct targets share an identity.
func newPlan(roots []target.Node) (*plan, error) {
	p := &plan{
		nodes: make(map[target.Identity]target.Node),
	}
	color := make(map[target.Identity]int)
	var path []target.Identity

	var visit func(n target.Node) error
	visit = func(n target.Node) error {
		id := n.ID()

		if seen, ok := p.nodes[id]; ok && seen != n {
			return NewDuplicateIdentityError(id)
		}
		p.nodes[id] = n

		switch color[id] {
		case colorBlack:
			return nil
		case colorGray:
			// Found a back edge: report the cycle from the first
			// occurrence of id on the current path back to id.
			start := 0
			for i, pid := range path {
				if pid == id {
					start = i
					break
				}
			}
			cycle := append(append([]target.Identity{}, path[start:]...), id)
			return NewCycleError(cycle)
		}

		color[id] = colorGray
		path = append(path, id)
		for _, in := range n.Inputs() {
			if err := visit(in); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		color[id] = colorBlack

		// Postorder append: every input precedes its dependents.
		p.order = append(p.order, n)
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// size returns the number of targets in the induced subgraph.
func (p *plan) size() int { return len(p.order) }

// Order returns the deterministic topological order of the induced
// subgraph of the given roots, without evaluating anything. Fails with
// the same PlanErrors Evaluate would.
func Order(roots ...target.Node) ([]target.Identity, error) {
	p, err := newPlan(roots)
	if err != nil {
		return nil, err
	}
	ids := make([]target.Identity, len(p.order))
	for i, n := range p.order {
		ids[i] = n.ID()
	}
	return ids, nil
}
