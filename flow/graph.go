package flow

import (
	"fmt"
	"sort"

	"github.com/kbukum/actionflow/errors"
	"github.com/kbukum/actionflow/util"
)

// Graph is the immutable dependency graph of a run.
type Graph struct {
	nodes            []string
	edgesIn          map[string][]Edge
	edgesOut         map[string][]Edge
	gated            map[string]struct{}
	requiredWorkflow map[string]WorkflowStatus
	downstreamOfGate map[string]struct{}
	order            []string
}

// Build turns action specs into a Graph. Node order is the sorted action
// names; edge order follows each action's declarations. A dependency cycle
// returns a *CycleError.
func Build(actions Actions) (*Graph, error) {
	specs := make(map[string]ActionSpec, len(actions))
	for name, spec := range actions {
		specs[NormalizeName(name)] = spec
	}

	nodes := util.SortedKeys(specs)

	g := &Graph{
		nodes:            nodes,
		edgesIn:          make(map[string][]Edge, len(nodes)),
		edgesOut:         make(map[string][]Edge, len(nodes)),
		gated:            make(map[string]struct{}),
		requiredWorkflow: make(map[string]WorkflowStatus),
	}

	for _, name := range nodes {
		spec := specs[name]
		if spec.Run == nil {
			return nil, errors.InvalidAction(name, "run callable is required")
		}
		if err := g.addDependencies(specs, name, AllIn, spec.Needs); err != nil {
			return nil, err
		}
		if err := g.addDependencies(specs, name, AnyOf, spec.NeedsAnyOf); err != nil {
			return nil, err
		}

		if spec.NeedsWorkflow != "" {
			if !spec.NeedsWorkflow.Valid() {
				return nil, errors.InvalidAction(name, fmt.Sprintf("unknown workflow status %q", spec.NeedsWorkflow))
			}
			g.gated[name] = struct{}{}
			g.requiredWorkflow[name] = spec.NeedsWorkflow
		}
	}

	order, err := ReverseTopsort(nodes, g.edgesOut)
	if err != nil {
		return nil, err
	}
	g.order = order

	g.downstreamOfGate, err = MarkDownstreamOfGates(order, g.edgesOut, g.gated)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Graph) addDependencies(specs map[string]ActionSpec, name string, kind EdgeKind, deps []Dependency) error {
	for _, dep := range deps {
		dep = dep.normalize()
		if _, ok := specs[dep.Action]; !ok {
			return errors.UnknownDependency(name, dep.Action)
		}
		if !dep.With.Valid() {
			return errors.InvalidAction(name, fmt.Sprintf("unknown status %q for dependency %q", dep.With, dep.Action))
		}

		edge := Edge{From: dep.Action, To: name, Kind: kind, Status: dep.With}
		g.edgesIn[name] = append(g.edgesIn[name], edge)
		g.edgesOut[dep.Action] = append(g.edgesOut[dep.Action], edge)
	}
	return nil
}

// Nodes returns all action names in sorted order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Has reports whether node is part of the graph.
func (g *Graph) Has(node string) bool {
	i := sort.SearchStrings(g.nodes, node)
	return i < len(g.nodes) && g.nodes[i] == node
}

// EdgesIn returns the dependencies of node.
func (g *Graph) EdgesIn(node string) []Edge { return g.edgesIn[node] }

// EdgesOut returns the edges unlocked by node.
func (g *Graph) EdgesOut(node string) []Edge { return g.edgesOut[node] }

// Successors returns the targets of node's outgoing edges, one per edge.
func (g *Graph) Successors(node string) []string {
	out := g.edgesOut[node]
	next := make([]string, 0, len(out))
	for _, e := range out {
		next = append(next, e.To)
	}
	return next
}

// IsGated reports whether node declares NeedsWorkflow.
func (g *Graph) IsGated(node string) bool {
	_, ok := g.gated[node]
	return ok
}

// GatedNodes returns the gated nodes in sorted order.
func (g *Graph) GatedNodes() []string {
	return util.SortedKeys(g.gated)
}

// RequiredWorkflowStatus returns the workflow status a gated node waits for.
func (g *Graph) RequiredWorkflowStatus(node string) (WorkflowStatus, bool) {
	s, ok := g.requiredWorkflow[node]
	return s, ok
}

// IsDownstreamOfGate reports whether node is exempt from the conclusion's
// force-skip.
func (g *Graph) IsDownstreamOfGate(node string) bool {
	_, ok := g.downstreamOfGate[node]
	return ok
}

// DownstreamOfGate returns the downstream-of-gate set in sorted order.
func (g *Graph) DownstreamOfGate() []string {
	return util.SortedKeys(g.downstreamOfGate)
}

// IndependentNodes returns nodes with no dependencies and no workflow gate.
func (g *Graph) IndependentNodes() []string {
	var out []string
	for _, node := range g.nodes {
		if len(g.edgesIn[node]) > 0 || g.IsGated(node) {
			continue
		}
		out = append(out, node)
	}
	return out
}

// Order returns the reverse topological order computed at build time.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}
