package flow

// EdgeKind distinguishes mandatory from optional dependencies.
type EdgeKind string

const (
	// AllIn edges must all finish with their required status.
	AllIn EdgeKind = "all_in"
	// AnyOf edges need at least one predecessor with its required status.
	AnyOf EdgeKind = "any_of"
)

// Edge is a directed dependency: To is unlocked by From finishing with Status.
type Edge struct {
	From   string
	To     string
	Kind   EdgeKind
	Status ActionStatus
}

// Hooks are called by Traverse. Either may be nil.
type Hooks struct {
	// OnEnter runs when a node is first discovered.
	OnEnter func(node string)
	// OnLeave runs after every node reachable from it has been left.
	OnLeave func(node string)
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// Traverse walks edgesOut depth-first from nodes, entering and leaving each
// node exactly once. It uses an explicit stack; the last element of nodes is
// processed first. Reaching a node that is still in progress returns a
// *CycleError.
func Traverse(nodes []string, edgesOut map[string][]Edge, hooks Hooks) error {
	states := make(map[string]visitState, len(nodes))

	stack := make([]string, len(nodes))
	copy(stack, nodes)

	for len(stack) > 0 {
		node := stack[len(stack)-1]

		switch states[node] {
		case done:
			stack = stack[:len(stack)-1]
			continue
		case inProgress:
			states[node] = done
			stack = stack[:len(stack)-1]
			if hooks.OnLeave != nil {
				hooks.OnLeave(node)
			}
			continue
		}

		states[node] = inProgress
		if hooks.OnEnter != nil {
			hooks.OnEnter(node)
		}

		for _, edge := range edgesOut[node] {
			if states[edge.To] == inProgress {
				return &CycleError{Sequence: loopSequence(stack, states)}
			}
			stack = append(stack, edge.To)
		}
	}

	return nil
}

// loopSequence returns the in-progress nodes on the stack, deduplicated, in
// stack order.
func loopSequence(stack []string, states map[string]visitState) []string {
	seen := make(map[string]struct{})
	var seq []string
	for _, node := range stack {
		if states[node] != inProgress {
			continue
		}
		if _, ok := seen[node]; ok {
			continue
		}
		seen[node] = struct{}{}
		seq = append(seq, node)
	}
	return seq
}

// ReverseTopsort orders nodes so that for every edge u→v, v comes before u.
// Consumed from the tail, the result yields roots first.
func ReverseTopsort(nodes []string, edgesOut map[string][]Edge) ([]string, error) {
	sorted := make([]string, 0, len(nodes))
	err := Traverse(nodes, edgesOut, Hooks{
		OnLeave: func(node string) { sorted = append(sorted, node) },
	})
	if err != nil {
		return nil, err
	}
	return sorted, nil
}

// MarkDownstreamOfGates returns every gated node plus every node first
// reached from inside a gate's subtree. sorted must be the output of
// ReverseTopsort so that roots are visited first.
func MarkDownstreamOfGates(sorted []string, edgesOut map[string][]Edge, gated map[string]struct{}) (map[string]struct{}, error) {
	marked := make(map[string]struct{})
	inside := false
	var opener string

	err := Traverse(sorted, edgesOut, Hooks{
		OnEnter: func(node string) {
			if _, isGate := gated[node]; !inside && isGate {
				inside = true
				opener = node
			}
			if inside {
				marked[node] = struct{}{}
			}
		},
		OnLeave: func(node string) {
			if inside && node == opener {
				inside = false
				opener = ""
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return marked, nil
}
