package flow

// WorkflowState is the run-wide conclusion. It starts {false, WorkflowOk}
// and is concluded at most once.
type WorkflowState struct {
	Concluded bool
	Status    WorkflowStatus
}

type edgeStats struct {
	total    int
	finished int
	met      int
	notMet   int
}

func (s *edgeStats) record(required, actual ActionStatus) {
	s.finished++
	if required == ActionAny || required == actual {
		s.met++
	} else {
		s.notMet++
	}
}

// Classify decides whether node may run given the current run state.
//
// AllIn dependencies are resolved first: one mismatch skips the node, and any
// unfinished one keeps it waiting. AnyOf dependencies then make it ready as
// soon as one matches, and skip it only once all have finished without a
// match.
func Classify(node string, g *Graph, finished map[string]ActionStatus, running map[string]struct{}, wf WorkflowState) NodeStatus {
	if _, ok := running[node]; ok {
		return NodeRunning
	}
	if _, ok := finished[node]; ok {
		return NodeFinished
	}

	var allIn, anyOf edgeStats

	if g.IsGated(node) {
		if !wf.Concluded {
			return NodeNotReady
		}
		required, ok := g.RequiredWorkflowStatus(node)
		if !ok {
			return NodeSkipped
		}
		allIn.total++
		allIn.finished++
		if required == WorkflowAny || required == wf.Status {
			allIn.met++
		} else {
			allIn.notMet++
		}
	}

	for _, edge := range g.EdgesIn(node) {
		stats := &allIn
		if edge.Kind == AnyOf {
			stats = &anyOf
		}

		// running predecessors count toward total so they hold the node back
		stats.total++
		if _, ok := running[edge.From]; ok {
			continue
		}
		status, ok := finished[edge.From]
		if !ok {
			continue
		}
		stats.record(edge.Status, status)
	}

	switch {
	case allIn.notMet > 0:
		return NodeSkipped
	case allIn.finished < allIn.total:
		return NodeNotReady
	case anyOf.total == 0:
		return NodeReady
	case anyOf.met > 0:
		return NodeReady
	case anyOf.finished == anyOf.total:
		return NodeSkipped
	default:
		return NodeNotReady
	}
}
