package flow

import (
	"sort"
	"time"
)

// Result holds the outcome of a run.
type Result struct {
	// RunID identifies the run in logs and spans.
	RunID string
	// Actions holds one entry per action once the run completes.
	Actions map[string]ActionResult
	// Workflow is the final workflow state.
	Workflow WorkflowState
	Duration time.Duration
}

// ActionResult holds the outcome of a single action.
type ActionResult struct {
	Name   string
	Status ActionStatus
	// Started is true when the run callable was invoked.
	Started  bool
	Duration time.Duration
	// Error is the failure returned or raised by the run callable, if any.
	Error error
	// Outputs holds the values the action stored with State.Set.
	Outputs Data
}

func newResult(runID string, size int) *Result {
	return &Result{
		RunID:   runID,
		Actions: make(map[string]ActionResult, size),
	}
}

// Status returns the recorded status of an action, or "" if it has none.
func (r *Result) Status(action string) ActionStatus {
	return r.Actions[action].Status
}

// WithStatus returns the sorted names of actions recorded with status.
func (r *Result) WithStatus(status ActionStatus) []string {
	var names []string
	for name, ar := range r.Actions {
		if ar.Status == status {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Succeeded reports whether no action failed.
func (r *Result) Succeeded() bool {
	return len(r.WithStatus(ActionFail)) == 0
}
