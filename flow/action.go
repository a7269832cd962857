package flow

import (
	"context"
	"fmt"
)

// RunFunc is an action's run callable. It receives the merged workflow and
// action data. Returning a non-nil error records ActionFail. Returning a
// WorkflowStatus concludes the workflow; paired with an error it concludes
// with WorkflowFail.
type RunFunc func(ctx context.Context, data *State) (Outcome, error)

// DataFunc provides data for a run (workflow data, computed once) or for a
// single dispatch (action data, computed per action).
type DataFunc func(ctx context.Context) (Data, error)

// Dependency names a predecessor and the status it must finish with.
// An empty With means ActionOk.
type Dependency struct {
	Action string
	With   ActionStatus
}

// Needs declares a bare dependency on action, which must finish ActionOk.
func Needs(action any) Dependency {
	return Dependency{Action: NormalizeName(action)}
}

// NeedsWith declares a dependency on action finishing with status.
func NeedsWith(action any, status ActionStatus) Dependency {
	return Dependency{Action: NormalizeName(action), With: status}
}

// normalize returns the canonical edge form of d.
func (d Dependency) normalize() Dependency {
	with := d.With
	if with == "" {
		with = ActionOk
	}
	return Dependency{Action: NormalizeName(d.Action), With: with}
}

// ActionSpec declares one action.
type ActionSpec struct {
	// Needs lists mandatory predecessors (AllIn edges).
	Needs []Dependency
	// NeedsAnyOf lists optional predecessors, at least one must match (AnyOf edges).
	NeedsAnyOf []Dependency
	// NeedsWorkflow gates the action on the workflow conclusion. Empty means no gate.
	NeedsWorkflow WorkflowStatus
	// If is checked on the merged data right before a ready action starts.
	// Returning false records ActionSkip without calling Run.
	If func(data *State) bool
	// Run is the action's run callable.
	Run RunFunc
}

// Actions maps action names to their specs.
type Actions map[string]ActionSpec

// NormalizeName converts an action identifier to its canonical string form,
// so that 1 and "1" name the same action.
func NormalizeName(name any) string {
	switch v := name.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
