package flow

import "fmt"

// ActionStatus is the terminal status recorded for an action.
// ActionAny is a wildcard valid only inside dependency declarations.
type ActionStatus string

const (
	ActionOk     ActionStatus = "ok"
	ActionFail   ActionStatus = "fail"
	ActionCancel ActionStatus = "cancel"
	ActionSkip   ActionStatus = "skip"
	ActionAny    ActionStatus = "any"
)

// WorkflowStatus is the run-wide conclusion.
// WorkflowAny is a wildcard valid only as a gate's required value.
type WorkflowStatus string

const (
	WorkflowOk   WorkflowStatus = "ok"
	WorkflowFail WorkflowStatus = "fail"
	WorkflowAny  WorkflowStatus = "any"
)

// NodeStatus is the readiness classification of a node. It is recomputed on
// demand and never stored.
type NodeStatus string

const (
	NodeRunning  NodeStatus = "running"
	NodeFinished NodeStatus = "finished"
	NodeNotReady NodeStatus = "not_ready"
	NodeReady    NodeStatus = "ready"
	NodeSkipped  NodeStatus = "skipped"
)

// Outcome is what a RunFunc reports. It is implemented by ActionStatus and
// WorkflowStatus only; a nil Outcome means ActionOk.
type Outcome interface {
	String() string
	outcome()
}

func (ActionStatus) outcome()   {}
func (WorkflowStatus) outcome() {}

func (s ActionStatus) String() string   { return string(s) }
func (s WorkflowStatus) String() string { return string(s) }
func (s NodeStatus) String() string     { return string(s) }

// Valid reports whether s is one of the declared action statuses.
func (s ActionStatus) Valid() bool {
	switch s {
	case ActionOk, ActionFail, ActionCancel, ActionSkip, ActionAny:
		return true
	}
	return false
}

// Valid reports whether s is one of the declared workflow statuses.
func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowOk, WorkflowFail, WorkflowAny:
		return true
	}
	return false
}

// ActionStatus returns the status an action records when it concludes the
// workflow with s.
func (s WorkflowStatus) ActionStatus() ActionStatus {
	switch s {
	case WorkflowOk:
		return ActionOk
	case WorkflowFail:
		return ActionFail
	case WorkflowAny:
		return ActionAny
	}
	return ActionStatus(s)
}

// ParseActionStatus parses a lower-case action status name.
func ParseActionStatus(s string) (ActionStatus, error) {
	status := ActionStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown action status %q", s)
	}
	return status, nil
}

// ParseWorkflowStatus parses a lower-case workflow status name.
func ParseWorkflowStatus(s string) (WorkflowStatus, error) {
	status := WorkflowStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown workflow status %q", s)
	}
	return status, nil
}
