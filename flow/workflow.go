package flow

import (
	"context"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/actionflow/validation"
)

// DefaultRunner is the runner used by actions that do not set Uses.
const DefaultRunner = "command"

// Workflow is the file form of a set of actions.
type Workflow struct {
	Name string `yaml:"name" validate:"required"`
	// Includes names other workflows whose actions are merged in first.
	Includes []string `yaml:"includes,omitempty"`
	// Data is handed to every action as workflow data.
	Data    map[string]any `yaml:"data,omitempty"`
	Actions []ActionDef    `yaml:"actions" validate:"dive"`
}

// ActionDef is the file form of an action.
type ActionDef struct {
	Name string `yaml:"name" validate:"required"`
	// Uses names the runner that builds the run callable.
	Uses    string            `yaml:"uses,omitempty"`
	Command string            `yaml:"command,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
	// With holds runner specific parameters.
	With map[string]any `yaml:"with,omitempty"`
	// Timeout bounds a single attempt. Zero uses the runner default.
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"min=0"`
	// Retry re-runs a failed attempt. Runners that cannot retry ignore it.
	Retry *RetryDef `yaml:"retry,omitempty"`

	Needs         []DependencyDef `yaml:"needs,omitempty" validate:"dive"`
	NeedsAnyOf    []DependencyDef `yaml:"needs_any_of,omitempty" validate:"dive"`
	NeedsWorkflow string          `yaml:"needs_workflow,omitempty" validate:"omitempty,oneof=ok fail any"`
	// Concludes turns the action's result into the workflow conclusion.
	Concludes bool `yaml:"concludes,omitempty"`
}

// Runner returns the runner name, defaulting to DefaultRunner.
func (d ActionDef) Runner() string {
	if d.Uses == "" {
		return DefaultRunner
	}
	return d.Uses
}

// RetryDef configures attempts of a failing action.
type RetryDef struct {
	// Attempts includes the first run.
	Attempts int           `yaml:"attempts" validate:"min=1"`
	Backoff  time.Duration `yaml:"backoff,omitempty" validate:"min=0"`
}

// DependencyDef is either a bare action name or an {action, with} mapping.
type DependencyDef struct {
	Action string `yaml:"action" validate:"required"`
	With   string `yaml:"with,omitempty" validate:"omitempty,oneof=ok fail cancel skip any"`
}

// UnmarshalYAML accepts both "build" and {action: build, with: fail}.
func (d *DependencyDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Action = node.Value
		d.With = ""
		return nil
	}
	type plain DependencyDef
	return node.Decode((*plain)(d))
}

// Dependency converts d to its engine form.
func (d DependencyDef) Dependency() Dependency {
	return Dependency{Action: d.Action, With: ActionStatus(d.With)}
}

// Validate checks field constraints and action name uniqueness. Dependency
// targets are checked when the graph is built.
func (w *Workflow) Validate() error {
	if err := validation.Validate(w); err != nil {
		return err
	}

	names := make([]string, len(w.Actions))
	for i, a := range w.Actions {
		names[i] = a.Name
	}
	return validation.New().Unique("actions", names).Validate()
}

// WorkflowData returns a DataFunc yielding a copy of w.Data, or nil when
// the workflow declares no data.
func (w *Workflow) WorkflowData() DataFunc {
	return staticData(w.Data)
}

func staticData(d Data) DataFunc {
	if len(d) == 0 {
		return nil
	}
	return func(context.Context) (Data, error) {
		data := make(Data, len(d))
		for k, v := range d {
			data[k] = v
		}
		return data, nil
	}
}

// spec turns d into an ActionSpec using run as the run callable.
func (d ActionDef) spec(run RunFunc) ActionSpec {
	spec := ActionSpec{
		NeedsWorkflow: WorkflowStatus(d.NeedsWorkflow),
		Run:           run,
	}
	for _, dep := range d.Needs {
		spec.Needs = append(spec.Needs, dep.Dependency())
	}
	for _, dep := range d.NeedsAnyOf {
		spec.NeedsAnyOf = append(spec.NeedsAnyOf, dep.Dependency())
	}
	if d.Concludes {
		spec.Run = Concluding(run)
	}
	return spec
}

// Concluding wraps run so that its result concludes the workflow: ActionOk
// becomes WorkflowOk and anything else WorkflowFail.
func Concluding(run RunFunc) RunFunc {
	return func(ctx context.Context, data *State) (Outcome, error) {
		out, err := run(ctx, data)
		if err != nil {
			return WorkflowFail, err
		}
		switch o := out.(type) {
		case WorkflowStatus:
			return o, nil
		case nil:
			return WorkflowOk, nil
		case ActionStatus:
			if o == ActionOk || o == "" {
				return WorkflowOk, nil
			}
		}
		return WorkflowFail, nil
	}
}

func (d ActionDef) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Runner())
}
