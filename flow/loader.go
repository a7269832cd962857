package flow

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/actionflow/errors"
)

// WorkflowLoader loads workflow definitions by name.
type WorkflowLoader interface {
	Load(name string) (*Workflow, error)
}

// FileWorkflowLoader loads workflows from YAML files on disk.
type FileWorkflowLoader struct {
	dirs []string
}

// NewFileWorkflowLoader creates a loader that searches the given directories
// for workflow YAML files.
func NewFileWorkflowLoader(dirs ...string) *FileWorkflowLoader {
	return &FileWorkflowLoader{dirs: dirs}
}

var workflowExts = []string{".yaml", ".yml"}

// Load searches for {name}.yaml or {name}.yml in each directory, then in
// their subdirectories.
func (l *FileWorkflowLoader) Load(name string) (*Workflow, error) {
	for _, dir := range l.dirs {
		for _, ext := range workflowExts {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return LoadWorkflowFile(path)
			}
		}

		if path, ok := findWorkflow(dir, name); ok {
			return LoadWorkflowFile(path)
		}
	}
	return nil, errors.NotFound("workflow", name).WithDetail("dirs", l.dirs)
}

func findWorkflow(dir, name string) (string, bool) {
	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		base := d.Name()
		ext := filepath.Ext(base)
		if strings.TrimSuffix(base, ext) == name && (ext == ".yaml" || ext == ".yml") {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found, found != ""
}

// LoadWorkflowFile parses and validates a workflow file. A missing name
// defaults to the file name without extension.
func LoadWorkflowFile(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flow: reading %s: %w", path, err)
	}
	return ParseWorkflow(data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// ParseWorkflow parses and validates workflow YAML. defaultName is used when
// the document has no name.
func ParseWorkflow(data []byte, defaultName string) (*Workflow, error) {
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, errors.InvalidInput("workflow", err.Error()).WithCause(err)
	}
	if w.Name == "" {
		w.Name = defaultName
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Resolved is a workflow with its includes merged in.
type Resolved struct {
	Actions Actions
	// Data holds the declared data of every included workflow, overlaid by
	// the including workflow's own.
	Data Data
}

// WorkflowData returns a DataFunc yielding a copy of r.Data, or nil when
// no workflow declared data.
func (r *Resolved) WorkflowData() DataFunc {
	return staticData(r.Data)
}

// ResolveWorkflow converts a Workflow into Actions. Includes are resolved
// recursively and merged first; an action defined more than once keeps its
// first definition, while data keys declared later win. Run callables come
// from registry.
func ResolveWorkflow(w *Workflow, registry *Registry, loader WorkflowLoader) (*Resolved, error) {
	r := &Resolved{Actions: make(Actions), Data: make(Data)}
	stack := make(map[string]bool)
	resolved := make(map[string]bool)
	if err := resolveWorkflow(w, registry, loader, r, stack, resolved); err != nil {
		return nil, err
	}
	return r, nil
}

func resolveWorkflow(w *Workflow, registry *Registry, loader WorkflowLoader, r *Resolved, stack, resolved map[string]bool) error {
	if stack[w.Name] {
		return errors.InvalidInput("includes", fmt.Sprintf("circular include detected for workflow %q", w.Name))
	}
	stack[w.Name] = true
	defer delete(stack, w.Name)

	for _, include := range w.Includes {
		if resolved[include] {
			continue
		}
		if stack[include] {
			return errors.InvalidInput("includes", fmt.Sprintf("circular include detected for workflow %q", include))
		}
		if loader == nil {
			return errors.InvalidInput("includes", fmt.Sprintf("workflow %q has includes but no loader", w.Name))
		}

		sub, err := loader.Load(include)
		if err != nil {
			return fmt.Errorf("flow: loading include %q: %w", include, err)
		}
		if err := resolveWorkflow(sub, registry, loader, r, stack, resolved); err != nil {
			return err
		}
	}

	for _, def := range w.Actions {
		if _, exists := r.Actions[def.Name]; exists {
			continue
		}
		run, err := registry.Build(def)
		if err != nil {
			return err
		}
		r.Actions[def.Name] = def.spec(run)
	}
	for k, v := range w.Data {
		r.Data[k] = v
	}

	resolved[w.Name] = true
	return nil
}
