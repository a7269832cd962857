package flow

import "fmt"

// EngineConfig holds engine settings loaded from configuration files.
type EngineConfig struct {
	// MaxParallel limits concurrently running actions (0 = unlimited).
	MaxParallel int `yaml:"max_parallel" mapstructure:"max_parallel"`
	// WorkflowDirs are searched for workflow files and includes.
	WorkflowDirs []string `yaml:"workflow_dirs" mapstructure:"workflow_dirs"`
	// TracePrefix names per-action spans when tracing is enabled.
	TracePrefix string `yaml:"trace_prefix" mapstructure:"trace_prefix"`
}

// ApplyDefaults applies default values to engine configuration.
func (c *EngineConfig) ApplyDefaults() {
	if len(c.WorkflowDirs) == 0 {
		c.WorkflowDirs = []string{".", "./workflows"}
	}
	if c.TracePrefix == "" {
		c.TracePrefix = "flow.action"
	}
}

// Validate validates engine configuration.
func (c *EngineConfig) Validate() error {
	if c.MaxParallel < 0 {
		return fmt.Errorf("engine.max_parallel must be >= 0 (got: %d)", c.MaxParallel)
	}
	return nil
}

// NewEngine creates an Engine from configuration.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{MaxParallel: cfg.MaxParallel}
}
