package process

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/actionflow/resilience"
)

// Config holds subprocess defaults loaded from configuration files.
type Config struct {
	// Shell runs command strings with "<shell> -c".
	Shell string `yaml:"shell,omitempty" mapstructure:"shell"`
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout is the default per-attempt timeout. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// ApplyDefaults applies default values to process configuration.
func (c *Config) ApplyDefaults() {
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = DefaultGracePeriod
	}
}

// Validate validates process configuration.
func (c *Config) Validate() error {
	if c.GracePeriod < 0 {
		return fmt.Errorf("process.grace_period must be >= 0 (got: %s)", c.GracePeriod)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("process.timeout must be >= 0 (got: %s)", c.Timeout)
	}
	return nil
}

// Policy overrides adapter defaults for a single Run.
type Policy struct {
	// Timeout bounds each attempt. Zero uses Config.Timeout.
	Timeout time.Duration
	// Retry re-runs failed attempts while the parent context is alive.
	// MaxAttempts <= 1 disables retries.
	Retry resilience.RetryConfig
}

// Adapter runs commands with configured defaults, timeouts and retries.
type Adapter struct {
	config Config
}

// NewAdapter creates a new process adapter.
func NewAdapter(cfg Config) *Adapter {
	cfg.ApplyDefaults()
	return &Adapter{config: cfg}
}

// Shell returns a Command running script with the configured shell.
func (a *Adapter) Shell(script string) Command {
	cmd := Shell(script)
	cmd.Binary = a.config.Shell
	return cmd
}

// Run executes cmd, applying adapter defaults and p. The returned Result is
// the last attempt's, with Attempts set.
func (a *Adapter) Run(ctx context.Context, cmd Command, p Policy) (*Result, error) {
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = a.config.Timeout
	}

	attempt := func(n int) (*Result, error) {
		actx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := Run(actx, cmd)
		if res != nil {
			res.Attempts = n
		}
		return res, err
	}

	if p.Retry.MaxAttempts <= 1 {
		return attempt(1)
	}

	policy := p.Retry
	if policy.RetryIf == nil {
		policy.RetryIf = func(error) bool { return ctx.Err() == nil }
	}
	return resilience.Retry(ctx, policy, attempt)
}
