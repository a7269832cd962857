package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/actionflow/errors"
	"github.com/kbukum/actionflow/flow"
	"github.com/kbukum/actionflow/version"
)

type rootOptions struct {
	configFile  string
	envFile     string
	logLevel    string
	maxParallel int
	dirs        []string
	flags       interface{ Changed(name string) bool }
}

// override applies flags that were set explicitly on the command line.
func (o *rootOptions) override(cfg *Config) {
	if o.flags == nil {
		return
	}
	if o.flags.Changed("log-level") {
		cfg.Logger.Level = o.logLevel
	}
	if o.flags.Changed("max-parallel") {
		cfg.Engine.MaxParallel = o.maxParallel
	}
	if o.flags.Changed("dir") {
		cfg.Engine.WorkflowDirs = o.dirs
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	s := &session{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Run workflows of dependent actions",
		Long: `actionflow runs the actions of a YAML workflow as a dependency graph.

Actions start as soon as their dependencies finished with the required
status, run in parallel up to engine.max_parallel, and may wait for the
workflow conclusion to run cleanup or notification steps.`,
		Version:      version.Get().Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.flags = cmd.Flags()
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			s.app, err = newApp(cmd.Context(), cfg, stdout, stderr)
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "config file (default: search ./actionflow.yml, ./config/, user config dir)")
	pf.StringVar(&opts.envFile, "env-file", "", ".env file to load before reading the environment")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.IntVarP(&opts.maxParallel, "max-parallel", "p", 0, "maximum concurrently running actions (0 = unlimited)")
	pf.StringSliceVarP(&opts.dirs, "dir", "d", nil, "directories searched for workflows and includes")

	cmd.AddCommand(
		newRunCmd(s),
		newGraphCmd(s),
		newValidateCmd(s),
		newVersionCmd(stdout),
	)
	return cmd
}

// session carries the app from the persistent pre-run to the subcommand.
type session struct {
	app *app
}

// runE adapts fn to cobra and shuts telemetry down however fn returns.
func (s *session) runE(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := s.app.close(context.WithoutCancel(cmd.Context())); err == nil {
				err = cerr
			}
		}()
		return fn(cmd.Context(), s.app, args)
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// no configuration is needed to print the version
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(stdout, "%s %s\n", appName, version.Get())
		},
	}
}

// runFailedError reports a run whose actions or conclusion failed.
type runFailedError struct {
	workflow string
}

func (e *runFailedError) Error() string {
	return "workflow " + e.workflow + " failed"
}

// exitCode maps command errors to process exit codes: 1 for a failed run,
// 2 for invalid input or configuration, 3 for anything else.
func exitCode(err error) int {
	var failed *runFailedError
	if stderrors.As(err, &failed) {
		return 1
	}
	var cycle *flow.CycleError
	if stderrors.As(err, &cycle) {
		return 2
	}
	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Code {
		case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidAction,
			errors.ErrCodeUnknownDependency, errors.ErrCodeCycleDetected, errors.ErrCodeNotFound:
			return 2
		}
	}
	return 3
}
