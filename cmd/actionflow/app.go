package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/kbukum/actionflow/flow"
	"github.com/kbukum/actionflow/logger"
	"github.com/kbukum/actionflow/observability"
	"github.com/kbukum/actionflow/process"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg      *Config
	log      *logger.Logger
	stdout   io.Writer
	stderr   io.Writer
	registry *flow.Registry
	loader   *flow.FileWorkflowLoader
	metrics  *observability.ActionMetrics
	adapter  *process.Adapter
	shutdown observability.ShutdownFunc
}

func newApp(ctx context.Context, cfg *Config, stdout, stderr io.Writer) (*app, error) {
	logOut := stderr
	if cfg.Logger.Output == "stdout" {
		logOut = stdout
	}
	log := logger.NewWithWriter(&cfg.Logger, cfg.Base.Name, logOut)
	logger.SetGlobalLogger(log)

	shutdown, err := observability.Setup(ctx, cfg.Observability, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		stdout:   stdout,
		stderr:   stderr,
		registry: flow.NewRegistry(),
		loader:   flow.NewFileWorkflowLoader(cfg.Engine.WorkflowDirs...),
		adapter:  process.NewAdapter(cfg.Process),
		shutdown: shutdown,
	}

	if cfg.Observability.Enabled {
		a.metrics, err = observability.NewActionMetrics(observability.Meter(appName))
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
	}
	return a, nil
}

// registerRunners installs the built-in runners. Action output is streamed
// to stdout only when stream is set.
func (a *app) registerRunners(stream bool) {
	var mux *outputMux
	if stream {
		mux = newOutputMux(a.stdout)
	}
	a.registry.Register(flow.DefaultRunner, commandRunner(a.adapter, mux))
}

// loadWorkflow treats arg as a file path when it exists, and as a workflow
// name searched in the configured directories otherwise.
func (a *app) loadWorkflow(arg string) (*flow.Workflow, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return flow.LoadWorkflowFile(arg)
	}
	return a.loader.Load(arg)
}

// resolve loads arg and merges its includes into runnable actions.
func (a *app) resolve(arg string) (*flow.Workflow, *flow.Resolved, error) {
	w, err := a.loadWorkflow(arg)
	if err != nil {
		return nil, nil, err
	}
	resolved, err := flow.ResolveWorkflow(w, a.registry, a.loader)
	if err != nil {
		return nil, nil, err
	}
	return w, resolved, nil
}

// engine builds an Engine with the middleware stack for this configuration.
func (a *app) engine() *flow.Engine {
	e := flow.NewEngine(a.cfg.Engine)
	e.Logger = a.log

	e.Use(flow.WithLogging(a.log.WithComponent("action")))
	if a.cfg.Observability.Enabled {
		e.Use(flow.WithTracing(a.cfg.Engine.TracePrefix))
		e.Use(flow.WithMetrics(a.metrics))
	}
	return e
}

func (a *app) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.shutdown(ctx)
}

// actionData stamps every dispatch with its start time.
func actionData(context.Context) (flow.Data, error) {
	return flow.Data{"dispatched_at": time.Now().UTC().Format(time.RFC3339Nano)}, nil
}
