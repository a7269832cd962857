package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/kbukum/actionflow/errors"
	"github.com/kbukum/actionflow/logger"
	"github.com/kbukum/actionflow/observability"
)

// Config describes a single run.
type Config struct {
	Actions Actions
	// WorkflowData is called once before any action is dispatched.
	WorkflowData DataFunc
	// ActionData is called before each action starts. Its keys override
	// workflow data for that action only.
	ActionData DataFunc
}

// Engine runs action graphs. The zero value is ready to use.
type Engine struct {
	// MaxParallel limits concurrently running actions (0 = unlimited).
	MaxParallel int
	// Reporter receives misuse diagnostics. Nil reports through Logger.
	Reporter Reporter
	// Logger receives run lifecycle logs. Nil uses the global logger.
	Logger *logger.Logger

	middleware []Middleware
}

// Use appends middleware applied to every action's run callable. The first
// middleware is the outermost.
func (e *Engine) Use(mws ...Middleware) *Engine {
	e.middleware = append(e.middleware, mws...)
	return e
}

// Run executes cfg with a default Engine and resolves once every action has
// a recorded status.
func Run(ctx context.Context, cfg Config) error {
	_, err := (&Engine{}).Execute(ctx, cfg)
	return err
}

// Execute builds the graph for cfg and runs it to completion.
//
// Graph errors and workflow data errors return a nil Result. An action data
// error or a cancelled ctx returns the partial Result alongside the error,
// after every in-flight action has settled.
func (e *Engine) Execute(ctx context.Context, cfg Config) (*Result, error) {
	start := time.Now()

	g, err := Build(cfg.Actions)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := e.logger().WithFields(logger.Fields(logger.FieldRunID, runID))

	ctx, span := observability.StartRunSpan(ctx, runID, g.Len())
	defer span.End()

	var workflowData Data
	if cfg.WorkflowData != nil {
		workflowData, err = callData(ctx, cfg.WorkflowData)
		if err != nil {
			err = errors.DataProviderFailed("workflow", err)
			observability.SetSpanError(ctx, err)
			log.Error("workflow data failed", logger.ErrorFields("workflow_data", err))
			return nil, err
		}
	}

	r := newRun(e, g, cfg, workflowData, runID, log)

	log.Info("run started", logger.Fields("actions", g.Len()))

	err = r.loop(ctx)
	r.result.Workflow = r.workflow
	r.result.Duration = time.Since(start)

	if err != nil {
		observability.SetSpanError(ctx, err)
		log.Error("run aborted", logger.MergeWithError(logger.Fields(logger.FieldDuration, r.result.Duration.Milliseconds()), err))
		return r.result, err
	}

	observability.SetSpanAttribute(ctx, observability.AttrWorkflowStatus, r.workflow.Status.String())
	log.Info("run finished", logger.Fields(
		logger.FieldWorkflowStatus, r.workflow.Status.String(),
		logger.FieldDuration, r.result.Duration.Milliseconds(),
		"failed", len(r.result.WithStatus(ActionFail)),
		"skipped", len(r.result.WithStatus(ActionSkip)),
	))
	return r.result, nil
}

func (e *Engine) logger() *logger.Logger {
	if e.Logger != nil {
		return e.Logger.WithComponent("flow")
	}
	return logger.WithComponent("flow")
}

func (e *Engine) reporter(log *logger.Logger) Reporter {
	if e.Reporter != nil {
		return e.Reporter
	}
	return NewLogReporter(log)
}

// settlement is what an action goroutine sends back to the run loop.
type settlement struct {
	node     string
	outcome  Outcome
	outputs  Data
	err      error
	dataErr  error
	started  bool
	skipped  bool
	canceled bool
	duration time.Duration
}

// run is the mutable state of one Execute call. Only the loop goroutine
// touches it; action goroutines communicate through settled.
type run struct {
	graph        *Graph
	specs        map[string]ActionSpec
	workflowData Data
	actionData   DataFunc
	sem          *semaphore.Weighted
	reporter     Reporter
	log          *logger.Logger
	middleware   []Middleware

	finished map[string]ActionStatus
	outputs  map[string]Data
	running  map[string]struct{}
	queue    []string
	workflow WorkflowState
	settled  chan settlement
	result   *Result
}

func newRun(e *Engine, g *Graph, cfg Config, workflowData Data, runID string, log *logger.Logger) *run {
	specs := make(map[string]ActionSpec, len(cfg.Actions))
	for name, spec := range cfg.Actions {
		specs[NormalizeName(name)] = spec
	}

	r := &run{
		graph:        g,
		specs:        specs,
		workflowData: workflowData,
		actionData:   cfg.ActionData,
		reporter:     e.reporter(log),
		log:          log,
		middleware:   e.middleware,
		finished:     make(map[string]ActionStatus, g.Len()),
		outputs:      make(map[string]Data),
		running:      make(map[string]struct{}),
		workflow:     WorkflowState{Status: WorkflowOk},
		settled:      make(chan settlement, g.Len()),
		result:       newResult(runID, g.Len()),
	}
	if e.MaxParallel > 0 {
		r.sem = semaphore.NewWeighted(int64(e.MaxParallel))
	}
	return r
}

func (r *run) loop(ctx context.Context) error {
	r.enqueue(r.graph.IndependentNodes()...)

	for len(r.finished) < r.graph.Len() {
		if err := ctx.Err(); err != nil {
			return r.cancel(err)
		}
		if err := r.drain(); err != nil {
			return r.abort(err)
		}

		if len(r.queue) > 0 {
			r.dispatch(ctx, r.pop())
			continue
		}

		if len(r.running) > 0 {
			select {
			case s := <-r.settled:
				if err := r.settle(s); err != nil {
					return r.abort(err)
				}
			case <-ctx.Done():
				return r.cancel(ctx.Err())
			}
			continue
		}

		// nothing queued and nothing running: only the conclusion can
		// produce new work
		if !r.workflow.Concluded {
			r.conclude(WorkflowOk)
			continue
		}
		r.stall()
	}

	return nil
}

func (r *run) enqueue(nodes ...string) {
	r.queue = append(r.queue, nodes...)
}

func (r *run) pop() string {
	last := len(r.queue) - 1
	node := r.queue[last]
	r.queue = r.queue[:last]
	return node
}

// drain settles every completion already waiting without blocking.
func (r *run) drain() error {
	for {
		select {
		case s := <-r.settled:
			if err := r.settle(s); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *run) dispatch(ctx context.Context, node string) {
	switch Classify(node, r.graph, r.finished, r.running, r.workflow) {
	case NodeRunning, NodeFinished, NodeNotReady:
		return
	case NodeSkipped:
		r.record(node, ActionResult{Status: ActionSkip})
		r.enqueue(r.graph.Successors(node)...)
		return
	}

	r.running[node] = struct{}{}
	r.log.Debug("action dispatched", logger.Fields(logger.FieldAction, node))

	spec := r.specs[node]
	fn := chain(node, spec.Run, r.middleware)
	inputs := r.inputs(node)
	go func() {
		r.settled <- r.execute(ctx, node, inputs, spec.If, fn)
	}()
}

// execute runs on its own goroutine and must not touch run state other than
// the immutable inputs.
func (r *run) execute(ctx context.Context, node string, inputs map[string]Data, cond func(*State) bool, fn RunFunc) settlement {
	s := settlement{node: node}

	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			s.canceled = true
			return s
		}
		defer r.sem.Release(1)
	}

	var actionData Data
	if r.actionData != nil {
		data, err := callData(ctx, r.actionData)
		if err != nil {
			s.dataErr = err
			return s
		}
		actionData = data
	}
	state := MergeData(r.workflowData, actionData)
	state.setInputs(inputs)

	if cond != nil {
		ok, err := safeCond(cond, state)
		if err != nil {
			s.err = err
			return s
		}
		if !ok {
			s.skipped = true
			return s
		}
	}

	s.started = true
	start := time.Now()
	s.outcome, s.err = safeRun(ctx, fn, state)
	s.duration = time.Since(start)
	s.outputs = state.Outputs()
	return s
}

// inputs collects the outputs of node's finished predecessors.
func (r *run) inputs(node string) map[string]Data {
	var in map[string]Data
	for _, edge := range r.graph.EdgesIn(node) {
		out, ok := r.outputs[edge.From]
		if !ok {
			continue
		}
		if in == nil {
			in = make(map[string]Data)
		}
		in[edge.From] = out
	}
	return in
}

func (r *run) settle(s settlement) error {
	delete(r.running, s.node)

	if s.dataErr != nil {
		return errors.DataProviderFailed("action", s.dataErr).WithDetail("action", s.node)
	}

	ar := ActionResult{Started: s.started, Duration: s.duration, Outputs: s.outputs}
	if s.outputs != nil {
		r.outputs[s.node] = s.outputs
	}
	var concluded WorkflowStatus

	switch {
	case s.canceled:
		ar.Status = ActionCancel
	case s.skipped:
		ar.Status = ActionSkip
	case s.err != nil:
		ar.Status = ActionFail
		ar.Error = errors.ActionFailed(s.node, s.err)
		if _, ok := s.outcome.(WorkflowStatus); ok {
			concluded = WorkflowFail
		}
		r.log.Warn("action failed", logger.MergeWithError(logger.Fields(logger.FieldAction, s.node), s.err))
	default:
		ar.Status, concluded = r.normalize(s.node, s.outcome)
	}

	r.record(s.node, ar)
	if concluded != "" {
		r.conclude(concluded)
	}
	r.enqueue(r.graph.Successors(s.node)...)
	return nil
}

// normalize maps a returned outcome to the status recorded for the action
// and the workflow conclusion it requests, if any.
func (r *run) normalize(node string, out Outcome) (ActionStatus, WorkflowStatus) {
	switch o := out.(type) {
	case nil:
		return ActionOk, ""
	case ActionStatus:
		switch {
		case o == "":
			return ActionOk, ""
		case o == ActionAny:
			r.reporter.Report(
				"Please do not return ActionAny from an action run function.",
				"It is designed to be used only in dependency declarations.",
				"A returned ActionAny acts like ActionOk.",
			)
			return ActionOk, ""
		case !o.Valid():
			r.reporter.Report(fmt.Sprintf("Action %q returned unknown status %q, recorded as %s.", node, o, ActionFail))
			return ActionFail, ""
		}
		return o, ""
	case WorkflowStatus:
		switch {
		case o == WorkflowAny:
			r.reporter.Report(
				"Please do not return WorkflowAny from an action run function.",
				"It is designed to be used only in dependency declarations.",
				"A returned WorkflowAny acts like WorkflowOk.",
			)
			o = WorkflowOk
		case !o.Valid():
			r.reporter.Report(fmt.Sprintf("Action %q returned unknown workflow status %q, recorded as %s.", node, o, ActionFail))
			return ActionFail, ""
		}
		return o.ActionStatus(), o
	}
	return ActionOk, ""
}

// record stores the terminal status of node. A status is written once.
func (r *run) record(node string, ar ActionResult) {
	if _, ok := r.finished[node]; ok {
		return
	}
	ar.Name = node
	r.finished[node] = ar.Status
	r.result.Actions[node] = ar

	r.log.Debug("action finished", logger.ActionFields(node, ar.Status.String(), ar.Duration))
}

// conclude ends the workflow once. Unfinished actions outside the gated
// subgraphs are skipped and the gated actions are queued.
func (r *run) conclude(status WorkflowStatus) {
	if r.workflow.Concluded {
		return
	}
	r.workflow = WorkflowState{Concluded: true, Status: status}

	skipped := 0
	for _, node := range r.graph.Nodes() {
		if r.graph.IsDownstreamOfGate(node) {
			continue
		}
		if _, ok := r.finished[node]; ok {
			continue
		}
		if _, ok := r.running[node]; ok {
			continue
		}
		r.record(node, ActionResult{Status: ActionSkip})
		skipped++
	}

	r.log.Info("workflow concluded", logger.Fields(
		logger.FieldWorkflowStatus, status.String(),
		"skipped", skipped,
	))
	r.enqueue(r.graph.GatedNodes()...)
}

// stall skips what is left when no further progress is possible.
func (r *run) stall() {
	var left []string
	for _, node := range r.graph.Nodes() {
		if _, ok := r.finished[node]; ok {
			continue
		}
		left = append(left, node)
		r.record(node, ActionResult{Status: ActionSkip})
	}
	r.reporter.Report(
		"Run stalled after the workflow concluded.",
		fmt.Sprintf("Skipping unreachable actions: %v.", left),
	)
}

// cancel records ActionCancel for every action that never started, then
// waits for in-flight actions.
func (r *run) cancel(cause error) error {
	for _, node := range r.graph.Nodes() {
		if _, ok := r.running[node]; ok {
			continue
		}
		r.record(node, ActionResult{Status: ActionCancel})
	}
	r.wait()
	r.log.Warn("run cancelled", logger.ErrorFields("run", cause))
	return cause
}

// abort waits for in-flight actions and returns cause.
func (r *run) abort(cause error) error {
	r.wait()
	return cause
}

// wait blocks until every running action has settled, recording its status
// without scheduling further work.
func (r *run) wait() {
	for len(r.running) > 0 {
		s := <-r.settled
		delete(r.running, s.node)

		status := ActionCancel
		switch {
		case s.dataErr != nil, s.canceled:
		case s.skipped:
			status = ActionSkip
		case s.err != nil:
			status = ActionFail
		default:
			status, _ = r.normalize(s.node, s.outcome)
		}
		ar := ActionResult{Status: status, Started: s.started, Duration: s.duration}
		if s.err != nil {
			ar.Error = errors.ActionFailed(s.node, s.err)
		}
		r.record(s.node, ar)
	}
}

func safeRun(ctx context.Context, fn RunFunc, state *State) (out Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, errors.Internal(fmt.Errorf("action panicked: %v", p))
		}
	}()
	return fn(ctx, state)
}

func safeCond(cond func(*State) bool, state *State) (ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			ok, err = false, errors.Internal(fmt.Errorf("action condition panicked: %v", p))
		}
	}()
	return cond(state), nil
}

func callData(ctx context.Context, fn DataFunc) (data Data, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, errors.Internal(fmt.Errorf("data provider panicked: %v", p))
		}
	}()
	return fn(ctx)
}
