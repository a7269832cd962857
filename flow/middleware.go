package flow

import (
	"context"
	"time"

	"github.com/kbukum/actionflow/logger"
	"github.com/kbukum/actionflow/observability"
)

// Middleware decorates the run function of an action.
type Middleware func(action string, next RunFunc) RunFunc

func chain(action string, run RunFunc, mws []Middleware) RunFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		run = mws[i](action, run)
	}
	return run
}

// outcomeStatus maps an outcome to the status label used in spans and metrics.
func outcomeStatus(out Outcome, err error) string {
	if err != nil {
		return ActionFail.String()
	}
	switch o := out.(type) {
	case nil:
		return ActionOk.String()
	case WorkflowStatus:
		return o.ActionStatus().String()
	default:
		return o.String()
	}
}

// WithTracing opens a span named "{prefix}.{action}" around each run.
func WithTracing(prefix string) Middleware {
	return func(action string, next RunFunc) RunFunc {
		return func(ctx context.Context, state *State) (Outcome, error) {
			ctx, span := observability.StartActionSpan(ctx, prefix, action)
			out, err := next(ctx, state)
			observability.EndActionSpan(span, outcomeStatus(out, err), err)
			return out, err
		}
	}
}

// WithMetrics records count, duration and concurrency of runs.
func WithMetrics(metrics *observability.ActionMetrics) Middleware {
	return func(action string, next RunFunc) RunFunc {
		return func(ctx context.Context, state *State) (Outcome, error) {
			metrics.RecordActionStart(ctx)
			start := time.Now()
			out, err := next(ctx, state)
			metrics.RecordActionEnd(ctx, action, outcomeStatus(out, err), time.Since(start))
			if ws, ok := out.(WorkflowStatus); ok && err == nil {
				metrics.RecordConclusion(ctx, ws.String())
			}
			return out, err
		}
	}
}

// WithLogging logs each run with its duration and status.
func WithLogging(log *logger.Logger) Middleware {
	return func(action string, next RunFunc) RunFunc {
		return func(ctx context.Context, state *State) (Outcome, error) {
			start := time.Now()
			out, err := next(ctx, state)

			fields := logger.ActionFields(action, outcomeStatus(out, err), time.Since(start))
			if err != nil {
				log.Error("action failed", logger.MergeWithError(fields, err))
			} else {
				log.Debug("action completed", fields)
			}
			return out, err
		}
	}
}
