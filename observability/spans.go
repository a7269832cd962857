package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/kbukum/actionflow"

// Span names.
const (
	SpanRun    = "flow.run"
	SpanAction = "flow.action"
)

// Attribute keys.
const (
	AttrRunID          = "flow.run_id"
	AttrAction         = "flow.action"
	AttrActionStatus   = "flow.action.status"
	AttrWorkflow       = "flow.workflow"
	AttrWorkflowStatus = "flow.workflow.status"
	AttrActionCount    = "flow.action.count"
)

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span on the actionflow tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(tracerName).Start(ctx, name, opts...)
}

// StartRunSpan opens the root span of a run.
func StartRunSpan(ctx context.Context, runID string, actions int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanRun, trace.WithAttributes(
		attribute.String(AttrRunID, runID),
		attribute.Int(AttrActionCount, actions),
	))
}

// StartActionSpan opens a span named "{prefix}.{action}" under the run span.
func StartActionSpan(ctx context.Context, prefix, action string) (context.Context, trace.Span) {
	if prefix == "" {
		prefix = SpanAction
	}
	return StartSpan(ctx, prefix+"."+action, trace.WithAttributes(
		attribute.String(AttrAction, action),
	))
}

// EndActionSpan records the action's status and error, then ends span.
func EndActionSpan(span trace.Span, status string, err error) {
	span.SetAttributes(attribute.String(AttrActionStatus, status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// SpanFromContext returns the span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanAttribute sets an attribute on the current span in context.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	switch v := value.(type) {
	case string:
		span.SetAttributes(attribute.String(key, v))
	case int:
		span.SetAttributes(attribute.Int(key, v))
	case int64:
		span.SetAttributes(attribute.Int64(key, v))
	case float64:
		span.SetAttributes(attribute.Float64(key, v))
	case bool:
		span.SetAttributes(attribute.Bool(key, v))
	case []string:
		span.SetAttributes(attribute.StringSlice(key, v))
	case fmt.Stringer:
		span.SetAttributes(attribute.String(key, v.String()))
	}
}

// SetSpanError records err on the current span and marks it failed.
func SetSpanError(ctx context.Context, err error) {
	span := SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
