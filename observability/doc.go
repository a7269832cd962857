// Package observability provides OpenTelemetry tracing and metrics for
// workflow runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("actionflow"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("actionflow"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewActionMetrics(observability.Meter("actionflow"))
//	metrics.RecordActionEnd(ctx, "build", "ok", duration)
//
// Setup wires both providers from a Config and returns a single shutdown
// function.
package observability
