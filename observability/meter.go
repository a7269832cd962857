package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/actionflow/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
	// Logger receives initialization logs; nil uses the global logger.
	Logger *logger.Logger
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	componentLogger(config.Logger).Info("metrics enabled", logger.Fields(
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ActionMetrics holds the instruments recorded while running workflows.
type ActionMetrics struct {
	actionTotal         metric.Int64Counter
	actionDuration      metric.Float64Histogram
	actionActive        metric.Int64UpDownCounter
	workflowConclusions metric.Int64Counter
}

// NewActionMetrics creates metric instruments on the given meter.
func NewActionMetrics(meter metric.Meter) (*ActionMetrics, error) {
	actionTotal, err := meter.Int64Counter("action.total",
		metric.WithDescription("Total number of finished actions by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating action.total counter: %w", err)
	}

	actionDuration, err := meter.Float64Histogram("action.duration",
		metric.WithDescription("Duration of action run functions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating action.duration histogram: %w", err)
	}

	actionActive, err := meter.Int64UpDownCounter("action.active",
		metric.WithDescription("Number of currently running actions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating action.active gauge: %w", err)
	}

	conclusions, err := meter.Int64Counter("workflow.conclusions",
		metric.WithDescription("Total workflow conclusions by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating workflow.conclusions counter: %w", err)
	}

	return &ActionMetrics{
		actionTotal:         actionTotal,
		actionDuration:      actionDuration,
		actionActive:        actionActive,
		workflowConclusions: conclusions,
	}, nil
}

// RecordActionStart increments the running action count.
func (m *ActionMetrics) RecordActionStart(ctx context.Context) {
	m.actionActive.Add(ctx, 1)
}

// RecordActionEnd decrements running actions and records the finished one.
func (m *ActionMetrics) RecordActionEnd(ctx context.Context, action, status string, duration time.Duration) {
	m.actionActive.Add(ctx, -1)
	m.actionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("status", status),
	))
	m.actionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("action", action),
	))
}

// RecordConclusion records a workflow conclusion.
func (m *ActionMetrics) RecordConclusion(ctx context.Context, status string) {
	m.workflowConclusions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}
