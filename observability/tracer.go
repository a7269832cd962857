package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"

	"github.com/kbukum/actionflow/logger"
)

// TracerConfig configures the tracer provider that receives run and action
// spans.
type TracerConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP collector, host:port.
	Endpoint string
	Insecure bool
	// SampleRate is the fraction of runs traced, within [0, 1]. Action spans
	// follow their run's decision.
	SampleRate float64
	// Exporter replaces the OTLP exporter when set.
	Exporter sdktrace.SpanExporter
	// Logger receives initialization logs; nil uses the global logger.
	Logger *logger.Logger
}

// DefaultTracerConfig returns a config exporting every run to a local
// collector.
func DefaultTracerConfig(serviceName string) TracerConfig {
	return TracerConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// InitTracer installs a global tracer provider and the W3C propagators.
// The caller owns the returned provider and must shut it down to flush
// pending spans.
func InitTracer(ctx context.Context, cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	exporter := cfg.Exporter
	target := "custom"
	if exporter == nil {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		var err error
		if exporter, err = otlptracehttp.New(ctx, opts...); err != nil {
			return nil, fmt.Errorf("observability: trace exporter: %w", err)
		}
		target = cfg.Endpoint
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("observability: resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	componentLogger(cfg.Logger).Info("tracing enabled", logger.Fields(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"environment", cfg.Environment,
		"exporter", target,
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

// sampler decides per run; child spans inherit through ParentBased.
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case rate <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

func newResource(service, version, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
			semconv.ServiceVersion(version),
			attribute.String("deployment.environment", environment),
		),
	)
}

func componentLogger(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.WithComponent("observability")
	}
	return log.WithComponent("observability")
}
