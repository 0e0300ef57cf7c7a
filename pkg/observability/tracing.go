// Package observability sets up OpenTelemetry tracing for colframe and ties
// spans to structured logs.
package observability

import (
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	colerrors "github.com/ajitpratap0/colframe/pkg/errors"
)

// InstrumentationName is the tracer name used for colframe spans
const InstrumentationName = "github.com/ajitpratap0/colframe"

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// SamplingRate is clamped to [0, 1]; 0 samples nothing.
	SamplingRate float64
	PrettyPrint  bool
	// Synchronous exports each span as it ends instead of batching.
	Synchronous  bool
	BatchTimeout time.Duration
}

// DefaultTracingConfig samples every span and batches exports
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "colframe",
		ServiceVersion: "dev",
		Environment:    getEnv("ENVIRONMENT", "development"),
		SamplingRate:   1.0,
		BatchTimeout:   5 * time.Second,
	}
}

// Provider owns the tracer provider installed by InitTracing
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

// InitTracing installs a global tracer provider that writes spans as JSON to
// w. A nil w means stderr. Call Shutdown to flush pending spans.
func InitTracing(config TracingConfig, w io.Writer) (*Provider, error) {
	if w == nil {
		w = os.Stderr
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, colerrors.Wrap(err, colerrors.ErrorTypeConfig, "tracing resource")
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if config.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, colerrors.Wrap(err, colerrors.ErrorTypeConfig, "stdout trace exporter")
	}

	var processor sdktrace.TracerProviderOption
	if config.Synchronous {
		processor = sdktrace.WithSyncer(exporter)
	} else {
		batchTimeout := config.BatchTimeout
		if batchTimeout <= 0 {
			batchTimeout = 5 * time.Second
		}
		processor = sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(config.SamplingRate)),
		processor,
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tp: tp, tracer: tp.Tracer(InstrumentationName)}, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Tracer returns the provider's tracer
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Shutdown flushes and stops the provider. Safe on a nil Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.tp.Shutdown(ctx); err != nil {
		return colerrors.Wrap(err, colerrors.ErrorTypeInternal, "tracer shutdown")
	}
	return nil
}

// StartSpan starts a span on the global tracer. Without InitTracing the
// global provider is a no-op.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// Trace runs fn inside a span named name. A non-nil error from fn is recorded
// on the span, which is marked failed, and returned unchanged.
func Trace(ctx context.Context, name string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := StartSpan(ctx, name, attrs...)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if typ, ok := colerrors.TypeOf(err); ok {
			span.SetAttributes(attribute.String("error.type", string(typ)))
		}
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// FrameAttributes describes a table on a span
func FrameAttributes(name string, columns, rows int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("frame.name", name),
		attribute.Int("frame.columns", columns),
		attribute.Int("frame.rows", rows),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
