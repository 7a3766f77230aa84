package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/datakit/logger"
)

const tracerName = "github.com/kbukum/datakit/observability"

// Span and resource attribute keys.
const (
	AttrServiceName    = "service.name"
	AttrServiceVersion = "service.version"
	AttrEnvironment    = "environment"
	AttrAlgorithm      = "datakit.algorithm"
	AttrRunID          = "datakit.run_id"
	AttrStep           = "datakit.step"
	AttrRole           = "datakit.role"
	AttrInputKind      = "datakit.input_kind"
	AttrOutputKind     = "datakit.output_kind"
	AttrErrorCode      = "datakit.error_code"
)

// Resource identifies the service that emits spans and metrics.
type Resource struct {
	Service     string
	Version     string
	Environment string
}

func (r Resource) build() (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String(AttrServiceName, r.Service),
		attribute.String(AttrServiceVersion, r.Version),
		attribute.String(AttrEnvironment, r.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("building resource for %s: %w", r.Service, err)
	}
	return res, nil
}

// Export points at an OTLP/HTTP collector, e.g. "localhost:4318".
type Export struct {
	Endpoint string
	Insecure bool
}

// InitTracer exports spans to exp in batches and installs the provider and a
// W3C trace context propagator globally. Callers shut the provider down.
func InitTracer(ctx context.Context, res Resource, exp Export, sampleRate float64) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(exp.Endpoint)}
	if exp.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tp, err := NewTracerProvider(res, sampleRate, sdktrace.WithBatcher(exporter))
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("tracing enabled", logger.Fields(
		AttrServiceName, res.Service,
		"endpoint", exp.Endpoint,
		"sample_rate", sampleRate,
	))
	return tp, nil
}

// NewTracerProvider builds a provider for res that samples sampleRate of new
// traces. opts supply the span processors.
func NewTracerProvider(res Resource, sampleRate float64, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	r, err := res.build()
	if err != nil {
		return nil, err
	}
	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(r),
		sdktrace.WithSampler(sampler(sampleRate)),
	}, opts...)
	return sdktrace.NewTracerProvider(opts...), nil
}

func sampler(rate float64) sdktrace.Sampler {
	if rate >= 1 {
		return sdktrace.AlwaysSample()
	}
	if rate <= 0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.TraceIDRatioBased(rate)
}

// StartSpan starts a span on the global tracer provider.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// SetSpanAttribute sets key on the span in ctx. Values without a native
// attribute type are formatted with %v.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(keyValue(key, value))
	}
}

func keyValue(key string, value any) attribute.KeyValue {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v)
	case int:
		return k.Int(v)
	case int64:
		return k.Int64(v)
	case float64:
		return k.Float64(v)
	case bool:
		return k.Bool(v)
	case []string:
		return k.StringSlice(v)
	case fmt.Stringer:
		return k.String(v.String())
	}
	return k.String(fmt.Sprintf("%v", value))
}

// SetSpanError records err on the span in ctx and marks the span failed.
func SetSpanError(ctx context.Context, err error) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
