package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/datakit/logger"
)

// Step outcomes recorded on datakit.operation.total.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DefaultExportInterval is used by InitMeter for a non-positive interval.
const DefaultExportInterval = 15 * time.Second

// InitMeter pushes metrics to exp every interval and installs the provider
// globally. Callers shut the provider down.
func InitMeter(ctx context.Context, res Resource, exp Export, interval time.Duration) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(exp.Endpoint)}
	if exp.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := res.build()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultExportInterval
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(r),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)

	logger.Info("metrics enabled", logger.Fields(
		AttrServiceName, res.Service,
		"endpoint", exp.Endpoint,
		"interval", interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics records algorithm steps:
//
//	datakit.operation.total     steps by algorithm, operation and status
//	datakit.operation.duration  step duration in seconds
//	datakit.items.total         items fed into steps
//	datakit.error.total         failed steps by error code
type Metrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
	items      metric.Int64Counter
	failures   metric.Int64Counter
}

// NewMetrics creates the datakit instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operations, errOps := meter.Int64Counter("datakit.operation.total",
		metric.WithDescription("Algorithm steps run"))
	duration, errDur := meter.Float64Histogram("datakit.operation.duration",
		metric.WithDescription("Algorithm step duration"), metric.WithUnit("s"))
	items, errItems := meter.Int64Counter("datakit.items.total",
		metric.WithDescription("Items fed into algorithm steps"))
	failures, errFail := meter.Int64Counter("datakit.error.total",
		metric.WithDescription("Failed algorithm steps by error code"))

	if err := stderrors.Join(errOps, errDur, errItems, errFail); err != nil {
		return nil, fmt.Errorf("creating datakit instruments: %w", err)
	}
	return &Metrics{operations: operations, duration: duration, items: items, failures: failures}, nil
}

func step(algorithm, operation string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("algorithm", algorithm),
		attribute.String("operation", operation),
	}
}

// RecordOperation counts one step with its status and records its duration.
func (m *Metrics) RecordOperation(ctx context.Context, algorithm, operation, status string, d time.Duration) {
	attrs := step(algorithm, operation)
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
	m.operations.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("status", status))...))
}

// RecordItems adds the number of items a step received.
func (m *Metrics) RecordItems(ctx context.Context, algorithm, operation string, n int) {
	m.items.Add(ctx, int64(n), metric.WithAttributes(step(algorithm, operation)...))
}

// RecordError counts a failed step by error code.
func (m *Metrics) RecordError(ctx context.Context, code, operation string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("operation", operation),
	))
}
