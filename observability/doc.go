// Package observability provides the OpenTelemetry tracing and metrics used
// to instrument algorithm runs.
//
// Tracing:
//
//	res := observability.Resource{Service: "datakit", Environment: "development"}
//	tp, err := observability.InitTracer(ctx, res, observability.Export{Endpoint: "localhost:4318", Insecure: true}, 1.0)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "datakit.map")
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("datakit"))
//	metrics.RecordOperation(ctx, "jobs", "map", observability.StatusOK, duration)
package observability
