package algorithm

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/datakit/config"
	"github.com/kbukum/datakit/observability"
	"github.com/kbukum/datakit/version"
)

// meterName is the instrumentation scope of run metrics.
const meterName = "github.com/kbukum/datakit/algorithm"

// ShutdownFunc flushes and stops the telemetry providers.
type ShutdownFunc func(ctx context.Context) error

// InitTelemetry installs OTLP exporting tracer and meter providers for the
// signals cfg.Analysis enables. Without a telemetry endpoint nothing is
// installed and spans and metrics go to the no-op global providers.
func InitTelemetry(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return stderrors.Join(errs...)
	}

	tel := cfg.Analysis.Telemetry
	if tel.Endpoint == "" {
		return shutdown, nil
	}

	res := observability.Resource{Service: cfg.Name, Version: version.Short(), Environment: cfg.Environment}
	exp := observability.Export{Endpoint: tel.Endpoint, Insecure: tel.Insecure}

	if cfg.Analysis.Tracing {
		tp, err := observability.InitTracer(ctx, res, exp, tel.SampleRate)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.Analysis.Metrics {
		mp, err := observability.InitMeter(ctx, res, exp, observability.DefaultExportInterval)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return shutdown, nil
}
