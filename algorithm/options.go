package algorithm

import (
	"github.com/kbukum/datakit/config"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/observability"
)

// Option configures a single run.
type Option func(*options)

type options struct {
	log         *logger.Logger
	logSteps    bool
	tracing     bool
	tracePrefix string
	metrics     *observability.Metrics
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get(logger.ComponentAlgorithm)
	}
	return o
}

// WithLogger sets the logger used for step logs.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithStepLogging logs completed steps at info level instead of debug.
func WithStepLogging() Option {
	return func(o *options) {
		o.logSteps = true
	}
}

// WithTracing opens a span named "{prefix}.run" around the run and one
// named "{prefix}.{role}" around every step.
func WithTracing(prefix string) Option {
	return func(o *options) {
		o.tracing = true
		o.tracePrefix = prefix
	}
}

// WithMetrics records step counts, durations, input sizes and errors.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// FromConfig turns analysis settings into run options. Metrics are recorded
// on the global meter provider.
func FromConfig(cfg config.AnalysisConfig) ([]Option, error) {
	var opts []Option
	if cfg.LogSteps {
		opts = append(opts, WithStepLogging())
	}
	if cfg.Tracing {
		opts = append(opts, WithTracing(cfg.TracePrefix))
	}
	if cfg.Metrics {
		m, err := observability.NewMetrics(observability.Meter(meterName))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMetrics(m))
	}
	return opts, nil
}
