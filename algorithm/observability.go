package algorithm

import (
	"context"
	"time"

	"github.com/kbukum/datakit/data"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/observability"
)

// errCodeAnalyzer labels step failures raised by an analyzer itself.
const errCodeAnalyzer = "ANALYZER_ERROR"

// withTracing wraps a step with a span named "{prefix}.{role}".
func withTracing(r runner, prefix string) runner {
	return &tracingStep{runner: r, prefix: prefix}
}

type tracingStep struct {
	runner
	prefix string
}

func (s *tracingStep) Run(ctx context.Context, in data.Container) (data.Container, error) {
	ctx, span := observability.StartSpan(ctx, s.prefix+"."+s.Role())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrStep, s.Index())
	observability.SetSpanAttribute(ctx, observability.AttrRole, s.Role())
	observability.SetSpanAttribute(ctx, observability.AttrInputKind, in.Kind().String())

	out, err := s.runner.Run(ctx, in)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
		}
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrOutputKind, out.Kind().String())
	return out, nil
}

// withMetrics wraps a step with metric recording.
func withMetrics(r runner, algorithm string, m *observability.Metrics) runner {
	return &metricsStep{runner: r, algorithm: algorithm, metrics: m}
}

type metricsStep struct {
	runner
	algorithm string
	metrics   *observability.Metrics
}

func (s *metricsStep) Run(ctx context.Context, in data.Container) (data.Container, error) {
	if flat, ok := in.(*data.Data); ok {
		s.metrics.RecordItems(ctx, s.algorithm, s.Role(), flat.Len())
	}

	start := time.Now()
	out, err := s.runner.Run(ctx, in)
	duration := time.Since(start)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
		s.metrics.RecordError(ctx, errorCode(err), s.Role())
	}
	s.metrics.RecordOperation(ctx, s.algorithm, s.Role(), status, duration)

	return out, err
}

// withLogging wraps a step with execution logging.
func withLogging(r runner, log *logger.Logger, info bool) runner {
	return &loggingStep{runner: r, log: log, info: info}
}

type loggingStep struct {
	runner
	log  *logger.Logger
	info bool
}

func (s *loggingStep) Run(ctx context.Context, in data.Container) (data.Container, error) {
	start := time.Now()
	out, err := s.runner.Run(ctx, in)

	fields := logger.Fields(
		logger.FieldStep, s.Index(),
		logger.FieldOperation, s.Role(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)

	if err != nil {
		s.log.Error("algorithm step failed", logger.MergeWithError(fields, err))
		return nil, err
	}

	fields[logger.FieldKind] = out.Kind().String()
	if s.info {
		s.log.Info("algorithm step completed", fields)
	} else {
		s.log.Debug("algorithm step completed", fields)
	}
	return out, nil
}

func errorCode(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return errCodeAnalyzer
}
