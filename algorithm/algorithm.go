package algorithm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/datakit/analyzer"
	"github.com/kbukum/datakit/data"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/observability"
)

// Algorithm is a named, ordered list of analyzers. It is not safe to Add
// steps while the algorithm is running.
type Algorithm struct {
	name  string
	steps []analyzer.Analyzer
}

// New creates an algorithm from steps.
func New(name string, steps ...analyzer.Analyzer) *Algorithm {
	a := &Algorithm{name: name}
	for _, s := range steps {
		a.Add(s)
	}
	return a
}

// Add appends a step and returns the algorithm for chaining.
func (a *Algorithm) Add(step analyzer.Analyzer) *Algorithm {
	a.steps = append(a.steps, step)
	return a
}

// Name returns the algorithm name.
func (a *Algorithm) Name() string { return a.name }

// Steps returns the analyzers in execution order.
func (a *Algorithm) Steps() []analyzer.Analyzer {
	out := make([]analyzer.Analyzer, len(a.steps))
	copy(out, a.steps)
	return out
}

// Validate checks every step without running it: each must have a role,
// and no step may follow a reduce or process step. The input is assumed
// flat, so the terminal kind is IndexedResult only after a partition step.
func (a *Algorithm) Validate() error {
	terminal := data.KindResult
	for i, s := range a.steps {
		role, err := analyzer.RoleOf(s)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if role == analyzer.Partition {
			terminal = data.KindIndexedResult
		}
		if role.Terminal() && i < len(a.steps)-1 {
			next, _ := analyzer.RoleOf(a.steps[i+1])
			if next == "" {
				next = "analyze"
			}
			return fmt.Errorf("step %d: %w", i+1, errors.TerminalState(next.String(), terminal.String()))
		}
	}
	return nil
}

// Run applies every step in order, starting from c, and returns the output
// of the last step. An algorithm without steps returns c unchanged.
func (a *Algorithm) Run(ctx context.Context, c data.Container, opts ...Option) (data.Container, error) {
	if c == nil {
		return nil, errors.InvalidInput("container", "container is nil")
	}
	o := buildOptions(opts)
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)

	if o.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, o.tracePrefix+".run")
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrAlgorithm, a.name)
		observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)
	}
	log := o.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldAlgorithm, a.name))

	start := time.Now()
	log.Debug("algorithm started", logger.Fields(
		"steps", len(a.steps),
		logger.FieldKind, c.Kind().String(),
	))

	out := c
	for i, s := range a.steps {
		next, err := a.stepRunner(i, s, o, log).Run(ctx, out)
		if err != nil {
			if o.tracing {
				observability.SetSpanError(ctx, err)
			}
			return nil, err
		}
		out = next
	}

	log.Debug("algorithm completed", logger.Fields(
		logger.FieldKind, out.Kind().String(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return out, nil
}

// stepRunner builds the instrumented runner for step i.
func (a *Algorithm) stepRunner(i int, s analyzer.Analyzer, o options, log *logger.Logger) runner {
	var r runner = &analyzeStep{index: i, analyzer: s, role: roleName(s)}
	if o.metrics != nil {
		r = withMetrics(r, a.name, o.metrics)
	}
	if o.tracing {
		r = withTracing(r, o.tracePrefix)
	}
	return withLogging(r, log, o.logSteps)
}

func roleName(s analyzer.Analyzer) string {
	role, err := analyzer.RoleOf(s)
	if err != nil {
		return "analyze"
	}
	return role.String()
}

// runner executes one step of a run.
type runner interface {
	Index() int
	Role() string
	Run(ctx context.Context, in data.Container) (data.Container, error)
}

type analyzeStep struct {
	index    int
	analyzer analyzer.Analyzer
	role     string
}

func (s *analyzeStep) Index() int   { return s.index }
func (s *analyzeStep) Role() string { return s.role }

func (s *analyzeStep) Run(_ context.Context, in data.Container) (data.Container, error) {
	return in.Analyze(s.analyzer)
}
