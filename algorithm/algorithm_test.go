package algorithm

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/datakit/analyzer"
	"github.com/kbukum/datakit/config"
	"github.com/kbukum/datakit/data"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/observability"
)

type job struct {
	Name  string
	Group string
	Value int
}

var (
	byGroup = analyzer.PartitionFunc(func(item any) (any, error) { return item.(job).Group, nil })
	value   = analyzer.MapFunc(func(item any) (any, error) { return item.(job).Value, nil })
	small   = analyzer.FilterFunc(func(item any) (bool, error) { return item.(job).Value <= 5, nil })
	sum     = analyzer.NewReduction(0, func(acc, item any) (any, error) { return acc.(int) + item.(int), nil })
)

func jobs() *data.Data {
	return data.FromSlice([]job{
		{"j1", "foo", 4},
		{"j2", "foo", 8},
		{"j3", "bar", 8},
		{"j4", "bar", 3},
		{"j5", "bar", 1},
		{"j6", "foo", 2},
	})
}

func TestAlgorithm_Accessors(t *testing.T) {
	a := New("totals", small).Add(byGroup).Add(value)
	assert.Equal(t, "totals", a.Name())
	require.Len(t, a.Steps(), 3)

	steps := a.Steps()
	steps[0] = nil
	assert.NotNil(t, a.Steps()[0], "Steps must return a copy")
}

func TestAlgorithm_Run(t *testing.T) {
	a := New("totals", small, byGroup, value, sum)

	out, err := a.Run(context.Background(), jobs())
	require.NoError(t, err)
	require.Equal(t, data.KindIndexedResult, out.Kind())

	v, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"foo": 6, "bar": 4}, v)
}

func TestAlgorithm_RunMatchesManualChain(t *testing.T) {
	a := New("values", small, value)
	out, err := a.Run(context.Background(), jobs())
	require.NoError(t, err)

	filtered, err := jobs().Filter(small)
	require.NoError(t, err)
	manual, err := filtered.Map(value)
	require.NoError(t, err)

	assert.True(t, out.Equal(manual))
}

func TestAlgorithm_RunEmpty(t *testing.T) {
	in := jobs()
	out, err := New("noop").Run(context.Background(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestAlgorithm_RunNilContainer(t *testing.T) {
	_, err := New("noop").Run(context.Background(), nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func TestAlgorithm_StepAfterTerminal(t *testing.T) {
	a := New("broken", value, sum, value)

	out, err := a.Run(context.Background(), jobs())
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrTerminalState))

	err = a.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTerminalState))
	assert.Contains(t, err.Error(), "step 2")
	assert.Contains(t, err.Error(), "map() on Result:")
}

func TestAlgorithm_ValidateNamesTerminalKind(t *testing.T) {
	tests := []struct {
		name  string
		steps []analyzer.Analyzer
		kind  string
	}{
		{"flat", []analyzer.Analyzer{value, sum, value}, " on Result:"},
		{"partitioned", []analyzer.Analyzer{byGroup, value, sum, value}, " on IndexedResult:"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := New(tc.name, tc.steps...)
			err := a.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.kind)

			// Run reports the same kind once it reaches the bad step.
			_, runErr := a.Run(context.Background(), jobs())
			require.Error(t, runErr)
			assert.Contains(t, runErr.Error(), tc.kind)
		})
	}
}

func TestAlgorithm_Validate(t *testing.T) {
	require.NoError(t, New("ok", small, byGroup, value, sum).Validate())
	require.NoError(t, New("empty").Validate())

	err := New("bad", small, "not an analyzer").Validate()
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotAnAnalyzer))
	assert.Contains(t, err.Error(), "step 1")
}

func TestAlgorithm_AnalyzerErrorStopsRun(t *testing.T) {
	boom := stderrors.New("boom")
	calls := 0
	failing := analyzer.MapFunc(func(any) (any, error) { return nil, boom })
	counting := analyzer.MapFunc(func(item any) (any, error) {
		calls++
		return item, nil
	})

	_, err := New("fails", failing, counting).Run(context.Background(), jobs())
	assert.Same(t, boom, err)
	assert.Zero(t, calls, "steps after a failure must not run")
}

func TestAlgorithm_Logging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	_, err := New("logged", small, value).Run(context.Background(), jobs(), WithLogger(log))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "algorithm step completed")
	assert.Contains(t, out, `"algorithm":"logged"`)
	assert.Contains(t, out, `"run_id"`)
	assert.Contains(t, out, `"operation":"filter"`)
	assert.Contains(t, out, `"operation":"map"`)
}

func TestAlgorithm_StepLoggingAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf)

	_, err := New("quiet", value).Run(context.Background(), jobs(), WithLogger(log))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "algorithm step completed")

	_, err = New("loud", value).Run(context.Background(), jobs(), WithLogger(log), WithStepLogging())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "algorithm step completed")
}

func TestAlgorithm_LogsFailedStep(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", &buf)

	_, err := New("broken", sum, value).Run(context.Background(), jobs(), WithLogger(log))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "algorithm step failed")
	assert.Contains(t, buf.String(), "TERMINAL_STATE")
}

func TestAlgorithm_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, err := New("traced", byGroup, value, sum).Run(context.Background(), jobs(), WithTracing("jobs"))
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"jobs.partition", "jobs.map", "jobs.reduce", "jobs.run"}, names)

	spans := recorder.Ended()
	root := spans[len(spans)-1]
	require.Equal(t, "jobs.run", root.Name())
	for _, s := range spans[:len(spans)-1] {
		assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID(), "step spans are children of the run span")
	}
}

func TestAlgorithm_TracingRecordsErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, err := New("traced", sum, value).Run(context.Background(), jobs(), WithTracing("jobs"))
	require.Error(t, err)

	var failed int
	for _, s := range recorder.Ended() {
		if s.Status().Code == codes.Error {
			failed++
		}
	}
	assert.Equal(t, 2, failed, "the failing step and the run span carry the error")
}

func TestAlgorithm_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := observability.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	_, err = New("measured", small, value).Run(context.Background(), jobs(), WithMetrics(m))
	require.NoError(t, err)
	_, err = New("measured", sum, value).Run(context.Background(), jobs(), WithMetrics(m))
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	errorCodes := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			s, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range s.DataPoints {
				sums[md.Name] += dp.Value
				if md.Name == "datakit.error.total" {
					code, _ := dp.Attributes.Value("code")
					errorCodes[code.AsString()] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(4), sums["datakit.operation.total"])
	// 6 items into filter, 4 into map, 6 into reduce
	assert.Equal(t, int64(16), sums["datakit.items.total"])
	assert.Equal(t, map[string]int64{"TERMINAL_STATE": 1}, errorCodes)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "MISSING_KEY", errorCode(errors.MissingKey("x")))
	assert.Equal(t, "TERMINAL_STATE", errorCode(fmt.Errorf("wrapped: %w", errors.TerminalState("map", "Result"))))
	assert.Equal(t, errCodeAnalyzer, errorCode(stderrors.New("boom")))
}

func TestFromConfig(t *testing.T) {
	opts, err := FromConfig(config.AnalysisConfig{})
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = FromConfig(config.AnalysisConfig{
		LogSteps:    true,
		Tracing:     true,
		TracePrefix: "jobs",
		Metrics:     true,
	})
	require.NoError(t, err)
	require.Len(t, opts, 3)

	o := buildOptions(opts)
	assert.True(t, o.logSteps)
	assert.True(t, o.tracing)
	assert.Equal(t, "jobs", o.tracePrefix)
	assert.NotNil(t, o.metrics)
	assert.NotNil(t, o.log)
}

func TestInitTelemetry_NoEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Analysis.Tracing = true
	cfg.Analysis.Metrics = true

	shutdown, err := InitTelemetry(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(New("b", value)))
	require.NoError(t, r.Register(New("a", small)))

	assert.Equal(t, []string{"a", "b"}, r.List())

	a, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", a.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	_, err := r.Lookup("missing")
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingKey))

	err = r.Register(New(""))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
	assert.True(t, errors.HasCode(r.Register(nil), errors.ErrCodeInvalidInput))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(New(fmt.Sprintf("alg-%02d", i), value))
			_ = r.List()
		}(i)
	}
	wg.Wait()

	names := r.List()
	require.Len(t, names, 20)
	assert.True(t, strings.HasPrefix(names[0], "alg-00"))
}
