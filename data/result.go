package data

import (
	"fmt"
	"time"

	"github.com/kbukum/datakit/analyzer"
	"github.com/kbukum/datakit/errors"
)

// Result is the terminal output of reducing or processing a flat container.
type Result struct {
	value     any
	timestamp time.Time
}

func newResult(v any, ts time.Time) *Result {
	return &Result{value: v, timestamp: ts}
}

func (r *Result) Kind() Kind           { return KindResult }
func (r *Result) Terminal() bool       { return true }
func (r *Result) Timestamp() time.Time { return r.timestamp }

// Value returns the wrapped value.
func (r *Result) Value() any { return r.value }

// Raw returns the wrapped value.
func (r *Result) Raw() any { return r.value }

// Get returns the wrapped value when called without keys.
func (r *Result) Get(keys ...any) (any, error) {
	if len(keys) == 0 {
		return r.value, nil
	}
	return nil, errors.MissingKey(keys[0])
}

// Analyze always fails: the chain has ended.
func (r *Result) Analyze(a analyzer.Analyzer) (Container, error) {
	return nil, terminalAnalyze(KindResult, a)
}

// Apply always fails: the chain has ended.
func (r *Result) Apply(role analyzer.Role, _ analyzer.Analyzer) (Container, error) {
	return nil, terminalError(role.String(), KindResult)
}

func (r *Result) Equal(other Container) bool { return equalPayload(r, other) }

func (r *Result) String() string {
	return fmt.Sprintf("Result(%v)", r.value)
}

// IndexedResult is the terminal output of reducing or processing a
// partitioned container. Each key maps to a *Result, or to a nested
// *IndexedResult for nested partitions.
type IndexedResult struct {
	keys      []any
	results   map[any]Container
	timestamp time.Time
}

func newIndexedResult(keys []any, results map[any]Container, ts time.Time) *IndexedResult {
	return &IndexedResult{keys: keys, results: results, timestamp: ts}
}

func (x *IndexedResult) Kind() Kind           { return KindIndexedResult }
func (x *IndexedResult) Terminal() bool       { return true }
func (x *IndexedResult) Timestamp() time.Time { return x.timestamp }

// Len returns the number of keys.
func (x *IndexedResult) Len() int { return len(x.keys) }

// Keys returns the result keys in partition order.
func (x *IndexedResult) Keys() []any {
	out := make([]any, len(x.keys))
	copy(out, x.keys)
	return out
}

// Results returns the per-key terminal containers.
func (x *IndexedResult) Results() map[any]Container {
	out := make(map[any]Container, len(x.results))
	for k, v := range x.results {
		out[k] = v
	}
	return out
}

// Lookup returns the terminal container stored under key.
func (x *IndexedResult) Lookup(key any) (Container, error) {
	return lookup(x.results, key)
}

// Value returns the results as nested map[any]any of raw values.
func (x *IndexedResult) Value() map[any]any {
	v, _ := getNested(x.keys, x.results, nil)
	return v.(map[any]any)
}

// Get returns Value when called without keys. Each key descends one level.
func (x *IndexedResult) Get(keys ...any) (any, error) {
	return getNested(x.keys, x.results, keys)
}

// Analyze always fails: the chain has ended.
func (x *IndexedResult) Analyze(a analyzer.Analyzer) (Container, error) {
	return nil, terminalAnalyze(KindIndexedResult, a)
}

// Apply always fails: the chain has ended.
func (x *IndexedResult) Apply(role analyzer.Role, _ analyzer.Analyzer) (Container, error) {
	return nil, terminalError(role.String(), KindIndexedResult)
}

func (x *IndexedResult) Equal(other Container) bool { return equalPayload(x, other) }

func (x *IndexedResult) String() string {
	return formatNested(KindIndexedResult, x.keys, x.results)
}
