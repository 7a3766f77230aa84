package data

import (
	"fmt"
	"time"

	"github.com/kbukum/datakit/analyzer"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
)

// Data is a flat, chainable container over an ordered sequence of items.
type Data struct {
	items     []any
	timestamp time.Time
}

// New creates a flat container over items. The slice is not copied; callers
// must not modify it afterwards.
func New(items []any, opts ...Option) *Data {
	o := buildOptions(opts)
	log().Debug("container created", logger.Fields(
		logger.FieldKind, KindData.String(),
		logger.FieldItems, len(items),
	))
	return newData(items, o.timestamp)
}

// FromSlice creates a flat container from a typed slice.
func FromSlice[T any](items []T, opts ...Option) *Data {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return New(out, opts...)
}

func newData(items []any, ts time.Time) *Data {
	if items == nil {
		items = []any{}
	}
	return &Data{items: items, timestamp: ts}
}

func (d *Data) Kind() Kind           { return KindData }
func (d *Data) Terminal() bool       { return false }
func (d *Data) Timestamp() time.Time { return d.timestamp }

// Len returns the number of items.
func (d *Data) Len() int { return len(d.items) }

// Raw returns the underlying items. The slice is shared with the container
// and must be treated as read-only.
func (d *Data) Raw() []any { return d.items }

// Get returns the items when called without keys. A flat container has no
// keys, so any key fails with MISSING_KEY.
func (d *Data) Get(keys ...any) (any, error) {
	if len(keys) == 0 {
		return d.items, nil
	}
	return nil, errors.MissingKey(keys[0])
}

// Partition groups items by the key the analyzer computes. Partitions keep
// first-seen key order, and items keep their relative order inside a
// partition.
func (d *Data) Partition(a analyzer.Analyzer) (*IndexedData, error) {
	p, err := analyzer.As[analyzer.Partitioner](analyzer.Partition, a)
	if err != nil {
		return nil, d.reject(analyzer.Partition, err)
	}
	d.trace(analyzer.Partition, a)

	var keys []any
	groups := make(map[any][]any)
	for _, item := range d.items {
		key, err := p.Partition(item)
		if err != nil {
			return nil, err
		}
		if err := checkKey(key); err != nil {
			return nil, err
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], item)
	}

	parts := make(map[any]Container, len(keys))
	for _, key := range keys {
		parts[key] = newData(groups[key], d.timestamp)
	}
	return newIndexedData(keys, parts, d.timestamp), nil
}

// Map replaces every item with the analyzer's output, keeping order and length.
func (d *Data) Map(a analyzer.Analyzer) (*Data, error) {
	m, err := analyzer.As[analyzer.Mapper](analyzer.Map, a)
	if err != nil {
		return nil, d.reject(analyzer.Map, err)
	}
	d.trace(analyzer.Map, a)

	out := make([]any, len(d.items))
	for i, item := range d.items {
		v, err := m.Map(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return newData(out, d.timestamp), nil
}

// Filter keeps the items the analyzer accepts, in order.
func (d *Data) Filter(a analyzer.Analyzer) (*Data, error) {
	f, err := analyzer.As[analyzer.Filterer](analyzer.Filter, a)
	if err != nil {
		return nil, d.reject(analyzer.Filter, err)
	}
	d.trace(analyzer.Filter, a)

	out := make([]any, 0, len(d.items))
	for _, item := range d.items {
		keep, err := f.Filter(item)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, item)
		}
	}
	return newData(out, d.timestamp), nil
}

// Transform hands the whole sequence to the analyzer and wraps what it
// returns. Length and order are up to the analyzer.
func (d *Data) Transform(a analyzer.Analyzer) (*Data, error) {
	t, err := analyzer.As[analyzer.Transformer](analyzer.Transform, a)
	if err != nil {
		return nil, d.reject(analyzer.Transform, err)
	}
	d.trace(analyzer.Transform, a)

	out, err := t.Transform(d.items)
	if err != nil {
		return nil, err
	}
	return newData(out, d.timestamp), nil
}

// Reduce folds the items left to right. The fold is seeded with the
// reducer's initial value when it provides a non-nil one, otherwise with the
// first item. An empty sequence yields the initial value untouched.
func (d *Data) Reduce(a analyzer.Analyzer) (*Result, error) {
	r, err := analyzer.As[analyzer.Reducer](analyzer.Reduce, a)
	if err != nil {
		return nil, d.reject(analyzer.Reduce, err)
	}
	analyzer.Reset(r)
	d.trace(analyzer.Reduce, a)

	var acc any
	if init, ok := r.(analyzer.Initializer); ok {
		acc = init.InitialValue()
	}
	items := d.items
	if acc == nil && len(items) > 0 {
		acc, items = items[0], items[1:]
	}
	for _, item := range items {
		acc, err = r.Reduce(acc, item)
		if err != nil {
			return nil, err
		}
	}
	return newResult(acc, d.timestamp), nil
}

// Process hands the whole sequence to the analyzer and wraps its output,
// whatever it is, in a terminal Result.
func (d *Data) Process(a analyzer.Analyzer) (*Result, error) {
	p, err := analyzer.As[analyzer.Processor](analyzer.Process, a)
	if err != nil {
		return nil, d.reject(analyzer.Process, err)
	}
	analyzer.Reset(p)
	d.trace(analyzer.Process, a)

	v, err := p.Process(d.items)
	if err != nil {
		return nil, err
	}
	return newResult(v, d.timestamp), nil
}

// Analyze dispatches a to the operation matching its role.
func (d *Data) Analyze(a analyzer.Analyzer) (Container, error) {
	role, err := analyzer.RoleOf(a)
	if err != nil {
		return nil, d.reject("analyze", err)
	}
	return d.Apply(role, a)
}

// Apply dispatches a to the operation named by role.
func (d *Data) Apply(role analyzer.Role, a analyzer.Analyzer) (Container, error) {
	switch role {
	case analyzer.Partition:
		return lift[*IndexedData](d.Partition(a))
	case analyzer.Map:
		return lift[*Data](d.Map(a))
	case analyzer.Filter:
		return lift[*Data](d.Filter(a))
	case analyzer.Reduce:
		return lift[*Result](d.Reduce(a))
	case analyzer.Transform:
		return lift[*Data](d.Transform(a))
	case analyzer.Process:
		return lift[*Result](d.Process(a))
	default:
		return nil, errors.InvalidInput("role", fmt.Sprintf("unknown role %q", role))
	}
}

// Equal reports whether other is a flat container with equal items.
func (d *Data) Equal(other Container) bool { return equalPayload(d, other) }

func (d *Data) String() string {
	return fmt.Sprintf("Data%v", d.items)
}

func (d *Data) trace(role analyzer.Role, a analyzer.Analyzer) {
	log().Debug("operation", logger.Fields(
		logger.FieldOperation, role.String(),
		logger.FieldKind, KindData.String(),
		logger.FieldItems, len(d.items),
		"analyzer", fmt.Sprintf("%T", a),
	))
}

func (d *Data) reject(role analyzer.Role, err error) error {
	log().Debug("analyzer rejected", logger.MergeWithError(logger.Fields(
		logger.FieldOperation, role.String(),
		logger.FieldKind, KindData.String(),
	), err))
	return err
}
