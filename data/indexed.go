package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/datakit/analyzer"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
)

// IndexedData is a partitioned, chainable container. Each partition is a
// *Data, or a nested *IndexedData after repeated partitioning. Operations are
// broadcast to every partition and the results are recombined under the same
// keys.
type IndexedData struct {
	keys      []any
	parts     map[any]Container
	timestamp time.Time
}

func newIndexedData(keys []any, parts map[any]Container, ts time.Time) *IndexedData {
	return &IndexedData{keys: keys, parts: parts, timestamp: ts}
}

func (x *IndexedData) Kind() Kind           { return KindIndexed }
func (x *IndexedData) Terminal() bool       { return false }
func (x *IndexedData) Timestamp() time.Time { return x.timestamp }

// Len returns the number of partitions.
func (x *IndexedData) Len() int { return len(x.keys) }

// Keys returns the partition keys in first-seen order.
func (x *IndexedData) Keys() []any {
	out := make([]any, len(x.keys))
	copy(out, x.keys)
	return out
}

// Partitions returns the partition containers by key.
func (x *IndexedData) Partitions() map[any]Container {
	out := make(map[any]Container, len(x.parts))
	for k, v := range x.parts {
		out[k] = v
	}
	return out
}

// Lookup returns the partition stored under key.
func (x *IndexedData) Lookup(key any) (Container, error) {
	return lookup(x.parts, key)
}

// Get returns the nested raw payload when called without keys. Each key
// descends one partition level.
func (x *IndexedData) Get(keys ...any) (any, error) {
	return getNested(x.keys, x.parts, keys)
}

// Partition sub-partitions every partition, producing one more level of
// nesting.
func (x *IndexedData) Partition(a analyzer.Analyzer) (*IndexedData, error) {
	return x.broadcast(analyzer.Partition, a)
}

// Map maps every partition.
func (x *IndexedData) Map(a analyzer.Analyzer) (*IndexedData, error) {
	return x.broadcast(analyzer.Map, a)
}

// Filter filters every partition. Emptied partitions are kept.
func (x *IndexedData) Filter(a analyzer.Analyzer) (*IndexedData, error) {
	return x.broadcast(analyzer.Filter, a)
}

// Transform transforms every partition independently.
func (x *IndexedData) Transform(a analyzer.Analyzer) (*IndexedData, error) {
	return x.broadcast(analyzer.Transform, a)
}

// Reduce reduces every partition. A shared analyzer instance keeps its
// state across partitions unless it implements analyzer.Resetter; pass an
// analyzer.Factory for an independent instance per partition.
func (x *IndexedData) Reduce(a analyzer.Analyzer) (*IndexedResult, error) {
	return x.collect(analyzer.Reduce, a)
}

// Process processes every partition. Analyzer sharing follows Reduce.
func (x *IndexedData) Process(a analyzer.Analyzer) (*IndexedResult, error) {
	return x.collect(analyzer.Process, a)
}

// Analyze dispatches a to the operation matching its role.
func (x *IndexedData) Analyze(a analyzer.Analyzer) (Container, error) {
	role, err := analyzer.RoleOf(a)
	if err != nil {
		return nil, x.reject("analyze", err)
	}
	return x.Apply(role, a)
}

// Apply dispatches a to the operation named by role.
func (x *IndexedData) Apply(role analyzer.Role, a analyzer.Analyzer) (Container, error) {
	switch role {
	case analyzer.Partition, analyzer.Map, analyzer.Filter, analyzer.Transform:
		return lift[*IndexedData](x.broadcast(role, a))
	case analyzer.Reduce, analyzer.Process:
		return lift[*IndexedResult](x.collect(role, a))
	default:
		return nil, errors.InvalidInput("role", fmt.Sprintf("unknown role %q", role))
	}
}

// Equal reports whether other is a partitioned container with the same keys
// and equal partitions.
func (x *IndexedData) Equal(other Container) bool { return equalPayload(x, other) }

func (x *IndexedData) String() string {
	return formatNested(KindIndexed, x.keys, x.parts)
}

func (x *IndexedData) apply(role analyzer.Role, a analyzer.Analyzer) (map[any]Container, error) {
	if err := analyzer.Check(role, a); err != nil {
		return nil, x.reject(role, err)
	}
	log().Debug("operation", logger.Fields(
		logger.FieldOperation, role.String(),
		logger.FieldKind, KindIndexed.String(),
		"partitions", len(x.keys),
		"analyzer", fmt.Sprintf("%T", a),
	))

	out := make(map[any]Container, len(x.keys))
	for _, key := range x.keys {
		log().Debug("operation on partition", logger.Fields(
			logger.FieldOperation, role.String(),
			logger.FieldKey, fmt.Sprint(key),
		))
		c, err := x.parts[key].Apply(role, a)
		if err != nil {
			return nil, err
		}
		out[key] = c
	}
	return out, nil
}

func (x *IndexedData) broadcast(role analyzer.Role, a analyzer.Analyzer) (*IndexedData, error) {
	parts, err := x.apply(role, a)
	if err != nil {
		return nil, err
	}
	return newIndexedData(x.keys, parts, x.timestamp), nil
}

func (x *IndexedData) collect(role analyzer.Role, a analyzer.Analyzer) (*IndexedResult, error) {
	results, err := x.apply(role, a)
	if err != nil {
		return nil, err
	}
	return newIndexedResult(x.keys, results, x.timestamp), nil
}

func (x *IndexedData) reject(role analyzer.Role, err error) error {
	log().Debug("analyzer rejected", logger.MergeWithError(logger.Fields(
		logger.FieldOperation, role.String(),
		logger.FieldKind, KindIndexed.String(),
	), err))
	return err
}

func lookup(children map[any]Container, key any) (Container, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	c, ok := children[key]
	if !ok {
		return nil, errors.MissingKey(key)
	}
	return c, nil
}

func getNested(keys []any, children map[any]Container, path []any) (any, error) {
	if len(path) > 0 {
		c, err := lookup(children, path[0])
		if err != nil {
			return nil, err
		}
		return c.Get(path[1:]...)
	}
	out := make(map[any]any, len(keys))
	for _, key := range keys {
		v, err := children[key].Get()
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func formatNested(kind Kind, keys []any, children map[any]Container) string {
	var b strings.Builder
	b.WriteString(kind.String())
	b.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %s", key, children[key])
	}
	b.WriteByte('}')
	return b.String()
}
