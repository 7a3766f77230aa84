package data

import (
	"fmt"
	"reflect"
	"time"

	"github.com/kbukum/datakit/analyzer"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
)

// Kind tags the concrete variant of a Container.
type Kind int

const (
	KindData Kind = iota
	KindIndexed
	KindResult
	KindIndexedResult
)

var kindNames = map[Kind]string{
	KindData:          "Data",
	KindIndexed:       "IndexedData",
	KindResult:        "Result",
	KindIndexedResult: "IndexedResult",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Terminal reports whether the variant ends a chain.
func (k Kind) Terminal() bool {
	return k == KindResult || k == KindIndexedResult
}

// Container is implemented by every container variant.
type Container interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Terminal reports whether the container accepts no further operations.
	Terminal() bool
	// Timestamp returns the creation time of the root of the chain.
	Timestamp() time.Time
	// Get walks nested partitions or results by key and returns the raw
	// payload found there.
	Get(keys ...any) (any, error)
	// Analyze applies a to the operation matching its role.
	Analyze(a analyzer.Analyzer) (Container, error)
	// Apply applies a to the operation named by role.
	Apply(role analyzer.Role, a analyzer.Analyzer) (Container, error)
	// Equal reports whether other is the same variant holding an equal payload.
	Equal(other Container) bool
	String() string
}

// Option configures a container built by New.
type Option func(*options)

type options struct {
	timestamp time.Time
}

// WithTimestamp sets the creation time recorded on the container and
// inherited by everything derived from it.
func WithTimestamp(t time.Time) Option {
	return func(o *options) {
		o.timestamp = t
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.timestamp.IsZero() {
		o.timestamp = time.Now()
	}
	return o
}

func log() *logger.Logger {
	return logger.Get(logger.ComponentData)
}

// lift converts a concrete operation result to Container without turning a
// nil pointer into a non-nil interface.
func lift[T Container](c T, err error) (Container, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// checkKey rejects values that cannot be used as map keys or cannot be
// found again once stored.
func checkKey(key any) error {
	if key == nil {
		return nil
	}
	rv := reflect.ValueOf(key)
	if !rv.Comparable() {
		return errors.InvalidInput("key", fmt.Sprintf("partition key of type %T is not hashable", key))
	}
	// NaN, or a struct or array holding one, never matches itself in a map.
	if !rv.Equal(rv) {
		return errors.InvalidInput("key", fmt.Sprintf("partition key %v is not equal to itself", key))
	}
	return nil
}

func equalPayload(a, b Container) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	pa, errA := a.Get()
	pb, errB := b.Get()
	if errA != nil || errB != nil {
		return false
	}
	return reflect.DeepEqual(pa, pb)
}

// terminalAnalyze reports TERMINAL_STATE for the operation a would have run.
func terminalAnalyze(kind Kind, a analyzer.Analyzer) error {
	op := "analyze"
	if role, err := analyzer.RoleOf(a); err == nil {
		op = role.String()
	}
	return terminalError(op, kind)
}

func terminalError(op string, kind Kind) error {
	err := errors.TerminalState(op, kind.String())
	log().Debug("operation on terminal container", logger.Fields(
		logger.FieldOperation, op,
		logger.FieldKind, kind.String(),
	))
	return err
}
