package analyzer

import (
	"fmt"

	"github.com/kbukum/datakit/errors"
)

// Analyzer is an opaque strategy object. Its role is determined by the
// methods it implements.
type Analyzer = any

// Partitioner computes the partition key of an item. Keys must be comparable.
type Partitioner interface {
	Partition(item any) (any, error)
}

// Mapper replaces an item.
type Mapper interface {
	Map(item any) (any, error)
}

// Filterer decides whether an item is kept.
type Filterer interface {
	Filter(item any) (bool, error)
}

// Reducer folds an item into the accumulator.
type Reducer interface {
	Reduce(acc, item any) (any, error)
}

// Initializer is optionally implemented by reducers. A non-nil initial value
// seeds the fold; otherwise the first item does.
type Initializer interface {
	InitialValue() any
}

// Transformer rewrites the whole item sequence.
type Transformer interface {
	Transform(items []any) ([]any, error)
}

// Processor turns the whole item sequence into a terminal value.
type Processor interface {
	Process(items []any) (any, error)
}

// Typed lets an analyzer that implements several roles declare the one
// used by dynamic dispatch.
type Typed interface {
	AnalyzerRole() Role
}

// Implements reports whether a implements the method for role.
func Implements(a Analyzer, role Role) bool {
	if a == nil {
		return false
	}
	switch role {
	case Partition:
		_, ok := a.(Partitioner)
		return ok
	case Map:
		_, ok := a.(Mapper)
		return ok
	case Filter:
		_, ok := a.(Filterer)
		return ok
	case Reduce:
		_, ok := a.(Reducer)
		return ok
	case Transform:
		_, ok := a.(Transformer)
		return ok
	case Process:
		_, ok := a.(Processor)
		return ok
	default:
		return false
	}
}

// Check validates a against role. Factories are checked through a probe
// instance.
func Check(role Role, a Analyzer) error {
	if !role.Valid() {
		return errors.InvalidInput("role", fmt.Sprintf("unknown role %q", role))
	}
	resolved := Resolve(a)
	if !Implements(resolved, role) {
		return errors.IncorrectAnalyzer(resolved, role.String())
	}
	return nil
}

// As resolves a and asserts it to the interface of role.
//
//	m, err := analyzer.As[analyzer.Mapper](analyzer.Map, a)
func As[T any](role Role, a Analyzer) (T, error) {
	var zero T
	if !role.Valid() {
		return zero, errors.InvalidInput("role", fmt.Sprintf("unknown role %q", role))
	}
	resolved := Resolve(a)
	t, ok := resolved.(T)
	if !ok || !Implements(resolved, role) {
		return zero, errors.IncorrectAnalyzer(resolved, role.String())
	}
	return t, nil
}

// RoleOf determines the role of a. A declared role wins; otherwise exactly
// one implemented role is required.
func RoleOf(a Analyzer) (Role, error) {
	resolved := Resolve(a)
	if resolved == nil {
		return "", errors.NotAnAnalyzer(nil, "analyzer is nil")
	}

	if typed, ok := resolved.(Typed); ok {
		role := typed.AnalyzerRole()
		if !role.Valid() {
			return "", errors.NotAnAnalyzer(resolved, fmt.Sprintf("declared role %q is not recognized", role))
		}
		if !Implements(resolved, role) {
			return "", errors.IncorrectAnalyzer(resolved, role.String())
		}
		return role, nil
	}

	var found []Role
	for _, role := range roles {
		if Implements(resolved, role) {
			found = append(found, role)
		}
	}
	switch len(found) {
	case 0:
		return "", errors.NotAnAnalyzer(resolved, "implements no analyzer role")
	case 1:
		return found[0], nil
	default:
		return "", errors.NotAnAnalyzer(resolved, fmt.Sprintf("implements several roles %v and declares none", found))
	}
}
