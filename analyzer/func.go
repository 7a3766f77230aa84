package analyzer

// PartitionFunc adapts a function to Partitioner.
type PartitionFunc func(item any) (any, error)

func (f PartitionFunc) Partition(item any) (any, error) { return f(item) }

// MapFunc adapts a function to Mapper.
type MapFunc func(item any) (any, error)

func (f MapFunc) Map(item any) (any, error) { return f(item) }

// FilterFunc adapts a function to Filterer.
type FilterFunc func(item any) (bool, error)

func (f FilterFunc) Filter(item any) (bool, error) { return f(item) }

// TransformFunc adapts a function to Transformer.
type TransformFunc func(items []any) ([]any, error)

func (f TransformFunc) Transform(items []any) ([]any, error) { return f(items) }

// ProcessFunc adapts a function to Processor.
type ProcessFunc func(items []any) (any, error)

func (f ProcessFunc) Process(items []any) (any, error) { return f(items) }

// Reduction is a Reducer built from a function and an optional initial value.
type Reduction struct {
	Init any
	Fn   func(acc, item any) (any, error)
}

// NewReduction creates a Reduction seeded with init.
func NewReduction(init any, fn func(acc, item any) (any, error)) *Reduction {
	return &Reduction{Init: init, Fn: fn}
}

func (r *Reduction) Reduce(acc, item any) (any, error) { return r.Fn(acc, item) }

// InitialValue returns the seed of the fold.
func (r *Reduction) InitialValue() any { return r.Init }

// Identity returns a map analyzer that leaves every item unchanged.
func Identity() Mapper {
	return MapFunc(func(item any) (any, error) { return item, nil })
}

// All returns a filter analyzer that keeps every item.
func All() Filterer {
	return FilterFunc(func(any) (bool, error) { return true, nil })
}
