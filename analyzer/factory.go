package analyzer

// Factory produces a fresh analyzer for every flat container it is applied to.
type Factory interface {
	NewAnalyzer() Analyzer
}

// FactoryFunc adapts a constructor function to Factory.
type FactoryFunc func() Analyzer

// NewAnalyzer calls f.
func (f FactoryFunc) NewAnalyzer() Analyzer { return f() }

// Resetter is implemented by stateful analyzers that can clear their state.
// Containers call Reset before every flat reduce or process, so a single
// instance shared across partitions starts from scratch in each one.
type Resetter interface {
	Reset()
}

// Resolve returns a fresh instance when a is a Factory, and a otherwise.
// A nil FactoryFunc resolves to nil.
func Resolve(a Analyzer) Analyzer {
	if fn, ok := a.(FactoryFunc); ok && fn == nil {
		return nil
	}
	if f, ok := a.(Factory); ok {
		return f.NewAnalyzer()
	}
	return a
}

// Reset clears a when it implements Resetter.
func Reset(a Analyzer) {
	if r, ok := a.(Resetter); ok {
		r.Reset()
	}
}
