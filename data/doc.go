// Package data provides immutable in-memory containers transformed by
// analyzers.
//
// A chain starts with a flat container built by New and ends with a
// terminal result:
//
//	jobs := data.New(items)
//	byGroup, err := jobs.Partition(groupAnalyzer)
//	totals, err := byGroup.Reduce(sumAnalyzer)
//	fmt.Print(data.Format(totals))
//
// Four variants implement Container:
//
//	Data           flat, chainable        partition map filter reduce transform process
//	IndexedData    partitioned, chainable same operations broadcast to every partition
//	Result         terminal               Value, Raw
//	IndexedResult  terminal, partitioned  Keys, Result, Value
//
// Operations never modify the receiver. Terminal variants have no chainable
// methods; calling Analyze or Apply on them fails with TERMINAL_STATE.
package data
