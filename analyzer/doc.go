// Package analyzer defines the strategy contract consumed by data containers.
//
// An analyzer is any value implementing the method named after the role it
// plays. There are six roles:
//
//	Role       Method                                   Called
//	partition  Partition(item any) (any, error)         once per item
//	map        Map(item any) (any, error)               once per item
//	filter     Filter(item any) (bool, error)           once per item
//	reduce     Reduce(acc, item any) (any, error)       once per item, left fold
//	transform  Transform(items []any) ([]any, error)    once per call
//	process    Process(items []any) (any, error)        once per call
//
// Containers check the analyzer against the invoked role before any item is
// touched and fail with an INCORRECT_ANALYZER error on a mismatch.
//
// Plain functions can be used through the adapters:
//
//	byGroup := analyzer.PartitionFunc(func(item any) (any, error) {
//		return item.(Job).Group, nil
//	})
//
// A Factory may stand in for an analyzer wherever one is accepted. Each flat
// container resolves it to a fresh instance, so reducing a partitioned
// container with a factory gives every partition its own accumulator.
package analyzer
