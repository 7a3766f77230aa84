// Package algorithm runs an ordered list of analyzers against a container.
//
// Each step is applied with Container.Analyze, so its role decides which
// operation runs. A run stops at the first failing step; a step placed after
// a reduce or process step fails with TERMINAL_STATE.
//
//	alg := algorithm.New("jobs-by-group", byGroup, extractValue, sum)
//	out, err := alg.Run(ctx, data.New(items),
//		algorithm.WithTracing("jobs"),
//		algorithm.WithMetrics(metrics),
//	)
//
// Runs can be instrumented with structured logs, one OpenTelemetry span per
// step and step metrics. FromConfig builds those options from
// config.AnalysisConfig.
package algorithm
