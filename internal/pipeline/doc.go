// Package pipeline provides a framework for executing dimensioning steps in
// sequence.
//
// A scenario is processed through the stages of the capacity model:
// parameter validation, traffic aggregation, per-cell throughput, site
// estimation, summary assembly and advisories. Each stage is implemented as
// a Step that receives the current report and fills in its part.
//
// Design decision: We use a pipeline pattern instead of a single call to
// capacity.Estimate because:
// 1. It gives every stage its own log line and entry in PerformedSteps
// 2. It provides consistent error handling across stages
// 3. Advisories can be added without touching the arithmetic
//
// The pipeline supports both individual runs and batch processing of many
// scenarios with concurrency control using errgroup.
package pipeline
