package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
)

// DefaultConcurrency is the number of scenarios processed at once when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// Job is one scenario to dimension.
type Job struct {
	// Name is the scenario name.
	Name string

	// Input is the raw scenario input.
	Input capacity.Input

	// Utilization is the cell utilization factor. Zero selects
	// capacity.DefaultUtilization.
	Utilization float64
}

// NewReport creates the report a pipeline run for j starts from.
func (j Job) NewReport() *model.ScenarioReport {
	report := model.NewScenarioReport(j.Name, j.Input)
	if j.Utilization != 0 {
		report.Utilization = j.Utilization
	}
	return report
}

// BatchProcessor handles concurrent processing of multiple scenarios.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because it keeps the Pipeline focused on a
// single scenario and gives each scenario a fresh pipeline instance.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each scenario.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each scenario to create a
// fresh pipeline instance so that pipeline state doesn't leak between runs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch dimensions multiple scenarios concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Reports are returned in the order of jobs, including those of scenarios
// that failed; their Error field says why. The error return is only set
// when the batch was cancelled, in which case entries for scenarios that
// never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []Job) ([]*model.ScenarioReport, error) {
	bp.logger.Info("starting batch processing",
		"total_scenarios", len(jobs),
		"concurrency", bp.concurrency,
		"steps", bp.pipelineFactory().StepNames(),
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.ScenarioReport, len(jobs))

	err := bp.run(ctx, jobs, func(report *model.ScenarioReport, index int) {
		results[index] = report
	})

	bp.logger.Info("batch processing complete",
		"total_scenarios", len(jobs),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback dimensions multiple scenarios and calls a
// callback for each completed run. This is useful for streaming results.
//
// The callback receives the report and the index of the job in the
// original slice. It is called from the goroutine that completed the run,
// so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []Job,
	callback func(report *model.ScenarioReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_scenarios", len(jobs),
		"concurrency", bp.concurrency,
		"steps", bp.pipelineFactory().StepNames(),
	)
	return bp.run(ctx, jobs, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, jobs []Job, done func(*model.ScenarioReport, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("dimensioning scenario",
				"scenario", job.Name,
				"index", i+1,
				"total", len(jobs),
			)

			report := job.NewReport()
			if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
				// The error is recorded in the report; other scenarios go on.
				bp.logger.Warn("scenario failed",
					"scenario", job.Name,
					"error", err,
				)
			}

			done(report, i)
			return nil
		})
	}

	return g.Wait()
}
