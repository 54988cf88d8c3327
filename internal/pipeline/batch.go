package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is the number of seeds crawled at once when no
// limit is configured.
const DefaultBatchConcurrency = 2

// BatchProcessor runs several jobs concurrently, each through its own
// pipeline.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline so that Pipeline stays focused on a single seed
// and the batch layer only deals with fan-out.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each job.
	pipelineFactory func() *Pipeline

	concurrency int

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

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every job concurrently, at most concurrency at a time.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool.
// Each job gets its own goroutine, but only 'concurrency' run at once.
//
// Failures are recorded on each job's Err field and do not stop the other
// jobs. The returned error is non-nil only when ctx was cancelled before
// every job could start.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []*Job) error {
	bp.logger.Info("starting batch",
		"seeds", len(jobs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				job.Err = ctx.Err()
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing seed",
				"seed", job.SeedURL,
				"index", i+1,
				"total", len(jobs),
			)

			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("seed failed",
					"seed", job.SeedURL,
					"error", err,
				)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch complete",
		"seeds", len(jobs),
		"elapsed", time.Since(startTime),
	)

	return err
}
