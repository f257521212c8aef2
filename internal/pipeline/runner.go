package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"segpipe/internal/dataset"
)

// Runner executes a step chain sequentially against one artifact store. Each
// step fully materializes its output before the next begins; there is no
// internal retry or parallelism; those belong to whatever invokes the runner.
type Runner struct {
	store  *dataset.Store
	logger *slog.Logger
	steps  []Step
}

// NewRunner creates a runner over the given store and steps.
func NewRunner(store *dataset.Store, logger *slog.Logger, steps []Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: store, logger: logger, steps: steps}
}

// Run executes every step in order, stopping at the first failure. It returns
// the results of the steps that completed, and the error that stopped the
// chain, if any.
func (r *Runner) Run(ctx context.Context) ([]*Result, error) {
	runID := uuid.New().String()
	logger := r.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "pipeline run starting", slog.Int("steps", len(r.steps)))

	results := make([]*Result, 0, len(r.steps))
	start := time.Now()
	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("pipeline cancelled before step %s: %w", step.ID(), err)
		}

		stepStart := time.Now()
		logger.InfoContext(ctx, "step starting",
			slog.String("step", step.ID()),
			slog.String("name", step.Name()),
			slog.Any("inputs", step.Inputs()),
			slog.String("output", step.Output()))

		result, err := step.Run(ctx, r.store)
		if err != nil {
			logger.ErrorContext(ctx, "step failed",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()),
				slog.Duration("elapsed", time.Since(stepStart)))
			return results, err
		}

		logger.InfoContext(ctx, "step completed",
			slog.String("step", step.ID()),
			slog.Int("rows_in", result.RowsIn),
			slog.Int("rows_out", result.RowsOut),
			slog.Int("rows_affected", result.RowsAffected),
			slog.Duration("elapsed", time.Since(stepStart)))
		results = append(results, result)
	}

	logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("steps", len(results)),
		slog.Duration("elapsed", time.Since(start)))
	return results, nil
}
