package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/repository"
	"travel-ai-planner/internal/infra/metrics"
)

const sweepBatchSize = 50

// StaleJobSweeper fails jobs stuck in "generating" whose executor stopped
// updating them, typically after a crash mid-run. Failing rather than
// re-queueing keeps the single-executor guarantee simple; the user resubmits
// and keeps whatever days were already persisted.
type StaleJobSweeper struct {
	interval time.Duration
	lease    time.Duration
	jobs     repository.PlanJobRepository
	log      *zerolog.Logger
}

func NewStaleJobSweeper(interval, lease time.Duration, jobs repository.PlanJobRepository, logger *zerolog.Logger) *StaleJobSweeper {
	swpLog := logger.With().Str("component", "StaleJobSweeper").Logger()
	return &StaleJobSweeper{
		interval: interval,
		lease:    lease,
		jobs:     jobs,
		log:      &swpLog,
	}
}

func (w *StaleJobSweeper) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting stale job sweeper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stale job sweeper")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleJobSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.lease)
	stale, err := w.jobs.FindStaleGenerating(ctx, cutoff, sweepBatchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("sweep query failed")
		return
	}
	for _, job := range stale {
		failed := model.JobStatusFailed
		msg := "generation stalled and was stopped; please retry"
		now := time.Now()
		err := w.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{
			Status:      &failed,
			Error:       &msg,
			CompletedAt: &now,
		})
		if err != nil {
			w.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to sweep stale job")
			continue
		}
		metrics.IncPlanJob(string(model.JobStatusFailed))
		w.log.Warn().Str("job_id", job.ID).Time("last_update", job.UpdatedAt).Msg("stale generating job failed by sweeper")
	}
}
