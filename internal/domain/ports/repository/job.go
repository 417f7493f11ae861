package repository

import (
	"context"
	"time"

	"travel-ai-planner/internal/domain/model"
)

// JobPatch is a partial update of a plan job. Nil fields are left untouched.
type JobPatch struct {
	Status         *model.JobStatus
	TripID         *string
	Structure      *model.PlanStructure
	Progress       *model.Progress
	CreditsCharged *int64
	Error          *string
	CompletedAt    *time.Time
}

type PlanJobRepository interface {
	Create(ctx context.Context, tx Tx, job *model.PlanJob) error
	// Patch applies the non-nil fields of p to the stored record.
	Patch(ctx context.Context, tx Tx, jobID string, p JobPatch) error
	FindByID(ctx context.Context, tx Tx, jobID string) (*model.PlanJob, error)
	// GetStatus is the point read the executor uses for cancellation polling.
	GetStatus(ctx context.Context, jobID string) (model.JobStatus, error)
	// Cancel transitions a pending/generating job to cancelled.
	// Returns domain.ErrJobNotCancellable once the job is terminal.
	Cancel(ctx context.Context, jobID, userID string) error
	// FindStaleGenerating returns jobs stuck in "generating" whose last
	// update is older than the cutoff. Used by the sweeper.
	FindStaleGenerating(ctx context.Context, updatedBefore time.Time, limit int) ([]*model.PlanJob, error)
}
