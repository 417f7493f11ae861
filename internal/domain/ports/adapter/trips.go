package adapter

import (
	"context"

	"travel-ai-planner/internal/domain/model"
)

// TripStore is the REST-like CRUD surface of the relational datastore.
// The orchestrator treats it as an external collaborator: every call has a
// bounded timeout and errors surface to phase-specific handling.
type TripStore interface {
	CreateTrip(ctx context.Context, t *model.Trip) (tripID string, err error)
	CreateDay(ctx context.Context, d *model.TripDay) (dayID string, err error)
	CreateStop(ctx context.Context, s *model.TripStop) (stopID string, err error)
	CreateBudgetCategory(ctx context.Context, b *model.BudgetCategory) (categoryID string, err error)
	// InsertActivities persists one day's activities as a single batch.
	InsertActivities(ctx context.Context, activities []model.Activity) error
	UpdateCoverImage(ctx context.Context, tripID, imageURL string) error
}
