package adapter

import (
	"context"

	"travel-ai-planner/internal/domain/model"
)

// PlaceAdapter performs a single free-text geocoding lookup.
// A nil result with nil error means no match; enrichment is advisory and
// callers must treat both outcomes the same way.
type PlaceAdapter interface {
	Lookup(ctx context.Context, query string) (*model.PlaceResult, error)
}
