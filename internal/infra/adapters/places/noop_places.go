package places

import (
	"context"

	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/adapter"
)

var _ adapter.PlaceAdapter = (*NoopAdapter)(nil)

// NoopAdapter always misses. Used when no geocoding key is configured;
// plans still generate, just without coordinates or map links.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (n *NoopAdapter) Lookup(ctx context.Context, query string) (*model.PlaceResult, error) {
	return nil, nil
}
