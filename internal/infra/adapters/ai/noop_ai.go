package ai

import (
	"context"
	"time"

	"travel-ai-planner/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAdapter)(nil)

// NoopAdapter is a stand-in for local/dev runs without model credentials.
// It returns a fixed empty-plan payload after a short delay.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) Complete(ctx context.Context, model, system string, messages []adapter.Message) (string, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return `{"days": [], "activities": []}`, nil
}

func (a *NoopAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	return total, nil
}
