package ai

import (
	"context"

	"travel-ai-planner/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.CompletionAdapter = (*limitedAI)(nil)

// limitedAI caps concurrent upstream calls with a semaphore.
type limitedAI struct {
	inner adapter.CompletionAdapter
	sem   chan struct{}
}

func NewLimitedAI(inner adapter.CompletionAdapter, maxConcurrent int) adapter.CompletionAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) Complete(ctx context.Context, model, system string, messages []adapter.Message) (string, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.Complete(ctx, model, system, messages)
}

func (l *limitedAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return l.inner.CountTokens(ctx, model, messages)
}
