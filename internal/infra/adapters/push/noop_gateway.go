package push

import (
	"context"

	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain/ports/adapter"
	"travel-ai-planner/internal/domain/ports/repository"
)

var _ adapter.PushGateway = (*NoopGateway)(nil)

// NoopGateway logs instead of delivering. Used when no push channel is
// configured.
type NoopGateway struct {
	log zerolog.Logger
}

func NewNoopGateway(logger *zerolog.Logger) *NoopGateway {
	return &NoopGateway{log: logger.With().Str("component", "push.noop").Logger()}
}

func (n *NoopGateway) Send(ctx context.Context, prefs *repository.NotificationPrefs, msg adapter.PushMessage) error {
	n.log.Info().Str("title", msg.Title).Msg("push suppressed (noop gateway)")
	return nil
}
