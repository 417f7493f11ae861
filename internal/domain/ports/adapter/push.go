package adapter

import (
	"context"

	"travel-ai-planner/internal/domain/ports/repository"
)

// PushMessage is one notification to deliver.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushGateway delivers a notification through an external channel.
// Delivery is best-effort; callers swallow errors.
type PushGateway interface {
	Send(ctx context.Context, prefs *repository.NotificationPrefs, msg PushMessage) error
}
