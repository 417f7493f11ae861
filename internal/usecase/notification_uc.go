package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain/ports/adapter"
	"travel-ai-planner/internal/domain/ports/repository"
)

const (
	planReadyKind    = "plan_ready"
	notifDedupWindow = 20 * time.Hour
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// NotificationUseCase dispatches the best-effort completion notice.
// Nothing in this path may ever affect a job's terminal status.
type NotificationUseCase interface {
	NotifyCompletion(ctx context.Context, userID, jobID, tripID, destination string)
}

type notificationUC struct {
	prefs    repository.NotificationPrefsRepository
	notifLog repository.NotificationLogRepository
	push     adapter.PushGateway
	log      *zerolog.Logger
}

func NewNotificationUseCase(prefs repository.NotificationPrefsRepository, notifLog repository.NotificationLogRepository, push adapter.PushGateway, logger *zerolog.Logger) *notificationUC {
	compLog := logger.With().Str("component", "NotificationUC").Logger()
	return &notificationUC{prefs: prefs, notifLog: notifLog, push: push, log: &compLog}
}

func (n *notificationUC) NotifyCompletion(ctx context.Context, userID, jobID, tripID, destination string) {
	p, err := n.prefs.Get(ctx, nil, userID)
	if err != nil {
		n.log.Debug().Err(err).Str("user_id", userID).Msg("no notification prefs")
		return
	}
	if !p.PushEnabled || !p.PlanReadyEnabled {
		return
	}

	sent, err := n.notifLog.SentWithin(ctx, nil, userID, planReadyKind, notifDedupWindow)
	if err != nil {
		n.log.Warn().Err(err).Msg("notification dedup check failed")
		return
	}
	if sent {
		return
	}

	msg := adapter.PushMessage{
		Title: "Your trip plan is ready",
		Body:  fmt.Sprintf("Your %s itinerary is ready to explore.", destination),
		Data: map[string]string{
			"job_id":  jobID,
			"trip_id": tripID,
		},
	}
	if err := n.push.Send(ctx, p, msg); err != nil {
		n.log.Warn().Err(err).Str("user_id", userID).Msg("push dispatch failed")
		return
	}
	if err := n.notifLog.Save(ctx, nil, userID, planReadyKind); err != nil {
		n.log.Warn().Err(err).Msg("could not record notification log entry")
	}
}
