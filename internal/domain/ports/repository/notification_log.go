package repository

import (
	"context"
	"time"
)

// -----------------------------
// Notifications Log
// -----------------------------

type NotificationLogRepository interface {
	// Save records that a notification of the given kind was sent.
	Save(ctx context.Context, tx Tx, userID, kind string) error
	// SentWithin checks whether a notification of this kind was already
	// sent to the user inside the dedup window.
	SentWithin(ctx context.Context, tx Tx, userID, kind string, window time.Duration) (bool, error)
}
