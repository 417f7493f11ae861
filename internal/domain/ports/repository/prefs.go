package repository

import "context"

// NotificationPrefs is a user's push preference snapshot.
type NotificationPrefs struct {
	PushEnabled      bool
	PlanReadyEnabled bool
	// TelegramChatID is the delivery address for the Telegram push channel.
	TelegramChatID int64
	DeviceToken    string
}

type NotificationPrefsRepository interface {
	Get(ctx context.Context, tx Tx, userID string) (*NotificationPrefs, error)
}
