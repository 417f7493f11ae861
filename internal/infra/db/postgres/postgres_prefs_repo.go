package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/ports/repository"
)

var _ repository.NotificationPrefsRepository = (*prefsRepo)(nil)

type prefsRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationPrefsRepo(pool *pgxpool.Pool) *prefsRepo {
	return &prefsRepo{pool: pool}
}

func (r *prefsRepo) Get(ctx context.Context, tx repository.Tx, userID string) (*repository.NotificationPrefs, error) {
	const q = `
SELECT push_enabled, plan_ready_enabled, COALESCE(telegram_chat_id, 0), COALESCE(device_token, '')
  FROM notification_prefs
 WHERE user_id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	var p repository.NotificationPrefs
	if err := row.Scan(&p.PushEnabled, &p.PlanReadyEnabled, &p.TelegramChatID, &p.DeviceToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}
