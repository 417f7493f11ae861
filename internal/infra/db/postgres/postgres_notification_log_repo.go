package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*notificationLogRepo)(nil)

type notificationLogRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationLogRepo(pool *pgxpool.Pool) *notificationLogRepo {
	return &notificationLogRepo{pool: pool}
}

func (r *notificationLogRepo) Save(ctx context.Context, tx repository.Tx, userID, kind string) error {
	const q = `
INSERT INTO notification_log (id, user_id, kind, sent_at)
VALUES ($1, $2, $3, now());`
	if _, err := execSQL(ctx, r.pool, tx, q, uuid.New(), userID, kind); err != nil {
		return fmt.Errorf("save notification log: %w", err)
	}
	return nil
}

func (r *notificationLogRepo) SentWithin(ctx context.Context, tx repository.Tx, userID, kind string, window time.Duration) (bool, error) {
	const q = `
SELECT 1 FROM notification_log
 WHERE user_id = $1 AND kind = $2 AND sent_at > $3
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, kind, time.Now().Add(-window))
	if err != nil {
		return false, err
	}
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, domain.ErrReadDatabaseRow
	}
	return true, nil
}
