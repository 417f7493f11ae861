package redis

import (
	"context"
	"time"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/usecase"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var _ usecase.Locker = (*RedisLocker)(nil)

// RedisLocker is a best-effort distributed lock. The token check on unlock
// keeps a slow holder from releasing a lease that already expired and was
// re-acquired by someone else.
type RedisLocker struct {
	cli *redis.Client
}

func NewLocker(c *Client) *RedisLocker {
	return &RedisLocker{cli: c.cli}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.cli.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrJobAlreadyRunning
	}
	return token, nil
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}
