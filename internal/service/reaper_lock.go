package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilogames/account-service/pkg/database"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX leases in Redis
type RedisLocker struct {
	redis *database.Redis
}

// NewRedisLocker creates a new Redis-backed locker
func NewRedisLocker(redis *database.Redis) *RedisLocker {
	return &RedisLocker{redis: redis}
}

// TryLock takes the lease on key for ttl if nobody holds it
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(ctx context.Context) error, bool, error) {
	key = fmt.Sprintf("lock:%s", key)
	token := uuid.New().String()

	err := l.redis.Client.SetArgs(ctx, key, token, redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to take lock %s: %w", key, err)
	}

	unlock := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.redis.Client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}

	return unlock, true, nil
}
