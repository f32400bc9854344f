package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RunLock serializes reconciliation runs across processes. The token
// ties a release to the acquisition that owns the lock, so an expired
// holder cannot release a successor's lock.
type RunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRunLock(client *redis.Client, key string, ttl time.Duration) *RunLock {
	return &RunLock{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Acquire returns false when another run already holds the lock.
func (l *RunLock) Acquire(ctx context.Context, token string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

func (l *RunLock) Release(ctx context.Context, token string) error {
	current, err := l.client.Get(ctx, l.key).Result()
	if err != nil {
		return fmt.Errorf("failed to read run lock: %w", err)
	}
	if current != token {
		return fmt.Errorf("run lock is held by another owner")
	}
	return l.client.Del(ctx, l.key).Err()
}
