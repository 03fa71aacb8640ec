package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink pushes notifications onto a Redis list. LPUSH is cheap enough to
// run synchronously right after commit; the worker on the other end does the
// slow part.
type RedisSink struct {
	rdb *redis.Client
	key string
}

// NewRedisSink constructs a RedisSink publishing to the given list key.
func NewRedisSink(rdb *redis.Client, key string) *RedisSink {
	return &RedisSink{rdb: rdb, key: key}
}

// Notify enqueues the notification.
func (s *RedisSink) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := s.rdb.LPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}
