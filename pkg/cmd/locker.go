package cmd

import (
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/paperflow/paperflow/pkg/locks"
)

// NewDocumentLocker returns a Redis-backed locker when a Redis URL is
// configured, otherwise an in-process locker. A single-worker deployment
// needs no shared lock; anything running more than one worker does.
func NewDocumentLocker(redisURL string, ttl time.Duration) (locks.DocumentLocker, error) {
	if redisURL == "" {
		return locks.NewKeyedLocker(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return locks.NewRedisLocker(redis.NewClient(opts), ttl), nil
}
