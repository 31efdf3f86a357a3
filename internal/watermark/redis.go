package watermark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps watermarks in Redis, one plain string key per source.
// Values are RFC3339Nano so sub-second publication instants survive the
// round trip; a truncated mark would compare strictly before the item it
// was written for and re-announce it on every tick.
type RedisStore struct {
	client *redis.Client
}

// NewRedis builds a store from a redis URL (redis://host:port/db).
func NewRedis(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// NewRedisClient wraps an existing client (used by tests).
func NewRedisClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Read(ctx context.Context, key string) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: GET %s: %v", ErrUnavailable, key, err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// A corrupt value is indistinguishable from "never checked"; treat
		// it that way rather than wedging the job forever.
		return time.Time{}, false, nil
	}
	return t.UTC(), true, nil
}

func (s *RedisStore) Write(ctx context.Context, key string, t time.Time) error {
	if err := s.client.Set(ctx, key, t.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("%w: SET %s: %v", ErrUnavailable, key, err)
	}
	return nil
}
