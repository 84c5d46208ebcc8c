package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"quizproctor/pkg/cache"

	"github.com/redis/go-redis/v9"
)

const deadlineTTL = 24 * time.Hour

// RedisDeadlineStore keeps countdown deadlines in redis as unix-millisecond
// timestamps, keyed per attempt.
type RedisDeadlineStore struct {
	client *cache.RedisClient
}

func NewRedisDeadlineStore(client *cache.RedisClient) *RedisDeadlineStore {
	return &RedisDeadlineStore{client: client}
}

func deadlineKey(key string) string {
	return fmt.Sprintf("quiz:deadline:%s", key)
}

func (s *RedisDeadlineStore) GetDeadline(ctx context.Context, key string) (time.Time, bool, error) {
	val, err := s.client.Get(ctx, deadlineKey(key))
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get deadline: %w", err)
	}

	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed deadline %q: %w", val, err)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *RedisDeadlineStore) SetDeadline(ctx context.Context, key string, deadline time.Time) error {
	return s.client.Set(ctx, deadlineKey(key), deadline.UnixMilli(), deadlineTTL)
}

func (s *RedisDeadlineStore) ClearDeadline(ctx context.Context, key string) error {
	return s.client.Delete(ctx, deadlineKey(key))
}
