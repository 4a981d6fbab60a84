package cache

import (
	"context"
	"errors"
	"time"
)

const limiterPrefix = "ratelimit:"

// LimiterStorage adapts RedisCache to fiber.Storage so the rate limiter
// shares its counters across API instances.
type LimiterStorage struct {
	cache   *RedisCache
	timeout time.Duration
}

// NewLimiterStorage creates a fiber.Storage backed by the cache
func NewLimiterStorage(cache *RedisCache) *LimiterStorage {
	return &LimiterStorage{cache: cache, timeout: 2 * time.Second}
}

func (s *LimiterStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns nil, nil for a missing key as fiber.Storage requires
func (s *LimiterStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.cache.Get(ctx, limiterPrefix+key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return val, err
}

func (s *LimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.cache.Set(ctx, limiterPrefix+key, val, exp)
}

func (s *LimiterStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.cache.Delete(ctx, limiterPrefix+key)
}

// Reset drops only the limiter's keys, never the rest of the database.
func (s *LimiterStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.cache.DeletePrefix(ctx, limiterPrefix)
}

func (s *LimiterStorage) Close() error {
	return s.cache.Close()
}
