// Package cache provides the team-metadata cache used by the display
// layer. TTL is configuration, not a hard-coded expiry, and invalidation is
// an explicit entry point rather than a side effect.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/metrics"
)

const teamKeyPrefix = "pool:team:"

// Config holds cache configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache is a TTL'd team-metadata cache over redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Dur("ttl", cfg.TTL).
		Msg("Redis cache connected")

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// GetTeam returns cached metadata for a team code. The second return is
// false on a miss.
func (c *RedisCache) GetTeam(ctx context.Context, code string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, teamKeyPrefix+code).Bytes()
	if err == redis.Nil {
		metrics.CacheMissesTotal.Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}

	metrics.CacheHitsTotal.Inc()
	return data, true, nil
}

// SetTeam stores metadata for a team code under the configured TTL.
func (c *RedisCache) SetTeam(ctx context.Context, code string, payload []byte) error {
	if err := c.client.Set(ctx, teamKeyPrefix+code, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Invalidate drops one team's cached metadata immediately.
func (c *RedisCache) Invalidate(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, teamKeyPrefix+code).Err(); err != nil {
		return fmt.Errorf("cache invalidate failed: %w", err)
	}
	log.Debug().Str("team", code).Msg("Team cache entry invalidated")
	return nil
}

// InvalidateAll drops every cached team entry.
func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, teamKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan failed: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache invalidate failed: %w", err)
		}
	}

	log.Info().Int("keys", len(keys)).Msg("Team cache flushed")
	return nil
}

// Close closes the redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
