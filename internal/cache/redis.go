package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/dashgate/internal/config"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "dashgate:profile:"

// RedisCache shares profile snapshots between API replicas
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg config.CacheConfig, ttl time.Duration, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB > 0 {
		opts.DB = cfg.RedisDB
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 500 * time.Millisecond
	opts.WriteTimeout = 500 * time.Millisecond

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl, logger: logger}, nil
}

func profileKey(userID string) string {
	return keyPrefix + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) (*ProfileEntry, bool) {
	key := profileKey(userID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		c.logger.Warn("profile cache get failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, false
	}

	var entry ProfileEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Profile == nil {
		c.client.Del(ctx, key)
		return nil, false
	}

	return &entry, true
}

func (c *RedisCache) Set(ctx context.Context, userID string, entry *ProfileEntry) {
	if entry == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("failed to marshal profile cache entry", slog.Any("error", err))
		return
	}

	if err := c.client.Set(ctx, profileKey(userID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache set failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.logger.Warn("profile cache invalidate failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

// Ping is used by the readiness check
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
