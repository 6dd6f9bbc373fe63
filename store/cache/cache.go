// Package cache provides the read-through page cache backed by redis,
// with per-user tag sets for bulk invalidation.
//
// Every operation is best-effort: a failure talking to redis degrades to a
// cache miss or a no-op and is never surfaced to the caller. The cache must
// not become a point of failure for read traffic.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// PageCache is the interface for the list-page cache.
type PageCache interface {
	// Get looks up key and unmarshals the stored payload into dest.
	// Returns false on miss and on any store or decode failure.
	Get(ctx context.Context, key string, dest any) bool
	// Put stores value under key with the given ttl and records key in the
	// user's tag set, atomically. Failures are swallowed.
	Put(ctx context.Context, userID int32, key string, value any, ttl time.Duration)
	// InvalidateUser deletes every key recorded in the user's tag set plus
	// the tag set itself. Failures are swallowed.
	InvalidateUser(ctx context.Context, userID int32)
	Close() error
}

// Config holds the redis connection configuration.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int

	// TagSlack is added to the entry TTL when refreshing the tag set expiry,
	// so the tag set always outlives the entries it tracks.
	TagSlack time.Duration
}

// DefaultConfig returns the default redis configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		TagSlack:     5 * time.Minute,
	}
}

// RedisCache is the redis-backed PageCache implementation.
type RedisCache struct {
	client   *redis.Client
	tagSlack time.Duration
}

// NewRedisCache connects to redis and returns a RedisCache.
func NewRedisCache(config *Config) (*RedisCache, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.TagSlack <= 0 {
		config.TagSlack = 5 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to connect to redis")
	}

	slog.Info("redis cache connected", "addr", config.Addr)

	return &RedisCache{
		client:   client,
		tagSlack: config.TagSlack,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to get cache value", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("failed to unmarshal cache value", "key", key, "error", err)
		return false
	}
	return true
}

func (c *RedisCache) Put(ctx context.Context, userID int32, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("failed to marshal cache value", "key", key, "error", err)
		return
	}

	// The value write and the tag-set write go through one transactional
	// pipeline; either both land or neither does, so an entry can never be
	// live without being tracked for invalidation.
	tagKey := UserTagKey(userID)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, tagKey, key)
	pipe.Expire(ctx, tagKey, ttl+c.tagSlack)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("failed to set cache value", "key", key, "error", err)
	}
}

func (c *RedisCache) InvalidateUser(ctx context.Context, userID int32) {
	tagKey := UserTagKey(userID)
	keys, err := c.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		slog.Warn("failed to read cache tag set", "tag", tagKey, "error", err)
		return
	}
	if err := c.client.Del(ctx, append(keys, tagKey)...).Err(); err != nil {
		slog.Warn("failed to delete tagged cache keys", "tag", tagKey, "error", err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache is a no-op PageCache used when no redis address is configured.
// Every Get is a miss, so reads always hit the system of record.
type NopCache struct{}

// NewNopCache creates a no-op page cache.
func NewNopCache() *NopCache {
	return &NopCache{}
}

func (*NopCache) Get(ctx context.Context, key string, dest any) bool { return false }

func (*NopCache) Put(ctx context.Context, userID int32, key string, value any, ttl time.Duration) {}

func (*NopCache) InvalidateUser(ctx context.Context, userID int32) {}

func (*NopCache) Close() error { return nil }
