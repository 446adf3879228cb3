// Package cache provides an optional read-through cache for the directory's
// filter-option queries. The admission engine never touches it; limiter
// state is in-process by contract.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rosterhq/rosterd/directory"
)

// FilterCache stores computed filter options per organization. A miss or a
// backend failure is reported as (nil, nil); callers fall back to the
// database and never surface cache errors to clients.
type FilterCache interface {
	GetFilters(ctx context.Context, orgID int64) (*directory.FilterOptions, error)
	SetFilters(ctx context.Context, orgID int64, opts *directory.FilterOptions) error
}

// RedisFilterCache keeps filter options in Redis as JSON values with a TTL.
type RedisFilterCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ FilterCache = (*RedisFilterCache)(nil)

// RedisConfig for creating a Redis-backed filter cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisFilterCache connects to Redis and verifies the connection.
func NewRedisFilterCache(ctx context.Context, config RedisConfig) (*RedisFilterCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", config.Addr, err)
	}

	ttl := config.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &RedisFilterCache{client: client, ttl: ttl}, nil
}

func filterKey(orgID int64) string {
	return fmt.Sprintf("rosterd:filters:%d", orgID)
}

// GetFilters returns the cached options for orgID, or (nil, nil) on a miss.
func (c *RedisFilterCache) GetFilters(ctx context.Context, orgID int64) (*directory.FilterOptions, error) {
	val, err := c.client.Get(ctx, filterKey(orgID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var opts directory.FilterOptions
	if err := json.Unmarshal([]byte(val), &opts); err != nil {
		// Corrupt entry; treat as a miss so it gets rewritten.
		return nil, nil
	}
	return &opts, nil
}

// SetFilters stores the options for orgID with the configured TTL.
func (c *RedisFilterCache) SetFilters(ctx context.Context, orgID int64, opts *directory.FilterOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, filterKey(orgID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *RedisFilterCache) Close() error {
	return c.client.Close()
}

// NoopFilterCache is the fallback when no Redis address is configured.
// Every read is a miss and writes are discarded.
type NoopFilterCache struct{}

var _ FilterCache = NoopFilterCache{}

func (NoopFilterCache) GetFilters(ctx context.Context, orgID int64) (*directory.FilterOptions, error) {
	return nil, nil
}

func (NoopFilterCache) SetFilters(ctx context.Context, orgID int64, opts *directory.FilterOptions) error {
	return nil
}
