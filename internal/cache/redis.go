// Package cache fronts the orchestration call with a short-lived result
// cache; provider catalogs move slowly enough that identical searches
// within the TTL can share one aggregation run.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amityadav/stagefinder/internal/search"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "stagefinder:search"

// RedisCache caches aggregated results in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// BuildKey creates a cache key from the request fields that shape the
// result.
func BuildKey(req search.SearchRequest) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s:%d:%d", keyPrefix,
		req.Industry, req.Topic, req.Keyword, req.City, req.CountryCode, req.RequestedSize, req.Page)
}

// Get returns the cached result for key, or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) (*search.AggregatedResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result search.AggregatedResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &result, nil
}

// Set stores a result under key for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, result *search.AggregatedResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
