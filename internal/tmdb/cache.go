package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores search results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]SearchResult, bool, error)
	Set(ctx context.Context, key string, results []SearchResult, ttl time.Duration) error
}

// RedisCache keeps JSON-encoded search results in Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and verifies it with PING.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

// Get returns the cached results for key. A missing key is not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]SearchResult, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var results []SearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("decode cached results: %w", err)
	}
	return results, true, nil
}

// Set stores results under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, results []SearchResult, ttl time.Duration) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// Close releases the redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedClient serves searches from a Cache before asking upstream.
// Cache failures are logged and never fail a search.
type CachedClient struct {
	next   Client
	cache  Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedClient wraps next with cache.
func NewCachedClient(next Client, cache Cache, ttl time.Duration, logger *log.Logger) *CachedClient {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedClient{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Search implements Client.
func (c *CachedClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	key := CacheKey(query)

	results, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Printf("tmdb: cache get %q failed: %v", key, err)
	case ok:
		return results, nil
	}

	results, err = c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, results, c.ttl); err != nil {
		c.logger.Printf("tmdb: cache set %q failed: %v", key, err)
	}
	return results, nil
}

// CacheKey normalizes a query into its cache key.
func CacheKey(query string) string {
	return "search:" + strings.ToLower(strings.TrimSpace(query))
}
