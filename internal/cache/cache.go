// Package cache provides the redis-backed read cache in front of the
// scholarship catalog. Individual scholarships and their application
// stats are cached; the cache is an optimization only and every
// operation fails safe, so an unreachable redis degrades catalog reads
// to database lookups instead of failing requests.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client with nil-safe, error-swallowing operations.
// A nil *Client is valid and behaves as an always-miss cache, which
// keeps the scholarship service usable when caching is disabled.
type Client struct {
	client *redis.Client
}

// New creates a redis client for the catalog cache. The connection is
// lazy; an unreachable server shows up as misses, not as an error here.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns the cached payload, or nil on a miss or redis error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores a payload with a TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		// fail safe: ignore redis errors
		return nil
	}
	return nil
}

// Delete drops a key. Scholarship writes call this so stale catalog
// entries never outlive an update or delete.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return nil
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
