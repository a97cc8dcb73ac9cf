// Package cache provides a Redis-backed cache for computed word-list
// responses, keyed by slice query, category, and limit, with singleflight
// deduplication of concurrent recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/wordseer/frequentwords/internal/wordlist"
	"github.com/wordseer/frequentwords/pkg/config"
	pkgredis "github.com/wordseer/frequentwords/pkg/redis"
)

const keyPrefix = "wordlist:"

// ListCache caches wordlist.ListResult values in Redis.
type ListCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a ListCache backed by the given Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *ListCache {
	return &ListCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "list-cache"),
	}
}

// Get returns the cached list for the key, if present.
func (c *ListCache) Get(ctx context.Context, category wordlist.Category, params wordlist.LoadParams) (*wordlist.ListResult, bool) {
	key := c.buildKey(category, params)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result wordlist.ListResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "category", string(category), "key", key)
	return &result, true
}

// Set stores the list under the key with the configured TTL. Failures are
// logged and swallowed; the cache degrades to compute-through.
func (c *ListCache) Set(ctx context.Context, category wordlist.Category, params wordlist.LoadParams, result *wordlist.ListResult) {
	key := c.buildKey(category, params)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached list or computes it, deduplicating
// concurrent computes for the same key. The bool result reports a cache hit.
func (c *ListCache) GetOrCompute(
	ctx context.Context,
	category wordlist.Category,
	params wordlist.LoadParams,
	compute func() (*wordlist.ListResult, error),
) (*wordlist.ListResult, bool, error) {
	if result, ok := c.Get(ctx, category, params); ok {
		return result, true, nil
	}

	key := c.buildKey(category, params)
	v, err, _ := c.group.Do(key, func() (any, error) {
		if result, ok := c.Get(ctx, category, params); ok {
			return result, nil
		}
		result, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, category, params, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*wordlist.ListResult), false, nil
}

// Invalidate removes every cached list for the given instance (project).
func (c *ListCache) Invalidate(ctx context.Context, instance string) error {
	pattern := fmt.Sprintf("%s%s:*", keyPrefix, instance)
	deleted, err := c.client.FlushByPattern(ctx, pattern)
	if err != nil {
		return fmt.Errorf("invalidating list cache: %w", err)
	}
	c.logger.Info("list cache invalidated", "instance", instance, "keys", deleted)
	return nil
}

// Stats returns hit and miss counters.
func (c *ListCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ListCache) buildKey(category wordlist.Category, params wordlist.LoadParams) string {
	digest := sha256.Sum256([]byte(params.Query))
	return fmt.Sprintf("%s%s:%s:%s:%d",
		keyPrefix, params.Instance, category, hex.EncodeToString(digest[:8]), params.Limit)
}
