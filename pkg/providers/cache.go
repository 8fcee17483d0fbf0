package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// MetaCache is a short-TTL redis cache for remote vendor metadata
// (issue-tracker project lists, log groups). It only ever holds data
// the vendor would return again; secrets never pass through it.
// Nil-safe: with no redis client every Get is a miss.
type MetaCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMetaCache(rdb *redis.Client, ttl time.Duration) *MetaCache {
	return &MetaCache{rdb: rdb, ttl: ttl}
}

func (c *MetaCache) Get(ctx context.Context, key string) (any, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, "intmeta:"+key).Bytes()
	if err != nil {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

func (c *MetaCache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, "intmeta:"+key, raw, c.ttl).Err()
}

func (c *MetaCache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, "intmeta:"+key).Err()
}
