package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// feedKey is the single cache key: only the anonymous first page of the
// global feed is ever cached.
const feedKey = "feed:global:page1"

// RedisFeedCache stores the rendered global feed in Redis so invalidation
// reaches every process. TTL enforcement is delegated to Redis itself.
type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeedCache creates a feed cache over an existing Redis client.
func NewRedisFeedCache(client *redis.Client, ttl time.Duration) *RedisFeedCache {
	return &RedisFeedCache{client: client, ttl: ttl}
}

func (c *RedisFeedCache) Get() ([]byte, bool) {
	ctx, cancel := opCtx()
	defer cancel()

	body, err := c.client.Get(ctx, feedKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Feed cache read failed; serving fresh")
		}
		return nil, false
	}
	return body, true
}

func (c *RedisFeedCache) Put(body []byte) {
	ctx, cancel := opCtx()
	defer cancel()

	if err := c.client.Set(ctx, feedKey, body, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Feed cache write failed")
	}
}

func (c *RedisFeedCache) Invalidate() {
	ctx, cancel := opCtx()
	defer cancel()

	if err := c.client.Del(ctx, feedKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Feed cache invalidation failed")
	}
}

// Cache access must stay non-blocking; a slow Redis degrades to a miss.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 250*time.Millisecond)
}
