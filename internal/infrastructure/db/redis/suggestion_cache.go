package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSuggestionTTL = time.Hour

// SuggestionCache stores generated response suggestions.
// Keys are produced by the suggestion service (suggestion:<sha256 of content>).
type SuggestionCache struct {
	client redis.Cmdable
}

// NewSuggestionCache creates a SuggestionCache wrapping the given Redis client.
func NewSuggestionCache(client redis.Cmdable) *SuggestionCache {
	return &SuggestionCache{client: client}
}

// Get returns the cached suggestion for key. A miss is not an error.
func (c *SuggestionCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("suggestion cache get: %w", err)
	}
	return val, true, nil
}

// Set stores value under key, expiring after ttl (one hour when ttl <= 0).
func (c *SuggestionCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultSuggestionTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("suggestion cache set: %w", err)
	}
	return nil
}
