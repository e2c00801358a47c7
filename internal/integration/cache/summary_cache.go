// Package cache implements the read-through summary cache on Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
)

const summaryKeyPrefix = "summary:"

// redisSummaryCache implements the adapter.SummaryCache interface.
type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSummaryCache creates a new Redis-backed summary cache.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) adapter.SummaryCache {
	return &redisSummaryCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached summary, or nil on a miss.
func (c *redisSummaryCache) Get(ctx context.Context, summaryID string) (*entity.Summary, error) {
	payload, err := c.client.Get(ctx, summaryKeyPrefix+summaryID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("summary cache get: %w", err)
	}

	var summary entity.Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("summary cache decode: %w", err)
	}
	return &summary, nil
}

// Set stores the summary under its ID with the configured TTL.
func (c *redisSummaryCache) Set(ctx context.Context, summary *entity.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("summary cache encode: %w", err)
	}
	if err := c.client.Set(ctx, summaryKeyPrefix+summary.ID, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("summary cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary after a recompute.
func (c *redisSummaryCache) Invalidate(ctx context.Context, summaryID string) error {
	if err := c.client.Del(ctx, summaryKeyPrefix+summaryID).Err(); err != nil {
		return fmt.Errorf("summary cache invalidate: %w", err)
	}
	return nil
}
