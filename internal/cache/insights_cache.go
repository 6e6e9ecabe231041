package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opslane/inventory-engine/internal/config"
	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/pkg/logger"
)

const summaryKey = "insights:summary"

// InsightsCache caches the dashboard summary between recalculations. A miss
// or backend failure always falls through to the database read.
type InsightsCache interface {
	GetSummary(ctx context.Context) (*domain.InsightsSummary, bool)
	SetSummary(ctx context.Context, summary *domain.InsightsSummary)
	Invalidate(ctx context.Context)
}

// NewInsightsCache returns a redis-backed cache when caching is enabled and
// redis is reachable, otherwise a noop cache so callers never branch.
func NewInsightsCache(cfg config.CacheConfig) InsightsCache {
	if !cfg.Enabled {
		return noopCache{}
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("redis unavailable, insights cache disabled")
		return noopCache{}
	}

	logger.Log.Info().Dur("ttl", ttl).Msg("insights cache enabled")
	return &redisCache{client: client, ttl: ttl}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) GetSummary(ctx context.Context) (*domain.InsightsSummary, bool) {
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn().Err(err).Msg("insights cache read failed")
		}
		return nil, false
	}

	var summary domain.InsightsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		logger.Log.Warn().Err(err).Msg("insights cache entry corrupt, dropping")
		c.Invalidate(ctx)
		return nil, false
	}

	return &summary, true
}

func (c *redisCache) SetSummary(ctx context.Context, summary *domain.InsightsSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey, raw, c.ttl).Err(); err != nil {
		logger.Log.Warn().Err(err).Msg("insights cache write failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		logger.Log.Warn().Err(err).Msg("insights cache invalidation failed")
	}
}

type noopCache struct{}

func (noopCache) GetSummary(context.Context) (*domain.InsightsSummary, bool) { return nil, false }
func (noopCache) SetSummary(context.Context, *domain.InsightsSummary)        {}
func (noopCache) Invalidate(context.Context)                                 {}
