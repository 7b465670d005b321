// Package cache provides a Redis read-through cache for market data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/ChartBot/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Source returns the price history of a ticker
type Source interface {
	History(ctx context.Context, ticker string, period model.Period, interval model.Interval) (model.PriceSeries, error)
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// CachingSource decorates a Source with Redis caching. Errors from the inner
// source, unknown tickers included, are never cached.
type CachingSource struct {
	inner     Source
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	logger    zerolog.Logger
}

// NewCachingSource wraps inner. If ttl is 0 it defaults to one minute, an empty
// namespace becomes "history". A nil client bypasses the cache.
func NewCachingSource(rdb *redis.Client, ttl time.Duration, inner Source, namespace string) *CachingSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "history"
	}
	return &CachingSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		logger:    log.With().Str("component", "history_cache").Logger(),
	}
}

// History returns the cached series when present and fetches it otherwise
func (c *CachingSource) History(ctx context.Context, ticker string, period model.Period, interval model.Interval) (model.PriceSeries, error) {
	if c.rdb == nil {
		return c.inner.History(ctx, ticker, period, interval)
	}

	key := c.cacheKey(ticker, period, interval)

	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out model.PriceSeries
		if err := json.Unmarshal(b, &out); err == nil {
			c.logger.Debug().Str("key", key).Msg("Cache hit")
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	out, err := c.inner.History(ctx, ticker, period, interval)
	if err != nil {
		return nil, err
	}

	// Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return out, nil
}

func (c *CachingSource) cacheKey(ticker string, period model.Period, interval model.Interval) string {
	return fmt.Sprintf("%s:%s:%s:%s", c.namespace, strings.ToUpper(ticker), period, interval)
}
