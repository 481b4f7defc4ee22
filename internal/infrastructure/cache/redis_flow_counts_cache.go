package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appworkflow "github.com/elints/backend/internal/application/workflow"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const flowCountsKey = "dashboard:flow_counts"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisFlowCountsCache caches the stage-count projection in Redis so every
// instance of the service sees the same entry and the same invalidation.
type RedisFlowCountsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisFlowCountsCache creates a Redis-backed flow counts cache, verifying
// the connection before returning
func NewRedisFlowCountsCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisFlowCountsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisFlowCountsCache{client: client, ttl: ttl, logger: logger}, nil
}

// NewRedisFlowCountsCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisFlowCountsCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisFlowCountsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisFlowCountsCache{client: client, ttl: ttl, logger: logger}
}

// GetFlowCounts returns the cached stage counts. Redis failures are treated
// as misses so the dashboard falls back to the database.
func (c *RedisFlowCountsCache) GetFlowCounts(ctx context.Context) (map[string]int64, bool) {
	payload, err := c.client.Get(ctx, flowCountsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("flow counts cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var counts map[string]int64
	if err := json.Unmarshal(payload, &counts); err != nil {
		c.logger.Warn("flow counts cache entry corrupt, dropping", zap.Error(err))
		c.client.Del(ctx, flowCountsKey)
		return nil, false
	}
	return counts, true
}

// SetFlowCounts stores the stage counts for the configured TTL. Failures are
// logged and swallowed; the cache is an optimization, not a dependency.
func (c *RedisFlowCountsCache) SetFlowCounts(ctx context.Context, counts map[string]int64) {
	payload, err := json.Marshal(counts)
	if err != nil {
		c.logger.Warn("flow counts cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, flowCountsKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("flow counts cache write failed", zap.Error(err))
	}
}

// InvalidateFlowCounts drops the cached entry
func (c *RedisFlowCountsCache) InvalidateFlowCounts(ctx context.Context) {
	if err := c.client.Del(ctx, flowCountsKey).Err(); err != nil {
		c.logger.Warn("flow counts cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisFlowCountsCache) Close() error {
	return c.client.Close()
}

// Ensure RedisFlowCountsCache implements FlowCountsCache
var _ appworkflow.FlowCountsCache = (*RedisFlowCountsCache)(nil)
