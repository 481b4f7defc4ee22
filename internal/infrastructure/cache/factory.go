package cache

import (
	"fmt"

	appworkflow "github.com/elints/backend/internal/application/workflow"
	"github.com/elints/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// FlowCountsCacheFactory creates flow counts caches based on configuration
type FlowCountsCacheFactory struct {
	cacheConfig         config.CacheConfig
	redisConfig         config.RedisConfig
	logger              *zap.Logger
	allowMemoryFallback bool
}

// FlowCountsCacheFactoryOption is a functional option for configuring the factory
type FlowCountsCacheFactoryOption func(*FlowCountsCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FlowCountsCacheFactoryOption {
	return func(f *FlowCountsCacheFactory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithMemoryFallback(allow bool) FlowCountsCacheFactoryOption {
	return func(f *FlowCountsCacheFactory) {
		f.allowMemoryFallback = allow
	}
}

// NewFlowCountsCacheFactory creates a new factory
func NewFlowCountsCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FlowCountsCacheFactoryOption) *FlowCountsCacheFactory {
	f := &FlowCountsCacheFactory{
		cacheConfig:         cacheCfg,
		redisConfig:         redisCfg,
		logger:              zap.NewNop(),
		allowMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create builds the cache for the configured backend. The "none" backend
// returns nil, which disables caching entirely.
func (f *FlowCountsCacheFactory) Create() (appworkflow.FlowCountsCache, error) {
	switch f.cacheConfig.Backend {
	case "none":
		f.logger.Info("flow counts caching disabled")
		return nil, nil

	case "memory":
		f.logger.Info("using in-memory flow counts cache")
		return f.createMemoryCache(), nil

	case "redis":
		cache, err := f.createRedisCache()
		if err == nil {
			f.logger.Info("using Redis flow counts cache")
			return cache, nil
		}

		if !f.allowMemoryFallback {
			return nil, fmt.Errorf("Redis required for flow counts cache but unavailable: %w", err)
		}

		f.logger.Warn("Redis unavailable, falling back to in-memory flow counts cache. "+
			"Instances will not share cache invalidation.",
			zap.Error(err),
		)
		return f.createMemoryCache(), nil

	default:
		return nil, fmt.Errorf("unknown cache backend: %s", f.cacheConfig.Backend)
	}
}

func (f *FlowCountsCacheFactory) createMemoryCache() *MemoryFlowCountsCache {
	return NewMemoryFlowCountsCache(
		WithMemoryTTL(f.cacheConfig.TTL),
		WithMemoryLogger(f.logger),
	)
}

func (f *FlowCountsCacheFactory) createRedisCache() (*RedisFlowCountsCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	cache, err := NewRedisFlowCountsCache(redisCfg, f.cacheConfig.TTL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis flow counts cache: %w", err)
	}

	return cache, nil
}
