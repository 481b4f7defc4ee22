package cache

import (
	"testing"
	"time"

	"github.com/elints/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreateMemoryBackend(t *testing.T) {
	factory := NewFlowCountsCacheFactory(
		config.CacheConfig{Backend: "memory", TTL: time.Minute},
		config.RedisConfig{},
	)

	c, err := factory.Create()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.IsType(t, &MemoryFlowCountsCache{}, c)
}

func TestFactoryCreateNoneBackend(t *testing.T) {
	factory := NewFlowCountsCacheFactory(
		config.CacheConfig{Backend: "none"},
		config.RedisConfig{},
	)

	c, err := factory.Create()
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestFactoryRedisFallsBackToMemory(t *testing.T) {
	// An unreachable redis with fallback enabled yields a memory cache
	factory := NewFlowCountsCacheFactory(
		config.CacheConfig{Backend: "redis", TTL: time.Minute},
		config.RedisConfig{Host: "127.0.0.1", Port: 1},
	)

	c, err := factory.Create()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.IsType(t, &MemoryFlowCountsCache{}, c)
}

func TestFactoryRedisWithoutFallbackFails(t *testing.T) {
	factory := NewFlowCountsCacheFactory(
		config.CacheConfig{Backend: "redis", TTL: time.Minute},
		config.RedisConfig{Host: "127.0.0.1", Port: 1},
		WithMemoryFallback(false),
	)

	c, err := factory.Create()
	assert.Error(t, err)
	assert.Nil(t, c)
}
