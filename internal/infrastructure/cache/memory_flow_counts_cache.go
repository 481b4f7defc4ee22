package cache

import (
	"context"
	"sync"
	"time"

	appworkflow "github.com/elints/backend/internal/application/workflow"
	"go.uber.org/zap"
)

// MemoryFlowCountsCache caches the stage-count projection in process memory.
// Suitable for single-instance deployments; state is not shared across
// processes.
type MemoryFlowCountsCache struct {
	mu        sync.RWMutex
	counts    map[string]int64
	expiresAt time.Time
	ttl       time.Duration
	logger    *zap.Logger
}

// MemoryFlowCountsCacheOption is a functional option for configuring the cache
type MemoryFlowCountsCacheOption func(*MemoryFlowCountsCache)

// WithMemoryTTL sets the cache entry lifetime
func WithMemoryTTL(ttl time.Duration) MemoryFlowCountsCacheOption {
	return func(c *MemoryFlowCountsCache) {
		c.ttl = ttl
	}
}

// WithMemoryLogger sets the logger for the cache
func WithMemoryLogger(logger *zap.Logger) MemoryFlowCountsCacheOption {
	return func(c *MemoryFlowCountsCache) {
		c.logger = logger
	}
}

// NewMemoryFlowCountsCache creates a new in-memory flow counts cache
func NewMemoryFlowCountsCache(opts ...MemoryFlowCountsCacheOption) *MemoryFlowCountsCache {
	cache := &MemoryFlowCountsCache{
		ttl:    30 * time.Second,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// GetFlowCounts returns the cached stage counts, reporting a miss once the
// entry expired
func (c *MemoryFlowCountsCache) GetFlowCounts(ctx context.Context) (map[string]int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.counts == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}

	counts := make(map[string]int64, len(c.counts))
	for stage, n := range c.counts {
		counts[stage] = n
	}
	return counts, true
}

// SetFlowCounts stores the stage counts for the configured TTL
func (c *MemoryFlowCountsCache) SetFlowCounts(ctx context.Context, counts map[string]int64) {
	stored := make(map[string]int64, len(counts))
	for stage, n := range counts {
		stored[stage] = n
	}

	c.mu.Lock()
	c.counts = stored
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()

	c.logger.Debug("cached flow counts", zap.Duration("ttl", c.ttl))
}

// InvalidateFlowCounts drops the cached entry
func (c *MemoryFlowCountsCache) InvalidateFlowCounts(ctx context.Context) {
	c.mu.Lock()
	c.counts = nil
	c.mu.Unlock()
}

// Ensure MemoryFlowCountsCache implements FlowCountsCache
var _ appworkflow.FlowCountsCache = (*MemoryFlowCountsCache)(nil)
