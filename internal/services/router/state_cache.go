package router

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
)

// PoolStateFetcher loads live reserve and supply state for a set of pools.
type PoolStateFetcher interface {
	FetchPoolStates(ctx context.Context, pools []domain.LiquidityPool) ([]domain.PoolState, error)
}

// CacheKey joins pool ids in order.
func CacheKey(pools []domain.LiquidityPool) string {
	ids := make([]string, len(pools))
	for i, p := range pools {
		ids[i] = p.ID.String()
	}
	return strings.Join(ids, "-")
}

// StateCache memoizes parsed pool state by pool-id key. Entries live until
// Invalidate; there is no TTL and no size bound. Failed fetches are never
// cached.
type StateCache struct {
	fetcher PoolStateFetcher

	mu      sync.RWMutex
	entries map[string][]domain.PoolState
	group   singleflight.Group
	epoch   uint64
}

func NewStateCache(fetcher PoolStateFetcher) *StateCache {
	return &StateCache{
		fetcher: fetcher,
		entries: make(map[string][]domain.PoolState),
	}
}

// ParseOnChainState returns the cached state for key or fetches it. A missing
// fetcher or a network failure gives an empty slice.
func (c *StateCache) ParseOnChainState(ctx context.Context, pools []domain.LiquidityPool, key string) []domain.PoolState {
	if key == "" {
		key = CacheKey(pools)
	}

	c.mu.RLock()
	states, ok := c.entries[key]
	epoch := c.epoch
	c.mu.RUnlock()
	if ok {
		metrics.PoolStateCacheHits.Inc()
		return states
	}
	metrics.PoolStateCacheMisses.Inc()

	if c.fetcher == nil || len(pools) == 0 {
		return []domain.PoolState{}
	}

	v, err, _ := c.group.Do(key+"#"+strconv.FormatUint(epoch, 10), func() (any, error) {
		c.mu.RLock()
		if cached, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()

		fetched, err := c.fetcher.FetchPoolStates(ctx, pools)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// a concurrent Invalidate means this result may already be stale
		if c.epoch == epoch {
			c.entries[key] = fetched
		}
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Int("pools", len(pools)).Msg("[StateCache] failed to fetch pool states")
		return []domain.PoolState{}
	}
	return v.([]domain.PoolState)
}

func (c *StateCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string][]domain.PoolState)
	c.epoch++
	c.mu.Unlock()
}

func (c *StateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
