package swaps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
	"github.com/feral-file/ff-pool-snapshot/internal/metrics"
)

const (
	DEFAULT_TTL             = 5 * time.Minute
	DEFAULT_CHUNK_SIZE      = 1000
	DEFAULT_CHUNK_PAUSE     = 100 * time.Millisecond
	DEFAULT_FALLBACK_WINDOW = 500
)

// LogFetcher queries swap logs for an inclusive block range in a single node request
//
//go:generate mockgen -source=cache.go -destination=../mocks/swap_cache.go -package=mocks -mock_names=LogFetcher=MockLogFetcher
type LogFetcher interface {
	SwapLogs(ctx context.Context, pool domain.Pool, fromBlock, toBlock uint64) ([]domain.SwapLog, error)
}

// Cache is a time-bounded cache of swap events keyed by exact (pool, start, end) ranges.
// A sub-range request never reuses a cached super-range.
//
//go:generate mockgen -source=cache.go -destination=../mocks/swap_cache.go -package=mocks -mock_names=Cache=MockSwapCache
type Cache interface {
	// GetSwapEvents returns swap events of pool over [startBlock, endBlock].
	// Retrieval failures degrade to partial or empty results instead of errors.
	GetSwapEvents(ctx context.Context, pool domain.Pool, startBlock, endBlock uint64) ([]domain.SwapLog, error)
}

// Config holds configuration for the swap event cache
type Config struct {
	// TTL is how long a cached range stays valid
	TTL time.Duration

	// ChunkSize is the largest block span queried in one request
	ChunkSize uint64

	// ChunkPause is the delay between consecutive chunk queries
	ChunkPause time.Duration

	// FallbackWindow is the trailing block span retried when a whole-range query fails
	FallbackWindow uint64
}

type cacheKey struct {
	pool       common.Address
	startBlock uint64
	endBlock   uint64
}

type entry struct {
	events     []domain.SwapLog
	insertedAt time.Time
}

type cache struct {
	fetcher LogFetcher
	config  Config
	clock   adapter.Clock

	mu      sync.RWMutex
	entries map[cacheKey]*entry
}

// NewCache creates a swap event cache. Zero config values take defaults.
func NewCache(fetcher LogFetcher, config Config, clock adapter.Clock) Cache {
	if config.TTL <= 0 {
		config.TTL = DEFAULT_TTL
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = DEFAULT_CHUNK_SIZE
	}
	if config.ChunkPause < 0 {
		config.ChunkPause = 0
	}
	if config.FallbackWindow == 0 {
		config.FallbackWindow = DEFAULT_FALLBACK_WINDOW
	}

	return &cache{
		fetcher: fetcher,
		config:  config,
		clock:   clock,
		entries: make(map[cacheKey]*entry),
	}
}

// GetSwapEvents returns cached events for the exact range or retrieves them from the node
func (c *cache) GetSwapEvents(ctx context.Context, pool domain.Pool, startBlock, endBlock uint64) ([]domain.SwapLog, error) {
	if startBlock > endBlock {
		return []domain.SwapLog{}, nil
	}

	key := cacheKey{pool: pool.Address, startBlock: startBlock, endBlock: endBlock}
	if events, ok := c.lookup(key); ok {
		metrics.IncCacheHit()
		logger.DebugCtx(ctx, "Swap events served from cache",
			zap.String("pool", pool.Address.Hex()),
			zap.Uint64("start_block", startBlock),
			zap.Uint64("end_block", endBlock))
		return events, nil
	}
	metrics.IncCacheMiss()

	events, err := c.fetchRange(ctx, pool, startBlock, endBlock)
	if err == nil {
		c.store(key, events)
		return events, nil
	}

	logger.WarnCtx(ctx, "Swap log query failed, retrying with trailing window",
		zap.String("pool", pool.Address.Hex()),
		zap.Uint64("start_block", startBlock),
		zap.Uint64("end_block", endBlock),
		zap.Error(err))

	fallbackStart := startBlock
	if endBlock-startBlock+1 > c.config.FallbackWindow {
		fallbackStart = endBlock - c.config.FallbackWindow + 1
	}

	events, err = c.fetcher.SwapLogs(ctx, pool, fallbackStart, endBlock)
	if err != nil {
		metrics.IncFallback("empty")
		logger.ErrorCtx(ctx, fmt.Errorf("swap log fallback query failed: %w", err),
			zap.String("pool", pool.Address.Hex()),
			zap.Uint64("start_block", fallbackStart),
			zap.Uint64("end_block", endBlock))
		return []domain.SwapLog{}, nil
	}

	metrics.IncFallback("recovered")
	c.store(cacheKey{pool: pool.Address, startBlock: fallbackStart, endBlock: endBlock}, events)

	return events, nil
}

// fetchRange queries the range in one request, or in sequential chunks when it is too large.
// Failed chunks are skipped so a partial result is preferred over none.
func (c *cache) fetchRange(ctx context.Context, pool domain.Pool, startBlock, endBlock uint64) ([]domain.SwapLog, error) {
	if endBlock-startBlock+1 <= c.config.ChunkSize {
		return c.fetcher.SwapLogs(ctx, pool, startBlock, endBlock)
	}

	var events []domain.SwapLog
	for from := startBlock; from <= endBlock; from += c.config.ChunkSize {
		if from != startBlock && c.config.ChunkPause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-c.clock.After(c.config.ChunkPause):
			}
		}

		to := min(from+c.config.ChunkSize-1, endBlock)
		chunk, err := c.fetcher.SwapLogs(ctx, pool, from, to)
		if err != nil {
			metrics.IncChunkFailure()
			logger.WarnCtx(ctx, "Skipping swap log chunk",
				zap.String("pool", pool.Address.Hex()),
				zap.Uint64("from_block", from),
				zap.Uint64("to_block", to),
				zap.Error(err))
			continue
		}

		events = append(events, chunk...)
	}

	if events == nil {
		events = []domain.SwapLog{}
	}

	return events, nil
}

// lookup returns the cached events for key while the entry is within its TTL
func (c *cache) lookup(key cacheKey) ([]domain.SwapLog, bool) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.clock.Now().Sub(cached.insertedAt) > c.config.TTL {
		return nil, false
	}

	return cached.events, true
}

// store overwrites the entry for key and drops expired entries
func (c *cache) store(key cacheKey, events []domain.SwapLog) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if now.Sub(e.insertedAt) > c.config.TTL {
			delete(c.entries, k)
		}
	}

	c.entries[key] = &entry{
		events:     events,
		insertedAt: now,
	}
}
