package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
)

// BlockInfo represents cached information about the chain head
type BlockInfo struct {
	Number    uint64
	Timestamp time.Time // block timestamp
	CachedAt  time.Time
}

// BlockTimestampCache represents cached timestamp for a specific block number
type BlockTimestampCache struct {
	Timestamp time.Time
	CachedAt  time.Time
}

// BlockProvider provides cached access to the latest block and to block timestamps.
// It reduces RPC calls to the node by caching the chain head for a short TTL and
// block timestamps, which are immutable once mined, for much longer.
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockProvider=MockBlockProvider
type BlockProvider interface {
	// GetLatestBlock returns the latest block number and timestamp, potentially from cache
	GetLatestBlock(ctx context.Context) (BlockInfo, error)

	// GetBlockTimestamp returns the timestamp for a given block number, potentially from cache
	GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// BlockFetcher is the interface for fetching block information from the blockchain
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockFetcher=MockBlockFetcher
type BlockFetcher interface {
	// FetchLatestBlock fetches the latest block number and its timestamp
	FetchLatestBlock(ctx context.Context) (uint64, time.Time, error)

	// FetchBlockTimestamp fetches the timestamp for a given block number
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the BlockProvider
type Config struct {
	// TTL is how long to cache the latest block
	TTL time.Duration

	// StaleWindow is how long to use stale data if fetching fails
	// If the cached data is older than this and fetch fails, return error
	StaleWindow time.Duration

	// BlockTimestampTTL is how long to cache block timestamps
	// Set to 0 to cache forever (recommended for confirmed blocks)
	BlockTimestampTTL time.Duration

	// MaxCachedTimestamps bounds the timestamp cache; it is reset when full.
	// Zero means unbounded.
	MaxCachedTimestamps int
}

// blockProvider implements BlockProvider with TTL-based caching
type blockProvider struct {
	fetcher BlockFetcher
	config  Config
	clock   adapter.Clock

	mu              sync.RWMutex
	blockInfo       *BlockInfo
	blockTimestamps map[uint64]*BlockTimestampCache
}

// NewBlockProvider creates a new BlockProvider with caching
func NewBlockProvider(fetcher BlockFetcher, config Config, clock adapter.Clock) BlockProvider {
	return &blockProvider{
		fetcher:         fetcher,
		config:          config,
		clock:           clock,
		blockTimestamps: make(map[uint64]*BlockTimestampCache),
	}
}

// GetLatestBlock returns the latest block, using cache if valid
func (p *blockProvider) GetLatestBlock(ctx context.Context) (BlockInfo, error) {
	p.mu.RLock()
	cached := p.blockInfo
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.CachedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached latest block", zap.Uint64("block_number", cached.Number))
		return *cached, nil
	}

	logger.DebugCtx(ctx, "Fetching latest block from node")
	number, timestamp, err := p.fetcher.FetchLatestBlock(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.CachedAt) < p.config.StaleWindow {
			logger.DebugCtx(ctx, "Using stale latest block", zap.Uint64("block_number", cached.Number))
			return *cached, nil
		}
		return BlockInfo{}, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}

	info := BlockInfo{
		Number:    number,
		Timestamp: timestamp,
		CachedAt:  now,
	}

	p.mu.Lock()
	p.blockInfo = &info
	p.mu.Unlock()

	return info, nil
}

// GetBlockTimestamp returns the timestamp for a given block number, using cache if valid
func (p *blockProvider) GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	p.mu.RLock()
	cached := p.blockTimestamps[blockNumber]
	p.mu.RUnlock()

	now := p.clock.Now()

	// A zero TTL caches forever
	if cached != nil && (p.config.BlockTimestampTTL == 0 || now.Sub(cached.CachedAt) < p.config.BlockTimestampTTL) {
		logger.DebugCtx(ctx, "Using cached block timestamp",
			zap.Uint64("block_number", blockNumber),
			zap.Time("timestamp", cached.Timestamp))
		return cached.Timestamp, nil
	}

	logger.DebugCtx(ctx, "Fetching block timestamp from node",
		zap.Uint64("block_number", blockNumber))
	timestamp, err := p.fetcher.FetchBlockTimestamp(ctx, blockNumber)
	if err != nil {
		if cached != nil && now.Sub(cached.CachedAt) < p.config.StaleWindow {
			logger.DebugCtx(ctx, "Using stale block timestamp",
				zap.Uint64("block_number", blockNumber),
				zap.Time("timestamp", cached.Timestamp))
			return cached.Timestamp, nil
		}
		return time.Time{}, fmt.Errorf("failed to fetch block timestamp for block %d and no valid cache available: %w", blockNumber, err)
	}

	p.mu.Lock()
	if p.config.MaxCachedTimestamps > 0 && len(p.blockTimestamps) >= p.config.MaxCachedTimestamps {
		p.blockTimestamps = make(map[uint64]*BlockTimestampCache)
	}
	p.blockTimestamps[blockNumber] = &BlockTimestampCache{
		Timestamp: timestamp,
		CachedAt:  now,
	}
	p.mu.Unlock()

	return timestamp, nil
}
