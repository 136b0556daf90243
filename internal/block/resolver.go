package block

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
)

const (
	DEFAULT_AVERAGE_BLOCK_TIME = 2 * time.Second
	DEFAULT_SEARCH_TOLERANCE   = 60 * time.Second
	DEFAULT_MAX_ITERATIONS     = 20
)

// Resolver converts wall-clock timestamps into block numbers
//
//go:generate mockgen -source=resolver.go -destination=../mocks/block_resolver.go -package=mocks -mock_names=Resolver=MockBlockResolver
type Resolver interface {
	// ResolveBlock returns the block closest to target within the search bounds
	ResolveBlock(ctx context.Context, target time.Time) (uint64, error)
}

// ResolverConfig holds configuration for the Resolver
type ResolverConfig struct {
	// AverageBlockTime is used to estimate how far back to start searching
	AverageBlockTime time.Duration

	// Tolerance is the timestamp distance accepted as a hit
	Tolerance time.Duration

	// MaxIterations caps the binary search
	MaxIterations int
}

type resolver struct {
	provider BlockProvider
	config   ResolverConfig
}

// NewResolver creates a Resolver backed by a BlockProvider. Zero config values take defaults.
func NewResolver(provider BlockProvider, config ResolverConfig) Resolver {
	if config.AverageBlockTime <= 0 {
		config.AverageBlockTime = DEFAULT_AVERAGE_BLOCK_TIME
	}
	if config.Tolerance <= 0 {
		config.Tolerance = DEFAULT_SEARCH_TOLERANCE
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = DEFAULT_MAX_ITERATIONS
	}
	return &resolver{provider: provider, config: config}
}

// ResolveBlock runs a bounded binary search for the block whose timestamp is closest to target.
// Targets at or after the chain head resolve to the head without searching.
func (r *resolver) ResolveBlock(ctx context.Context, target time.Time) (uint64, error) {
	latest, err := r.provider.GetLatestBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}

	if !target.Before(latest.Timestamp) {
		return latest.Number, nil
	}

	gap := latest.Timestamp.Sub(target)

	// Twice the estimate leaves room for blocks slower than average
	blocksBack := max(uint64(gap/r.config.AverageBlockTime)*2, 1) //nolint:gosec,G115
	low := uint64(1)
	if latest.Number > blocksBack {
		low = latest.Number - blocksBack
	}
	high := latest.Number

	best, bestDiff := latest.Number, gap
	readable := false

	for i := 0; i < r.config.MaxIterations && low <= high; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		mid := low + (high-low)/2
		ts, err := r.provider.GetBlockTimestamp(ctx, mid)
		if err != nil {
			// Treat an unreadable block as not produced yet
			logger.DebugCtx(ctx, "Block unreadable during search, shrinking upper bound",
				zap.Uint64("block_number", mid),
				zap.Error(err))
			high = mid - 1
			continue
		}
		readable = true

		diff := ts.Sub(target).Abs()
		if diff < bestDiff {
			best, bestDiff = mid, diff
		}
		if diff <= r.config.Tolerance {
			return mid, nil
		}

		if ts.Before(target) {
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	if !readable {
		return 0, fmt.Errorf("no block readable in [%d, %d]: %w", low, latest.Number, domain.ErrBlockSearchExhausted)
	}

	return best, nil
}
