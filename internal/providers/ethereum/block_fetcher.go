package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/block"
)

// ethereumBlockFetcher implements block.BlockFetcher for EVM chains
type ethereumBlockFetcher struct {
	client adapter.EthClient
}

func NewBlockFetcher(client adapter.EthClient) block.BlockFetcher {
	return &ethereumBlockFetcher{client: client}
}

// FetchLatestBlock fetches the latest block number and its timestamp
func (f *ethereumBlockFetcher) FetchLatestBlock(ctx context.Context) (uint64, time.Time, error) {
	header, err := f.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), time.Unix(int64(header.Time), 0), nil //nolint:gosec,G115
}

// FetchBlockTimestamp fetches the timestamp for a given block number
func (f *ethereumBlockFetcher) FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := f.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get block %d: %w", blockNumber, err)
	}
	if header == nil {
		return time.Time{}, fmt.Errorf("block %d not found", blockNumber)
	}
	return time.Unix(int64(header.Time), 0), nil //nolint:gosec,G115
}
