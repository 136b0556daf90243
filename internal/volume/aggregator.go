package volume

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-pool-snapshot/internal/domain"
)

var two = decimal.NewFromInt(2)

// WindowStart pairs a trailing window with the first block inside it
type WindowStart struct {
	Window     domain.Window
	StartBlock uint64
}

// Compute aggregates USD volume and transaction count over a set of swaps.
//
// Each swap is valued from both legs and the sum is halved, since the two legs
// describe the same transfer. This is a modeling convention, not a proven identity
// for every pool version. The total is rounded to 2 decimals once, at the end.
func Compute(events []domain.SwapLog, priceToken1USD, price0to1 decimal.Decimal, decimals0, decimals1 uint8) domain.VolumeWindowResult {
	total := decimal.Zero
	txHashes := make(map[common.Hash]struct{})

	for _, event := range events {
		swap, ok := event.(domain.DecodedSwap)
		if !ok {
			continue
		}

		amount0 := scaled(swap.Amount0, decimals0)
		amount1 := scaled(swap.Amount1, decimals1)

		usd0 := amount0.Mul(price0to1).Mul(priceToken1USD)
		usd1 := amount1.Mul(priceToken1USD)

		total = total.Add(usd0.Abs().Add(usd1.Abs()).Div(two))

		if swap.TxHash != (common.Hash{}) {
			txHashes[swap.TxHash] = struct{}{}
		}
	}

	count := len(txHashes)
	if count == 0 {
		count = len(events)
	}

	return domain.VolumeWindowResult{
		VolumeUSD:        total.Round(2),
		TransactionCount: count,
	}
}

// ComputeWindows aggregates each window over the subset of events at or after its start block.
// All windows share the same event slice; no additional chain queries are made.
func ComputeWindows(events []domain.SwapLog, windows []WindowStart, priceToken1USD, price0to1 decimal.Decimal, decimals0, decimals1 uint8) map[string]domain.VolumeWindowResult {
	results := make(map[string]domain.VolumeWindowResult, len(windows))
	for _, w := range windows {
		results[w.Window.Label] = Compute(FilterFromBlock(events, w.StartBlock), priceToken1USD, price0to1, decimals0, decimals1)
	}
	return results
}

// FilterFromBlock returns the events with block number >= startBlock
func FilterFromBlock(events []domain.SwapLog, startBlock uint64) []domain.SwapLog {
	filtered := make([]domain.SwapLog, 0, len(events))
	for _, event := range events {
		if event.Block() >= startBlock {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// scaled returns |amount| * 10^-decimals; a nil amount is zero
func scaled(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Abs(amount), -int32(decimals))
}
