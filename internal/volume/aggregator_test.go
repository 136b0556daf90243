package volume_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/volume"
)

func tokens(whole int64, decimals uint8) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
}

func decodedSwap(block uint64, tx string, amount0, amount1 *big.Int) domain.DecodedSwap {
	return domain.DecodedSwap{
		BlockNumber: block,
		TxHash:      common.HexToHash(tx),
		Amount0:     amount0,
		Amount1:     amount1,
	}
}

func TestCompute_Empty(t *testing.T) {
	result := volume.Compute(nil, decimal.NewFromInt(1), decimal.NewFromInt(2000), 18, 6)

	assert.True(t, result.VolumeUSD.IsZero())
	assert.Equal(t, 0, result.TransactionCount)
}

func TestCompute_SingleLegSwap(t *testing.T) {
	events := []domain.SwapLog{
		decodedSwap(10, "0xa", tokens(100, 18), big.NewInt(0)),
	}

	result := volume.Compute(events, decimal.NewFromInt(1), decimal.NewFromInt(2000), 18, 6)

	assert.True(t, result.VolumeUSD.Equal(decimal.RequireFromString("100000.00")))
	assert.Equal(t, 1, result.TransactionCount)
}

func TestCompute_BothLegsAreHalved(t *testing.T) {
	// 1 WETH in for 2000 USDC out at 2000 USDC/WETH
	events := []domain.SwapLog{
		decodedSwap(10, "0xa", tokens(1, 18), new(big.Int).Neg(tokens(2000, 6))),
	}

	result := volume.Compute(events, decimal.NewFromInt(1), decimal.NewFromInt(2000), 18, 6)

	assert.True(t, result.VolumeUSD.Equal(decimal.NewFromInt(2000)), result.VolumeUSD.String())
}

func TestCompute_RoundsOnceAtEnd(t *testing.T) {
	// Three swaps of 0.004 USD each: rounding per event would give 0.00
	events := []domain.SwapLog{
		decodedSwap(1, "0xa", big.NewInt(0), big.NewInt(8_000)),
		decodedSwap(2, "0xb", big.NewInt(0), big.NewInt(8_000)),
		decodedSwap(3, "0xc", big.NewInt(0), big.NewInt(8_000)),
	}

	result := volume.Compute(events, decimal.NewFromInt(1), decimal.Zero, 18, 6)

	assert.Equal(t, "0.01", result.VolumeUSD.StringFixed(2))
}

func TestCompute_SkipsRawLogsAndNilAmounts(t *testing.T) {
	events := []domain.SwapLog{
		domain.RawLog{BlockNumber: 1, TxHash: common.HexToHash("0xa"), Data: []byte{0x01}},
		decodedSwap(2, "0xb", nil, tokens(10, 6)),
	}

	result := volume.Compute(events, decimal.NewFromInt(1), decimal.NewFromInt(2000), 18, 6)

	assert.True(t, result.VolumeUSD.Equal(decimal.NewFromInt(5)), result.VolumeUSD.String())
	assert.Equal(t, 1, result.TransactionCount)
}

func TestCompute_CountsDistinctTransactions(t *testing.T) {
	events := []domain.SwapLog{
		decodedSwap(1, "0xa", tokens(1, 18), big.NewInt(0)),
		decodedSwap(1, "0xa", tokens(1, 18), big.NewInt(0)),
		decodedSwap(2, "0xb", tokens(1, 18), big.NewInt(0)),
	}

	result := volume.Compute(events, decimal.NewFromInt(1), decimal.NewFromInt(10), 18, 6)

	assert.Equal(t, 2, result.TransactionCount)
}

func TestCompute_NoHashes_CountsEvents(t *testing.T) {
	events := []domain.SwapLog{
		domain.DecodedSwap{BlockNumber: 1, Amount0: big.NewInt(0), Amount1: big.NewInt(0)},
		domain.DecodedSwap{BlockNumber: 2, Amount0: big.NewInt(0), Amount1: big.NewInt(0)},
		domain.RawLog{BlockNumber: 3},
	}

	result := volume.Compute(events, decimal.NewFromInt(1), decimal.NewFromInt(1), 18, 18)

	assert.Equal(t, 3, result.TransactionCount)
}

func TestCompute_OrderInvariant(t *testing.T) {
	events := make([]domain.SwapLog, 0, 50)
	for i := range 50 {
		amount0 := big.NewInt(int64(i*i+1) * 1_000_003)
		amount1 := big.NewInt(-int64(i+7) * 997)
		events = append(events, decodedSwap(uint64(i), common.BigToHash(big.NewInt(int64(i%17+1))).Hex(), amount0, amount1)) //nolint:gosec,G115
	}

	price1 := decimal.RequireFromString("1.0003")
	price01 := decimal.RequireFromString("3127.123456789")
	expected := volume.Compute(events, price1, price01, 12, 6)

	rng := rand.New(rand.NewSource(42)) //nolint:gosec,G404
	for range 20 {
		shuffled := make([]domain.SwapLog, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := volume.Compute(shuffled, price1, price01, 12, 6)
		assert.True(t, expected.VolumeUSD.Equal(got.VolumeUSD), "%s != %s", expected.VolumeUSD, got.VolumeUSD)
		assert.Equal(t, expected.TransactionCount, got.TransactionCount)
	}
}

func TestComputeWindows_FiltersByStartBlock(t *testing.T) {
	events := []domain.SwapLog{
		decodedSwap(100, "0xa", big.NewInt(0), tokens(2, 6)),
		decodedSwap(500, "0xb", big.NewInt(0), tokens(4, 6)),
		decodedSwap(900, "0xc", big.NewInt(0), tokens(8, 6)),
	}
	windows := []volume.WindowStart{
		{Window: domain.Window15m, StartBlock: 800},
		{Window: domain.Window1h, StartBlock: 500},
		{Window: domain.Window6h, StartBlock: 1},
	}

	results := volume.ComputeWindows(events, windows, decimal.NewFromInt(1), decimal.Zero, 18, 6)
	require.Len(t, results, 3)

	assert.True(t, results["15m"].VolumeUSD.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, 1, results["15m"].TransactionCount)
	assert.True(t, results["1h"].VolumeUSD.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 2, results["1h"].TransactionCount)
	assert.True(t, results["6h"].VolumeUSD.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 3, results["6h"].TransactionCount)
}

func TestFilterFromBlock(t *testing.T) {
	events := []domain.SwapLog{
		domain.RawLog{BlockNumber: 5},
		decodedSwap(10, "0xa", nil, nil),
		decodedSwap(15, "0xb", nil, nil),
	}

	assert.Len(t, volume.FilterFromBlock(events, 10), 2)
	assert.Len(t, volume.FilterFromBlock(events, 16), 0)
	assert.Len(t, volume.FilterFromBlock(events, 0), 3)
}
