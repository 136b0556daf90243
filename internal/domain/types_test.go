package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestIsValidChain(t *testing.T) {
	tests := []struct {
		name     string
		chain    Chain
		expected bool
	}{
		{
			name:     "valid ethereum mainnet",
			chain:    ChainEthereumMainnet,
			expected: true,
		},
		{
			name:     "valid base mainnet",
			chain:    ChainBaseMainnet,
			expected: true,
		},
		{
			name:     "valid base sepolia",
			chain:    ChainBaseSepolia,
			expected: true,
		},
		{
			name:     "invalid chain",
			chain:    Chain("eip155:999"),
			expected: false,
		},
		{
			name:     "empty chain",
			chain:    Chain(""),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidChain(tt.chain))
		})
	}
}

func TestKnownSymbol(t *testing.T) {
	for symbol, address := range KnownTokens {
		got, ok := KnownSymbol(address)
		assert.True(t, ok, symbol)
		assert.Equal(t, symbol, got)
	}

	// Lookups are by address value regardless of input casing
	got, ok := KnownSymbol(common.HexToAddress("0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"))
	assert.True(t, ok)
	assert.Equal(t, SymbolUSDC, got)

	_, ok = KnownSymbol(common.Address{})
	assert.False(t, ok)
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "WETH", NormalizeSymbol(" weth "))
	assert.Equal(t, "VIRTUAL", NormalizeSymbol("Virtual"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestSwapLog_Block(t *testing.T) {
	logs := []SwapLog{
		RawLog{BlockNumber: 10},
		DecodedSwap{BlockNumber: 20, Amount0: big.NewInt(1), Amount1: big.NewInt(-1)},
	}

	assert.Equal(t, uint64(10), logs[0].Block())
	assert.Equal(t, uint64(20), logs[1].Block())
}

func TestTrailingWindows(t *testing.T) {
	labels := make([]string, 0, len(TrailingWindows))
	for i, window := range TrailingWindows {
		labels = append(labels, window.Label)
		if i > 0 {
			assert.Greater(t, window.Duration, TrailingWindows[i-1].Duration)
		}
	}
	assert.Equal(t, []string{"15m", "1h", "6h"}, labels)
}
