package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// DEFAULT_TOKEN_DECIMALS is assumed when a token's decimals() cannot be read
	DEFAULT_TOKEN_DECIMALS uint8 = 18

	// SNAPSHOT_RETENTION is how long market-cap snapshots are kept per pool
	SNAPSHOT_RETENTION = 24 * time.Hour

	// SNAPSHOT_MAX_DIFF is the default tolerance for nearest-snapshot lookups
	SNAPSHOT_MAX_DIFF = 300 * time.Second
)

// Known token symbols
const (
	SymbolWETH    = "WETH"
	SymbolUSDC    = "USDC"
	SymbolVIRTUAL = "VIRTUAL"
)

// KnownTokens maps canonical token symbols to their addresses on Base mainnet.
// A pool side whose address appears here can be priced through the quoting service.
var KnownTokens = map[string]common.Address{
	SymbolWETH:    common.HexToAddress("0x4200000000000000000000000000000000000006"),
	SymbolUSDC:    common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"),
	SymbolVIRTUAL: common.HexToAddress("0x0b3e328455c4059EEb9e3f84b5543F74E24e7E1b"),
}

// KnownSymbol returns the canonical symbol for a known token address
func KnownSymbol(address common.Address) (string, bool) {
	for symbol, known := range KnownTokens {
		if known == address {
			return symbol, true
		}
	}
	return "", false
}

// NormalizeSymbol upper-cases a symbol for lookups in KnownTokens
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
