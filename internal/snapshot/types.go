package snapshot

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-pool-snapshot/internal/domain"
)

// PoolSnapshot is the assembled market view of one pool at one point in time
type PoolSnapshot struct {
	Pool   domain.Pool
	State  domain.PoolState
	Token0 domain.TokenInfo
	Token1 domain.TokenInfo

	// KnownSymbol is the quotable side's symbol, empty when neither side is known
	KnownSymbol string

	// Price0to1 is the decimals-adjusted price of token0 in units of token1
	Price0to1      decimal.Decimal
	Token0PriceUSD decimal.Decimal
	Token1PriceUSD decimal.Decimal

	// PriceUSD is the USD price of the priced (non-quotable) token
	PriceUSD            decimal.Decimal
	MarketCap           decimal.Decimal
	MarketCapCalculated decimal.Decimal

	// Changes are keyed by window label; nil when no snapshot is close enough
	MarketCapChanges map[string]*decimal.Decimal
	PriceChanges     map[string]*decimal.Decimal

	Volume    map[string]domain.VolumeWindowResult
	Liquidity Liquidity

	Timestamp time.Time
	Defaulted []string
}

// Liquidity is the pool's token holdings and their USD value
type Liquidity struct {
	Token0Reserve          *big.Int
	Token1Reserve          *big.Int
	Token0ReserveFormatted decimal.Decimal
	Token1ReserveFormatted decimal.Decimal
	Token0ValueUSD         decimal.Decimal
	Token1ValueUSD         decimal.Decimal
	TotalValueUSD          decimal.Decimal
}
