package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainBaseMainnet     Chain = "eip155:8453"
	ChainBaseSepolia     Chain = "eip155:84532"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet ||
		chain == ChainBaseMainnet ||
		chain == ChainBaseSepolia
}

// PoolVersion identifies the AMM contract family of a pool
type PoolVersion string

const (
	// PoolVersionV2 is the baseline constant-product pair (getReserves)
	PoolVersionV2 PoolVersion = "v2"
	// PoolVersionV3 is the concentrated-liquidity pool (slot0, fee tier)
	PoolVersionV3 PoolVersion = "v3"
)

// Pool represents an AMM pair contract
type Pool struct {
	Address common.Address
	Token0  common.Address
	Token1  common.Address
	Fee     *uint32 // fee tier in hundredths of a bip, only set for v3 pools
	Version PoolVersion
}

// PoolState holds the version-specific raw state read from a pool contract
type PoolState struct {
	Token0 common.Address
	Token1 common.Address

	// v3 fields
	SqrtPriceX96 *big.Int
	Tick         *big.Int
	Liquidity    *big.Int

	// v2 fields
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// TokenInfo represents ERC-20 metadata for one side of a pool
type TokenInfo struct {
	Address     common.Address
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
}

// SwapLog is a swap log retrieved from the chain. It is either a RawLog that
// could not be decoded or a DecodedSwap carrying the signed token deltas.
type SwapLog interface {
	// Block returns the block number the log was mined in
	Block() uint64

	swapLog()
}

// RawLog is a swap-topic log whose data could not be decoded
type RawLog struct {
	BlockNumber uint64
	TxHash      common.Hash
	Data        []byte
}

func (l RawLog) Block() uint64 { return l.BlockNumber }
func (RawLog) swapLog()        {}

// DecodedSwap is a decoded swap with signed token deltas from the pool's perspective
type DecodedSwap struct {
	BlockNumber uint64
	TxHash      common.Hash
	Amount0     *big.Int
	Amount1     *big.Int
}

func (s DecodedSwap) Block() uint64 { return s.BlockNumber }
func (DecodedSwap) swapLog()        {}

// Window is a trailing time window used for volume and change figures
type Window struct {
	Label    string
	Duration time.Duration
}

var (
	Window15m = Window{Label: "15m", Duration: 15 * time.Minute}
	Window1h  = Window{Label: "1h", Duration: time.Hour}
	Window6h  = Window{Label: "6h", Duration: 6 * time.Hour}

	// TrailingWindows lists the windows reported in a snapshot, shortest first
	TrailingWindows = []Window{Window15m, Window1h, Window6h}
)

// VolumeWindowResult is the aggregated volume for one trailing period
type VolumeWindowResult struct {
	VolumeUSD        decimal.Decimal
	TransactionCount int
}

// MarketCapSnapshot is one historical observation for a pool
type MarketCapSnapshot struct {
	PoolAddress common.Address
	Timestamp   int64 // unix seconds
	MarketCap   decimal.Decimal
	Price       decimal.Decimal
	Volume      decimal.Decimal
}
