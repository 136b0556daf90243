package dto

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/snapshot"
)

const SnapshotMessage = "Pool data retrieved successfully"

// PoolSnapshotResponse is the body of GET /pool-snapshot
type PoolSnapshotResponse struct {
	Message     string             `json:"message"`
	PoolAddress string             `json:"poolAddress"`
	PoolVersion domain.PoolVersion `json:"poolVersion"`
	Fee         *uint32            `json:"fee,omitempty"`

	// v3 state
	SqrtPriceX96 *string `json:"sqrtPriceX96,omitempty"`
	Tick         *string `json:"tick,omitempty"`
	Liquidity    *string `json:"liquidity,omitempty"`

	// v2 state
	Reserve0 *string `json:"reserve0,omitempty"`
	Reserve1 *string `json:"reserve1,omitempty"`

	Token0Data TokenData  `json:"token0Data"`
	Token1Data TokenData  `json:"token1Data"`
	MarketData MarketData `json:"marketData"`

	Timestamp          int64    `json:"timestamp"`
	TimestampFormatted string   `json:"timestampFormatted"`
	Defaulted          []string `json:"defaulted"`
}

// TokenData is one side of the pool
type TokenData struct {
	Address     string          `json:"address"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	TotalSupply string          `json:"totalSupply"`
	PriceUSD    decimal.Decimal `json:"priceUsd"`
}

// MarketData holds the USD figures of the priced token
type MarketData struct {
	KnownSymbol         string                      `json:"knownSymbol,omitempty"`
	Price0to1           decimal.Decimal             `json:"price0to1"`
	PriceUSD            decimal.Decimal             `json:"priceUsd"`
	MarketCap           decimal.Decimal             `json:"marketCap"`
	MarketCapCalculated decimal.Decimal             `json:"marketCapCalculated"`
	MarketCapChanges    map[string]*decimal.Decimal `json:"marketCapChanges"`
	PriceChanges        map[string]*decimal.Decimal `json:"priceChanges"`
	Volume              map[string]VolumeData       `json:"volume"`
	Liquidity           LiquidityData               `json:"liquidity"`
}

// VolumeData is the volume over one trailing window
type VolumeData struct {
	VolumeInUSDC     decimal.Decimal `json:"volumeInUsdc"`
	TransactionCount int             `json:"transactionCount"`
}

// LiquidityData is the pool's holdings of each token
type LiquidityData struct {
	Token0Reserve          string          `json:"token0Reserve"`
	Token1Reserve          string          `json:"token1Reserve"`
	Token0ReserveFormatted decimal.Decimal `json:"token0ReserveFormatted"`
	Token1ReserveFormatted decimal.Decimal `json:"token1ReserveFormatted"`
	Token0ValueUSDC        decimal.Decimal `json:"token0ValueUSDC"`
	Token1ValueUSDC        decimal.Decimal `json:"token1ValueUSDC"`
	TotalLiquidityUSDC     decimal.Decimal `json:"totalLiquidityUSDC"`
}

// MapPoolSnapshotToDTO maps a snapshot to its response body
func MapPoolSnapshotToDTO(s *snapshot.PoolSnapshot) PoolSnapshotResponse {
	resp := PoolSnapshotResponse{
		Message:            SnapshotMessage,
		PoolAddress:        s.Pool.Address.Hex(),
		PoolVersion:        s.Pool.Version,
		Fee:                s.Pool.Fee,
		Token0Data:         mapToken(s.Token0, s.Token0PriceUSD),
		Token1Data:         mapToken(s.Token1, s.Token1PriceUSD),
		Timestamp:          s.Timestamp.Unix(),
		TimestampFormatted: s.Timestamp.UTC().Format(time.RFC3339),
		Defaulted:          s.Defaulted,
		MarketData: MarketData{
			KnownSymbol:         s.KnownSymbol,
			Price0to1:           s.Price0to1,
			PriceUSD:            s.PriceUSD,
			MarketCap:           s.MarketCap,
			MarketCapCalculated: s.MarketCapCalculated,
			MarketCapChanges:    s.MarketCapChanges,
			PriceChanges:        s.PriceChanges,
			Volume:              make(map[string]VolumeData, len(s.Volume)),
			Liquidity: LiquidityData{
				Token0Reserve:          bigString(s.Liquidity.Token0Reserve),
				Token1Reserve:          bigString(s.Liquidity.Token1Reserve),
				Token0ReserveFormatted: s.Liquidity.Token0ReserveFormatted,
				Token1ReserveFormatted: s.Liquidity.Token1ReserveFormatted,
				Token0ValueUSDC:        s.Liquidity.Token0ValueUSD,
				Token1ValueUSDC:        s.Liquidity.Token1ValueUSD,
				TotalLiquidityUSDC:     s.Liquidity.TotalValueUSD,
			},
		},
	}
	if resp.Defaulted == nil {
		resp.Defaulted = []string{}
	}

	for label, v := range s.Volume {
		resp.MarketData.Volume[label] = VolumeData{
			VolumeInUSDC:     v.VolumeUSD,
			TransactionCount: v.TransactionCount,
		}
	}

	switch s.Pool.Version {
	case domain.PoolVersionV3:
		resp.SqrtPriceX96 = optionalBig(s.State.SqrtPriceX96)
		resp.Tick = optionalBig(s.State.Tick)
		resp.Liquidity = optionalBig(s.State.Liquidity)
	default:
		resp.Reserve0 = optionalBig(s.State.Reserve0)
		resp.Reserve1 = optionalBig(s.State.Reserve1)
	}

	return resp
}

func mapToken(t domain.TokenInfo, priceUSD decimal.Decimal) TokenData {
	return TokenData{
		Address:     t.Address.Hex(),
		Name:        t.Name,
		Symbol:      t.Symbol,
		Decimals:    t.Decimals,
		TotalSupply: bigString(t.TotalSupply),
		PriceUSD:    priceUSD,
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func optionalBig(v *big.Int) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
