package pricing

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
)

const quoterV2ABIJSON = `[
	{"inputs":[{"name":"path","type":"bytes"},{"name":"amountIn","type":"uint256"}],"name":"quoteExactInput","outputs":[
		{"name":"amountOut","type":"uint256"},
		{"name":"sqrtPriceX96AfterList","type":"uint160[]"},
		{"name":"initializedTicksCrossedList","type":"uint32[]"},
		{"name":"gasEstimate","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}
]`

var quoterV2ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(quoterV2ABIJSON))
	if err != nil {
		panic(err)
	}
	quoterV2ABI = parsed
}

// Quoter returns USD prices for known token symbols
//
//go:generate mockgen -source=quoter.go -destination=../mocks/quoter.go -package=mocks -mock_names=Quoter=MockQuoter
type Quoter interface {
	// QuoteUSD returns the USD price of one whole token
	QuoteUSD(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// RouteQuoter quotes arbitrary routes in addition to known symbols
type RouteQuoter interface {
	Quoter

	// Quote simulates swapping amountIn whole tokens along route and returns the output in whole tokens
	Quote(ctx context.Context, route Route, amountIn decimal.Decimal) (decimal.Decimal, error)
}

// Route is a multi-hop swap path ending in a USD stablecoin
type Route struct {
	Tokens      []common.Address
	Fees        []uint32
	DecimalsIn  uint8
	DecimalsOut uint8
}

// Validate checks the route is a well-formed path
func (r Route) Validate() error {
	if len(r.Tokens) < 2 {
		return fmt.Errorf("route needs at least two tokens, got %d", len(r.Tokens))
	}
	if len(r.Fees) != len(r.Tokens)-1 {
		return fmt.Errorf("route with %d tokens needs %d fees, got %d", len(r.Tokens), len(r.Tokens)-1, len(r.Fees))
	}
	return nil
}

// EncodePath encodes the route as token(20) | fee(3) | token(20) | ...
func (r Route) EncodePath() []byte {
	path := make([]byte, 0, len(r.Tokens)*20+len(r.Fees)*3)
	for i, token := range r.Tokens {
		path = append(path, token.Bytes()...)
		if i < len(r.Fees) {
			var fee [4]byte
			binary.BigEndian.PutUint32(fee[:], r.Fees[i])
			path = append(path, fee[1:]...)
		}
	}
	return path
}

// DefaultRoutes returns the Base mainnet routes to USDC
func DefaultRoutes() map[string]Route {
	weth := domain.KnownTokens[domain.SymbolWETH]
	usdc := domain.KnownTokens[domain.SymbolUSDC]
	virtual := domain.KnownTokens[domain.SymbolVIRTUAL]

	return map[string]Route{
		domain.SymbolWETH: {
			Tokens:      []common.Address{weth, usdc},
			Fees:        []uint32{500},
			DecimalsIn:  18,
			DecimalsOut: 6,
		},
		domain.SymbolVIRTUAL: {
			Tokens:      []common.Address{virtual, weth, usdc},
			Fees:        []uint32{3000, 500},
			DecimalsIn:  18,
			DecimalsOut: 6,
		},
	}
}

// onchainQuoter simulates swaps through a Uniswap v3 QuoterV2 contract
type onchainQuoter struct {
	client      adapter.EthClient
	quoter      common.Address
	routes      map[string]Route
	stableToken string
}

// NewOnchainQuoter creates a Quoter backed by a QuoterV2 contract.
// The stable token symbol is priced at exactly 1 USD without a call.
func NewOnchainQuoter(client adapter.EthClient, quoter common.Address, routes map[string]Route) RouteQuoter {
	normalized := make(map[string]Route, len(routes))
	for symbol, route := range routes {
		normalized[domain.NormalizeSymbol(symbol)] = route
	}
	return &onchainQuoter{
		client:      client,
		quoter:      quoter,
		routes:      normalized,
		stableToken: domain.SymbolUSDC,
	}
}

func (q *onchainQuoter) QuoteUSD(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == q.stableToken {
		return decimal.NewFromInt(1), nil
	}

	route, ok := q.routes[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", symbol, domain.ErrUnknownRoute)
	}

	return q.Quote(ctx, route, decimal.NewFromInt(1))
}

func (q *onchainQuoter) Quote(ctx context.Context, route Route, amountIn decimal.Decimal) (decimal.Decimal, error) {
	if err := route.Validate(); err != nil {
		return decimal.Zero, err
	}

	rawIn := amountIn.Shift(int32(route.DecimalsIn)).BigInt()
	data, err := quoterV2ABI.Pack("quoteExactInput", route.EncodePath(), rawIn)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to pack quoteExactInput: %w", err)
	}

	result, err := q.client.CallContract(ctx, ethereum.CallMsg{
		To:   &q.quoter,
		Data: data,
	}, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to call quoter: %w", err)
	}

	out, err := quoterV2ABI.Unpack("quoteExactInput", result)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to unpack quote: %w", err)
	}

	amountOut, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected quote output %v", out[0])
	}

	price := decimal.NewFromBigInt(amountOut, -int32(route.DecimalsOut))
	logger.DebugCtx(ctx, "Quoted route",
		zap.Int("hops", len(route.Fees)),
		zap.String("amount_in", amountIn.String()),
		zap.String("amount_out", price.String()))

	return price, nil
}
