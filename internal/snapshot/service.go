package snapshot

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/block"
	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/history"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
	"github.com/feral-file/ff-pool-snapshot/internal/metrics"
	"github.com/feral-file/ff-pool-snapshot/internal/pricing"
	"github.com/feral-file/ff-pool-snapshot/internal/providers/ethereum"
	"github.com/feral-file/ff-pool-snapshot/internal/swaps"
	"github.com/feral-file/ff-pool-snapshot/internal/volume"
)

const (
	DEFAULT_NOMINAL_SUPPLY   = 1_000_000_000
	DEFAULT_REQUEST_TIMEOUT  = 30 * time.Second
	DEFAULT_WORKER_POOL_SIZE = 16

	// priceDivisionPrecision keeps tiny token prices representable
	priceDivisionPrecision = 36
)

var q192 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 192), 0)

// Service assembles market snapshots for AMM pools
//
//go:generate mockgen -source=service.go -destination=../mocks/snapshot_service.go -package=mocks -mock_names=Service=MockSnapshotService
type Service interface {
	// GetPoolSnapshot builds the snapshot of a pool. Only an unreadable pool state is an error;
	// every other failure is replaced by a default and listed in PoolSnapshot.Defaulted.
	GetPoolSnapshot(ctx context.Context, poolAddress string) (*PoolSnapshot, error)

	// Close stops the worker pool
	Close()
}

// Config holds configuration for the snapshot service
type Config struct {
	// NominalSupply is the fixed supply used for the headline market cap
	NominalSupply decimal.Decimal

	// RequestTimeout bounds one snapshot request, including all node calls
	RequestTimeout time.Duration

	// SnapshotMaxDiff is the tolerance for historical snapshot lookups
	SnapshotMaxDiff time.Duration

	// WorkerPoolSize bounds concurrent node reads across requests
	WorkerPoolSize int
}

// Deps are the collaborators of the snapshot service
type Deps struct {
	Chain    ethereum.EthereumClient
	Blocks   block.BlockProvider
	Resolver block.Resolver
	Swaps    swaps.Cache
	Quoter   pricing.Quoter
	History  history.Store
	Clock    adapter.Clock
}

type service struct {
	Deps
	config Config
	pool   pond.Pool
}

// NewService creates a snapshot service. Zero config values take defaults.
func NewService(deps Deps, config Config) Service {
	if config.NominalSupply.IsZero() {
		config.NominalSupply = decimal.NewFromInt(DEFAULT_NOMINAL_SUPPLY)
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DEFAULT_REQUEST_TIMEOUT
	}
	if config.SnapshotMaxDiff <= 0 {
		config.SnapshotMaxDiff = domain.SNAPSHOT_MAX_DIFF
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}

	return &service{
		Deps:   deps,
		config: config,
		pool:   pond.NewPool(config.WorkerPoolSize),
	}
}

// GetPoolSnapshot runs the snapshot pipeline for one pool
func (s *service) GetPoolSnapshot(ctx context.Context, poolAddress string) (*PoolSnapshot, error) {
	start := s.Clock.Now()
	defer func() {
		metrics.ObserveSnapshot(s.Clock.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	if !common.IsHexAddress(poolAddress) {
		metrics.IncSnapshot("fatal")
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrPoolStateUnavailable, domain.ErrInvalidPoolAddress, poolAddress)
	}

	d := &degradations{}
	poolFields := zap.String("pool", poolAddress)

	// Version and fee tier
	pool := track(ctx, d, StepPoolVersion, s.detectVersion(ctx, common.HexToAddress(poolAddress)), poolFields)

	// Core pool state; nothing downstream is computable without it
	state, err := s.Chain.PoolState(ctx, pool.Address, pool.Version)
	if err != nil {
		metrics.IncSnapshot("fatal")
		return nil, fmt.Errorf("%w: %w", domain.ErrPoolStateUnavailable, err)
	}
	pool.Token0 = state.Token0
	pool.Token1 = state.Token1

	// Token metadata for both sides, concurrently
	token0Result, token1Result := s.fetchTokens(ctx, pool)
	token0 := track(ctx, d, StepToken0Data, token0Result, poolFields)
	token1 := track(ctx, d, StepToken1Data, token1Result, poolFields)

	snapshot := &PoolSnapshot{
		Pool:   pool,
		State:  *state,
		Token0: token0,
		Token1: token1,
	}

	// Pricing
	known := track(ctx, d, StepKnownToken, identifyKnownToken(pool), poolFields)
	snapshot.KnownSymbol = known.symbol
	price0to1 := track(ctx, d, StepPoolPrice, poolPrice(pool.Version, state, token0.Decimals, token1.Decimals), poolFields)
	snapshot.Price0to1 = price0to1

	quotedUSD := decimal.Zero
	if known.symbol != "" {
		quotedUSD = track(ctx, d, StepQuotePrice, s.quote(ctx, known.symbol), poolFields, zap.String("symbol", known.symbol))
	}
	snapshot.Token0PriceUSD, snapshot.Token1PriceUSD = sidePrices(known.side, quotedUSD, price0to1)

	priced := token0
	snapshot.PriceUSD = snapshot.Token0PriceUSD
	if known.symbol != "" && known.side == 0 {
		priced = token1
		snapshot.PriceUSD = snapshot.Token1PriceUSD
	}

	// Market caps
	snapshot.MarketCap = snapshot.PriceUSD.Mul(s.config.NominalSupply).Round(2)
	snapshot.MarketCapCalculated = decimal.Zero
	if priced.TotalSupply != nil {
		supply := decimal.NewFromBigInt(priced.TotalSupply, -int32(priced.Decimals))
		snapshot.MarketCapCalculated = supply.Mul(snapshot.PriceUSD).Round(2)
	}

	// Volume over the trailing windows
	snapshot.Volume = track(ctx, d, StepVolume, s.computeVolume(ctx, pool, snapshot.Token1PriceUSD, price0to1, token0.Decimals, token1.Decimals), poolFields)

	// Liquidity held by the pool
	snapshot.Liquidity = track(ctx, d, StepLiquidity, s.computeLiquidity(ctx, pool, token0, token1, snapshot.Token0PriceUSD, snapshot.Token1PriceUSD), poolFields)

	// History and changes; only fully priced requests are recorded
	now := s.Clock.Now()
	snapshot.Timestamp = now
	snapshot.MarketCapChanges = emptyChanges()
	snapshot.PriceChanges = emptyChanges()
	if snapshot.PriceUSD.IsPositive() {
		s.History.Record(pool.Address, snapshot.MarketCap, snapshot.PriceUSD, snapshot.Volume[domain.Window1h.Label].VolumeUSD)
		s.computeChanges(snapshot, now)
	} else {
		d.add(ctx, StepHistory, fmt.Errorf("price unavailable: %w", domain.ErrZeroPrice), poolFields)
	}

	snapshot.Defaulted = d.list()
	metrics.IncSnapshot("ok")

	logger.InfoCtx(ctx, "Pool snapshot assembled",
		poolFields,
		zap.String("version", string(pool.Version)),
		zap.String("price_usd", snapshot.PriceUSD.String()),
		zap.Strings("defaulted", snapshot.Defaulted))

	return snapshot, nil
}

// detectVersion identifies v3 pools by their fee tier; anything else is the baseline version
func (s *service) detectVersion(ctx context.Context, address common.Address) Result[domain.Pool] {
	fee, err := s.Chain.PoolFee(ctx, address)
	if err != nil {
		return defaulted(domain.Pool{Address: address, Version: domain.PoolVersionV2}, err)
	}
	return succeeded(domain.Pool{Address: address, Version: domain.PoolVersionV3, Fee: &fee})
}

// fetchTokens reads both tokens' metadata on the worker pool
func (s *service) fetchTokens(ctx context.Context, pool domain.Pool) (Result[domain.TokenInfo], Result[domain.TokenInfo]) {
	var results [2]Result[domain.TokenInfo]
	tokens := [2]common.Address{pool.Token0, pool.Token1}

	tasks := make([]pond.Task, 0, len(tokens))
	for i, token := range tokens {
		tasks = append(tasks, s.pool.SubmitErr(func() error {
			info, err := s.Chain.TokenInfo(ctx, token)
			if err != nil {
				results[i] = defaulted(fallbackToken(token), err)
				return err
			}
			results[i] = succeeded(*info)
			return nil
		}))
	}
	for _, task := range tasks {
		_ = task.Wait()
	}

	return results[0], results[1]
}

func (s *service) quote(ctx context.Context, symbol string) Result[decimal.Decimal] {
	price, err := s.Quoter.QuoteUSD(ctx, symbol)
	if err != nil {
		return defaulted(decimal.Zero, err)
	}
	return succeeded(price)
}

// computeVolume fetches the widest window's swaps once and aggregates every window from it
func (s *service) computeVolume(ctx context.Context, pool domain.Pool, priceToken1USD, price0to1 decimal.Decimal, decimals0, decimals1 uint8) Result[map[string]domain.VolumeWindowResult] {
	latest, err := s.Blocks.GetLatestBlock(ctx)
	if err != nil {
		return defaulted(emptyVolume(), err)
	}

	now := s.Clock.Now()
	starts := make([]volume.WindowStart, 0, len(domain.TrailingWindows))
	earliest := latest.Number
	for _, window := range domain.TrailingWindows {
		startBlock, err := s.Resolver.ResolveBlock(ctx, now.Add(-window.Duration))
		if err != nil {
			return defaulted(emptyVolume(), fmt.Errorf("failed to resolve %s start block: %w", window.Label, err))
		}
		starts = append(starts, volume.WindowStart{Window: window, StartBlock: startBlock})
		earliest = min(earliest, startBlock)
	}

	events, err := s.Swaps.GetSwapEvents(ctx, pool, earliest, latest.Number)
	if err != nil {
		return defaulted(emptyVolume(), err)
	}

	logger.DebugCtx(ctx, "Aggregating swap volume",
		zap.String("pool", pool.Address.Hex()),
		zap.Uint64("from_block", earliest),
		zap.Uint64("to_block", latest.Number),
		zap.Int("events", len(events)))

	return succeeded(volume.ComputeWindows(events, starts, priceToken1USD, price0to1, decimals0, decimals1))
}

// computeLiquidity values the token balances held by the pool
func (s *service) computeLiquidity(ctx context.Context, pool domain.Pool, token0, token1 domain.TokenInfo, price0USD, price1USD decimal.Decimal) Result[Liquidity] {
	var balances [2]*big.Int
	var errs [2]error
	tokens := [2]common.Address{pool.Token0, pool.Token1}

	tasks := make([]pond.Task, 0, len(tokens))
	for i, token := range tokens {
		tasks = append(tasks, s.pool.SubmitErr(func() error {
			balances[i], errs[i] = s.Chain.BalanceOf(ctx, token, pool.Address)
			return errs[i]
		}))
	}
	for _, task := range tasks {
		_ = task.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return defaulted(emptyLiquidity(), err)
		}
	}

	liquidity := Liquidity{
		Token0Reserve:          balances[0],
		Token1Reserve:          balances[1],
		Token0ReserveFormatted: decimal.NewFromBigInt(balances[0], -int32(token0.Decimals)),
		Token1ReserveFormatted: decimal.NewFromBigInt(balances[1], -int32(token1.Decimals)),
	}
	liquidity.Token0ValueUSD = liquidity.Token0ReserveFormatted.Mul(price0USD).Round(2)
	liquidity.Token1ValueUSD = liquidity.Token1ReserveFormatted.Mul(price1USD).Round(2)
	liquidity.TotalValueUSD = liquidity.Token0ValueUSD.Add(liquidity.Token1ValueUSD)

	return succeeded(liquidity)
}

// computeChanges diffs the current figures against snapshots near each window start
func (s *service) computeChanges(snapshot *PoolSnapshot, now time.Time) {
	for _, window := range domain.TrailingWindows {
		previous, ok := s.History.Nearest(snapshot.Pool.Address, now.Add(-window.Duration), s.config.SnapshotMaxDiff)
		if !ok {
			continue
		}

		marketCapChange := history.PercentChange(snapshot.MarketCap, previous.MarketCap)
		priceChange := history.PercentChange(snapshot.PriceUSD, previous.Price)
		snapshot.MarketCapChanges[window.Label] = &marketCapChange
		snapshot.PriceChanges[window.Label] = &priceChange
	}
}

// Close stops the worker pool and waits for running reads
func (s *service) Close() {
	s.pool.StopAndWait()
}

type knownToken struct {
	symbol string
	side   int
}

// identifyKnownToken picks the pool side that can be quoted. A stablecoin side wins,
// then token1, then token0.
func identifyKnownToken(pool domain.Pool) Result[knownToken] {
	symbol0, known0 := domain.KnownSymbol(pool.Token0)
	symbol1, known1 := domain.KnownSymbol(pool.Token1)

	switch {
	case known0 && symbol0 == domain.SymbolUSDC:
		return succeeded(knownToken{symbol: symbol0, side: 0})
	case known1:
		return succeeded(knownToken{symbol: symbol1, side: 1})
	case known0:
		return succeeded(knownToken{symbol: symbol0, side: 0})
	default:
		return defaulted(knownToken{}, fmt.Errorf("%w: %s/%s", domain.ErrNoKnownToken, pool.Token0.Hex(), pool.Token1.Hex()))
	}
}

// poolPrice returns the decimals-adjusted price of token0 denominated in token1
func poolPrice(version domain.PoolVersion, state *domain.PoolState, decimals0, decimals1 uint8) Result[decimal.Decimal] {
	shift := int32(decimals0) - int32(decimals1)

	switch version {
	case domain.PoolVersionV3:
		if state.SqrtPriceX96 == nil || state.SqrtPriceX96.Sign() == 0 {
			return defaulted(decimal.Zero, fmt.Errorf("sqrtPriceX96: %w", domain.ErrZeroPrice))
		}
		squared := new(big.Int).Mul(state.SqrtPriceX96, state.SqrtPriceX96)
		raw := decimal.NewFromBigInt(squared, 0).DivRound(q192, priceDivisionPrecision)
		return succeeded(raw.Shift(shift))
	default:
		if state.Reserve0 == nil || state.Reserve1 == nil || state.Reserve0.Sign() == 0 {
			return defaulted(decimal.Zero, fmt.Errorf("reserve0: %w", domain.ErrZeroPrice))
		}
		raw := decimal.NewFromBigInt(state.Reserve1, 0).DivRound(decimal.NewFromBigInt(state.Reserve0, 0), priceDivisionPrecision)
		return succeeded(raw.Shift(shift))
	}
}

// sidePrices derives both tokens' USD prices from the quoted side and the pool rate
func sidePrices(knownSide int, quotedUSD, price0to1 decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if knownSide == 1 {
		return price0to1.Mul(quotedUSD), quotedUSD
	}
	if price0to1.IsZero() {
		return quotedUSD, decimal.Zero
	}
	return quotedUSD, quotedUSD.DivRound(price0to1, priceDivisionPrecision)
}

func fallbackToken(address common.Address) domain.TokenInfo {
	return domain.TokenInfo{
		Address:     address,
		Decimals:    domain.DEFAULT_TOKEN_DECIMALS,
		TotalSupply: big.NewInt(0),
	}
}

func emptyVolume() map[string]domain.VolumeWindowResult {
	results := make(map[string]domain.VolumeWindowResult, len(domain.TrailingWindows))
	for _, window := range domain.TrailingWindows {
		results[window.Label] = domain.VolumeWindowResult{VolumeUSD: decimal.Zero}
	}
	return results
}

func emptyLiquidity() Liquidity {
	return Liquidity{
		Token0Reserve: big.NewInt(0),
		Token1Reserve: big.NewInt(0),
	}
}

func emptyChanges() map[string]*decimal.Decimal {
	changes := make(map[string]*decimal.Decimal, len(domain.TrailingWindows))
	for _, window := range domain.TrailingWindows {
		changes[window.Label] = nil
	}
	return changes
}
