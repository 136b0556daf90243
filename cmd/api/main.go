package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/api/server"
	"github.com/feral-file/ff-pool-snapshot/internal/block"
	"github.com/feral-file/ff-pool-snapshot/internal/config"
	"github.com/feral-file/ff-pool-snapshot/internal/history"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
	"github.com/feral-file/ff-pool-snapshot/internal/metrics"
	"github.com/feral-file/ff-pool-snapshot/internal/pricing"
	"github.com/feral-file/ff-pool-snapshot/internal/providers/ethereum"
	"github.com/feral-file/ff-pool-snapshot/internal/ratelimit"
	"github.com/feral-file/ff-pool-snapshot/internal/snapshot"
	"github.com/feral-file/ff-pool-snapshot/internal/swaps"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "pool-snapshot-api",
			"chain":   string(cfg.Ethereum.ChainID),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting pool snapshot API")

	metrics.MustRegister()

	// Connect to the chain node
	rpcClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err))
	}
	ethClient := ratelimit.NewEthClient(rpcClient, ratelimit.Config{
		RequestsPerSecond: cfg.Ethereum.RequestsPerSecond,
		Burst:             cfg.Ethereum.RequestBurst,
	})
	chainClient := ethereum.NewClient(ethClient)
	defer chainClient.Close()
	logger.InfoCtx(ctx, "Connected to Ethereum RPC", zap.String("chain_id", string(cfg.Ethereum.ChainID)))

	clock := adapter.NewClock()

	// Block timestamps
	blockProvider := block.NewBlockProvider(
		ethereum.NewBlockFetcher(ethClient),
		block.Config{
			TTL:                 cfg.Ethereum.BlockHeadTTL,
			StaleWindow:         cfg.Ethereum.BlockHeadStaleWindow,
			BlockTimestampTTL:   cfg.Ethereum.BlockTimestampTTL,
			MaxCachedTimestamps: 100_000,
		},
		clock,
	)
	resolver := block.NewResolver(blockProvider, block.ResolverConfig{
		AverageBlockTime: cfg.Ethereum.AverageBlockTime,
	})

	// Swap events and history
	swapCache := swaps.NewCache(chainClient, swaps.Config{
		TTL:            cfg.SwapCache.TTL,
		ChunkSize:      cfg.SwapCache.ChunkSize,
		ChunkPause:     cfg.SwapCache.ChunkPause,
		FallbackWindow: cfg.SwapCache.FallbackWindow,
	}, clock)
	historyStore := history.NewStore(clock, cfg.History.Retention)

	// Price quoting
	var quoter pricing.Quoter
	switch cfg.Pricing.Mode {
	case config.PricingModeHTTP:
		quoter = pricing.NewHTTPQuoter(
			adapter.NewHTTPClient(cfg.Pricing.HTTPTimeout, cfg.Pricing.HTTPRetry),
			cfg.Pricing.HTTPURL,
		)
	default:
		quoter = pricing.NewOnchainQuoter(
			ethClient,
			common.HexToAddress(cfg.Pricing.QuoterAddress),
			routes(cfg.Pricing.Routes),
		)
	}
	logger.InfoCtx(ctx, "Configured price quoter", zap.String("mode", cfg.Pricing.Mode))

	snapshots := snapshot.NewService(snapshot.Deps{
		Chain:    chainClient,
		Blocks:   blockProvider,
		Resolver: resolver,
		Swaps:    swapCache,
		Quoter:   quoter,
		History:  historyStore,
		Clock:    clock,
	}, snapshot.Config{
		NominalSupply:   decimal.NewFromInt(cfg.Snapshot.NominalSupply),
		RequestTimeout:  cfg.Snapshot.RequestTimeout,
		SnapshotMaxDiff: cfg.History.MaxDiff,
		WorkerPoolSize:  cfg.Snapshot.WorkerPoolSize,
	})
	defer snapshots.Close()

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, snapshots)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Don't reuse the canceled ctx for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, fmt.Errorf("server forced to shutdown: %w", err))
	}

	logger.Info("API server stopped")
}

// routes converts configured routes, falling back to the built-in Base routes
func routes(configured map[string]config.RouteConfig) map[string]pricing.Route {
	if len(configured) == 0 {
		return pricing.DefaultRoutes()
	}

	result := make(map[string]pricing.Route, len(configured))
	for symbol, rc := range configured {
		tokens := make([]common.Address, 0, len(rc.Tokens))
		for _, token := range rc.Tokens {
			tokens = append(tokens, common.HexToAddress(token))
		}
		result[symbol] = pricing.Route{
			Tokens:      tokens,
			Fees:        rc.Fees,
			DecimalsIn:  rc.DecimalsIn,
			DecimalsOut: rc.DecimalsOut,
		}
	}
	return result
}
