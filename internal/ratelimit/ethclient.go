package ratelimit

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
)

// Config holds the request budget for a chain node
type Config struct {
	// RequestsPerSecond is the sustained request rate. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the sustained rate
	Burst int
}

// limitedEthClient paces every JSON-RPC request through a token bucket
type limitedEthClient struct {
	client  adapter.EthClient
	limiter *rate.Limiter
}

// NewEthClient wraps client so that requests never exceed the configured rate.
// Callers block until a token is available or their context is done.
func NewEthClient(client adapter.EthClient, cfg Config) adapter.EthClient {
	if cfg.RequestsPerSecond <= 0 {
		return client
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &limitedEthClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// acquireToken blocks until a token is available
func (c *limitedEthClient) acquireToken(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func (c *limitedEthClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	if err := c.acquireToken(ctx); err != nil {
		return nil, err
	}
	return c.client.FilterLogs(ctx, query)
}

func (c *limitedEthClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := c.acquireToken(ctx); err != nil {
		return nil, err
	}
	return c.client.HeaderByNumber(ctx, number)
}

func (c *limitedEthClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := c.acquireToken(ctx); err != nil {
		return nil, err
	}
	return c.client.CallContract(ctx, msg, blockNumber)
}

func (c *limitedEthClient) Close() {
	c.client.Close()
}
