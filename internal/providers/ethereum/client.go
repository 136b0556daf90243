package ethereum

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/adapter"
	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
)

var errEmptyResult = errors.New("empty call result")

// EthereumClient is the read-only chain adapter used by the snapshot service
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	// PoolFee reads the v3 fee tier of a pool. An error usually means the pool is not v3.
	PoolFee(ctx context.Context, pool common.Address) (uint32, error)

	// PoolState reads the current state of a pool for the given version
	PoolState(ctx context.Context, pool common.Address, version domain.PoolVersion) (*domain.PoolState, error)

	// TokenInfo reads ERC-20 metadata
	TokenInfo(ctx context.Context, token common.Address) (*domain.TokenInfo, error)

	// BalanceOf reads the ERC-20 balance of owner
	BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)

	// SwapLogs queries swap logs of a pool over an inclusive block range in a single request
	SwapLogs(ctx context.Context, pool domain.Pool, fromBlock, toBlock uint64) ([]domain.SwapLog, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	client adapter.EthClient
}

func NewClient(client adapter.EthClient) EthereumClient {
	return &ethereumClient{client: client}
}

// call packs and executes a view call against the latest block and unpacks the outputs
func (c *ethereumClient) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, contract.Hex(), err)
	}

	// Calls to accounts without code succeed with an empty result
	if len(result) == 0 {
		return nil, fmt.Errorf("%s on %s: %w", method, contract.Hex(), errEmptyResult)
	}

	out, err := parsed.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}

	return out, nil
}

// PoolFee reads the fee tier of a v3 pool
func (c *ethereumClient) PoolFee(ctx context.Context, pool common.Address) (uint32, error) {
	out, err := c.call(ctx, pool, PoolV3ABI, "fee")
	if err != nil {
		return 0, err
	}

	fee, ok := out[0].(*big.Int)
	if !ok || !fee.IsUint64() {
		return 0, fmt.Errorf("unexpected fee output %v", out[0])
	}

	return uint32(fee.Uint64()), nil //nolint:gosec,G115 // uint24 fits
}

// PoolState reads token addresses plus the version-specific price state
func (c *ethereumClient) PoolState(ctx context.Context, pool common.Address, version domain.PoolVersion) (*domain.PoolState, error) {
	poolABI := PoolV2ABI
	if version == domain.PoolVersionV3 {
		poolABI = PoolV3ABI
	}

	token0, err := c.readAddress(ctx, pool, poolABI, "token0")
	if err != nil {
		return nil, err
	}
	token1, err := c.readAddress(ctx, pool, poolABI, "token1")
	if err != nil {
		return nil, err
	}

	state := &domain.PoolState{Token0: token0, Token1: token1}

	switch version {
	case domain.PoolVersionV3:
		slot0, err := c.call(ctx, pool, PoolV3ABI, "slot0")
		if err != nil {
			return nil, err
		}
		state.SqrtPriceX96, _ = slot0[0].(*big.Int)
		state.Tick, _ = slot0[1].(*big.Int)
		if state.SqrtPriceX96 == nil {
			return nil, fmt.Errorf("unexpected slot0 output %v", slot0)
		}

		liquidity, err := c.call(ctx, pool, PoolV3ABI, "liquidity")
		if err != nil {
			return nil, err
		}
		state.Liquidity, _ = liquidity[0].(*big.Int)
	default:
		reserves, err := c.call(ctx, pool, PoolV2ABI, "getReserves")
		if err != nil {
			return nil, err
		}
		state.Reserve0, _ = reserves[0].(*big.Int)
		state.Reserve1, _ = reserves[1].(*big.Int)
		if state.Reserve0 == nil || state.Reserve1 == nil {
			return nil, fmt.Errorf("unexpected getReserves output %v", reserves)
		}
	}

	return state, nil
}

func (c *ethereumClient) readAddress(ctx context.Context, contract common.Address, parsed abi.ABI, method string) (common.Address, error) {
	out, err := c.call(ctx, contract, parsed, method)
	if err != nil {
		return common.Address{}, err
	}

	address, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s output %v", method, out[0])
	}

	return address, nil
}

// TokenInfo reads name, symbol, decimals and total supply of an ERC-20 token
func (c *ethereumClient) TokenInfo(ctx context.Context, token common.Address) (*domain.TokenInfo, error) {
	info := &domain.TokenInfo{Address: token}

	decimals, err := c.call(ctx, token, ERC20ABI, "decimals")
	if err != nil {
		return nil, err
	}
	d, ok := decimals[0].(uint8)
	if !ok {
		return nil, fmt.Errorf("unexpected decimals output %v", decimals[0])
	}
	info.Decimals = d

	supply, err := c.call(ctx, token, ERC20ABI, "totalSupply")
	if err != nil {
		return nil, err
	}
	info.TotalSupply, ok = supply[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected totalSupply output %v", supply[0])
	}

	info.Name = c.readText(ctx, token, "name")
	info.Symbol = c.readText(ctx, token, "symbol")

	return info, nil
}

// readText reads a string-returning ERC-20 method, falling back to bytes32.
// Unreadable values are returned empty.
func (c *ethereumClient) readText(ctx context.Context, token common.Address, method string) string {
	out, err := c.call(ctx, token, ERC20ABI, method)
	if err == nil {
		if s, ok := out[0].(string); ok {
			return s
		}
	}

	out, err = c.call(ctx, token, erc20Bytes32ABI, method)
	if err != nil {
		logger.DebugCtx(ctx, "Failed to read token text field",
			zap.String("token", token.Hex()),
			zap.String("method", method),
			zap.Error(err))
		return ""
	}

	raw, ok := out[0].([32]byte)
	if !ok {
		return ""
	}

	return string(bytes.TrimRight(raw[:], "\x00"))
}

// BalanceOf reads the ERC-20 balance held by owner
func (c *ethereumClient) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, ERC20ABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf output %v", out[0])
	}

	return balance, nil
}

// SwapLogs fetches and decodes swap logs of a pool over [fromBlock, toBlock].
// The node may reject the range; callers are responsible for chunking.
func (c *ethereumClient) SwapLogs(ctx context.Context, pool domain.Pool, fromBlock, toBlock uint64) ([]domain.SwapLog, error) {
	topic := swapV2EventTopic
	if pool.Version == domain.PoolVersionV3 {
		topic = swapV3EventTopic
	}

	logs, err := c.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{pool.Address},
		Topics:    [][]common.Hash{{topic}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter swap logs %d-%d: %w", fromBlock, toBlock, err)
	}

	swaps := make([]domain.SwapLog, 0, len(logs))
	for _, vLog := range logs {
		// Skip logs removed by a reorg
		if vLog.Removed {
			continue
		}
		swaps = append(swaps, DecodeSwapLog(pool.Version, vLog))
	}

	return swaps, nil
}

// DecodeSwapLog decodes a swap log into signed token deltas.
// Logs that cannot be decoded are returned as domain.RawLog.
func DecodeSwapLog(version domain.PoolVersion, vLog types.Log) domain.SwapLog {
	raw := domain.RawLog{BlockNumber: vLog.BlockNumber, TxHash: vLog.TxHash, Data: vLog.Data}

	switch version {
	case domain.PoolVersionV3:
		if len(vLog.Topics) == 0 || vLog.Topics[0] != swapV3EventTopic {
			return raw
		}
		values, err := PoolV3ABI.Unpack("Swap", vLog.Data)
		if err != nil || len(values) < 2 {
			return raw
		}
		amount0, ok0 := values[0].(*big.Int)
		amount1, ok1 := values[1].(*big.Int)
		if !ok0 || !ok1 {
			return raw
		}
		return domain.DecodedSwap{
			BlockNumber: vLog.BlockNumber,
			TxHash:      vLog.TxHash,
			Amount0:     amount0,
			Amount1:     amount1,
		}
	default:
		if len(vLog.Topics) == 0 || vLog.Topics[0] != swapV2EventTopic {
			return raw
		}
		values, err := PoolV2ABI.Unpack("Swap", vLog.Data)
		if err != nil || len(values) < 4 {
			return raw
		}
		amounts := make([]*big.Int, 4)
		for i := range amounts {
			v, ok := values[i].(*big.Int)
			if !ok {
				return raw
			}
			amounts[i] = v
		}
		// Deltas from the pool's perspective: tokens in minus tokens out
		return domain.DecodedSwap{
			BlockNumber: vLog.BlockNumber,
			TxHash:      vLog.TxHash,
			Amount0:     new(big.Int).Sub(amounts[0], amounts[2]),
			Amount1:     new(big.Int).Sub(amounts[1], amounts[3]),
		}
	}
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
