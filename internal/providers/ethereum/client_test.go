package ethereum_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"testing"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-pool-snapshot/internal/domain"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
	"github.com/feral-file/ff-pool-snapshot/internal/mocks"
	"github.com/feral-file/ff-pool-snapshot/internal/providers/ethereum"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

var (
	poolAddress  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	token0       = common.HexToAddress("0x2222222222222222222222222222222222222222")
	token1       = common.HexToAddress("0x3333333333333333333333333333333333333333")
	ownerAddress = common.HexToAddress("0x4444444444444444444444444444444444444444")
	txHash       = common.HexToHash("0xabc")
)

// testClientMocks contains all the mocks needed for testing the ethereum client
type testClientMocks struct {
	ctrl      *gomock.Controller
	ethClient *mocks.MockEthClient
	client    ethereum.EthereumClient
}

func setupTest(t *testing.T) *testClientMocks {
	ctrl := gomock.NewController(t)
	ethClient := mocks.NewMockEthClient(ctrl)

	return &testClientMocks{
		ctrl:      ctrl,
		ethClient: ethClient,
		client:    ethereum.NewClient(ethClient),
	}
}

func tearDownTest(tm *testClientMocks) {
	tm.ctrl.Finish()
}

// packOutputs ABI-encodes the return values of a method
func packOutputs(t *testing.T, parsed abi.ABI, method string, values ...interface{}) []byte {
	t.Helper()
	data, err := parsed.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return data
}

// respond answers CallContract requests by method selector
func (tm *testClientMocks) respond(contract common.Address, responses map[string][]byte) {
	tm.ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg geth.CallMsg, _ *big.Int) ([]byte, error) {
			if msg.To == nil || *msg.To != contract {
				return nil, errors.New("execution reverted")
			}
			if out, ok := responses[string(msg.Data[:4])]; ok {
				return out, nil
			}
			return nil, errors.New("execution reverted")
		}).
		AnyTimes()
}

func selector(parsed abi.ABI, method string) string {
	return string(parsed.Methods[method].ID)
}

func v3SwapLog(t *testing.T, amount0, amount1 *big.Int) types.Log {
	t.Helper()
	data, err := ethereum.PoolV3ABI.Events["Swap"].Inputs.NonIndexed().Pack(
		amount0, amount1, big.NewInt(1<<40), big.NewInt(1_000_000), big.NewInt(-120),
	)
	require.NoError(t, err)

	return types.Log{
		Address:     poolAddress,
		Topics:      []common.Hash{ethereum.PoolV3ABI.Events["Swap"].ID, common.BytesToHash(ownerAddress.Bytes()), common.BytesToHash(ownerAddress.Bytes())},
		Data:        data,
		BlockNumber: 100,
		TxHash:      txHash,
	}
}

func v2SwapLog(t *testing.T, amount0In, amount1In, amount0Out, amount1Out *big.Int) types.Log {
	t.Helper()
	data, err := ethereum.PoolV2ABI.Events["Swap"].Inputs.NonIndexed().Pack(amount0In, amount1In, amount0Out, amount1Out)
	require.NoError(t, err)

	return types.Log{
		Address:     poolAddress,
		Topics:      []common.Hash{ethereum.PoolV2ABI.Events["Swap"].ID, common.BytesToHash(ownerAddress.Bytes()), common.BytesToHash(ownerAddress.Bytes())},
		Data:        data,
		BlockNumber: 200,
		TxHash:      txHash,
	}
}

func TestDecodeSwapLog_V3(t *testing.T) {
	vLog := v3SwapLog(t, big.NewInt(-500), big.NewInt(1_000))

	decoded, ok := ethereum.DecodeSwapLog(domain.PoolVersionV3, vLog).(domain.DecodedSwap)
	require.True(t, ok)

	assert.Equal(t, uint64(100), decoded.BlockNumber)
	assert.Equal(t, txHash, decoded.TxHash)
	assert.Equal(t, int64(-500), decoded.Amount0.Int64())
	assert.Equal(t, int64(1_000), decoded.Amount1.Int64())
}

func TestDecodeSwapLog_V2_DeltasAreInMinusOut(t *testing.T) {
	vLog := v2SwapLog(t, big.NewInt(300), big.NewInt(0), big.NewInt(0), big.NewInt(900))

	decoded, ok := ethereum.DecodeSwapLog(domain.PoolVersionV2, vLog).(domain.DecodedSwap)
	require.True(t, ok)

	assert.Equal(t, uint64(200), decoded.Block())
	assert.Equal(t, int64(300), decoded.Amount0.Int64())
	assert.Equal(t, int64(-900), decoded.Amount1.Int64())
}

func TestDecodeSwapLog_Undecodable_ReturnsRawLog(t *testing.T) {
	v3 := v3SwapLog(t, big.NewInt(1), big.NewInt(-1))

	tests := []struct {
		name    string
		version domain.PoolVersion
		log     types.Log
	}{
		{
			name:    "v3 log decoded as v2",
			version: domain.PoolVersionV2,
			log:     v3,
		},
		{
			name:    "truncated data",
			version: domain.PoolVersionV3,
			log:     types.Log{Topics: v3.Topics, Data: v3.Data[:40], BlockNumber: 7, TxHash: txHash},
		},
		{
			name:    "no topics",
			version: domain.PoolVersionV3,
			log:     types.Log{Data: v3.Data, BlockNumber: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := ethereum.DecodeSwapLog(tt.version, tt.log).(domain.RawLog)
			require.True(t, ok)
			assert.Equal(t, tt.log.BlockNumber, raw.BlockNumber)
			assert.Equal(t, tt.log.Data, raw.Data)
		})
	}
}

func TestClient_PoolFee(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.respond(poolAddress, map[string][]byte{
		selector(ethereum.PoolV3ABI, "fee"): packOutputs(t, ethereum.PoolV3ABI, "fee", big.NewInt(3000)),
	})

	fee, err := tm.client.PoolFee(context.Background(), poolAddress)
	require.NoError(t, err)
	assert.Equal(t, uint32(3000), fee)
}

func TestClient_PoolFee_EmptyResult(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.ethClient.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return([]byte{}, nil)

	_, err := tm.client.PoolFee(context.Background(), poolAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty call result")
}

func TestClient_PoolState_V3(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 96)
	tm.respond(poolAddress, map[string][]byte{
		selector(ethereum.PoolV3ABI, "token0"): packOutputs(t, ethereum.PoolV3ABI, "token0", token0),
		selector(ethereum.PoolV3ABI, "token1"): packOutputs(t, ethereum.PoolV3ABI, "token1", token1),
		selector(ethereum.PoolV3ABI, "slot0"): packOutputs(t, ethereum.PoolV3ABI, "slot0",
			sqrtPrice, big.NewInt(-887), uint16(1), uint16(10), uint16(10), uint8(0), true),
		selector(ethereum.PoolV3ABI, "liquidity"): packOutputs(t, ethereum.PoolV3ABI, "liquidity", big.NewInt(123456)),
	})

	state, err := tm.client.PoolState(context.Background(), poolAddress, domain.PoolVersionV3)
	require.NoError(t, err)

	assert.Equal(t, token0, state.Token0)
	assert.Equal(t, token1, state.Token1)
	assert.Equal(t, 0, sqrtPrice.Cmp(state.SqrtPriceX96))
	assert.Equal(t, int64(-887), state.Tick.Int64())
	assert.Equal(t, int64(123456), state.Liquidity.Int64())
	assert.Nil(t, state.Reserve0)
}

func TestClient_PoolState_V2(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.respond(poolAddress, map[string][]byte{
		selector(ethereum.PoolV2ABI, "token0"): packOutputs(t, ethereum.PoolV2ABI, "token0", token0),
		selector(ethereum.PoolV2ABI, "token1"): packOutputs(t, ethereum.PoolV2ABI, "token1", token1),
		selector(ethereum.PoolV2ABI, "getReserves"): packOutputs(t, ethereum.PoolV2ABI, "getReserves",
			big.NewInt(5_000), big.NewInt(10_000), uint32(1_700_000_000)),
	})

	state, err := tm.client.PoolState(context.Background(), poolAddress, domain.PoolVersionV2)
	require.NoError(t, err)

	assert.Equal(t, int64(5_000), state.Reserve0.Int64())
	assert.Equal(t, int64(10_000), state.Reserve1.Int64())
	assert.Nil(t, state.SqrtPriceX96)
}

func TestClient_PoolState_CallError(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("connection refused"))

	_, err := tm.client.PoolState(context.Background(), poolAddress, domain.PoolVersionV3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token0")
}

func TestClient_TokenInfo(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	supply, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
	tm.respond(token0, map[string][]byte{
		selector(ethereum.ERC20ABI, "decimals"):    packOutputs(t, ethereum.ERC20ABI, "decimals", uint8(18)),
		selector(ethereum.ERC20ABI, "totalSupply"): packOutputs(t, ethereum.ERC20ABI, "totalSupply", supply),
		selector(ethereum.ERC20ABI, "name"):        packOutputs(t, ethereum.ERC20ABI, "name", "Feral Token"),
		selector(ethereum.ERC20ABI, "symbol"):      packOutputs(t, ethereum.ERC20ABI, "symbol", "FERAL"),
	})

	info, err := tm.client.TokenInfo(context.Background(), token0)
	require.NoError(t, err)

	assert.Equal(t, token0, info.Address)
	assert.Equal(t, "Feral Token", info.Name)
	assert.Equal(t, "FERAL", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)
	assert.Equal(t, 0, supply.Cmp(info.TotalSupply))
}

func TestClient_TokenInfo_Bytes32Symbol(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	var symbol [32]byte
	copy(symbol[:], "MKR")

	tm.respond(token0, map[string][]byte{
		selector(ethereum.ERC20ABI, "decimals"):    packOutputs(t, ethereum.ERC20ABI, "decimals", uint8(18)),
		selector(ethereum.ERC20ABI, "totalSupply"): packOutputs(t, ethereum.ERC20ABI, "totalSupply", big.NewInt(1)),
		selector(ethereum.ERC20ABI, "symbol"):      symbol[:],
	})

	info, err := tm.client.TokenInfo(context.Background(), token0)
	require.NoError(t, err)

	assert.Equal(t, "MKR", info.Symbol)
	// Unreadable name is left empty
	assert.Empty(t, info.Name)
}

func TestClient_TokenInfo_DecimalsError(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.respond(token0, map[string][]byte{})

	_, err := tm.client.TokenInfo(context.Background(), token0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimals")
}

func TestClient_BalanceOf(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg geth.CallMsg, _ *big.Int) ([]byte, error) {
			args, err := ethereum.ERC20ABI.Methods["balanceOf"].Inputs.Unpack(msg.Data[4:])
			require.NoError(t, err)
			assert.Equal(t, ownerAddress, args[0])
			return packOutputs(t, ethereum.ERC20ABI, "balanceOf", big.NewInt(42)), nil
		})

	balance, err := tm.client.BalanceOf(context.Background(), token1, ownerAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())
}

func TestClient_SwapLogs(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	pool := domain.Pool{Address: poolAddress, Version: domain.PoolVersionV3}

	kept := v3SwapLog(t, big.NewInt(10), big.NewInt(-20))
	removed := v3SwapLog(t, big.NewInt(30), big.NewInt(-40))
	removed.Removed = true

	tm.ethClient.EXPECT().
		FilterLogs(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, query geth.FilterQuery) ([]types.Log, error) {
			assert.Equal(t, int64(1_000), query.FromBlock.Int64())
			assert.Equal(t, int64(1_999), query.ToBlock.Int64())
			assert.Equal(t, []common.Address{poolAddress}, query.Addresses)
			assert.Equal(t, [][]common.Hash{{ethereum.PoolV3ABI.Events["Swap"].ID}}, query.Topics)
			return []types.Log{kept, removed}, nil
		})

	logs, err := tm.client.SwapLogs(ctx, pool, 1_000, 1_999)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	decoded, ok := logs[0].(domain.DecodedSwap)
	require.True(t, ok)
	assert.Equal(t, int64(10), decoded.Amount0.Int64())
}

func TestClient_SwapLogs_Error(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	pool := domain.Pool{Address: poolAddress, Version: domain.PoolVersionV2}

	tm.ethClient.EXPECT().FilterLogs(ctx, gomock.Any()).Return(nil, errors.New("query returned more than 10000 results"))

	_, err := tm.client.SwapLogs(ctx, pool, 1, 100_000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1-100000")
}
