package block_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-pool-snapshot/internal/block"
	"github.com/feral-file/ff-pool-snapshot/internal/logger"
	"github.com/feral-file/ff-pool-snapshot/internal/mocks"
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

// testBlockProviderMocks contains all the mocks needed for testing the block provider
type testBlockProviderMocks struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockBlockFetcher
	clock    *mocks.MockClock
	provider block.BlockProvider
}

// setupTest creates all the mocks and the block provider for testing
func setupTest(t *testing.T, config block.Config) *testBlockProviderMocks {
	ctrl := gomock.NewController(t)

	mockFetcher := mocks.NewMockBlockFetcher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	return &testBlockProviderMocks{
		ctrl:     ctrl,
		fetcher:  mockFetcher,
		clock:    mockClock,
		provider: block.NewBlockProvider(mockFetcher, config, mockClock),
	}
}

// tearDownTest cleans up the test mocks
func tearDownTest(tm *testBlockProviderMocks) {
	tm.ctrl.Finish()
}

func defaultConfig() block.Config {
	return block.Config{
		TTL:               10 * time.Second,
		StaleWindow:       2 * time.Minute,
		BlockTimestampTTL: 0, // Cache block timestamps forever
	}
}

func TestBlockProvider_GetLatestBlock_FirstFetch(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	headTime := now.Add(-time.Second)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), headTime, nil)

	info, err := tm.provider.GetLatestBlock(ctx)

	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), info.Number)
	assert.Equal(t, headTime, info.Timestamp)
	assert.Equal(t, now, info.CachedAt)
}

func TestBlockProvider_GetLatestBlock_UsesCache_WithinTTL(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), now, nil)

	first, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), first.Number)

	// Within TTL the fetcher is not called again
	tm.clock.EXPECT().Now().Return(now.Add(5 * time.Second))

	second, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), second.Number)
}

func TestBlockProvider_GetLatestBlock_RefreshesCache_AfterTTL(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), now, nil)

	_, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)

	tm.clock.EXPECT().Now().Return(now.Add(11 * time.Second))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1005), now.Add(10*time.Second), nil)

	info, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1005), info.Number)
}

func TestBlockProvider_GetLatestBlock_UsesStaleCache_OnFetchError(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), now, nil)

	_, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)

	// Past TTL but inside the stale window
	tm.clock.EXPECT().Now().Return(now.Add(time.Minute))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), time.Time{}, errors.New("rpc unavailable"))

	info, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), info.Number)
}

func TestBlockProvider_GetLatestBlock_Error_StaleCacheExpired(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), now, nil)

	_, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)

	fetchErr := errors.New("rpc unavailable")
	tm.clock.EXPECT().Now().Return(now.Add(3 * time.Minute))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), time.Time{}, fetchErr)

	_, err = tm.provider.GetLatestBlock(ctx)
	assert.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "no valid cache available")
}

func TestBlockProvider_GetLatestBlock_Error_NoCache(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), time.Time{}, errors.New("rpc unavailable"))

	_, err := tm.provider.GetLatestBlock(ctx)
	assert.Error(t, err)
}

func TestBlockProvider_GetBlockTimestamp_CachesForever(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	blockTime := now.Add(-time.Hour)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(500)).Return(blockTime, nil)

	ts, err := tm.provider.GetBlockTimestamp(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, blockTime, ts)

	// Much later, still served from cache
	tm.clock.EXPECT().Now().Return(now.Add(48 * time.Hour))

	ts, err = tm.provider.GetBlockTimestamp(ctx, 500)
	assert.NoError(t, err)
	assert.Equal(t, blockTime, ts)
}

func TestBlockProvider_GetBlockTimestamp_RefreshesAfterTTL(t *testing.T) {
	config := defaultConfig()
	config.BlockTimestampTTL = time.Hour
	tm := setupTest(t, config)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	blockTime := now.Add(-time.Hour)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(500)).Return(blockTime, nil)

	_, err := tm.provider.GetBlockTimestamp(ctx, 500)
	require.NoError(t, err)

	tm.clock.EXPECT().Now().Return(now.Add(2 * time.Hour))
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(500)).Return(blockTime, nil)

	ts, err := tm.provider.GetBlockTimestamp(ctx, 500)
	assert.NoError(t, err)
	assert.Equal(t, blockTime, ts)
}

func TestBlockProvider_GetBlockTimestamp_Error(t *testing.T) {
	tm := setupTest(t, defaultConfig())
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(42)).Return(time.Time{}, errors.New("header not found"))

	_, err := tm.provider.GetBlockTimestamp(ctx, 42)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "block 42")
}

func TestBlockProvider_GetBlockTimestamp_ResetsWhenFull(t *testing.T) {
	config := defaultConfig()
	config.MaxCachedTimestamps = 1
	tm := setupTest(t, config)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now).Times(3)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1)).Return(now.Add(-2*time.Second), nil).Times(2)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(2)).Return(now, nil)

	_, err := tm.provider.GetBlockTimestamp(ctx, 1)
	require.NoError(t, err)

	// Block 2 evicts block 1
	_, err = tm.provider.GetBlockTimestamp(ctx, 2)
	require.NoError(t, err)

	_, err = tm.provider.GetBlockTimestamp(ctx, 1)
	assert.NoError(t, err)
}
