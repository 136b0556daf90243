package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := log
	log = zap.New(core)
	t.Cleanup(func() { log = previous })
	return logs
}

func TestWithFields_AttachesToContextLoggers(t *testing.T) {
	logs := observe(t)

	ctx := WithFields(context.Background(), zap.String("request_id", "abc"))
	ctx = WithFields(ctx, zap.String("pool", "0x1"))

	InfoCtx(ctx, "snapshot", zap.Int("events", 3))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, "0x1", fields["pool"])
	assert.Equal(t, int64(3), fields["events"])
}

func TestWithFields_DoesNotLeakToParent(t *testing.T) {
	logs := observe(t)

	parent := WithFields(context.Background(), zap.String("request_id", "abc"))
	_ = WithFields(parent, zap.String("pool", "0x1"))

	WarnCtx(parent, "parent only")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "pool")
}

func TestErrorCtx_NilError(t *testing.T) {
	logs := observe(t)

	ErrorCtx(context.Background(), nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "error occurred", entries[0].Message)
}

func TestInitialize_Level(t *testing.T) {
	previous := log
	t.Cleanup(func() { log = previous })

	require.NoError(t, Initialize(Config{Debug: false}))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, Initialize(Config{Debug: true}))
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
