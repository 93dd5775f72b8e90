package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{zap: zap.New(core)}, logs
}

func TestLogger_ContextFields(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	ctx := WithTraceID(context.Background(), "trace-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithCycleID(ctx, "cycle-1")

	log.Info(ctx, "Sync started", "accounts", 2, "error", errors.New("boom"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "cycle-1", fields["cycle_id"])
	assert.NotContains(t, fields, "account_id")
	assert.EqualValues(t, 2, fields["accounts"])
	assert.Equal(t, "boom", fields["error"])
}

func TestLogger_IgnoresMalformedFields(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.Warn(context.Background(), "odd", 42, "value", "dangling")

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].ContextMap())
}

func TestContextGetters(t *testing.T) {
	ctx := WithAccountID(context.Background(), "acc-1")

	assert.Equal(t, "acc-1", GetAccountID(ctx))
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}
