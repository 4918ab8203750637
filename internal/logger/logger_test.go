package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("loud")
	require.False(t, ok)
}

// TestNew_RespectsLevel checks that messages below the level are dropped.
func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(zap.NewAtomicLevelAt(zapcore.WarnLevel), &buf)
	l.Info("hidden")
	l.Warn("shown")
	require.NoError(t, l.Sync())

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "WARN")
	require.Contains(t, buf.String(), "shown")
}

// TestFromContext falls back to the global logger and prefers the context one.
func TestFromContext(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := New(zap.NewAtomicLevelAt(zapcore.DebugLevel), &buf)
	ctx := WithKV(ToContext(context.Background(), l), "backend", "hwmon")
	Infof(ctx, "level %d", 191)
	require.NoError(t, FromContext(ctx).Sync())

	require.Contains(t, buf.String(), "level 191")
	require.Contains(t, buf.String(), "hwmon")
}
