package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/sprout/internal/config"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		input     string
		wantLevel slog.Level
		wantOK    bool
	}{
		{"debug", "debug", slog.LevelDebug, true},
		{"mixed case info", "INFO", slog.LevelInfo, true},
		{"warn with spaces", " warn ", slog.LevelWarn, true},
		{"error", "error", slog.LevelError, true},
		{"unknown falls back to info", "verbose", slog.LevelInfo, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			level, ok := logger.ParseLevel(tc.input)
			assert.Equal(t, tc.wantLevel, level)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	l, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: "warn"})

	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	l, buf := logger.NewBufferLogger()
	ctx := logger.WithLogger(context.Background(), l)

	got, ok := logger.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, l, got)
	assert.Same(t, l, logger.FromContextOrDefault(ctx, nil))

	_, ok = logger.FromContext(context.Background())
	assert.False(t, ok)
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	fallback, _ := logger.NewBufferLogger()
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))

	logger.FromContextOrDefault(ctx, nil).Info("hello", "species", "basil")
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0]["msg"])
	assert.Equal(t, "basil", entries[0]["species"])
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	ctx := logger.WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", logger.RequestID(ctx))
	assert.Empty(t, logger.RequestID(context.Background()))
}
