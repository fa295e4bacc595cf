package logging

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferDropsOldestOnOverflow(t *testing.T) {
	logger, ring := New("debug", 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		logger.Info(ctx, fmt.Sprintf("message %d", i))
	}

	entries := ring.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "message 3", entries[0].Message)
	assert.Equal(t, "message 4", entries[1].Message)
	assert.Equal(t, "message 5", entries[2].Message)
}

func TestRingCapturesLevelAndAttrs(t *testing.T) {
	logger, ring := New("debug", 10)
	ctx := context.Background()

	logger.Warn(ctx, "slow request", "path", "/api/documents", "ms", 1200)

	entries := ring.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "slow request", entries[0].Message)
	assert.Equal(t, "/api/documents", entries[0].Attrs["path"])
	assert.Equal(t, "1200", entries[0].Attrs["ms"])
	assert.NotEmpty(t, entries[0].Time)
}

func TestRingRespectsLevelFilter(t *testing.T) {
	logger, ring := New("warn", 10)
	ctx := context.Background()

	logger.Debug(ctx, "ignored")
	logger.Info(ctx, "also ignored")
	logger.Error(ctx, "kept")

	entries := ring.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestChildLoggersShareTheBuffer(t *testing.T) {
	logger, ring := New("debug", 10)
	ctx := context.Background()

	child := logger.With("component", "worker")
	logger.Info(ctx, "from parent")
	child.Info(ctx, "from child")

	entries := ring.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "from parent", entries[0].Message)
	assert.Equal(t, "from child", entries[1].Message)
}

func TestEntriesReturnsACopy(t *testing.T) {
	logger, ring := New("debug", 10)
	logger.Info(context.Background(), "original")

	entries := ring.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "original", ring.Entries()[0].Message)
}
