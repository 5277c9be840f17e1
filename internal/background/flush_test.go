package background_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ascendo/trainboard/internal/background"
	"github.com/ascendo/trainboard/internal/models"
	"github.com/ascendo/trainboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushManagerWritesDirtyState(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := store.Open(dir, logger)
	require.NoError(t, err)

	require.NoError(t, s.Users.Create(models.User{Username: "alice"}))
	s.MarkDirty()

	fm := background.NewFlushManager(s, logger, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fm.Start(ctx)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "users.json"))
		return err == nil
	}, time.Second, 5*time.Millisecond)

	fm.Stop()
}

func TestFlushManagerStopWaitsForFinalFlush(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := store.Open(dir, logger)
	require.NoError(t, err)

	// Interval far beyond the test horizon: only Stop can trigger the write.
	fm := background.NewFlushManager(s, logger, time.Hour)
	go fm.Start(context.Background())

	require.NoError(t, s.Users.Create(models.User{Username: "alice"}))
	s.MarkDirty()

	// Stop blocks until the final flush has hit disk, so the file must be
	// there the moment it returns. No polling.
	fm.Stop()

	assert.FileExists(t, filepath.Join(dir, "users.json"))
	assert.False(t, s.Dirty())
}
