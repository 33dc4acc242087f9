package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pinmap/internal/state"
	"github.com/five82/pinmap/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetrySave_OnlyWhenDegraded(t *testing.T) {
	mem := store.NewMemory()
	repo := state.NewRepository(mem, nil, quietLogger())
	require.NoError(t, repo.Initialize())

	assert.False(t, retrySave(repo, quietLogger()), "healthy repository needs no retry")

	mem.FailWith(errors.New("read-only fs"))
	repo.Create(context.Background(), 1, 2, "x")
	assert.True(t, retrySave(repo, quietLogger()))
	assert.True(t, repo.Snapshot().Degraded())

	mem.FailWith(nil)
	assert.True(t, retrySave(repo, quietLogger()))
	assert.False(t, repo.Snapshot().Degraded())
	assert.Len(t, mem.Load(), 1)
}

func TestStartSaveRetrier_RecoversAndStops(t *testing.T) {
	mem := store.NewMemory()
	repo := state.NewRepository(mem, nil, quietLogger())
	require.NoError(t, repo.Initialize())

	mem.FailWith(errors.New("busy"))
	repo.Create(context.Background(), 1, 2, "x")
	mem.FailWith(nil)

	stop := StartSaveRetrier(context.Background(), repo, 5*time.Millisecond, quietLogger())
	assert.Eventually(t, func() bool {
		return !repo.Snapshot().Degraded()
	}, 2*time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, repo.List(), mem.Load())
}
