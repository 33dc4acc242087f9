package state

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pinmap/internal/pin"
	"github.com/five82/pinmap/internal/store"
)

func TestSelection_SelectExistingOnly(t *testing.T) {
	repo := newTestRepo(t, store.NewMemory(), staticResolver("addr"))
	sel := NewSelection(repo)
	t.Cleanup(sel.Close)

	assert.False(t, sel.Select("ghost"))
	_, ok := sel.Selected()
	assert.False(t, ok)

	p := repo.Create(context.Background(), 0, 0, "")
	require.True(t, sel.Select(p.ID))
	got, ok := sel.Pin()
	require.True(t, ok)
	assert.Equal(t, p, got)

	// A failed select leaves the current selection alone.
	assert.False(t, sel.Select("ghost"))
	assert.True(t, sel.IsSelected(p.ID))

	sel.Clear()
	_, ok = sel.Selected()
	assert.False(t, ok)
}

func TestSelection_ClearedWhenSelectedPinDeleted(t *testing.T) {
	repo := newTestRepo(t, store.NewMemory(), staticResolver("addr"))
	sel := NewSelection(repo)
	ctx := context.Background()
	a := repo.Create(ctx, 1, 1, "a")
	b := repo.Create(ctx, 2, 2, "b")

	require.True(t, sel.Select(a.ID))
	repo.Delete(b.ID)
	assert.True(t, sel.IsSelected(a.ID), "deleting another pin must keep selection")

	repo.Delete(a.ID)
	_, ok := sel.Selected()
	assert.False(t, ok, "deleting the selected pin must clear selection")
}

func TestSelection_PinReflectsUpdates(t *testing.T) {
	repo := newTestRepo(t, store.NewMemory(), staticResolver("addr"))
	sel := NewSelection(repo)
	p := repo.Create(context.Background(), 0, 0, "old")
	require.True(t, sel.Select(p.ID))

	_, err := repo.Update(p.ID, "new")
	require.NoError(t, err)
	got, ok := sel.Pin()
	require.True(t, ok)
	assert.Equal(t, "new", got.Remarks)
}

func TestSelection_LoadedClearsStale(t *testing.T) {
	repo := NewRepository(store.NewMemory(), nil, quietLogger())
	sel := NewSelection(repo)
	sel.mu.Lock()
	sel.selected, sel.has = pin.ID("stale"), true
	sel.mu.Unlock()

	require.NoError(t, repo.Initialize())
	_, ok := sel.Selected()
	assert.False(t, ok)
}

func TestSelection_CloseStopsListening(t *testing.T) {
	repo := newTestRepo(t, store.NewMemory(), staticResolver("addr"))
	sel := NewSelection(repo)
	p := repo.Create(context.Background(), 0, 0, "")
	require.True(t, sel.Select(p.ID))

	sel.Close()
	sel.Close()
	repo.Delete(p.ID)
	assert.True(t, sel.IsSelected(p.ID))
}

func TestSelection_NeverPointsAtDeletedPinUnderConcurrency(t *testing.T) {
	repo := newTestRepo(t, store.NewMemory(), staticResolver("addr"))
	sel := NewSelection(repo)
	t.Cleanup(sel.Close)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		p := repo.Create(ctx, 1, 1, "")
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			sel.Select(p.ID)
		}()
		go func() {
			defer wg.Done()
			repo.Delete(p.ID)
		}()
		wg.Wait()

		if id, ok := sel.Selected(); ok {
			require.True(t, repo.Contains(id), "iteration %d: selection %s references a deleted pin", i, id)
		}
	}
}
