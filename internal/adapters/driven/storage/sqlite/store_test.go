package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRun(id string, started time.Time) domain.RebuildRun {
	return domain.RebuildRun{
		ID:        id,
		Trigger:   domain.TriggerWebhook,
		Status:    domain.RunStatusRunning,
		StartedAt: started,
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "runs.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, dir)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RebuildRunStore().Save(ctx, testRun("run-1", time.Now())))
	require.NoError(t, store.Close())

	// Migrations must not run twice.
	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	run, err := reopened.RebuildRunStore().Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)

	var version int
	require.NoError(t, reopened.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestRebuildRunStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t).RebuildRunStore()
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	run := testRun("run-1", started)
	require.NoError(t, store.Save(ctx, run))

	saved, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", saved.ID)
	assert.Equal(t, domain.TriggerWebhook, saved.Trigger)
	assert.Equal(t, domain.RunStatusRunning, saved.Status)
	assert.True(t, started.Equal(saved.StartedAt))
	assert.True(t, saved.FinishedAt.IsZero())
	assert.Zero(t, saved.Documents)
	assert.Empty(t, saved.Error)
}

func TestRebuildRunStore_Save_Update(t *testing.T) {
	store := setupTestStore(t).RebuildRunStore()
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	run := testRun("run-1", started)
	require.NoError(t, store.Save(ctx, run))

	run.Status = domain.RunStatusFailed
	run.FinishedAt = started.Add(90 * time.Second)
	run.Documents = 1200
	run.DeletedIndexes = 2
	run.Error = "bulk submit failed"
	require.NoError(t, store.Save(ctx, run))

	saved, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, saved.Status)
	assert.Equal(t, 1200, saved.Documents)
	assert.Equal(t, 2, saved.DeletedIndexes)
	assert.Equal(t, "bulk submit failed", saved.Error)
	assert.Equal(t, 90*time.Second, saved.Duration())
}

func TestRebuildRunStore_Save_EmptyID(t *testing.T) {
	store := setupTestStore(t).RebuildRunStore()

	err := store.Save(context.Background(), domain.RebuildRun{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRebuildRunStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t).RebuildRunStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRebuildRunStore_List(t *testing.T) {
	store := setupTestStore(t).RebuildRunStore()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, store.Save(ctx, testRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "run-4", all[0].ID)
	assert.Equal(t, "run-0", all[4].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-4", limited[0].ID)
	assert.Equal(t, "run-3", limited[1].ID)
}

func TestRebuildRunStore_List_OrdersAcrossTimezones(t *testing.T) {
	store := setupTestStore(t).RebuildRunStore()
	ctx := context.Background()

	tokyo := time.FixedZone("JST", 9*3600)
	earlier := time.Date(2024, 3, 1, 20, 0, 0, 0, tokyo) // 11:00 UTC
	later := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testRun("later", later)))
	require.NoError(t, store.Save(ctx, testRun("earlier", earlier)))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "later", runs[0].ID)
	assert.Equal(t, "earlier", runs[1].ID)
}

func TestRebuildRunStore_List_Empty(t *testing.T) {
	store := setupTestStore(t).RebuildRunStore()

	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
