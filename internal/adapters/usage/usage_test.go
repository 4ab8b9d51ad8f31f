package usage_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlauncher/glint/internal/adapters/usage"
	"github.com/glintlauncher/glint/internal/ports"
)

func testStore(t *testing.T, store ports.UsageStore) {
	t.Helper()
	ctx := context.Background()

	counts, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, store.Increment(ctx, "app/code"))
	require.NoError(t, store.Increment(ctx, "app/code"))
	require.NoError(t, store.Increment(ctx, "file/notes"))

	counts, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counts["app/code"])
	assert.Equal(t, uint64(1), counts["file/notes"])
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := usage.NewMemoryStore()
	defer func() { _ = store.Close() }()
	testStore(t, store)
}

func TestMemoryStoreSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	store := usage.NewMemoryStore()
	require.NoError(t, store.Increment(context.Background(), "a"))

	counts, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	counts["a"] = 999

	fresh, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), fresh["a"])
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	t.Parallel()

	store := usage.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Increment(context.Background(), "hot")
		}()
	}
	wg.Wait()

	counts, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(50), counts["hot"])
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "usage.db")
	store, err := usage.Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	testStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "usage.db")

	store, err := usage.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Increment(context.Background(), "app/code"))
	require.NoError(t, store.Close())

	reopened, err := usage.Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	counts, err := reopened.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counts["app/code"])
}

func TestSQLiteStoreCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "usage.db")
	store, err := usage.Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Increment(context.Background(), "x"))
}
