package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/store"
)

func TestFileRepositoryMissingFile(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "nope.json"), quietLog())

	st, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, st)
}

func TestFileRepositorySaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "product_store.json")
	repo := NewFileRepository(path, quietLog())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleState()))

	st, found, err := repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleState(), st)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be gone")
}

func TestFailedSaveKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	repo := NewFileRepository(path, quietLog())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleState()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	broken := sampleState()
	broken.Products = nil
	require.Error(t, repo.Save(ctx, broken))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, found, err := NewFileRepository(path, quietLog()).Load(context.Background())
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file keeps the seeded default", func(t *testing.T) {
		s := store.New(quietLog())
		repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"), quietLog())

		assert.False(t, Restore(ctx, repo, s, quietLog()))
		assert.Len(t, s.Products(), 4)
		assert.Len(t, s.PriceSets(), 3)
	})

	t.Run("corrupt file keeps the seeded default", func(t *testing.T) {
		s := store.New(quietLog())
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"currentCurrency":"doubloons"}`), 0o644))

		assert.False(t, Restore(ctx, NewFileRepository(path, quietLog()), s, quietLog()))
		assert.Len(t, s.Products(), 4)
	})

	t.Run("saved file replaces the state", func(t *testing.T) {
		s := store.New(quietLog())
		repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"), quietLog())
		require.NoError(t, repo.Save(ctx, sampleState()))

		assert.True(t, Restore(ctx, repo, s, quietLog()))
		assert.Equal(t, sampleState(), s.Snapshot())
		require.NotNil(t, s.CurrentCurrency())
		assert.Equal(t, domain.RUB, *s.CurrentCurrency())
	})
}

func TestAsyncDeliversOneResult(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"), quietLog())

	errs := SaveAsync(ctx, repo, sampleState())
	require.NoError(t, <-errs)
	_, open := <-errs
	assert.False(t, open)

	results := LoadAsync(ctx, repo)
	res := <-results
	require.NoError(t, res.Err)
	assert.True(t, res.Found)
	assert.Equal(t, sampleState(), res.State)
	_, open = <-results
	assert.False(t, open)
}
