package uploads

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

func TestStore_SaveAndRemove(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "upload")
	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	require.NoError(t, store.Save(ctx, "abc.pdf", []byte("%PDF-1.4")))

	data, err := os.ReadFile(filepath.Join(dir, "abc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Remove(ctx, "abc.pdf"))
	assert.NoFileExists(t, filepath.Join(dir, "abc.pdf"))

	// Removing twice is fine.
	require.NoError(t, store.Remove(ctx, "abc.pdf"))
}

func TestStore_SaveNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "a.txt", []byte("first")))
	err = store.Save(ctx, "a.txt", []byte("second"))

	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
	data, _ := os.ReadFile(filepath.Join(store.Dir(), "a.txt"))
	assert.Equal(t, "first", string(data))
}

func TestStore_RejectsPathTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../escape.pdf", "a/b.pdf", `a\b.pdf`} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(store.Save(ctx, name, []byte("x")), domain.ErrInvalidInput))
			assert.True(t, errors.Is(store.Remove(ctx, name), domain.ErrInvalidInput))
		})
	}
}

func TestStore_Close(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Save(ctx, "a.pdf", []byte("x")), domain.ErrStoreClosed)
	assert.ErrorIs(t, store.Remove(ctx, "a.pdf"), domain.ErrStoreClosed)
	assert.NoFileExists(t, filepath.Join(dir, "a.pdf"))
	assert.NoError(t, store.Close())
}
