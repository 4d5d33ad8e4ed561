package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *LocalBlobStore {
	t.Helper()
	store, err := NewLocalBlobStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestLocalBlobStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	content := []byte("%PDF-1.4 fake invoice")

	id, err := store.Save("facture_dell.pdf", content)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	blob, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "facture_dell.pdf", blob.Name)
	assert.Equal(t, content, blob.Content)
}

func TestLocalBlobStore_Delete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save("budget_2025.xlsx", []byte("workbook"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))
	_, err = store.Get(id)
	assert.Error(t, err)

	// Deleting again is idempotent.
	assert.NoError(t, store.Delete(id))
}

func TestLocalBlobStore_SanitizesFileNames(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalBlobStore(tempDir, zap.NewNop())
	require.NoError(t, err)

	id, err := store.Save("../../etc/passwd", []byte("nope"))
	require.NoError(t, err)

	// The file must have landed inside the blob folder.
	entries, err := os.ReadDir(filepath.Join(tempDir, id))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
	assert.NotContains(t, entries[0].Name(), "..")
}

func TestLocalBlobStore_GetUnknownID(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get("does-not-exist")
	assert.Error(t, err)
}
