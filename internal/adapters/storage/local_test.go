package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pantry-be/internal/adapters/storage"
	"github.com/ammerola/pantry-be/test/helpers"
)

func TestLocalStorage_UploadAndPresign(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store := storage.NewLocalStorage(base, helpers.TestLogger())

	err := store.Upload(ctx, "exports/user-1/inventory.csv", strings.NewReader("id,name,quantity,category\n"), "text/csv")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, "exports", "user-1", "inventory.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name,quantity,category\n", string(data))

	link, err := store.PresignDownload(ctx, "exports/user-1/inventory.csv", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "file://"))
	assert.True(t, strings.HasSuffix(link, "/exports/user-1/inventory.csv"))

	_, err = store.PresignDownload(ctx, "exports/user-1/missing.csv", time.Minute)
	assert.Error(t, err)
}

func TestLocalStorage_KeysStayInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store := storage.NewLocalStorage(filepath.Join(base, "archive"), helpers.TestLogger())

	require.NoError(t, store.Upload(ctx, "../../escape.txt", strings.NewReader("x"), ""))

	_, err := os.Stat(filepath.Join(base, "archive", "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(base), "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store := storage.NewLocalStorage(base, helpers.TestLogger())

	for _, key := range []string{"exports/a/old.csv", "exports/b/old.pdf", "exports/a/new.csv", "other/old.csv"} {
		require.NoError(t, store.Upload(ctx, key, strings.NewReader("data"), ""))
	}

	old := time.Now().Add(-48 * time.Hour)
	for _, rel := range []string{"exports/a/old.csv", "exports/b/old.pdf", "other/old.csv"} {
		require.NoError(t, os.Chtimes(filepath.Join(base, rel), old, old))
	}

	deleted, err := store.DeleteOlderThan(ctx, "exports/", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = os.Stat(filepath.Join(base, "exports", "a", "new.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "other", "old.csv"))
	assert.NoError(t, err)

	deleted, err = store.DeleteOlderThan(ctx, "missing/", time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
