package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webpress/sitepub/pkg/sitepub"
	"github.com/webpress/sitepub/pkg/sitepub/assetstore/fs"
)

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := fs.New(fs.Config{})
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := fs.New(fs.Config{BaseDir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o755))
	path := filepath.Join(dir, "uploads", "hero.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	// Full URLs resolve to paths under the base directory.
	require.NoError(t, store.Delete(ctx, "https://cdn.example.com/uploads/hero.png"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Missing assets report a typed error the caller can ignore.
	err = store.Delete(ctx, "uploads/hero.png")
	assert.ErrorIs(t, err, sitepub.ErrAssetNotFound)
}

func TestDeleteRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := fs.New(fs.Config{BaseDir: dir})
	require.NoError(t, err)

	outside := filepath.Join(dir, "..", "escape.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	defer os.Remove(outside)

	err = store.Delete(context.Background(), "../escape.txt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, sitepub.ErrAssetNotFound)

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr, "file outside the base directory must survive")
}
