package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDirTree(t *testing.T) {
	dir := t.TempDir()

	got, err := ResolveDirTree(context.Background(), DirTree(dir))
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = ResolveDirTree(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestResolveDirTree_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := ResolveDirTree(context.Background(), DirTree(file))
	assert.ErrorContains(t, err, "not a directory")

	_, err = ResolveDirTree(context.Background(), DirTree(filepath.Join(dir, "missing")))
	assert.Error(t, err)

	_, err = ResolveDirTree(context.Background(), 42)
	assert.ErrorContains(t, err, "cannot resolve tree")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ResolveDirTree(ctx, DirTree(dir))
	assert.ErrorIs(t, err, context.Canceled)
}
