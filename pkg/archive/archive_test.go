package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgelabs/crossforge/pkg/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndExtractRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := archive.NewManager()

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "src", "main.c"), []byte("int main(void){return 0;}\n"), 0o644))

	archivePath := filepath.Join(t.TempDir(), "pkg-1.0.tar.gz")
	require.NoError(t, mgr.Create(ctx, src, archivePath))
	assert.FileExists(t, archivePath)

	dest := t.TempDir()
	require.NoError(t, mgr.ExtractAll(ctx, archivePath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "src", "main.c"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "int main")

	info, err := os.Stat(filepath.Join(dest, "configure"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestExtractAllMissingArchive(t *testing.T) {
	mgr := archive.NewManager()
	err := mgr.ExtractAll(context.Background(), filepath.Join(t.TempDir(), "absent.tar.gz"), t.TempDir())
	assert.Error(t, err)
}
