package patch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMissingPatchDir(t *testing.T) {
	applier := patch.NewApplier()
	err := applier.Apply(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
}

func TestApplyNoMatches(t *testing.T) {
	applier := patch.NewApplier()
	err := applier.Apply(context.Background(), t.TempDir(), t.TempDir(), "pkg-*.patch")
	assert.NoError(t, err)
}

func TestApplyRunsPatchesInOrder(t *testing.T) {
	// A fake patch binary records its invocations so the test does not
	// depend on a real patch(1).
	binDir := t.TempDir()
	logPath := filepath.Join(binDir, "invocations.log")
	script := "#!/bin/sh\necho \"$@\" >> " + logPath + "\n"
	fakePatch := filepath.Join(binDir, "fakepatch")
	require.NoError(t, os.WriteFile(fakePatch, []byte(script), 0o755))

	patchDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(patchDir, "pkg-0002-second.patch"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(patchDir, "pkg-0001-first.patch"), []byte("a"), 0o644))

	applier := &patch.Applier{PatchCommand: fakePatch}
	require.NoError(t, applier.Apply(context.Background(), t.TempDir(), patchDir, "pkg-*.patch"))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := string(data)
	first := filepath.Join(patchDir, "pkg-0001-first.patch")
	second := filepath.Join(patchDir, "pkg-0002-second.patch")
	assert.Contains(t, lines, first)
	assert.Contains(t, lines, second)
	// Sorted application order within one pattern.
	assert.Less(t, strings.Index(lines, first), strings.Index(lines, second))
}

func TestApplyFailureAborts(t *testing.T) {
	binDir := t.TempDir()
	fakePatch := filepath.Join(binDir, "failpatch")
	require.NoError(t, os.WriteFile(fakePatch, []byte("#!/bin/sh\nexit 1\n"), 0o755))

	patchDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(patchDir, "pkg-0001.patch"), []byte("x"), 0o644))

	applier := &patch.Applier{PatchCommand: fakePatch}
	err := applier.Apply(context.Background(), t.TempDir(), patchDir, "pkg-*.patch")
	require.ErrorIs(t, err, errors.ErrPatchFailed)
}

func TestDefaultPatterns(t *testing.T) {
	patterns := patch.DefaultPatterns("zlib", "1.3.1")
	assert.Equal(t, []string{"zlib-*.patch", filepath.Join("1.3.1", "zlib-*.patch")}, patterns)
}
