// Package patch applies package patches to an extracted source tree. The
// core only needs a hard contract from it: apply everything the glob
// patterns select, in order, and fail the stage on the first patch that does
// not apply cleanly.
package patch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/forgelabs/crossforge/internal/logger"
	"github.com/forgelabs/crossforge/pkg/errors"
)

// Applier applies patch files to a directory.
type Applier struct {
	// PatchCommand is the patch binary to invoke. Defaults to "patch".
	PatchCommand string
}

// NewApplier creates an Applier using the system patch binary.
func NewApplier() *Applier {
	return &Applier{PatchCommand: "patch"}
}

// Apply expands each glob pattern inside patchDir and applies every match to
// targetDir with -p1, in pattern order and sorted within a pattern. Patterns
// that match nothing are skipped: most packages carry no patches at all. A
// missing patchDir likewise means there is nothing to apply.
func (a *Applier) Apply(ctx context.Context, targetDir, patchDir string, patterns ...string) error {
	if _, err := os.Stat(patchDir); os.IsNotExist(err) {
		return nil
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(patchDir, pattern))
		if err != nil {
			return errors.Wrapf(errors.ErrPatchFailed, "bad pattern %q: %v", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			if err := a.applyOne(ctx, targetDir, match); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Applier) applyOne(ctx context.Context, targetDir, patchPath string) error {
	logger.Debug("applying patch", logger.Fields{"patch": filepath.Base(patchPath), "dir": targetDir})

	bin := a.PatchCommand
	if bin == "" {
		bin = "patch"
	}
	cmd := exec.CommandContext(ctx, bin, "-g0", "-p1", "-E", "-i", patchPath)
	cmd.Dir = targetDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(errors.ErrPatchFailed, "%s: %v: %s", filepath.Base(patchPath), err, out)
	}
	return nil
}

// DefaultPatterns returns the conventional glob patterns for a package:
// generic patches first, then version-specific ones.
func DefaultPatterns(name, safeVersion string) []string {
	return []string{
		fmt.Sprintf("%s-*.patch", name),
		filepath.Join(safeVersion, fmt.Sprintf("%s-*.patch", name)),
	}
}
