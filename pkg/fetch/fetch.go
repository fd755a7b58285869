// Package fetch unifies the retrieval methods behind one interface: archive
// download, version-control checkout, authenticated copy and local copy all
// expose the same fetch / check / enumerate operations, and a dispatcher
// runs the primary-mirror, package-site, backup-mirror fallback chain.
package fetch

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/forgelabs/crossforge/internal/logger"
)

// Mode selects what a fetch actually does.
type Mode int

const (
	// ModeDownload retrieves the source archive.
	ModeDownload Mode = iota
	// ModeSourceCheck only verifies that the source is reachable.
	ModeSourceCheck
	// ModeShowExternalDeps only reports what would be retrieved, so a caller
	// can audit the external dependencies of a build without network access.
	ModeShowExternalDeps
)

// Request identifies one source to retrieve.
type Request struct {
	// Site is the base URL or repository location, exactly as declared.
	Site string
	// RawVersion is the unsanitized version handed to version-control
	// backends (it may name a branch or tag path).
	RawVersion string
	// Filename is the archive file the fetch must produce in DestDir.
	Filename string
	// DestDir is the absolute download directory for this package.
	DestDir string
}

// Strategy is one retrieval method. Fetch honors ModeDownload and
// ModeSourceCheck; ModeShowExternalDeps is satisfied by Enumerate.
type Strategy interface {
	Fetch(ctx context.Context, req Request, mode Mode) error
	// Enumerate returns the identifying string for what would be retrieved.
	Enumerate(req Request) string
}

// joinURL appends a filename to a site base.
func joinURL(site, filename string) string {
	return strings.TrimSuffix(site, "/") + "/" + filename
}

// runCmd executes an external retrieval tool, logging its output at debug
// level and returning a descriptive error on failure.
func runCmd(ctx context.Context, dir, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		logger.Debug("command output", logger.Fields{"cmd": bin, "output": string(out)})
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", bin, strings.Join(args, " "), err)
	}
	return nil
}
