package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/fsutil"
)

// localStrategy copies a source archive from a local directory. It serves
// both the explicit "local" site method and file:// sites.
type localStrategy struct{}

// NewLocalStrategy creates the local-copy strategy.
func NewLocalStrategy() Strategy {
	return &localStrategy{}
}

// localPath resolves the site to a filesystem directory.
func (s *localStrategy) localPath(site string) string {
	if strings.HasPrefix(site, "file://") {
		if u, err := url.Parse(site); err == nil {
			return u.Path
		}
	}
	return site
}

func (s *localStrategy) Fetch(ctx context.Context, req Request, mode Mode) error {
	_ = ctx
	src := filepath.Join(s.localPath(req.Site), req.Filename)

	switch mode {
	case ModeSourceCheck:
		if !fsutil.Exists(src) {
			return errors.Wrapf(errors.ErrDownloadFailed, "%s does not exist", src)
		}
		return nil
	case ModeShowExternalDeps:
		return nil
	}

	if _, err := os.Stat(src); err != nil {
		return errors.Wrapf(errors.ErrDownloadFailed, "%s: %v", src, err)
	}
	if err := fsutil.EnsureDir(req.DestDir); err != nil {
		return err
	}
	return fsutil.Copy(src, filepath.Join(req.DestDir, req.Filename))
}

func (s *localStrategy) Enumerate(req Request) string {
	return fmt.Sprintf("file %s", filepath.Join(s.localPath(req.Site), req.Filename))
}

// scpStrategy retrieves a source archive over an authenticated copy.
type scpStrategy struct {
	bin string // overridable for tests
}

// NewScpStrategy creates the scp retrieval strategy.
func NewScpStrategy() Strategy {
	return &scpStrategy{bin: "scp"}
}

// scpLocation rewrites scp://user@host/path into the user@host:path form the
// scp binary expects.
func scpLocation(site, filename string) string {
	trimmed := strings.TrimPrefix(site, "scp://")
	host, path, found := strings.Cut(trimmed, "/")
	if !found {
		return trimmed + ":" + filename
	}
	return host + ":" + "/" + strings.TrimSuffix(path, "/") + "/" + filename
}

func (s *scpStrategy) Fetch(ctx context.Context, req Request, mode Mode) error {
	switch mode {
	case ModeShowExternalDeps:
		return nil
	case ModeSourceCheck:
		// A quiet copy attempt is the only portable reachability probe scp
		// offers; the result is discarded.
		tmpDir, err := os.MkdirTemp("", "crossforge-scp-check-*")
		if err != nil {
			return errors.Wrap(err, "could not create temp dir")
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()
		return runCmd(ctx, "", s.bin, "-q", scpLocation(req.Site, req.Filename), tmpDir)
	}

	if err := fsutil.EnsureDir(req.DestDir); err != nil {
		return err
	}
	return runCmd(ctx, "", s.bin, "-q", scpLocation(req.Site, req.Filename), filepath.Join(req.DestDir, req.Filename))
}

func (s *scpStrategy) Enumerate(req Request) string {
	return fmt.Sprintf("scp %s", scpLocation(req.Site, req.Filename))
}
