package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forgelabs/crossforge/pkg/archive"
	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/fsutil"
	"github.com/forgelabs/crossforge/pkg/model"
)

// vcsStrategy checks out an exact version from a version-control system and
// snapshots it into a compressed archive. Later stages only ever see the
// immutable archive, never a live working copy; the transient checkout is
// removed on success and no archive is left behind on failure.
type vcsStrategy struct {
	kind     model.SiteMethod
	bin      string // overridable for tests
	archiver *archive.Manager
}

// NewVCSStrategy creates a strategy for one version-control kind. The kind
// doubles as the binary name: git, svn, bzr or hg.
func NewVCSStrategy(kind model.SiteMethod, archiver *archive.Manager) Strategy {
	return &vcsStrategy{kind: kind, bin: string(kind), archiver: archiver}
}

func (s *vcsStrategy) Fetch(ctx context.Context, req Request, mode Mode) error {
	site := model.StripSchemePrefix(req.Site)

	switch mode {
	case ModeSourceCheck:
		return s.check(ctx, site)
	case ModeShowExternalDeps:
		return nil
	}

	if err := fsutil.EnsureDir(req.DestDir); err != nil {
		return err
	}
	checkoutDir, err := os.MkdirTemp(req.DestDir, ".checkout-*")
	if err != nil {
		return errors.Wrap(err, "could not create checkout directory")
	}
	defer func() { _ = os.RemoveAll(checkoutDir) }()

	if err := s.checkout(ctx, site, req.RawVersion, checkoutDir); err != nil {
		return err
	}
	s.stripMetadata(checkoutDir)

	// Snapshot into a temp file first so a failed archive run cannot leave a
	// half-written file that a re-invocation would mistake for a completed
	// download.
	finalPath := filepath.Join(req.DestDir, req.Filename)
	tmpPath := finalPath + ".tmp"
	if err := s.archiver.Create(ctx, checkoutDir, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "snapshotting %s checkout", s.kind)
	}
	if err := fsutil.Move(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// checkout materializes the exact requested version into dir.
func (s *vcsStrategy) checkout(ctx context.Context, site, version, dir string) error {
	switch s.kind {
	case model.SiteMethodGit:
		if err := runCmd(ctx, "", s.bin, "clone", "--quiet", site, dir); err != nil {
			return err
		}
		return runCmd(ctx, dir, s.bin, "checkout", "--quiet", version)
	case model.SiteMethodSvn:
		return runCmd(ctx, "", s.bin, "checkout", "--quiet", "-r", version, site, dir)
	case model.SiteMethodBzr:
		return runCmd(ctx, "", s.bin, "branch", "--quiet", "-r", version, site, dir)
	case model.SiteMethodHg:
		return runCmd(ctx, "", s.bin, "clone", "--quiet", "-r", version, site, dir)
	default:
		return errors.Wrapf(errors.ErrSiteMethodUnknown, "%s", s.kind)
	}
}

func (s *vcsStrategy) check(ctx context.Context, site string) error {
	switch s.kind {
	case model.SiteMethodGit:
		return runCmd(ctx, "", s.bin, "ls-remote", site)
	case model.SiteMethodSvn:
		return runCmd(ctx, "", s.bin, "info", site)
	case model.SiteMethodBzr:
		return runCmd(ctx, "", s.bin, "info", site)
	case model.SiteMethodHg:
		return runCmd(ctx, "", s.bin, "identify", site)
	default:
		return errors.Wrapf(errors.ErrSiteMethodUnknown, "%s", s.kind)
	}
}

// stripMetadata removes version-control bookkeeping so the snapshot is a
// plain source tree.
func (s *vcsStrategy) stripMetadata(dir string) {
	for _, meta := range []string{".git", ".svn", ".bzr", ".hg"} {
		_ = os.RemoveAll(filepath.Join(dir, meta))
	}
}

func (s *vcsStrategy) Enumerate(req Request) string {
	return fmt.Sprintf("%s %s %s", s.kind, model.StripSchemePrefix(req.Site), req.RawVersion)
}
