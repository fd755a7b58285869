package engine

import (
	"context"
	"os"

	"github.com/forgelabs/crossforge/internal/logger"
	"github.com/forgelabs/crossforge/pkg/model"
)

// removeMarkers deletes the completion markers of the given stage kinds. A
// marker that never existed is fine; anything else is a real filesystem
// problem and surfaces immediately.
func (e *Engine) removeMarkers(pkg string, kinds []model.StageKind) error {
	g, err := e.graphFor(pkg)
	if err != nil {
		return err
	}
	lock := e.lockFor(pkg)
	lock.Lock()
	defer lock.Unlock()

	for _, kind := range kinds {
		stage := g.Stage(kind)
		if stage == nil || stage.MarkerPath == "" {
			continue
		}
		if err := os.Remove(stage.MarkerPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Rebuild invalidates the build and install markers (plus rsync for
// overridden-source packages) and re-runs the install target. Fetch, extract
// and patch results are preserved.
func (e *Engine) Rebuild(ctx context.Context, pkg string) error {
	g, err := e.graphFor(pkg)
	if err != nil {
		return err
	}
	if err := e.removeMarkers(pkg, g.RebuildKinds()); err != nil {
		return err
	}
	return e.Install(ctx, pkg)
}

// Reconfigure invalidates the configure marker on top of everything Rebuild
// invalidates, so configure, build and install all re-run against the
// already-extracted source tree.
func (e *Engine) Reconfigure(ctx context.Context, pkg string) error {
	g, err := e.graphFor(pkg)
	if err != nil {
		return err
	}
	kinds := append(g.RebuildKinds(), model.StageConfigure)
	if err := e.removeMarkers(pkg, kinds); err != nil {
		return err
	}
	return e.Install(ctx, pkg)
}

// Clean runs the uninstall and clean command chains and removes the build
// marker. The configure marker deliberately survives: clean undoes build
// artifacts, dirclean undoes everything.
func (e *Engine) Clean(ctx context.Context, pkg string) error {
	if err := e.Run(ctx, pkg, model.StageClean); err != nil {
		return err
	}
	return e.removeMarkers(pkg, []model.StageKind{model.StageBuild})
}

// DirClean removes the package's entire working directory, markers included.
func (e *Engine) DirClean(ctx context.Context, pkg string) error {
	desc, err := e.descriptor(pkg)
	if err != nil {
		return err
	}
	logger.Debug("removing build tree", logger.Fields{"package": pkg, "dir": desc.BuildDir})
	return e.Run(ctx, pkg, model.StageDirClean)
}
