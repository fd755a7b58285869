package engine

import (
	"context"
	"strings"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/model"
)

// Operation is one of the per-package entry points.
type Operation string

// Per-package operations, the "<pkg>-<op>" surface.
const (
	OpInstall     Operation = "install"
	OpBuild       Operation = "build"
	OpConfigure   Operation = "configure"
	OpPatch       Operation = "patch"
	OpExtract     Operation = "extract"
	OpSource      Operation = "source"
	OpDepends     Operation = "depends"
	OpShowDepends Operation = "show-depends"
	OpUninstall   Operation = "uninstall"
	OpClean       Operation = "clean"
	OpDirClean    Operation = "dirclean"
	OpRebuild     Operation = "rebuild"
	OpReconfigure Operation = "reconfigure"
)

// operations is ordered longest-suffix first so that "-show-depends" wins
// over "-depends" when both match.
var operations = []Operation{
	OpShowDepends,
	OpReconfigure,
	OpConfigure,
	OpUninstall,
	OpDirClean,
	OpInstall,
	OpRebuild,
	OpExtract,
	OpDepends,
	OpSource,
	OpBuild,
	OpPatch,
	OpClean,
}

// ParseEntrypoint splits a "<pkg>-<op>" target into its package and
// operation. Package names may themselves contain hyphens, so the remainder
// after stripping a suffix must name a known package; a bare known package
// name is its install target.
func (e *Engine) ParseEntrypoint(target string) (string, Operation, error) {
	if _, ok := e.set.Get(target); ok {
		return target, OpInstall, nil
	}
	for _, op := range operations {
		suffix := "-" + string(op)
		if !strings.HasSuffix(target, suffix) {
			continue
		}
		pkg := strings.TrimSuffix(target, suffix)
		if _, ok := e.set.Get(pkg); ok {
			return pkg, op, nil
		}
	}
	return "", "", errors.Wrapf(errors.ErrDependencyUnknown, "no package provides target %q", target)
}

// Execute dispatches one parsed entry point.
func (e *Engine) Execute(ctx context.Context, pkg string, op Operation) error {
	switch op {
	case OpInstall:
		return e.Install(ctx, pkg)
	case OpBuild:
		return e.Run(ctx, pkg, model.StageBuild)
	case OpConfigure:
		return e.Run(ctx, pkg, model.StageConfigure)
	case OpPatch:
		return e.Run(ctx, pkg, model.StagePatch)
	case OpExtract:
		return e.Run(ctx, pkg, model.StageExtract)
	case OpSource:
		return e.Run(ctx, pkg, model.StageSource)
	case OpDepends:
		return e.Run(ctx, pkg, model.StageDepends)
	case OpShowDepends:
		return e.ShowDepends(pkg)
	case OpUninstall:
		return e.Run(ctx, pkg, model.StageUninstall)
	case OpClean:
		return e.Clean(ctx, pkg)
	case OpDirClean:
		return e.DirClean(ctx, pkg)
	case OpRebuild:
		return e.Rebuild(ctx, pkg)
	case OpReconfigure:
		return e.Reconfigure(ctx, pkg)
	default:
		return errors.Wrapf(errors.ErrStageUnknown, "operation %q", op)
	}
}
