// Package engine runs package pipelines: it walks the stage graph, executes
// stage commands and hooks, and tracks completion through persistent marker
// files so that re-invocations skip finished work.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/forgelabs/crossforge/internal/logger"
	"github.com/forgelabs/crossforge/pkg/config"
	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/fetch"
	"github.com/forgelabs/crossforge/pkg/fsutil"
	"github.com/forgelabs/crossforge/pkg/graph"
	"github.com/forgelabs/crossforge/pkg/hooks"
	"github.com/forgelabs/crossforge/pkg/model"
	"github.com/forgelabs/crossforge/pkg/patch"
	"github.com/forgelabs/crossforge/pkg/resolver"
)

// Options wire the engine's collaborators.
type Options struct {
	Fetcher   Fetcher
	Extractor Extractor
	Patcher   Patcher
	Hooks     *hooks.Manager
	Runner    Runner
	Settings  config.Settings
	// Out receives show-depends and show-graph output. Defaults to stdout.
	Out io.Writer
}

// Engine drives resolved packages through the stage pipeline.
type Engine struct {
	set       *resolver.Set
	fetcher   Fetcher
	extractor Extractor
	patcher   Patcher
	hooks     *hooks.Manager
	runner    Runner
	settings  config.Settings
	out       io.Writer

	mu     sync.Mutex
	graphs map[string]*graph.Graph
	// locks serialize the stages of one package across workers. Builds of
	// the same package+version would otherwise race on markers and the
	// working directory.
	locks map[string]*sync.Mutex
}

// New creates an engine over a resolved package set.
func New(set *resolver.Set, opts Options) *Engine {
	e := &Engine{
		set:       set,
		fetcher:   opts.Fetcher,
		extractor: opts.Extractor,
		patcher:   opts.Patcher,
		hooks:     opts.Hooks,
		runner:    opts.Runner,
		settings:  opts.Settings,
		out:       opts.Out,
		graphs:    make(map[string]*graph.Graph),
		locks:     make(map[string]*sync.Mutex),
	}
	if e.hooks == nil {
		e.hooks = hooks.NewManager()
	}
	if e.runner == nil {
		e.runner = NewShellRunner()
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	return e
}

// Hooks exposes the engine's hook manager for registration.
func (e *Engine) Hooks() *hooks.Manager {
	return e.hooks
}

func (e *Engine) descriptor(pkg string) (*model.ResolvedDescriptor, error) {
	desc, ok := e.set.Get(pkg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrDependencyUnknown, "%s", pkg)
	}
	return desc, nil
}

func (e *Engine) graphFor(pkg string) (*graph.Graph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g, ok := e.graphs[pkg]; ok {
		return g, nil
	}
	desc, err := e.descriptor(pkg)
	if err != nil {
		return nil, err
	}
	g := graph.Build(desc)
	e.graphs[pkg] = g
	return g, nil
}

func (e *Engine) lockFor(pkg string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[pkg]
	if !ok {
		l = &sync.Mutex{}
		e.locks[pkg] = l
	}
	return l
}

// Install runs every enabled install leaf of a package, pulling in the whole
// pipeline through the graph's edges. This is the bare package target.
func (e *Engine) Install(ctx context.Context, pkg string) error {
	g, err := e.graphFor(pkg)
	if err != nil {
		return err
	}
	for _, kind := range g.InstallKinds() {
		if err := e.Run(ctx, pkg, kind); err != nil {
			return err
		}
	}
	return nil
}

// Run executes a stage after satisfying its prerequisites: intra-package
// edges depth-first, then — for the depends node — every dependency
// package's install target.
func (e *Engine) Run(ctx context.Context, pkg string, kind model.StageKind) error {
	g, err := e.graphFor(pkg)
	if err != nil {
		return err
	}
	stage := g.Stage(kind)
	if stage == nil {
		// A disabled install leaf is a no-op target.
		if kind.IsInstall() {
			return nil
		}
		return errors.Wrapf(errors.ErrStageUnknown, "package %s: %s", pkg, kind)
	}

	// A present marker proves the stage and its whole ancestry completed;
	// skipping here is what makes re-invocations fast.
	if stage.MarkerPath != "" && fsutil.Exists(stage.MarkerPath) {
		return nil
	}

	for _, dep := range stage.DependsOn {
		if err := e.Run(ctx, pkg, dep); err != nil {
			return err
		}
	}
	if kind == model.StageDepends {
		for _, req := range stage.Requires {
			if err := e.Install(ctx, req); err != nil {
				return err
			}
		}
	}
	return e.RunStage(ctx, pkg, kind)
}

// RunStage executes a single stage without walking prerequisites: marker
// check, pre-hooks, the stage's action, post-hooks, marker write. A failure
// at any point withholds the marker.
func (e *Engine) RunStage(ctx context.Context, pkg string, kind model.StageKind) error {
	desc, err := e.descriptor(pkg)
	if err != nil {
		return err
	}
	g, err := e.graphFor(pkg)
	if err != nil {
		return err
	}
	stage := g.Stage(kind)
	if stage == nil {
		if kind.IsInstall() {
			return nil
		}
		return errors.Wrapf(errors.ErrStageUnknown, "package %s: %s", pkg, kind)
	}

	lock := e.lockFor(pkg)
	lock.Lock()
	defer lock.Unlock()

	// Recheck under the lock: another worker may have completed the stage
	// while this one waited.
	if stage.MarkerPath != "" && fsutil.Exists(stage.MarkerPath) {
		return nil
	}

	hctx := hooks.Context{
		PackageName:    desc.Name,
		PackageVersion: desc.RawVersion,
		BuildDir:       desc.BuildDir,
		PackageDir:     desc.PackageDir,
	}
	if point, ok := hooks.PrePoint(kind); ok {
		if err := e.hooks.RunAll(ctx, pkg, point, hctx); err != nil {
			return e.fail(pkg, kind, err)
		}
	}

	logger.Info("running stage", logger.Fields{"package": pkg, "stage": string(kind)})
	if err := e.runAction(ctx, desc, stage); err != nil {
		return e.fail(pkg, kind, err)
	}

	if point, ok := hooks.PostPoint(kind); ok {
		if err := e.hooks.RunAll(ctx, pkg, point, hctx); err != nil {
			return e.fail(pkg, kind, err)
		}
	}

	if stage.MarkerPath != "" {
		if err := fsutil.Touch(stage.MarkerPath); err != nil {
			return e.fail(pkg, kind, err)
		}
	}
	return nil
}

// fail names the package and stage; markers stay at last known good.
func (e *Engine) fail(pkg string, kind model.StageKind, err error) error {
	return errors.Wrapf(errors.ErrStageFailed, "package %s, stage %s: %v", pkg, kind, err)
}

// runAction dispatches a stage to its builtin behavior or its command list.
func (e *Engine) runAction(ctx context.Context, desc *model.ResolvedDescriptor, stage *graph.Stage) error {
	switch stage.Kind {
	case model.StageSource:
		return e.fetcher.Fetch(ctx, desc, fetch.ModeDownload)
	case model.StageRsync:
		return e.syncOverride(desc)
	case model.StageExtract:
		if err := fsutil.EnsureDir(desc.BuildDir); err != nil {
			return err
		}
		return e.extractor.ExtractAll(ctx, filepath.Join(desc.DownloadDir, desc.Source), desc.BuildDir)
	case model.StagePatch:
		return e.patcher.Apply(ctx, desc.BuildDir, desc.PackageDir,
			patch.DefaultPatterns(model.BaseTargetName(desc.Name), desc.SafeVersion)...)
	case model.StageDepends:
		// Cross-package prerequisites are satisfied by Run; the node itself
		// has no work.
		return nil
	case model.StageDirClean:
		return os.RemoveAll(desc.BuildDir)
	default:
		return e.runCommands(ctx, desc, stage.Commands)
	}
}

// syncOverride copies the override source tree into the build directory,
// replacing fetch, extract and patch.
func (e *Engine) syncOverride(desc *model.ResolvedDescriptor) error {
	if !fsutil.Exists(desc.OverrideSrcDir) {
		return errors.Wrapf(errors.ErrOverrideDirMissing, "%s", desc.OverrideSrcDir)
	}
	if err := fsutil.EnsureDir(desc.BuildDir); err != nil {
		return err
	}
	return fsutil.CopyTree(desc.OverrideSrcDir, desc.BuildDir)
}

func (e *Engine) runCommands(ctx context.Context, desc *model.ResolvedDescriptor, commands []string) error {
	env := e.stageEnv(desc)
	for _, command := range commands {
		if err := e.runner.Run(ctx, desc.BuildDir, env, command); err != nil {
			return err
		}
	}
	return nil
}

// SourceCheck verifies that a package's source is reachable without
// retrieving it.
func (e *Engine) SourceCheck(ctx context.Context, pkg string) error {
	desc, err := e.descriptor(pkg)
	if err != nil {
		return err
	}
	return e.fetcher.Fetch(ctx, desc, fetch.ModeSourceCheck)
}

// ExternalDeps reports what a package's source stage would retrieve, without
// network access.
func (e *Engine) ExternalDeps(ctx context.Context, pkg string) error {
	desc, err := e.descriptor(pkg)
	if err != nil {
		return err
	}
	return e.fetcher.Fetch(ctx, desc, fetch.ModeShowExternalDeps)
}

// ShowDepends prints a package's direct dependencies.
func (e *Engine) ShowDepends(pkg string) error {
	desc, err := e.descriptor(pkg)
	if err != nil {
		return err
	}
	for _, dep := range desc.Dependencies {
		if _, err := fmt.Fprintln(e.out, dep); err != nil {
			return err
		}
	}
	return nil
}

// ShowGraph prints a package's stage graph: each stage with its
// intra-package edges and, for the depends node, the dependency packages it
// gates on.
func (e *Engine) ShowGraph(pkg string) error {
	g, err := e.graphFor(pkg)
	if err != nil {
		return err
	}
	for _, kind := range g.Kinds() {
		stage := g.Stage(kind)
		line := string(kind)
		for _, dep := range stage.DependsOn {
			line += " <- " + string(dep)
		}
		for _, req := range stage.Requires {
			line += " [requires " + req + "]"
		}
		if _, err := fmt.Fprintln(e.out, line); err != nil {
			return err
		}
	}
	return nil
}
