// Package graph builds the per-package stage graph: the ordered pipeline
// steps, their intra-package edges, and the cross-package edges that gate a
// package's configure stage on its dependencies' installs.
package graph

import (
	"path/filepath"
	"sort"

	"github.com/forgelabs/crossforge/pkg/model"
)

// Stage is one pipeline step of one package.
type Stage struct {
	Kind     model.StageKind
	Commands []string
	// MarkerPath is the completion marker; empty for untracked stages.
	MarkerPath string
	// DependsOn lists intra-package prerequisite stages.
	DependsOn []model.StageKind
	// Requires lists packages whose install target must be complete before
	// this stage may start. Only the depends node carries these.
	Requires []string
}

// Graph is the stage graph of a single package.
type Graph struct {
	Desc   *model.ResolvedDescriptor
	Stages map[model.StageKind]*Stage
}

// Build constructs the stage graph for a resolved descriptor. Two
// topologies exist: the normal fetch+extract+patch pipeline, and the
// overridden-source pipeline where a local sync replaces all three.
func Build(desc *model.ResolvedDescriptor) *Graph {
	g := &Graph{
		Desc:   desc,
		Stages: make(map[model.StageKind]*Stage),
	}

	var preDepends model.StageKind
	if desc.HasOverrideSource() {
		g.add(model.StageRsync, nil)
		preDepends = model.StageRsync
	} else {
		g.add(model.StageSource, nil)
		g.add(model.StageExtract, nil, model.StageSource)
		g.add(model.StagePatch, nil, model.StageExtract)
		preDepends = model.StagePatch
	}

	// The depends node exists even for an empty dependency list; it is then
	// immediately satisfied.
	depends := g.add(model.StageDepends, nil, preDepends)
	depends.Requires = append([]string(nil), desc.Dependencies...)

	g.add(model.StageConfigure, desc.Commands.Configure, model.StageDepends)
	g.add(model.StageBuild, desc.Commands.Build, model.StageConfigure)

	if desc.IsHost() {
		g.add(model.StageInstallHost, desc.Commands.InstallHost, model.StageBuild)
	} else {
		// Three independent leaves, each gated by its own install flag. A
		// disabled leaf simply does not exist in the graph.
		if desc.Install.Staging {
			g.add(model.StageInstallStaging, desc.Commands.InstallStaging, model.StageBuild)
		}
		if desc.Install.Target {
			g.add(model.StageInstallTarget, desc.Commands.InstallTarget, model.StageBuild)
		}
		if desc.Install.Images {
			g.add(model.StageInstallImages, desc.Commands.InstallImages, model.StageBuild)
		}
	}

	// Teardown: uninstalling needs resolved configuration, cleaning needs
	// the uninstall to have happened. dirclean stands alone.
	g.add(model.StageUninstall, desc.Commands.Uninstall, model.StageConfigure)
	g.add(model.StageClean, desc.Commands.Clean, model.StageUninstall)
	g.add(model.StageDirClean, nil)

	return g
}

func (g *Graph) add(kind model.StageKind, commands []string, deps ...model.StageKind) *Stage {
	s := &Stage{
		Kind:      kind,
		Commands:  commands,
		DependsOn: deps,
	}
	if kind.Tracked() {
		s.MarkerPath = filepath.Join(g.Desc.BuildDir, kind.MarkerName())
	}
	g.Stages[kind] = s
	return s
}

// Stage returns the stage of the given kind, or nil when the graph does not
// contain it (e.g., a disabled install leaf).
func (g *Graph) Stage(kind model.StageKind) *Stage {
	return g.Stages[kind]
}

// InstallKinds returns the package's enabled install leaves. This is what
// the bare package target and the -install entry point expand to.
func (g *Graph) InstallKinds() []model.StageKind {
	if g.Desc.IsHost() {
		return []model.StageKind{model.StageInstallHost}
	}
	var kinds []model.StageKind
	for _, k := range []model.StageKind{model.StageInstallStaging, model.StageInstallTarget, model.StageInstallImages} {
		if g.Stages[k] != nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// RebuildKinds returns the stages whose markers a rebuild cascade removes:
// build and every install leaf, plus rsync for overridden-source packages.
func (g *Graph) RebuildKinds() []model.StageKind {
	kinds := []model.StageKind{model.StageBuild}
	kinds = append(kinds, g.InstallKinds()...)
	if g.Desc.HasOverrideSource() {
		kinds = append(kinds, model.StageRsync)
	}
	return kinds
}

// Kinds returns every stage kind present in the graph, sorted for stable
// iteration.
func (g *Graph) Kinds() []model.StageKind {
	kinds := make([]model.StageKind, 0, len(g.Stages))
	for k := range g.Stages {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
