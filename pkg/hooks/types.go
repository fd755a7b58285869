// Package hooks implements the extension points invoked around pipeline
// stages. Hooks run strictly sequentially in registration order, with no
// isolation: a hook's side effects are visible to the next hook and to the
// stage commands that follow.
package hooks

import (
	"context"

	"github.com/forgelabs/crossforge/pkg/model"
)

// Point names one extension point of the pipeline.
type Point string

// Supported extension points.
const (
	PostDownload       Point = "post-download"
	PostExtract        Point = "post-extract"
	PrePatch           Point = "pre-patch"
	PostPatch          Point = "post-patch"
	PreConfigure       Point = "pre-configure"
	PostConfigure      Point = "post-configure"
	PostBuild          Point = "post-build"
	PostInstallHost    Point = "post-install-host"
	PostInstallStaging Point = "post-install-staging"
	PostInstallTarget  Point = "post-install-target"
	PostInstallImages  Point = "post-install-images"
)

// Context carries the descriptor-derived variables a hook sees.
type Context struct {
	PackageName    string
	PackageVersion string
	BuildDir       string
	PackageDir     string
	Vars           map[string]interface{}
}

// Func is a single hook callable.
type Func func(ctx context.Context, hctx Context) error

// knownPoints gates script loading: a hook file must name a real point.
var knownPoints = map[Point]bool{
	PostDownload: true, PostExtract: true,
	PrePatch: true, PostPatch: true,
	PreConfigure: true, PostConfigure: true,
	PostBuild:       true,
	PostInstallHost: true, PostInstallStaging: true,
	PostInstallTarget: true, PostInstallImages: true,
}

// PrePoint returns the extension point invoked before a stage, if any.
func PrePoint(kind model.StageKind) (Point, bool) {
	switch kind {
	case model.StagePatch:
		return PrePatch, true
	case model.StageConfigure:
		return PreConfigure, true
	default:
		return "", false
	}
}

// PostPoint returns the extension point invoked after a stage, if any.
func PostPoint(kind model.StageKind) (Point, bool) {
	switch kind {
	case model.StageSource:
		return PostDownload, true
	case model.StageExtract, model.StageRsync:
		return PostExtract, true
	case model.StagePatch:
		return PostPatch, true
	case model.StageConfigure:
		return PostConfigure, true
	case model.StageBuild:
		return PostBuild, true
	case model.StageInstallHost:
		return PostInstallHost, true
	case model.StageInstallStaging:
		return PostInstallStaging, true
	case model.StageInstallTarget:
		return PostInstallTarget, true
	case model.StageInstallImages:
		return PostInstallImages, true
	default:
		return "", false
	}
}
