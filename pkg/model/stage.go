package model

// StageKind identifies one pipeline step of a package.
type StageKind string

// Pipeline stages, in their canonical order.
const (
	StageSource         StageKind = "source"
	StageRsync          StageKind = "rsync"
	StageExtract        StageKind = "extract"
	StagePatch          StageKind = "patch"
	StageDepends        StageKind = "depends"
	StageConfigure      StageKind = "configure"
	StageBuild          StageKind = "build"
	StageInstallStaging StageKind = "install-staging"
	StageInstallTarget  StageKind = "install-target"
	StageInstallImages  StageKind = "install-images"
	StageInstallHost    StageKind = "install-host"
	StageUninstall      StageKind = "uninstall"
	StageClean          StageKind = "clean"
	StageDirClean       StageKind = "dirclean"
)

// MarkerName returns the completion-marker filename for the stage.
func (k StageKind) MarkerName() string {
	return ".stamp_" + string(k)
}

// IsInstall reports whether the stage is one of the install leaves.
func (k StageKind) IsInstall() bool {
	switch k {
	case StageInstallStaging, StageInstallTarget, StageInstallImages, StageInstallHost:
		return true
	default:
		return false
	}
}

// Tracked reports whether the stage persists a completion marker. The
// teardown stages always re-run.
func (k StageKind) Tracked() bool {
	switch k {
	case StageDepends, StageUninstall, StageClean, StageDirClean:
		return false
	default:
		return true
	}
}
