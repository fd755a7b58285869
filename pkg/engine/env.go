package engine

import (
	"os"

	"github.com/forgelabs/crossforge/pkg/model"
)

// stageEnv builds the environment a package's stage commands run with: the
// process environment, the shared install roots, and the descriptor exported
// under the package's uppercase prefix. This replaces global namespaced
// variables with an explicit per-package export.
func (e *Engine) stageEnv(desc *model.ResolvedDescriptor) []string {
	env := os.Environ()
	appendVar := func(key, value string) {
		if value != "" {
			env = append(env, key+"="+value)
		}
	}

	appendVar("HOST_DIR", e.settings.HostDir)
	appendVar("STAGING_DIR", e.settings.StagingDir)
	appendVar("TARGET_DIR", e.settings.TargetDir)
	appendVar("IMAGES_DIR", e.settings.ImagesDir)

	prefix := desc.UppercaseName + "_"
	appendVar(prefix+"NAME", desc.Name)
	appendVar(prefix+"VERSION", desc.RawVersion)
	appendVar(prefix+"SAFE_VERSION", desc.SafeVersion)
	appendVar(prefix+"BASE_NAME", desc.BaseName)
	appendVar(prefix+"BUILD_DIR", desc.BuildDir)
	appendVar(prefix+"DOWNLOAD_DIR", desc.DownloadDir)
	appendVar(prefix+"PKG_DIR", desc.PackageDir)
	appendVar(prefix+"SOURCE", desc.Source)
	appendVar(prefix+"SITE", desc.Site)
	return env
}
