package cli

import (
	"github.com/forgelabs/crossforge/pkg/engine"
	"github.com/spf13/cobra"
)

// newOpCmd builds a command that runs one per-package operation against
// every named package, in parallel up to the worker bound.
func newOpCmd(use string, op engine.Operation, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PACKAGE...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd.Context(), args, op)
		},
	}
}

// NewInstallCmd creates the install command, the bare package target.
func NewInstallCmd() *cobra.Command {
	return newOpCmd("install", engine.OpInstall, "Run the full pipeline up to every enabled install destination")
}

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	return newOpCmd("build", engine.OpBuild, "Build packages (and everything the build stage depends on)")
}

// NewConfigureCmd creates the configure command.
func NewConfigureCmd() *cobra.Command {
	return newOpCmd("configure", engine.OpConfigure, "Configure packages after their dependencies are installed")
}

// NewPatchCmd creates the patch command.
func NewPatchCmd() *cobra.Command {
	return newOpCmd("patch", engine.OpPatch, "Apply package patches to the extracted source tree")
}

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	return newOpCmd("extract", engine.OpExtract, "Extract downloaded source archives into the build tree")
}

// NewSourceCmd creates the source command.
func NewSourceCmd() *cobra.Command {
	return newOpCmd("source", engine.OpSource, "Retrieve package sources through the mirror chain")
}

// NewDependsCmd creates the depends command.
func NewDependsCmd() *cobra.Command {
	return newOpCmd("depends", engine.OpDepends, "Install every dependency of the named packages")
}

// NewShowDependsCmd creates the show-depends command.
func NewShowDependsCmd() *cobra.Command {
	return newOpCmd("show-depends", engine.OpShowDepends, "Print the direct dependencies of the named packages")
}

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	return newOpCmd("uninstall", engine.OpUninstall, "Run the uninstall commands of the named packages")
}

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	return newOpCmd("clean", engine.OpClean, "Uninstall and invalidate build artifacts, keeping the source tree")
}

// NewDirCleanCmd creates the dirclean command.
func NewDirCleanCmd() *cobra.Command {
	return newOpCmd("dirclean", engine.OpDirClean, "Remove the whole working directory of the named packages")
}

// NewRebuildCmd creates the rebuild command.
func NewRebuildCmd() *cobra.Command {
	return newOpCmd("rebuild", engine.OpRebuild, "Force build and install to re-run without re-fetching or re-patching")
}

// NewReconfigureCmd creates the reconfigure command.
func NewReconfigureCmd() *cobra.Command {
	return newOpCmd("reconfigure", engine.OpReconfigure, "Force configure, build and install to re-run on the existing source tree")
}
