// Package model provides the data structures describing packages, retrieval
// methods and pipeline stages in the crossforge build orchestrator.
package model

import "strings"

// PackageType distinguishes packages built for the build machine from
// packages built for the cross-compilation target.
type PackageType string

const (
	// TypeHost marks a package built with the host toolchain and installed
	// into the host tool prefix.
	TypeHost PackageType = "host"
	// TypeTarget marks a package cross-compiled for the target system.
	TypeTarget PackageType = "target"
)

// HostPrefix is the name prefix identifying host variants of a package.
const HostPrefix = "host-"

// OverrideVersion is the literal version assigned to packages whose source
// tree is taken from a local override directory instead of a fetched archive.
const OverrideVersion = "custom"

// Descriptor is the raw, declarative description of one package as it
// appears in configuration. Empty fields are filled in by the resolver;
// install flags use pointers so that an absent value is distinguishable from
// an explicit false.
type Descriptor struct {
	Name           string   `yaml:"name"`
	Type           string   `yaml:"type,omitempty"`
	Version        string   `yaml:"version,omitempty"`
	Source         string   `yaml:"source,omitempty"`
	Site           string   `yaml:"site,omitempty"`
	SiteMethod     string   `yaml:"site_method,omitempty"`
	Dependencies   []string `yaml:"dependencies,omitempty"`
	InstallStaging *bool    `yaml:"install_staging,omitempty"`
	InstallImages  *bool    `yaml:"install_images,omitempty"`
	InstallTarget  *bool    `yaml:"install_target,omitempty"`
	DirPrefix      string   `yaml:"dir_prefix,omitempty"`
	OverrideSrcDir string   `yaml:"override_src_dir,omitempty"`

	// Per-stage command lists, run verbatim through the shell.
	Commands StageCommands `yaml:"commands,omitempty"`
}

// StageCommands holds the command lists a descriptor declares per stage.
type StageCommands struct {
	Configure      []string `yaml:"configure,omitempty"`
	Build          []string `yaml:"build,omitempty"`
	InstallStaging []string `yaml:"install_staging,omitempty"`
	InstallTarget  []string `yaml:"install_target,omitempty"`
	InstallImages  []string `yaml:"install_images,omitempty"`
	InstallHost    []string `yaml:"install_host,omitempty"`
	Uninstall      []string `yaml:"uninstall,omitempty"`
	Clean          []string `yaml:"clean,omitempty"`
}

// InstallFlags are the three independent install destinations of a target
// package. Host packages ignore them and install to the host prefix.
type InstallFlags struct {
	Staging bool
	Target  bool
	Images  bool
}

// ResolvedDescriptor is a Descriptor after default-filling and host/target
// derivation. Resolved descriptors are immutable once derivation completes.
type ResolvedDescriptor struct {
	Name          string
	UppercaseName string
	Type          PackageType

	// RawVersion is handed unmodified to the retrieval backend; SafeVersion
	// has path-hostile characters rewritten and is used in all directory and
	// file names.
	RawVersion  string
	SafeVersion string

	// BaseName is "<name>-<safe-version>" and keys the download store and
	// the build working directory.
	BaseName    string
	DownloadDir string
	BuildDir    string

	Source     string
	Site       string
	SiteMethod SiteMethod

	Dependencies []string
	Install      InstallFlags

	DirPrefix      string
	PackageDir     string
	OverrideSrcDir string

	Commands StageCommands
}

// IsHost reports whether the descriptor describes a host package.
func (d *ResolvedDescriptor) IsHost() bool {
	return d.Type == TypeHost
}

// HasOverrideSource reports whether the package's source tree comes from a
// local directory instead of a fetched archive.
func (d *ResolvedDescriptor) HasOverrideSource() bool {
	return d.OverrideSrcDir != ""
}

// HostName returns the host-variant name of a package, collapsing a doubled
// prefix so that the host variant of "host-foo" is still "host-foo".
func HostName(name string) string {
	if strings.HasPrefix(name, HostPrefix) {
		return name
	}
	return HostPrefix + name
}

// BaseTargetName strips the host prefix, yielding the logical target package
// a host variant was derived from.
func BaseTargetName(name string) string {
	return strings.TrimPrefix(name, HostPrefix)
}
