// Package resolver fills in descriptor defaults, derives host variants and
// normalizes dependencies. Resolution is pure: it performs no I/O and a
// descriptor is never mutated after it has been resolved.
package resolver

import (
	"fmt"
	"strings"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/model"
	"github.com/forgelabs/crossforge/pkg/nameutil"
)

// Options locate the directory roots resolved descriptors hang off.
type Options struct {
	// DownloadRoot is the directory holding fetched source archives.
	DownloadRoot string
	// BuildRoot is the directory holding per-package build trees.
	BuildRoot string
	// PackageRoot is the directory holding per-package metadata (patches,
	// hook scripts), organized as <PackageRoot>/<dir-prefix>/<name>.
	PackageRoot string
	// DefaultSiteTemplate is the mirror URL template applied when a
	// descriptor declares no site; %s is replaced by the package name.
	DefaultSiteTemplate string
}

// DefaultDirPrefix is assumed when a descriptor does not say where its
// package directory lives.
const DefaultDirPrefix = "package"

// Resolve fills in every computed field of a raw descriptor. counterpart is
// the resolved target variant of the same logical package when resolving a
// derived host descriptor, and nil otherwise. Absent fields of a host
// variant inherit from the counterpart; the reverse never happens.
func Resolve(raw model.Descriptor, counterpart *model.ResolvedDescriptor, opts Options) (*model.ResolvedDescriptor, error) {
	if raw.Name == "" {
		return nil, errors.Wrap(errors.ErrDescriptorInvalid, "descriptor has no name")
	}

	d := &model.ResolvedDescriptor{
		Name:          raw.Name,
		UppercaseName: nameutil.Uppercase(raw.Name),
	}

	switch raw.Type {
	case "", string(model.TypeTarget):
		d.Type = model.TypeTarget
	case string(model.TypeHost):
		d.Type = model.TypeHost
	default:
		return nil, errors.Wrapf(errors.ErrDescriptorInvalid, "package %s: unknown type %q", raw.Name, raw.Type)
	}
	if strings.HasPrefix(raw.Name, model.HostPrefix) {
		d.Type = model.TypeHost
	}

	d.OverrideSrcDir = raw.OverrideSrcDir
	if d.OverrideSrcDir == "" && counterpart != nil {
		d.OverrideSrcDir = counterpart.OverrideSrcDir
	}

	if err := resolveVersion(d, raw, counterpart); err != nil {
		return nil, err
	}

	d.BaseName = d.Name + "-" + d.SafeVersion
	d.DownloadDir = joinPath(opts.DownloadRoot, d.BaseName)
	d.BuildDir = joinPath(opts.BuildRoot, d.BaseName)

	resolveSite(d, raw, counterpart, opts)
	if d.OverrideSrcDir == "" && d.Site == "" {
		return nil, errors.Wrapf(errors.ErrDescriptorInvalid,
			"package %s: no site, no source and no override directory", d.Name)
	}
	if !d.SiteMethod.Valid() {
		return nil, errors.Wrapf(errors.ErrSiteMethodUnknown, "package %s: %q", d.Name, d.SiteMethod)
	}

	d.Dependencies = normalizeDependencies(d.Type, raw.Dependencies)

	d.Install = model.InstallFlags{
		Staging: boolValue(raw.InstallStaging, false),
		Target:  boolValue(raw.InstallTarget, true),
		Images:  boolValue(raw.InstallImages, false),
	}

	d.DirPrefix = raw.DirPrefix
	if d.DirPrefix == "" && counterpart != nil {
		d.DirPrefix = counterpart.DirPrefix
	}
	if d.DirPrefix == "" {
		d.DirPrefix = DefaultDirPrefix
	}
	d.PackageDir = joinPath(joinPath(opts.PackageRoot, d.DirPrefix), model.BaseTargetName(d.Name))

	d.Commands = raw.Commands

	return d, nil
}

func resolveVersion(d *model.ResolvedDescriptor, raw model.Descriptor, counterpart *model.ResolvedDescriptor) error {
	version := raw.Version
	if version == "" && counterpart != nil {
		version = counterpart.RawVersion
	}
	// A local override tree has no meaningful upstream version.
	if d.OverrideSrcDir != "" {
		version = model.OverrideVersion
	}
	if version == "" {
		return errors.Wrapf(errors.ErrDescriptorInvalid, "package %s: version is unresolvable", d.Name)
	}
	d.RawVersion = version
	d.SafeVersion = nameutil.SanitizeVersion(version)
	return nil
}

func resolveSite(d *model.ResolvedDescriptor, raw model.Descriptor, counterpart *model.ResolvedDescriptor, opts Options) {
	d.Source = raw.Source
	d.Site = raw.Site
	method := model.SiteMethod(raw.SiteMethod)
	if counterpart != nil {
		if d.Source == "" {
			d.Source = counterpart.Source
		}
		if d.Site == "" && raw.SiteMethod == "" {
			d.Site = counterpart.Site
			method = counterpart.SiteMethod
		}
	}
	if d.Source == "" {
		d.Source = d.BaseName + ".tar.gz"
	}
	if d.Site == "" && d.OverrideSrcDir == "" && opts.DefaultSiteTemplate != "" {
		d.Site = fmt.Sprintf(opts.DefaultSiteTemplate, model.BaseTargetName(d.Name))
	}
	if method == "" {
		method = model.DetectSiteMethod(d.Site)
	}
	d.SiteMethod = method
}

// normalizeDependencies rewrites a host package's dependencies to their host
// variants. "host-host-" never appears because HostName collapses the
// doubled prefix.
func normalizeDependencies(typ model.PackageType, deps []string) []string {
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, 0, len(deps))
	for _, dep := range deps {
		if typ == model.TypeHost {
			dep = model.HostName(dep)
		}
		out = append(out, dep)
	}
	return out
}

// DeriveHost produces the raw host-variant descriptor of a target package.
// Fields are left empty so that Resolve inherits them from the resolved
// target counterpart.
func DeriveHost(target model.Descriptor) model.Descriptor {
	return model.Descriptor{
		Name:         model.HostName(target.Name),
		Type:         string(model.TypeHost),
		Dependencies: target.Dependencies,
		DirPrefix:    target.DirPrefix,
		Commands:     target.Commands,
	}
}

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func joinPath(root, elem string) string {
	if root == "" {
		return elem
	}
	return strings.TrimSuffix(root, "/") + "/" + elem
}
