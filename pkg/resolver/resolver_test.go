package resolver_test

import (
	"testing"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/model"
	"github.com/forgelabs/crossforge/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() resolver.Options {
	return resolver.Options{
		DownloadRoot:        "/work/dl",
		BuildRoot:           "/work/build",
		PackageRoot:         "/work/pkgs",
		DefaultSiteTemplate: "https://mirror.example.org/pool/%s",
	}
}

func TestResolveDefaults(t *testing.T) {
	raw := model.Descriptor{
		Name:    "zlib",
		Version: "1.3.1",
		Site:    "https://zlib.net",
	}

	d, err := resolver.Resolve(raw, nil, testOptions())
	require.NoError(t, err)

	assert.Equal(t, model.TypeTarget, d.Type)
	assert.Equal(t, "ZLIB", d.UppercaseName)
	assert.Equal(t, "1.3.1", d.RawVersion)
	assert.Equal(t, "1.3.1", d.SafeVersion)
	assert.Equal(t, "zlib-1.3.1", d.BaseName)
	assert.Equal(t, "/work/dl/zlib-1.3.1", d.DownloadDir)
	assert.Equal(t, "/work/build/zlib-1.3.1", d.BuildDir)
	assert.Equal(t, "zlib-1.3.1.tar.gz", d.Source)
	assert.Equal(t, model.SiteMethodWget, d.SiteMethod)
	assert.Equal(t, "/work/pkgs/package/zlib", d.PackageDir)

	// Install flags: target defaults true, the others false.
	assert.True(t, d.Install.Target)
	assert.False(t, d.Install.Staging)
	assert.False(t, d.Install.Images)
}

func TestResolveVersionSanitization(t *testing.T) {
	raw := model.Descriptor{
		Name:    "uclibc",
		Version: "remotes/origin/1_10_stable",
		Site:    "git://git.example.org/uclibc.git",
	}

	d, err := resolver.Resolve(raw, nil, testOptions())
	require.NoError(t, err)

	// The raw form is what retrieval sees; the safe form is what paths use.
	assert.Equal(t, "remotes/origin/1_10_stable", d.RawVersion)
	assert.Equal(t, "remotes_origin_1_10_stable", d.SafeVersion)
	assert.Equal(t, "uclibc-remotes_origin_1_10_stable", d.BaseName)
	assert.Equal(t, model.SiteMethodGit, d.SiteMethod)
}

func TestResolveDefaultSite(t *testing.T) {
	raw := model.Descriptor{Name: "hello", Version: "2.12"}

	d, err := resolver.Resolve(raw, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org/pool/hello", d.Site)
}

func TestResolveOverrideSourceForcesCustomVersion(t *testing.T) {
	raw := model.Descriptor{
		Name:           "myapp",
		Version:        "1.0",
		OverrideSrcDir: "/home/dev/myapp",
	}

	d, err := resolver.Resolve(raw, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, model.OverrideVersion, d.RawVersion)
	assert.Equal(t, "myapp-custom", d.BaseName)
	assert.True(t, d.HasOverrideSource())
}

func TestResolveExplicitSiteMethod(t *testing.T) {
	raw := model.Descriptor{
		Name:       "firmware",
		Version:    "3.0",
		Site:       "/srv/firmware",
		SiteMethod: "local",
	}

	d, err := resolver.Resolve(raw, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, model.SiteMethodLocal, d.SiteMethod)
}

func TestResolveUnknownSiteMethod(t *testing.T) {
	raw := model.Descriptor{
		Name:       "weird",
		Version:    "1.0",
		Site:       "https://example.org",
		SiteMethod: "cvs",
	}

	_, err := resolver.Resolve(raw, nil, testOptions())
	require.ErrorIs(t, err, errors.ErrSiteMethodUnknown)
}

func TestResolveMissingVersion(t *testing.T) {
	raw := model.Descriptor{Name: "noversion", Site: "https://example.org"}

	_, err := resolver.Resolve(raw, nil, testOptions())
	require.ErrorIs(t, err, errors.ErrDescriptorInvalid)
}

func TestDeriveHostInheritsFromCounterpart(t *testing.T) {
	opts := testOptions()
	targetRaw := model.Descriptor{
		Name:         "pkgconf",
		Version:      "2.1.0",
		Site:         "https://distfiles.example.org/pkgconf",
		Dependencies: []string{"foo", "host-bar"},
	}
	target, err := resolver.Resolve(targetRaw, nil, opts)
	require.NoError(t, err)

	host, err := resolver.Resolve(resolver.DeriveHost(targetRaw), target, opts)
	require.NoError(t, err)

	assert.Equal(t, "host-pkgconf", host.Name)
	assert.Equal(t, model.TypeHost, host.Type)
	assert.Equal(t, "HOST_PKGCONF", host.UppercaseName)
	// Version and site inherited from the target counterpart.
	assert.Equal(t, "2.1.0", host.RawVersion)
	assert.Equal(t, target.Site, host.Site)
	// Dependencies rewritten to host form; no host-host- doubling.
	assert.Equal(t, []string{"host-foo", "host-bar"}, host.Dependencies)
	// Host variants share the target package's metadata directory.
	assert.Equal(t, "/work/pkgs/package/pkgconf", host.PackageDir)
}

func TestResolveAll(t *testing.T) {
	declared := map[string]model.Descriptor{
		"alpha": {
			Name:         "alpha",
			Version:      "1.0",
			Site:         "https://example.org/alpha",
			Dependencies: []string{"beta", "host-gamma"},
		},
		"beta": {
			Name:    "beta",
			Version: "2.0",
			Site:    "https://example.org/beta",
		},
		"gamma": {
			Name:    "gamma",
			Version: "3.0",
			Site:    "https://example.org/gamma",
		},
	}

	set, err := resolver.ResolveAll(declared, testOptions())
	require.NoError(t, err)

	// host-gamma was materialized by alpha's dependency on it.
	assert.Equal(t, []string{"alpha", "beta", "gamma", "host-gamma"}, set.Names())

	hg, ok := set.Get("host-gamma")
	require.True(t, ok)
	assert.Equal(t, model.TypeHost, hg.Type)
	assert.Equal(t, "3.0", hg.RawVersion)
}

func TestResolveAllUnknownDependency(t *testing.T) {
	declared := map[string]model.Descriptor{
		"alpha": {
			Name:         "alpha",
			Version:      "1.0",
			Site:         "https://example.org/alpha",
			Dependencies: []string{"missing"},
		},
	}

	_, err := resolver.ResolveAll(declared, testOptions())
	require.ErrorIs(t, err, errors.ErrDependencyUnknown)
}

func TestResolveAllCycle(t *testing.T) {
	declared := map[string]model.Descriptor{
		"a": {Name: "a", Version: "1", Site: "https://example.org/a", Dependencies: []string{"b"}},
		"b": {Name: "b", Version: "1", Site: "https://example.org/b", Dependencies: []string{"c"}},
		"c": {Name: "c", Version: "1", Site: "https://example.org/c", Dependencies: []string{"a"}},
	}

	_, err := resolver.ResolveAll(declared, testOptions())
	require.ErrorIs(t, err, errors.ErrDependencyCycle)
}
