package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forgelabs/crossforge/pkg/config"
	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "crossforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "1.0", cfg.FormatVersion)
	assert.Equal(t, config.DefaultWorkers, cfg.Settings.Workers)
	assert.Equal(t, config.DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
format_version: "1.0"
settings:
  download_dir: dl
  build_dir: build
  primary_mirror: https://mirror.internal/pool
  workers: 4
packages:
  - name: zlib
    version: 1.3.1
    site: https://zlib.net
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	// Relative roots are anchored at the config file's directory.
	assert.Equal(t, filepath.Join(dir, "dl"), cfg.Settings.DownloadDir)
	assert.Equal(t, filepath.Join(dir, "build"), cfg.Settings.BuildDir)
	assert.Equal(t, "https://mirror.internal/pool", cfg.Settings.PrimaryMirror)
	assert.Equal(t, 4, cfg.Settings.Workers)
	// Unset settings keep their defaults.
	assert.Equal(t, config.DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	require.Len(t, cfg.Packages, 1)
	assert.Equal(t, "zlib", cfg.Packages[0].Name)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := config.LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigUnsupportedFormatVersion(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `format_version: "2.0"`)

	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, errors.ErrFormatVersion)
}

func TestLoadConfigUnparsableFormatVersion(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `format_version: "one"`)

	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, errors.ErrFormatVersion)
}

func TestValidateDuplicatePackage(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
format_version: "1.0"
packages:
  - name: zlib
    version: 1.3.1
  - name: zlib
    version: 1.3.0
`)

	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, errors.ErrConfigValidation)
}

func TestLoadPackagesFromDir(t *testing.T) {
	dir := t.TempDir()
	pkgsDir := filepath.Join(dir, "packages")
	require.NoError(t, os.MkdirAll(pkgsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgsDir, "dropbear.yaml"), []byte(`
version: "2024.85"
site: https://matt.ucc.asn.au/dropbear/releases
dependencies: [zlib]
`), 0o644))

	path := writeConfig(t, dir, `
format_version: "1.0"
packages_dir: packages
packages:
  - name: zlib
    version: 1.3.1
    site: https://zlib.net
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	declared, err := cfg.LoadPackages()
	require.NoError(t, err)
	require.Len(t, declared, 2)

	// The filename supplies the package name when the file omits it.
	dropbear, ok := declared["dropbear"]
	require.True(t, ok)
	assert.Equal(t, "2024.85", dropbear.Version)
	assert.Equal(t, []string{"zlib"}, dropbear.Dependencies)
}

func TestResolverOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Settings.DownloadDir = "/work/dl"
	cfg.Settings.BuildDir = "/work/build"
	cfg.Settings.PackageDir = "/work/pkgs"

	opts := cfg.ResolverOptions()
	assert.Equal(t, "/work/dl", opts.DownloadRoot)
	assert.Equal(t, "/work/build", opts.BuildRoot)
	assert.Equal(t, "/work/pkgs", opts.PackageRoot)
	assert.Equal(t, cfg.Settings.DefaultSite, opts.DefaultSiteTemplate)
}
