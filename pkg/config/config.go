// Package config provides configuration management for the crossforge build
// orchestrator. It handles loading and validating the YAML configuration:
// directory roots, mirror locations, worker limits, and the package
// descriptor declarations the resolver consumes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/model"
	"github.com/forgelabs/crossforge/pkg/resolver"
)

// FormatVersionConstraint is the range of configuration format versions this
// build of crossforge understands.
const FormatVersionConstraint = ">= 1.0, < 2.0"

// Config represents the application configuration.
type Config struct {
	// FormatVersion gates the configuration schema.
	FormatVersion string `yaml:"format_version"`

	Settings Settings `yaml:"settings"`

	// PackagesDir names a directory of per-package YAML descriptor files,
	// relative to the config file unless absolute.
	PackagesDir string `yaml:"packages_dir,omitempty"`

	// Packages declares descriptors inline.
	Packages []model.Descriptor `yaml:"packages,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Directory roots.
	DownloadDir string `yaml:"download_dir,omitempty"`
	BuildDir    string `yaml:"build_dir,omitempty"`
	PackageDir  string `yaml:"package_dir,omitempty"`
	HostDir     string `yaml:"host_dir,omitempty"`
	StagingDir  string `yaml:"staging_dir,omitempty"`
	TargetDir   string `yaml:"target_dir,omitempty"`
	ImagesDir   string `yaml:"images_dir,omitempty"`

	// Mirror chain. PrimaryMirror is consulted before a package's own site,
	// BackupMirror after it.
	PrimaryMirror string `yaml:"primary_mirror,omitempty"`
	BackupMirror  string `yaml:"backup_mirror,omitempty"`

	// DefaultSite is the mirror URL template for packages that declare no
	// site; %s is replaced by the package name.
	DefaultSite string `yaml:"default_site,omitempty"`

	// Execution settings.
	Workers     int           `yaml:"workers"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultWorkers is the default number of concurrently building packages.
	DefaultWorkers = 1
)

// DefaultConfig returns a configuration with sensible defaults rooted in the
// current working directory.
func DefaultConfig() *Config {
	return &Config{
		FormatVersion: "1.0",
		Settings: Settings{
			DownloadDir: "dl",
			BuildDir:    "build",
			PackageDir:  "pkgs",
			HostDir:     "host",
			StagingDir:  "staging",
			TargetDir:   "target",
			ImagesDir:   "images",
			DefaultSite: "https://sources.crossforge.dev/%s",
			Workers:     DefaultWorkers,
			HTTPTimeout: DefaultHTTPTimeout,
			LogLevel:    "info",
		},
	}
}

// LoadConfig reads and validates a configuration file. Relative directory
// settings are anchored at the config file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrConfigParse, "reading %s: %v", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(errors.ErrConfigParse, "parsing %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.anchorPaths(filepath.Dir(path))
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.checkFormatVersion(); err != nil {
		return err
	}
	if c.Settings.Workers < 0 {
		return errors.Wrapf(errors.ErrConfigValidation, "workers must be >= 0, got %d", c.Settings.Workers)
	}
	if c.Settings.HTTPTimeout < 0 {
		return errors.Wrapf(errors.ErrConfigValidation, "http_timeout must be >= 0")
	}
	seen := make(map[string]struct{}, len(c.Packages))
	for _, pkg := range c.Packages {
		if pkg.Name == "" {
			return errors.Wrap(errors.ErrConfigValidation, "package declaration without a name")
		}
		if _, dup := seen[pkg.Name]; dup {
			return errors.Wrapf(errors.ErrConfigValidation, "package %s declared twice", pkg.Name)
		}
		seen[pkg.Name] = struct{}{}
	}
	return nil
}

// checkFormatVersion verifies the declared schema version against the
// supported constraint.
func (c *Config) checkFormatVersion() error {
	if c.FormatVersion == "" {
		return errors.Wrap(errors.ErrFormatVersion, "format_version is required")
	}
	v, err := version.NewVersion(c.FormatVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrFormatVersion, "cannot parse %q", c.FormatVersion)
	}
	constraint, err := version.NewConstraint(FormatVersionConstraint)
	if err != nil {
		return errors.Wrap(errors.ErrFormatVersion, "internal constraint parse")
	}
	if !constraint.Check(v) {
		return errors.Wrapf(errors.ErrFormatVersion, "%s does not satisfy %s", c.FormatVersion, FormatVersionConstraint)
	}
	return nil
}

// anchorPaths makes relative directory settings absolute against base.
func (c *Config) anchorPaths(base string) {
	anchor := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	anchor(&c.Settings.DownloadDir)
	anchor(&c.Settings.BuildDir)
	anchor(&c.Settings.PackageDir)
	anchor(&c.Settings.HostDir)
	anchor(&c.Settings.StagingDir)
	anchor(&c.Settings.TargetDir)
	anchor(&c.Settings.ImagesDir)
	anchor(&c.PackagesDir)
}

// ResolverOptions derives the resolver's directory roots from the settings.
func (c *Config) ResolverOptions() resolver.Options {
	return resolver.Options{
		DownloadRoot:        c.Settings.DownloadDir,
		BuildRoot:           c.Settings.BuildDir,
		PackageRoot:         c.Settings.PackageDir,
		DefaultSiteTemplate: c.Settings.DefaultSite,
	}
}

// LoadPackages collects all declared descriptors: inline declarations plus
// one YAML file per package under PackagesDir (non-recursive, *.yaml).
// A file may declare its package's name implicitly through its filename.
func (c *Config) LoadPackages() (map[string]model.Descriptor, error) {
	declared := make(map[string]model.Descriptor, len(c.Packages))
	for _, pkg := range c.Packages {
		declared[pkg.Name] = pkg
	}

	if c.PackagesDir == "" {
		return declared, nil
	}
	entries, err := os.ReadDir(c.PackagesDir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrConfigParse, "reading packages dir %s: %v", c.PackagesDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(c.PackagesDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrConfigParse, "reading %s: %v", path, err)
		}
		var pkg model.Descriptor
		if err := yaml.Unmarshal(data, &pkg); err != nil {
			return nil, errors.Wrapf(errors.ErrConfigParse, "parsing %s: %v", path, err)
		}
		if pkg.Name == "" {
			pkg.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		if _, dup := declared[pkg.Name]; dup {
			return nil, errors.Wrapf(errors.ErrConfigValidation, "package %s declared twice", pkg.Name)
		}
		declared[pkg.Name] = pkg
	}
	return declared, nil
}

// GetDefaultConfigPath returns the conventional config location,
// "crossforge.yaml" in the working directory.
func GetDefaultConfigPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}
	return filepath.Join(wd, "crossforge.yaml"), nil
}
