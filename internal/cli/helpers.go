// Package cli implements the crossforge subcommands. Each command
// constructor builds a cobra command that wires the configuration, the
// resolved package set and the engine together.
package cli

import (
	"context"
	"fmt"

	"github.com/forgelabs/crossforge/internal/logger"
	"github.com/forgelabs/crossforge/pkg/archive"
	"github.com/forgelabs/crossforge/pkg/config"
	"github.com/forgelabs/crossforge/pkg/download"
	"github.com/forgelabs/crossforge/pkg/engine"
	"github.com/forgelabs/crossforge/pkg/fetch"
	"github.com/forgelabs/crossforge/pkg/hooks"
	"github.com/forgelabs/crossforge/pkg/patch"
	"github.com/forgelabs/crossforge/pkg/resolver"
)

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
	Workers    *int
)

// loadEngine loads the configuration, resolves every declared package and
// wires the engine with the real retrieval, extraction and patch backends.
func loadEngine() (*config.Config, *engine.Engine, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, nil, err
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	declared, err := cfg.LoadPackages()
	if err != nil {
		return nil, nil, err
	}
	set, err := resolver.ResolveAll(declared, cfg.ResolverOptions())
	if err != nil {
		return nil, nil, err
	}

	hookMgr := hooks.NewManager()
	for _, name := range set.Names() {
		desc, _ := set.Get(name)
		if err := hooks.LoadScripts(hookMgr, name, desc.PackageDir); err != nil {
			return nil, nil, err
		}
	}

	archiver := archive.NewManager()
	dispatcher := fetch.NewDispatcher(
		download.NewManager(cfg.Settings.HTTPTimeout, ""),
		archiver,
		fetch.Options{
			PrimaryMirror: cfg.Settings.PrimaryMirror,
			BackupMirror:  cfg.Settings.BackupMirror,
		},
	)

	eng := engine.New(set, engine.Options{
		Fetcher:   dispatcher,
		Extractor: archiver,
		Patcher:   patch.NewApplier(),
		Hooks:     hookMgr,
		Settings:  cfg.Settings,
	})
	return cfg, eng, nil
}

// workerCount picks the worker bound: the flag wins over the config.
func workerCount(cfg *config.Config) int {
	if Workers != nil && *Workers > 0 {
		return *Workers
	}
	return cfg.Settings.Workers
}

// runTargets schedules one operation against every named package.
func runTargets(ctx context.Context, packages []string, op engine.Operation) error {
	cfg, eng, err := loadEngine()
	if err != nil {
		return err
	}
	targets := make([]engine.Target, 0, len(packages))
	for _, pkg := range packages {
		targets = append(targets, engine.Target{Package: pkg, Op: op})
	}
	return eng.Parallel(ctx, targets, workerCount(cfg))
}
