package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgelabs/crossforge/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	workers    int
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crossforge",
		Short: "A package-build orchestrator for cross-compilation environments",
		Long: `crossforge drives declaratively described packages through a fixed build
pipeline - download, extract, patch, configure, build, install - tracking
completion with persistent markers so interrupted builds resume without
redoing finished work.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: crossforge.yaml in the working directory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().IntVarP(&workers, "workers", "j", 0, "number of packages built in parallel (0 = config value)")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.Workers = &workers

	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewBuildCmd(),
		cli.NewConfigureCmd(),
		cli.NewPatchCmd(),
		cli.NewExtractCmd(),
		cli.NewSourceCmd(),
		cli.NewDependsCmd(),
		cli.NewShowDependsCmd(),
		cli.NewUninstallCmd(),
		cli.NewCleanCmd(),
		cli.NewDirCleanCmd(),
		cli.NewRebuildCmd(),
		cli.NewReconfigureCmd(),
		cli.NewSourceCheckCmd(),
		cli.NewExternalDepsCmd(),
		cli.NewShowGraphCmd(),
		cli.NewRunCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
