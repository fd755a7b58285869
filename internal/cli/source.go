package cli

import (
	"github.com/spf13/cobra"
)

// NewSourceCheckCmd creates the source-check command: verify that every
// named package's source is reachable without retrieving anything.
func NewSourceCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "source-check PACKAGE...",
		Short: "Verify that package sources are reachable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := loadEngine()
			if err != nil {
				return err
			}
			for _, pkg := range args {
				if err := eng.SourceCheck(cmd.Context(), pkg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewExternalDepsCmd creates the external-deps command: print what the
// source stages would retrieve, so the external dependencies of a build can
// be audited without network access.
func NewExternalDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "external-deps PACKAGE...",
		Short: "Print what package sources would be retrieved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := loadEngine()
			if err != nil {
				return err
			}
			for _, pkg := range args {
				if err := eng.ExternalDeps(cmd.Context(), pkg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// NewShowGraphCmd creates the show-graph command, a debugging aid printing a
// package's stage graph and cross-package edges.
func NewShowGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-graph PACKAGE...",
		Short: "Print the stage graph of the named packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, eng, err := loadEngine()
			if err != nil {
				return err
			}
			for _, pkg := range args {
				if err := eng.ShowGraph(pkg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
