package cli

import (
	"github.com/forgelabs/crossforge/pkg/engine"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command, the "<pkg>-<op>" entry-point surface:
// each target names a package and an operation in one token, a bare package
// name being its install target.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run TARGET...",
		Short: "Run entry-point targets of the form <package>-<operation>",
		Long: `Run one or more entry-point targets. A target is a package name optionally
suffixed with an operation: zlib-build, zlib-rebuild, zlib-show-depends.
A bare package name runs its install target. Independent targets run in
parallel up to the worker bound.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, eng, err := loadEngine()
			if err != nil {
				return err
			}
			targets := make([]engine.Target, 0, len(args))
			for _, arg := range args {
				pkg, op, err := eng.ParseEntrypoint(arg)
				if err != nil {
					return err
				}
				targets = append(targets, engine.Target{Package: pkg, Op: op})
			}
			return eng.Parallel(cmd.Context(), targets, workerCount(cfg))
		},
	}
}
