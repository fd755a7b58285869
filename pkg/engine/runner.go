package engine

import (
	"context"
	"os/exec"

	"github.com/forgelabs/crossforge/internal/logger"
	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/fsutil"
)

// shellRunner executes stage commands verbatim through the shell, in the
// package's build directory, with the per-package environment exported.
type shellRunner struct{}

// NewShellRunner returns the default command runner.
func NewShellRunner() Runner {
	return shellRunner{}
}

func (shellRunner) Run(ctx context.Context, dir string, env []string, command string) error {
	if dir != "" {
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		logger.Debug("command output", logger.Fields{"command": command, "output": string(out)})
	}
	if err != nil {
		return errors.Wrapf(err, "command %q", command)
	}
	return nil
}
