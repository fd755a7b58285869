// Package errors defines the sentinel errors shared across crossforge and
// small helpers for wrapping them with context.
package errors

import "fmt"

// Common error types.
var (
	// Configuration errors. These must surface before any stage executes.
	ErrEmptyConfigPath    = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse        = fmt.Errorf("failed to parse config")
	ErrConfigValidation   = fmt.Errorf("invalid configuration")
	ErrFormatVersion      = fmt.Errorf("unsupported config format version")
	ErrDescriptorInvalid  = fmt.Errorf("invalid package descriptor")
	ErrSiteMethodUnknown  = fmt.Errorf("unresolvable site method")
	ErrDependencyUnknown  = fmt.Errorf("unknown dependency")
	ErrDependencyCycle    = fmt.Errorf("dependency cycle detected")
	ErrOverrideDirMissing = fmt.Errorf("override source directory does not exist")

	// Retrieval errors.
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrAllMirrorsFailed = fmt.Errorf("all retrieval locations failed")
	ErrFileHashMismatch = fmt.Errorf("file hash mismatch")
	ErrInvalidPath      = fmt.Errorf("invalid path")

	// Stage execution errors.
	ErrStageFailed  = fmt.Errorf("stage failed")
	ErrStageUnknown = fmt.Errorf("unknown stage")
	ErrPatchFailed  = fmt.Errorf("patch application failed")

	// Hook errors.
	ErrHookFailed = fmt.Errorf("hook failed")
	ErrHookScript = fmt.Errorf("hook script error")
	ErrHookLoad   = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
