//go:generate mockgen -destination=./mocks/engine.go -package mocks . Fetcher,Extractor,Patcher

package engine

import (
	"context"

	"github.com/forgelabs/crossforge/pkg/fetch"
	"github.com/forgelabs/crossforge/pkg/model"
)

// Fetcher is the subset of the retrieval dispatcher the engine uses.
type Fetcher interface {
	Fetch(ctx context.Context, desc *model.ResolvedDescriptor, mode fetch.Mode) error
}

// Extractor is the subset of the archive manager the engine uses.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string) error
}

// Patcher is the subset of the patch applier the engine uses.
type Patcher interface {
	Apply(ctx context.Context, targetDir, patchDir string, patterns ...string) error
}

// Runner executes one stage command. The default implementation shells out;
// tests substitute a recorder.
type Runner interface {
	Run(ctx context.Context, dir string, env []string, command string) error
}
