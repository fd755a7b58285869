package engine

import (
	"context"
	"sync"

	"github.com/forgelabs/crossforge/internal/logger"
)

// Target is one scheduled entry point: a package and the operation to run
// against it.
type Target struct {
	Package string
	Op      Operation
}

// Parallel executes independent targets concurrently, bounded by workers.
// Every target is attempted; the first error is returned after all workers
// drain. Stages of a single package stay serialized through the per-package
// lock, and shared dependencies are built once because workers re-check
// completion markers under that lock.
func (e *Engine) Parallel(ctx context.Context, targets []Target, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	tasks := make(chan Target)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range tasks {
				if err := e.Execute(ctx, target.Package, target.Op); err != nil {
					logger.Error("target failed", logger.Fields{
						"package":   target.Package,
						"operation": string(target.Op),
						"error":     err.Error(),
					})
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}

	for _, target := range targets {
		tasks <- target
	}
	close(tasks)
	wg.Wait()
	return firstErr
}
