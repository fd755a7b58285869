package hooks

import (
	"context"
	"sync"

	"github.com/forgelabs/crossforge/pkg/errors"
)

type key struct {
	pkg   string
	point Point
}

// Manager holds the registered hooks of every package, keyed by
// (package, extension point). Insertion order is execution order and
// duplicates are allowed.
type Manager struct {
	mu    sync.RWMutex
	hooks map[key][]Func
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{hooks: make(map[key][]Func)}
}

// Register appends a hook to the given package's extension point.
func (m *Manager) Register(pkg string, point Point, fn Func) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{pkg: pkg, point: point}
	m.hooks[k] = append(m.hooks[k], fn)
}

// RunAll executes every hook registered for (pkg, point) in registration
// order. The first failure aborts all subsequent hooks.
func (m *Manager) RunAll(ctx context.Context, pkg string, point Point, hctx Context) error {
	m.mu.RLock()
	fns := m.hooks[key{pkg: pkg, point: point}]
	m.mu.RUnlock()

	for i, fn := range fns {
		if err := fn(ctx, hctx); err != nil {
			return errors.Wrapf(errors.ErrHookFailed, "package %s, %s hook %d: %v", pkg, point, i, err)
		}
	}
	return nil
}

// Count returns the number of hooks registered for (pkg, point).
func (m *Manager) Count(pkg string, point Point) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks[key{pkg: pkg, point: point}])
}
