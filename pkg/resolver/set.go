package resolver

import (
	"sort"
	"strings"

	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/model"
)

// Set is the result of resolving a whole configuration: every declared
// package plus every host variant materialized by a dependency.
type Set struct {
	packages map[string]*model.ResolvedDescriptor
}

// Get returns the resolved descriptor for name.
func (s *Set) Get(name string) (*model.ResolvedDescriptor, bool) {
	d, ok := s.packages[name]
	return d, ok
}

// Names returns all resolved package names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.packages))
	for name := range s.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveAll resolves every declared descriptor, derives host variants on
// demand (a dependency on "host-foo" materializes the host variant of the
// declared "foo") and rejects unknown dependencies and dependency cycles.
// Cycles are a configuration error and must surface before any stage runs.
func ResolveAll(declared map[string]model.Descriptor, opts Options) (*Set, error) {
	set := &Set{packages: make(map[string]*model.ResolvedDescriptor, len(declared))}

	r := &setResolver{
		declared: declared,
		opts:     opts,
		set:      set,
		visiting: make(map[string]struct{}),
	}
	for _, name := range sortedKeys(declared) {
		if _, err := r.resolveNode(name); err != nil {
			return nil, err
		}
	}
	return set, nil
}

type setResolver struct {
	declared map[string]model.Descriptor
	opts     Options
	set      *Set
	visiting map[string]struct{}
}

func (r *setResolver) resolveNode(name string) (*model.ResolvedDescriptor, error) {
	if d, ok := r.set.packages[name]; ok {
		return d, nil
	}
	if _, ok := r.visiting[name]; ok {
		return nil, errors.Wrapf(errors.ErrDependencyCycle, "via package %s", name)
	}
	r.visiting[name] = struct{}{}
	defer delete(r.visiting, name)

	raw, counterpart, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	resolved, err := Resolve(raw, counterpart, r.opts)
	if err != nil {
		return nil, err
	}

	// The node joins the set only once its whole dependency subtree resolved;
	// a back edge therefore always hits the visiting set, not the done set.
	for _, dep := range resolved.Dependencies {
		if _, err := r.resolveNode(dep); err != nil {
			return nil, err
		}
	}
	r.set.packages[name] = resolved
	return resolved, nil
}

// lookup finds the raw descriptor for name, deriving a host variant from the
// declared target package when the host form was never declared explicitly.
func (r *setResolver) lookup(name string) (model.Descriptor, *model.ResolvedDescriptor, error) {
	if raw, ok := r.declared[name]; ok {
		return raw, nil, nil
	}
	if !strings.HasPrefix(name, model.HostPrefix) {
		return model.Descriptor{}, nil, errors.Wrapf(errors.ErrDependencyUnknown, "%s", name)
	}

	base := model.BaseTargetName(name)
	baseRaw, ok := r.declared[base]
	if !ok {
		return model.Descriptor{}, nil, errors.Wrapf(errors.ErrDependencyUnknown, "%s (no target package %s to derive from)", name, base)
	}
	counterpart, err := r.resolveNode(base)
	if err != nil {
		return model.Descriptor{}, nil, err
	}
	return DeriveHost(baseRaw), counterpart, nil
}

func sortedKeys(m map[string]model.Descriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
