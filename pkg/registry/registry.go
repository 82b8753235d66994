package registry

import (
	"fmt"
	"sort"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

// Registry is the immutable node catalogue injected into the compiler.
// It is safe for concurrent use because it is never written after New returns.
type Registry struct {
	modules map[string]node.Module
	ids     []string
}

// New builds a registry from the given modules.
// It rejects duplicate ids and modules missing the hook their pins require.
func New(modules ...node.Module) (*Registry, error) {
	r := &Registry{
		modules: make(map[string]node.Module, len(modules)),
	}
	for _, m := range modules {
		id := m.Definition.ID
		if id == "" {
			return nil, fmt.Errorf("module missing definition id")
		}
		if _, ok := r.modules[id]; ok {
			return nil, fmt.Errorf("duplicate node definition: %s", id)
		}
		if err := check(m); err != nil {
			return nil, fmt.Errorf("node definition %s: %w", id, err)
		}
		r.modules[id] = m
		r.ids = append(r.ids, id)
	}
	sort.Strings(r.ids)
	return r, nil
}

// MustNew is like New but panics on error. Intended for static catalogues.
func MustNew(modules ...node.Module) *Registry {
	r, err := New(modules...)
	if err != nil {
		panic(err)
	}
	return r
}

func check(m node.Module) error {
	d := m.Definition
	seen := make(map[string]bool)
	for _, p := range append(append([]domain.PinConfig{}, d.Inputs...), d.Outputs...) {
		key := string(p.Direction) + ":" + p.ID
		if seen[key] {
			return fmt.Errorf("duplicate %s pin %q", p.Direction, p.ID)
		}
		seen[key] = true
	}
	if d.HasExec() && m.Exec == nil {
		return fmt.Errorf("exec node has no exec hook")
	}
	if !d.HasExec() && len(d.Outputs) > 0 && m.Value == nil {
		return fmt.Errorf("value node has no value hook")
	}
	return nil
}

// Lookup returns the module registered under id.
func (r *Registry) Lookup(id string) (node.Module, bool) {
	m, ok := r.modules[id]
	return m, ok
}

// Definition returns the definition registered under id.
func (r *Registry) Definition(id string) (domain.NodeDefinition, bool) {
	m, ok := r.modules[id]
	return m.Definition, ok
}

// List returns every module sorted by id.
func (r *Registry) List() []node.Module {
	out := make([]node.Module, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.modules[id])
	}
	return out
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.ids)
}
