package components

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is an explicit lookup table of named components, built once at
// startup and passed by reference to whatever needs property access.
type Registry struct {
	components map[string]Component
}

// NewRegistry builds a registry from the given components, keyed by name.
func NewRegistry(list ...Component) *Registry {
	m := make(map[string]Component, len(list))
	for _, c := range list {
		m[c.Name] = c
	}
	return &Registry{components: m}
}

// Load reads a YAML component table (name -> definition) from path.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("components: read %s: %w", path, err)
	}
	var defs map[string]Component
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("components: parse %s: %w", path, err)
	}
	m := make(map[string]Component, len(defs))
	for name, c := range defs {
		c.Name = name
		if c.MolecularWeight <= 0 {
			return nil, fmt.Errorf("components: %w: %s", ErrBadMolecularWeight, name)
		}
		m[name] = c
	}
	return &Registry{components: m}, nil
}

// Get returns the component registered under name.
func (r *Registry) Get(name string) (Component, error) {
	c, ok := r.components[name]
	if !ok {
		return Component{}, fmt.Errorf("components: %w: %s", ErrUnknownComponent, name)
	}
	return c, nil
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
