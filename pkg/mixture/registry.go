package mixture

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/membranelab/pervaporation/pkg/components"
)

type mixtureDef struct {
	FirstComponent  string         `yaml:"first_component"`
	SecondComponent string         `yaml:"second_component"`
	NRTLParams      NRTLParameters `yaml:"nrtl_params"`
}

// Registry is an explicit lookup table of named binary mixtures.
type Registry struct {
	mixtures map[string]Mixture
}

// NewRegistry builds a registry from already-assembled mixtures.
func NewRegistry(list ...Mixture) *Registry {
	m := make(map[string]Mixture, len(list))
	for _, mix := range list {
		m[mix.Name] = mix
	}
	return &Registry{mixtures: m}
}

// Load reads a YAML mixture table (name -> definition) from path, resolving
// component names against the given component registry.
func Load(path string, comps *components.Registry) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mixture: read %s: %w", path, err)
	}
	var defs map[string]mixtureDef
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("mixture: parse %s: %w", path, err)
	}
	m := make(map[string]Mixture, len(defs))
	for name, def := range defs {
		first, err := comps.Get(def.FirstComponent)
		if err != nil {
			return nil, fmt.Errorf("mixture %s: %w", name, err)
		}
		second, err := comps.Get(def.SecondComponent)
		if err != nil {
			return nil, fmt.Errorf("mixture %s: %w", name, err)
		}
		m[name] = Mixture{
			Name:            name,
			FirstComponent:  first,
			SecondComponent: second,
			NRTLParams:      def.NRTLParams,
		}
	}
	return &Registry{mixtures: m}, nil
}

// Get returns the mixture registered under name.
func (r *Registry) Get(name string) (Mixture, error) {
	mix, ok := r.mixtures[name]
	if !ok {
		return Mixture{}, fmt.Errorf("%w: %s", ErrUnknownMixture, name)
	}
	return mix, nil
}

// Names returns the registered mixture names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.mixtures))
	for name := range r.mixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
