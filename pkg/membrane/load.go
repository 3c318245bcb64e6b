package membrane

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type membraneDef struct {
	Name               string              `yaml:"name"`
	IdealExperiments   []IdealExperiment   `yaml:"ideal_experiments"`
	DiffusionCurveSets []DiffusionCurveSet `yaml:"diffusion_curve_sets"`
}

// Load reads one membrane definition (characterisation data included) from a
// YAML file.
func Load(path string) (Membrane, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Membrane{}, fmt.Errorf("membrane: read %s: %w", path, err)
	}
	var def membraneDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return Membrane{}, fmt.Errorf("membrane: parse %s: %w", path, err)
	}
	for i := range def.IdealExperiments {
		e := &def.IdealExperiments[i]
		if e.Permeance.Units == "" {
			e.Permeance.Units = KgM2HkPa
		}
		if e.Permeance.Value < 0 {
			return Membrane{}, fmt.Errorf("membrane: %s: negative permeance for %s", def.Name, e.ComponentName)
		}
	}
	return Membrane{
		Name:               def.Name,
		IdealExperiments:   def.IdealExperiments,
		DiffusionCurveSets: def.DiffusionCurveSets,
	}, nil
}
