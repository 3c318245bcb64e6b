package membrane

import (
	"fmt"

	"github.com/membranelab/pervaporation/pkg/components"
)

// Units of a permeance value.
type Units string

const (
	// KgM2HkPa is mass permeance, kg/(m2*h*kPa). The default basis for
	// simulation.
	KgM2HkPa Units = "kg/(m2*h*kPa)"
	// SI is molar permeance, mol/(m2*s*Pa).
	SI Units = "SI"
	// GPU is the gas permeation unit, 3.35e-10 mol/(m2*s*Pa).
	GPU Units = "GPU"
)

// gpuToSI is one GPU expressed in mol/(m2*s*Pa).
const gpuToSI = 3.35e-10

// Permeance is a non-negative transport coefficient for one component.
type Permeance struct {
	Value float64 `yaml:"value" json:"value"`
	Units Units   `yaml:"units" json:"units"`
}

// NewPermeance returns a mass-basis permeance in kg/(m2*h*kPa).
func NewPermeance(value float64) Permeance {
	return Permeance{Value: value, Units: KgM2HkPa}
}

// Convert re-expresses the permeance in the requested units. Mass/molar
// conversion needs the component's molecular weight.
func (p Permeance) Convert(to Units, c components.Component) (Permeance, error) {
	if p.Units == to {
		return p, nil
	}
	si, err := p.toSI(c)
	if err != nil {
		return Permeance{}, err
	}
	switch to {
	case SI:
		return Permeance{Value: si, Units: SI}, nil
	case GPU:
		return Permeance{Value: si / gpuToSI, Units: GPU}, nil
	case KgM2HkPa:
		return Permeance{Value: si * 3600 * c.MolecularWeight, Units: KgM2HkPa}, nil
	default:
		return Permeance{}, fmt.Errorf("%w: %q", ErrUnknownUnits, to)
	}
}

func (p Permeance) toSI(c components.Component) (float64, error) {
	switch p.Units {
	case SI:
		return p.Value, nil
	case GPU:
		return p.Value * gpuToSI, nil
	case KgM2HkPa:
		// kg -> mol is 1000/MW, h -> s is /3600, kPa -> Pa is /1000
		return p.Value / (3600 * c.MolecularWeight), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnits, p.Units)
	}
}
