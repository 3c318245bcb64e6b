package pervaporation

import "github.com/membranelab/pervaporation/pkg/mixture"

// Permeate describes the downstream side of the membrane: either a
// condensing surface at a fixed temperature, or an evacuated space at a
// fixed total pressure (kPa).
type Permeate struct {
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature"`
	Pressure    float64 `json:"pressure,omitempty" yaml:"pressure"`
	Evacuated   bool    `json:"evacuated,omitempty" yaml:"evacuated"`
}

// CondensingPermeate is a permeate side condensing at the given temperature
// (K); downstream partial pressures follow the NRTL model at that
// temperature.
func CondensingPermeate(temperature float64) Permeate {
	return Permeate{Temperature: temperature}
}

// EvacuatedPermeate is a permeate side held at the given total pressure
// (kPa); downstream partial pressures are the pressure split by permeate
// mole fractions.
func EvacuatedPermeate(pressure float64) Permeate {
	return Permeate{Pressure: pressure, Evacuated: true}
}

// Conditions define the starting state of one batch separation run.
// Not mutated after construction.
type Conditions struct {
	MembraneArea           float64             `json:"membrane_area" yaml:"membrane_area"`                       // m2
	InitialFeedTemperature float64             `json:"initial_feed_temperature" yaml:"initial_feed_temperature"` // K
	Permeate               Permeate            `json:"permeate" yaml:"permeate"`
	InitialFeedAmount      float64             `json:"initial_feed_amount" yaml:"initial_feed_amount"` // kg
	InitialFeedComposition mixture.Composition `json:"initial_feed_composition" yaml:"initial_feed_composition"`
}
