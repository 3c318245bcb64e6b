package membrane

import "github.com/membranelab/pervaporation/pkg/mixture"

// DiffusionCurve is a set of steady-state observations at one feed
// temperature: partial fluxes (and optionally permeances) across a sweep of
// feed compositions. Fluxes and permeances are indexed [first, second].
type DiffusionCurve struct {
	MembraneName     string                `yaml:"membrane_name"`
	MixtureName      string                `yaml:"mixture_name"`
	FeedTemperature  float64               `yaml:"feed_temperature"`
	FeedCompositions []mixture.Composition `yaml:"feed_compositions"`
	PartialFluxes    [][2]float64          `yaml:"partial_fluxes"`
	Permeances       [][2]Permeance        `yaml:"permeances"`
}

// Len returns the number of observations on the curve.
func (d DiffusionCurve) Len() int { return len(d.FeedCompositions) }

// TotalFluxes returns the summed flux per observation.
func (d DiffusionCurve) TotalFluxes() []float64 {
	out := make([]float64, len(d.PartialFluxes))
	for i, f := range d.PartialFluxes {
		out[i] = f[0] + f[1]
	}
	return out
}

// DiffusionCurveSet groups curves measured for one membrane, typically one
// curve per feed temperature.
type DiffusionCurveSet struct {
	NameOfTheSet string           `yaml:"name"`
	Curves       []DiffusionCurve `yaml:"curves"`
}
