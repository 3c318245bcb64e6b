package membrane

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/membranelab/pervaporation/pkg/components"
)

// IdealExperiment is one measured permeance of a pure-ish reference run at a
// fixed temperature. ActivationEnergy (J/mol) is optional and enables
// single-point Arrhenius extrapolation.
type IdealExperiment struct {
	ComponentName    string    `yaml:"component"`
	Temperature      float64   `yaml:"temperature"`
	Permeance        Permeance `yaml:"permeance"`
	ActivationEnergy float64   `yaml:"activation_energy"`
}

// Membrane is a named membrane with its characterisation data: ideal
// experiments per component and optional diffusion-curve sets for
// composition-dependent behaviour. Immutable once loaded.
type Membrane struct {
	Name               string
	IdealExperiments   []IdealExperiment
	DiffusionCurveSets []DiffusionCurveSet
}

// experimentsFor collects the ideal experiments of one component.
func (m Membrane) experimentsFor(name string) []IdealExperiment {
	var out []IdealExperiment
	for _, e := range m.IdealExperiments {
		if e.ComponentName == name {
			out = append(out, e)
		}
	}
	return out
}

// Permeance resolves the permeance of the given component at temperature (K).
//
// Resolution order: exact temperature hit; single experiment (with Arrhenius
// scaling when an activation energy is known, constant otherwise); otherwise
// a ln(P) vs 1/T least-squares fit over all experiments of the component.
func (m Membrane) Permeance(temperature float64, c components.Component) (Permeance, error) {
	exps := m.experimentsFor(c.Name)
	if len(exps) == 0 {
		return Permeance{}, fmt.Errorf("%w: %s (%s)", ErrNoExperiments, c.Name, m.Name)
	}

	for _, e := range exps {
		if math.Abs(e.Temperature-temperature) < 1e-9 {
			return e.Permeance, nil
		}
	}

	if len(exps) == 1 {
		e := exps[0]
		if e.ActivationEnergy == 0 {
			// no temperature dependence known; treat as constant
			return e.Permeance, nil
		}
		scale := math.Exp(-e.ActivationEnergy / components.R * (1/temperature - 1/e.Temperature))
		return Permeance{Value: e.Permeance.Value * scale, Units: e.Permeance.Units}, nil
	}

	alpha, beta, err := m.arrheniusFit(exps)
	if err != nil {
		return Permeance{}, err
	}
	return Permeance{
		Value: math.Exp(alpha + beta/temperature),
		Units: exps[0].Permeance.Units,
	}, nil
}

// ActivationEnergy regresses the apparent activation energy (J/mol) of the
// component's permeance from its ideal experiment set.
func (m Membrane) ActivationEnergy(c components.Component) (float64, error) {
	exps := m.experimentsFor(c.Name)
	if len(exps) == 0 {
		return 0, fmt.Errorf("%w: %s (%s)", ErrNoExperiments, c.Name, m.Name)
	}
	if len(exps) == 1 {
		if exps[0].ActivationEnergy != 0 {
			return exps[0].ActivationEnergy, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrInsufficientData, c.Name)
	}
	_, beta, err := m.arrheniusFit(exps)
	if err != nil {
		return 0, err
	}
	// ln P = alpha + beta/T with beta = -Ea/R
	return -beta * components.R, nil
}

// arrheniusFit fits ln(P) = alpha + beta*(1/T) over the experiments.
func (m Membrane) arrheniusFit(exps []IdealExperiment) (alpha, beta float64, err error) {
	if len(exps) < 2 {
		return 0, 0, ErrInsufficientData
	}
	xs := make([]float64, len(exps))
	ys := make([]float64, len(exps))
	for i, e := range exps {
		xs[i] = 1 / e.Temperature
		ys[i] = math.Log(e.Permeance.Value)
	}
	alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	return alpha, beta, nil
}
