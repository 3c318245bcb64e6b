package pervaporation

import (
	"fmt"
	"math"

	"github.com/membranelab/pervaporation/pkg/membrane"
	"github.com/membranelab/pervaporation/pkg/mixture"
	"github.com/membranelab/pervaporation/pkg/numutil"
)

// DefaultPrecision is the convergence threshold of the permeate-composition
// fixed point when the caller does not care.
const DefaultPrecision = 5e-5

// maxFluxIterations bounds the fixed-point sweep; exceeding it means the
// configuration is physically infeasible or the precision unreachable.
const maxFluxIterations = 1000

// PartialFluxes are the steady-state mass fluxes of both components in
// kg/(m2*h), indexed as (first, second).
type PartialFluxes struct {
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}

// Total is the summed flux.
func (f PartialFluxes) Total() float64 { return f.First + f.Second }

// Pervaporation couples one membrane with one binary mixture and solves the
// transport/equilibrium equations for it. Stateless; safe for concurrent
// use.
type Pervaporation struct {
	Membrane membrane.Membrane
	Mixture  mixture.Mixture
}

// permeateCompositionFromFluxes derives the weight-basis permeate
// composition as the first component's fraction of the total flux.
func permeateCompositionFromFluxes(f PartialFluxes) (mixture.Composition, error) {
	total := f.Total()
	if total == 0 {
		return mixture.Composition{}, ErrDegenerateFlux
	}
	return mixture.Composition{P: numutil.Clamp01(f.First / total), Type: mixture.Weight}, nil
}

// permeatePartialPressures evaluates the downstream partial pressures (kPa)
// for a permeate composition estimate.
func (pv Pervaporation) permeatePartialPressures(p Permeate, comp mixture.Composition) (float64, float64) {
	if p.Evacuated {
		molar := comp.ToMolar(pv.Mixture)
		return p.Pressure * molar.First(), p.Pressure * molar.Second()
	}
	return pv.Mixture.PartialPressures(p.Temperature, comp)
}

// fluxesAt computes partial fluxes for a fixed permeate-composition
// estimate, given precomputed feed-side partial pressures.
func (pv Pervaporation) fluxesAt(feedP1, feedP2 float64, permeate Permeate, permComp mixture.Composition, perm1, perm2 membrane.Permeance) PartialFluxes {
	permP1, permP2 := pv.permeatePartialPressures(permeate, permComp)
	return PartialFluxes{
		First:  perm1.Value * (feedP1 - permP1),
		Second: perm2.Value * (feedP2 - permP2),
	}
}

// PartialFluxes solves the steady-state partial fluxes for one feed state.
//
// The permeate composition is not an input: downstream partial pressures
// depend on the very composition the fluxes produce, so it is found by
// fixed-point iteration seeded from the ideal permeance * feed-pressure
// estimate. Convergence is the maximum absolute composition change between
// sweeps dropping below precision.
func (pv Pervaporation) PartialFluxes(feedTemperature float64, permeate Permeate, feedComposition mixture.Composition, precision float64, perm1, perm2 membrane.Permeance) (PartialFluxes, error) {
	feedP1, feedP2 := pv.Mixture.PartialPressures(feedTemperature, feedComposition)

	seed := PartialFluxes{First: perm1.Value * feedP1, Second: perm2.Value * feedP2}
	permComp, err := permeateCompositionFromFluxes(seed)
	if err != nil {
		return PartialFluxes{}, err
	}

	for i := 0; i < maxFluxIterations; i++ {
		fluxes := pv.fluxesAt(feedP1, feedP2, permeate, permComp, perm1, perm2)
		next, err := permeateCompositionFromFluxes(fluxes)
		if err != nil {
			return PartialFluxes{}, err
		}
		d := math.Abs(next.First() - permComp.First())
		permComp = next
		if d < precision {
			return pv.fluxesAt(feedP1, feedP2, permeate, permComp, perm1, perm2), nil
		}
	}
	return PartialFluxes{}, fmt.Errorf("%w: precision %g not reached in %d iterations",
		ErrNonConvergence, precision, maxFluxIterations)
}

// PermeateComposition solves for the converged weight-basis permeate
// composition at the given feed state.
func (pv Pervaporation) PermeateComposition(feedTemperature float64, permeate Permeate, feedComposition mixture.Composition, precision float64, perm1, perm2 membrane.Permeance) (mixture.Composition, error) {
	fluxes, err := pv.PartialFluxes(feedTemperature, permeate, feedComposition, precision, perm1, perm2)
	if err != nil {
		return mixture.Composition{}, err
	}
	return permeateCompositionFromFluxes(fluxes)
}

// SeparationFactor is the ratio of second-to-first component ratios between
// feed and permeate at the given feed state.
func (pv Pervaporation) SeparationFactor(feedTemperature float64, permeate Permeate, feedComposition mixture.Composition, precision float64, perm1, perm2 membrane.Permeance) (float64, error) {
	permComp, err := pv.PermeateComposition(feedTemperature, permeate, feedComposition, precision, perm1, perm2)
	if err != nil {
		return 0, err
	}
	feed := feedComposition.ToWeight(pv.Mixture)
	return separationFactor(feed, permComp), nil
}

// separationFactor compares weight-basis feed and permeate compositions.
func separationFactor(feed, permeate mixture.Composition) float64 {
	return (feed.Second() / feed.First()) / (permeate.Second() / permeate.First())
}

// IdealDiffusionCurve sweeps the flux solver across feed compositions at a
// fixed feed temperature, with permeances resolved from the membrane's
// ideal experiments.
func (pv Pervaporation) IdealDiffusionCurve(feedTemperature float64, permeate Permeate, compositions []mixture.Composition, precision float64) (membrane.DiffusionCurve, error) {
	perm1, err := pv.Membrane.Permeance(feedTemperature, pv.Mixture.FirstComponent)
	if err != nil {
		return membrane.DiffusionCurve{}, err
	}
	perm2, err := pv.Membrane.Permeance(feedTemperature, pv.Mixture.SecondComponent)
	if err != nil {
		return membrane.DiffusionCurve{}, err
	}

	curve := membrane.DiffusionCurve{
		MembraneName:     pv.Membrane.Name,
		MixtureName:      pv.Mixture.Name,
		FeedTemperature:  feedTemperature,
		FeedCompositions: make([]mixture.Composition, 0, len(compositions)),
		PartialFluxes:    make([][2]float64, 0, len(compositions)),
		Permeances:       make([][2]membrane.Permeance, 0, len(compositions)),
	}
	for _, comp := range compositions {
		fluxes, err := pv.PartialFluxes(feedTemperature, permeate, comp, precision, perm1, perm2)
		if err != nil {
			return membrane.DiffusionCurve{}, fmt.Errorf("composition %g: %w", comp.First(), err)
		}
		curve.FeedCompositions = append(curve.FeedCompositions, comp.ToWeight(pv.Mixture))
		curve.PartialFluxes = append(curve.PartialFluxes, [2]float64{fluxes.First, fluxes.Second})
		curve.Permeances = append(curve.Permeances, [2]membrane.Permeance{perm1, perm2})
	}
	return curve, nil
}
