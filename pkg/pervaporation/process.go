package pervaporation

import (
	"fmt"

	"github.com/membranelab/pervaporation/pkg/membrane"
	"github.com/membranelab/pervaporation/pkg/mixture"
	"github.com/membranelab/pervaporation/pkg/numutil"
	"github.com/membranelab/pervaporation/pkg/optimizer"
)

// Snapshot is the full state of the separation at one time step, together
// with the flux, permeance and heat terms that drive the transition to the
// next step.
type Snapshot struct {
	Time                float64             `json:"time_hours"`
	FeedTemperature     float64             `json:"feed_temperature"`
	PermeateTemperature float64             `json:"permeate_temperature,omitempty"`
	PermeatePressure    float64             `json:"permeate_pressure,omitempty"`
	FeedComposition     mixture.Composition `json:"feed_composition"`
	PermeateComposition mixture.Composition `json:"permeate_composition"`
	PartialFluxes       PartialFluxes       `json:"partial_fluxes"`
	Permeances          [2]membrane.Permeance `json:"permeances"`
	FeedMass            float64             `json:"feed_mass"`

	// Heats are in J, per step: evaporation removed from the feed and
	// condensation (latent plus sensible) released at the permeate side.
	FeedEvaporationHeat      float64 `json:"feed_evaporation_heat"`
	PermeateCondensationHeat float64 `json:"permeate_condensation_heat"`
}

// ProcessModel is the trajectory of one batch separation: n steps produce
// n+1 snapshots, the initial state included. Append-only during
// integration, read-only afterwards; derived views are computed lazily and
// never stored.
type ProcessModel struct {
	Mixture      mixture.Mixture
	MembraneName string
	Isothermal   bool
	Conditions   Conditions
	Snapshots    []Snapshot
}

// SeparationFactors is the per-snapshot ratio of feed to permeate
// second/first component ratios (weight basis).
func (m ProcessModel) SeparationFactors() []float64 {
	out := make([]float64, len(m.Snapshots))
	for i, s := range m.Snapshots {
		out[i] = separationFactor(s.FeedComposition, s.PermeateComposition)
	}
	return out
}

// Selectivities is the per-snapshot ratio of first to second component
// permeances.
func (m ProcessModel) Selectivities() []float64 {
	out := make([]float64, len(m.Snapshots))
	for i, s := range m.Snapshots {
		out[i] = numutil.SafeDiv(s.Permeances[0].Value, s.Permeances[1].Value)
	}
	return out
}

// TotalFluxes is the per-snapshot summed flux in kg/(m2*h).
func (m ProcessModel) TotalFluxes() []float64 {
	out := make([]float64, len(m.Snapshots))
	for i, s := range m.Snapshots {
		out[i] = s.PartialFluxes.Total()
	}
	return out
}

// Psi is the pervaporation separation index, total flux times
// (separation factor - 1), per snapshot.
func (m ProcessModel) Psi() []float64 {
	factors := m.SeparationFactors()
	out := make([]float64, len(m.Snapshots))
	for i, s := range m.Snapshots {
		out[i] = s.PartialFluxes.Total() * (factors[i] - 1)
	}
	return out
}

// permeanceResolver yields the per-component permeances for one step.
type permeanceResolver func(step int, feedTemperature float64, feedComposition mixture.Composition) (perm1, perm2 membrane.Permeance, err error)

// IdealIsothermalProcess integrates a batch separation at constant feed
// temperature with membrane permeances fixed at the initial temperature for
// the whole run.
func (pv Pervaporation) IdealIsothermalProcess(cond Conditions, steps int, stepHours, precision float64) (ProcessModel, error) {
	perm1, err := pv.Membrane.Permeance(cond.InitialFeedTemperature, pv.Mixture.FirstComponent)
	if err != nil {
		return ProcessModel{}, err
	}
	perm2, err := pv.Membrane.Permeance(cond.InitialFeedTemperature, pv.Mixture.SecondComponent)
	if err != nil {
		return ProcessModel{}, err
	}
	resolve := func(int, float64, mixture.Composition) (membrane.Permeance, membrane.Permeance, error) {
		return perm1, perm2, nil
	}
	return pv.runProcess(cond, steps, stepHours, precision, true, resolve)
}

// IdealNonIsothermalProcess integrates a batch separation with an explicit
// feed-side energy balance; permeances and property terms are re-resolved
// every step as the feed cools.
func (pv Pervaporation) IdealNonIsothermalProcess(cond Conditions, steps int, stepHours, precision float64) (ProcessModel, error) {
	resolve := func(_ int, feedT float64, _ mixture.Composition) (membrane.Permeance, membrane.Permeance, error) {
		p1, err := pv.Membrane.Permeance(feedT, pv.Mixture.FirstComponent)
		if err != nil {
			return membrane.Permeance{}, membrane.Permeance{}, err
		}
		p2, err := pv.Membrane.Permeance(feedT, pv.Mixture.SecondComponent)
		if err != nil {
			return membrane.Permeance{}, membrane.Permeance{}, err
		}
		return p1, p2, nil
	}
	return pv.runProcess(cond, steps, stepHours, precision, false, resolve)
}

// NonIdealIsothermalProcess integrates at constant feed temperature with
// composition-dependent permeances fit from a diffusion-curve set. The
// fitted surfaces are anchored to the caller-supplied initial permeances at
// the initial state so the first step reproduces the measured values.
func (pv Pervaporation) NonIdealIsothermalProcess(cond Conditions, curves membrane.DiffusionCurveSet, initial [2]membrane.Permeance, steps int, stepHours, precision float64) (ProcessModel, error) {
	resolve, err := pv.fittedResolver(curves, initial, cond)
	if err != nil {
		return ProcessModel{}, err
	}
	return pv.runProcess(cond, steps, stepHours, precision, true, resolve)
}

// NonIdealNonIsothermalProcess combines the fitted permeance surfaces with
// the feed-side energy balance.
func (pv Pervaporation) NonIdealNonIsothermalProcess(cond Conditions, curves membrane.DiffusionCurveSet, initial [2]membrane.Permeance, steps int, stepHours, precision float64) (ProcessModel, error) {
	resolve, err := pv.fittedResolver(curves, initial, cond)
	if err != nil {
		return ProcessModel{}, err
	}
	return pv.runProcess(cond, steps, stepHours, precision, false, resolve)
}

// fittedResolver fits one permeance surface per component from the curve
// set (zero-boundary augmented, automatic order search) and scales each so
// it reproduces the initial permeance at the initial feed state.
func (pv Pervaporation) fittedResolver(curves membrane.DiffusionCurveSet, initial [2]membrane.Permeance, cond Conditions) (permeanceResolver, error) {
	x0 := cond.InitialFeedComposition.ToWeight(pv.Mixture)
	t0 := cond.InitialFeedTemperature

	var funcs [2]optimizer.PermeanceFunction
	var scales [2]float64
	for component := 0; component < 2; component++ {
		data, err := optimizer.FromDiffusionCurveSet(curves, component)
		if err != nil {
			return nil, err
		}
		fit, err := optimizer.Fit(data, optimizer.Options{
			N:            optimizer.AutoOrder,
			M:            optimizer.AutoOrder,
			Component:    component,
			ZeroBoundary: true,
		})
		if err != nil {
			return nil, err
		}
		funcs[component] = fit.Function
		at0 := fit.Function.Evaluate(x0.First(), t0)
		if at0 == 0 {
			return nil, fmt.Errorf("%w: fitted permeance vanishes at the initial state", ErrDegenerateFlux)
		}
		scales[component] = initial[component].Value / at0
	}

	units := [2]membrane.Units{initial[0].Units, initial[1].Units}
	return func(_ int, feedT float64, feedComp mixture.Composition) (membrane.Permeance, membrane.Permeance, error) {
		x := feedComp.ToWeight(pv.Mixture).First()
		return membrane.Permeance{Value: scales[0] * funcs[0].Evaluate(x, feedT), Units: units[0]},
			membrane.Permeance{Value: scales[1] * funcs[1].Evaluate(x, feedT), Units: units[1]},
			nil
	}, nil
}

// runProcess advances the batch state through the requested steps. The
// per-step order is fixed: fluxes, then masses, then composition, then
// temperature. Property terms are always evaluated at the pre-update state,
// matching the causal order of one explicit integration step.
func (pv Pervaporation) runProcess(cond Conditions, steps int, stepHours, precision float64, isothermal bool, resolve permeanceResolver) (ProcessModel, error) {
	if steps <= 0 || stepHours <= 0 || cond.InitialFeedAmount <= 0 || cond.MembraneArea <= 0 {
		return ProcessModel{}, ErrBadRunParameters
	}

	model := ProcessModel{
		Mixture:      pv.Mixture,
		MembraneName: pv.Membrane.Name,
		Isothermal:   isothermal,
		Conditions:   cond,
		Snapshots:    make([]Snapshot, 0, steps+1),
	}

	first := pv.Mixture.FirstComponent
	second := pv.Mixture.SecondComponent
	area := cond.MembraneArea

	mass := cond.InitialFeedAmount
	comp := cond.InitialFeedComposition.ToWeight(pv.Mixture)
	feedT := cond.InitialFeedTemperature

	for step := 0; step <= steps; step++ {
		perm1, perm2, err := resolve(step, feedT, comp)
		if err != nil {
			return model, fmt.Errorf("step %d: %w", step, err)
		}
		fluxes, err := pv.PartialFluxes(feedT, cond.Permeate, comp, precision, perm1, perm2)
		if err != nil {
			return model, fmt.Errorf("step %d: %w", step, err)
		}
		permComp, err := permeateCompositionFromFluxes(fluxes)
		if err != nil {
			return model, fmt.Errorf("step %d: %w", step, err)
		}

		dMass1 := fluxes.First * area * stepHours
		dMass2 := fluxes.Second * area * stepHours

		// Latent heats in J/kg at the respective side temperatures. An
		// evacuated permeate has no defined temperature; latent heat is
		// then taken at the feed temperature and the sensible term drops.
		permT := cond.Permeate.Temperature
		if cond.Permeate.Evacuated {
			permT = feedT
		}
		evapHeat := first.VaporisationHeat(feedT)/first.MolecularWeight*1000*dMass1 +
			second.VaporisationHeat(feedT)/second.MolecularWeight*1000*dMass2
		condHeat := first.VaporisationHeat(permT)/first.MolecularWeight*1000*dMass1 +
			second.VaporisationHeat(permT)/second.MolecularWeight*1000*dMass2
		if !cond.Permeate.Evacuated {
			cp1 := first.SpecificHeat(permT, feedT) / first.MolecularWeight * 1000
			cp2 := second.SpecificHeat(permT, feedT) / second.MolecularWeight * 1000
			condHeat += (cp1*dMass1 + cp2*dMass2) * (feedT - permT)
		}

		snap := Snapshot{
			Time:                     float64(step) * stepHours,
			FeedTemperature:          feedT,
			FeedComposition:          comp,
			PermeateComposition:      permComp,
			PartialFluxes:            fluxes,
			Permeances:               [2]membrane.Permeance{perm1, perm2},
			FeedMass:                 mass,
			FeedEvaporationHeat:      evapHeat,
			PermeateCondensationHeat: condHeat,
		}
		if cond.Permeate.Evacuated {
			snap.PermeatePressure = cond.Permeate.Pressure
		} else {
			snap.PermeateTemperature = cond.Permeate.Temperature
		}
		model.Snapshots = append(model.Snapshots, snap)

		if step == steps {
			break
		}

		newMass := mass - dMass1 - dMass2
		firstMass := comp.First()*mass - dMass1
		secondMass := comp.Second()*mass - dMass2
		if newMass <= 0 || firstMass < 0 || secondMass < 0 {
			return model, fmt.Errorf("step %d: %w: remaining %.6g kg, step removes %.6g kg",
				step, ErrInsufficientFeed, mass, dMass1+dMass2)
		}

		if !isothermal {
			// Feed heat capacity in J/(kg*K) at the pre-update state; the
			// removed heat cools what remains after the step.
			cpFeed := comp.First()*first.HeatCapacity(feedT)/first.MolecularWeight*1000 +
				comp.Second()*second.HeatCapacity(feedT)/second.MolecularWeight*1000
			feedT -= evapHeat / (cpFeed * newMass)
		}

		comp = mixture.Composition{P: firstMass / newMass, Type: mixture.Weight}
		mass = newMass
	}
	return model, nil
}
