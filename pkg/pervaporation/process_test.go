package pervaporation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membranelab/pervaporation/pkg/membrane"
	"github.com/membranelab/pervaporation/pkg/mixture"
	"github.com/membranelab/pervaporation/pkg/optimizer"
)

func dehydrationConditions() Conditions {
	return Conditions{
		MembraneArea:           0.017,
		InitialFeedTemperature: 368.15,
		Permeate:               EvacuatedPermeate(0),
		InitialFeedAmount:      1.5,
		InitialFeedComposition: weight(0.1),
	}
}

func TestIdealIsothermalProcessDehydration(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()

	model, err := pv.IdealIsothermalProcess(cond, 50, 0.2, DefaultPrecision)
	require.NoError(t, err)
	require.Len(t, model.Snapshots, 51)
	assert.True(t, model.Isothermal)
	assert.Equal(t, "Pervap_4101", model.MembraneName)

	factors := model.SeparationFactors()
	assert.InDelta(t, 5263.699517263321, factors[0], 1e-3)
	for i := 1; i < len(factors); i++ {
		assert.Greater(t, factors[i], factors[i-1],
			"separation factor must grow as the feed dries at step %d", i)
	}

	selectivities := model.Selectivities()
	assert.InDelta(t, 2420.8860759493673, selectivities[0], 1e-9)

	// psi is total flux * (separation factor - 1), snapshot by snapshot
	psi := model.Psi()
	totals := model.TotalFluxes()
	require.Len(t, psi, 51)
	for i := range psi {
		assert.InDelta(t, totals[i]*(factors[i]-1), psi[i], 1e-9)
	}
}

func TestProcessMassAndCompositionBalance(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()

	model, err := pv.IdealIsothermalProcess(cond, 20, 0.25, DefaultPrecision)
	require.NoError(t, err)
	require.Len(t, model.Snapshots, 21)

	s0 := model.Snapshots[0]
	assert.InDelta(t, 1.5, s0.FeedMass, 1e-12)
	assert.InDelta(t, 0.1, s0.FeedComposition.First(), 1e-12)
	assert.InDelta(t, 368.15, s0.FeedTemperature, 1e-12)
	assert.InDelta(t, 0.0, s0.Time, 1e-12)

	// replay the explicit step from each snapshot's fluxes and check the
	// next snapshot matches exactly
	for i := 0; i+1 < len(model.Snapshots); i++ {
		cur, next := model.Snapshots[i], model.Snapshots[i+1]
		d1 := cur.PartialFluxes.First * cond.MembraneArea * 0.25
		d2 := cur.PartialFluxes.Second * cond.MembraneArea * 0.25
		wantMass := cur.FeedMass - d1 - d2
		assert.InDelta(t, wantMass, next.FeedMass, 1e-12)
		assert.InDelta(t, (cur.FeedComposition.First()*cur.FeedMass-d1)/wantMass,
			next.FeedComposition.First(), 1e-12)
		assert.Less(t, next.FeedMass, cur.FeedMass)
		assert.InDelta(t, float64(i+1)*0.25, next.Time, 1e-12)
	}
}

func TestIdealNonIsothermalProcessCools(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()

	model, err := pv.IdealNonIsothermalProcess(cond, 20, 0.2, DefaultPrecision)
	require.NoError(t, err)
	require.Len(t, model.Snapshots, 21)
	assert.False(t, model.Isothermal)

	// evaporation keeps removing heat; the feed temperature declines every
	// step, by exactly evapHeat / (cp_feed * remaining mass)
	first := pv.Mixture.FirstComponent
	second := pv.Mixture.SecondComponent
	for i := 0; i+1 < len(model.Snapshots); i++ {
		cur, next := model.Snapshots[i], model.Snapshots[i+1]
		assert.Less(t, next.FeedTemperature, cur.FeedTemperature)

		cpFeed := cur.FeedComposition.First()*first.HeatCapacity(cur.FeedTemperature)/first.MolecularWeight*1000 +
			cur.FeedComposition.Second()*second.HeatCapacity(cur.FeedTemperature)/second.MolecularWeight*1000
		wantDrop := cur.FeedEvaporationHeat / (cpFeed * next.FeedMass)
		assert.InDelta(t, wantDrop, cur.FeedTemperature-next.FeedTemperature, 1e-9)
	}

	// cooler feed means lower vapour pressures, so fluxes shrink faster
	// than in the isothermal run
	iso, err := pv.IdealIsothermalProcess(cond, 20, 0.2, DefaultPrecision)
	require.NoError(t, err)
	last := len(model.Snapshots) - 1
	assert.Less(t, model.Snapshots[last].PartialFluxes.Total(),
		iso.Snapshots[last].PartialFluxes.Total())
}

func TestProcessHeatsEvacuatedPermeate(t *testing.T) {
	pv := testUnit()
	model, err := pv.IdealIsothermalProcess(dehydrationConditions(), 5, 0.2, DefaultPrecision)
	require.NoError(t, err)

	// with an evacuated permeate both heats are taken at the feed
	// temperature, so they coincide
	for _, s := range model.Snapshots {
		assert.Greater(t, s.FeedEvaporationHeat, 0.0)
		assert.InDelta(t, s.FeedEvaporationHeat, s.PermeateCondensationHeat, 1e-9)
		assert.Zero(t, s.PermeateTemperature)
	}
}

func TestProcessHeatsCondensingPermeate(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()
	cond.Permeate = CondensingPermeate(293.15)

	model, err := pv.IdealIsothermalProcess(cond, 5, 0.2, DefaultPrecision)
	require.NoError(t, err)

	// condensation at 293 K releases the (larger) latent heat at that
	// temperature plus the sensible heat of cooling the vapour
	for _, s := range model.Snapshots {
		assert.Greater(t, s.PermeateCondensationHeat, s.FeedEvaporationHeat)
		assert.InDelta(t, 293.15, s.PermeateTemperature, 1e-12)
	}
}

func TestProcessInsufficientFeed(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()
	cond.InitialFeedAmount = 0.001

	model, err := pv.IdealIsothermalProcess(cond, 50, 0.2, DefaultPrecision)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientFeed)
	// the trajectory up to the failing step is still returned
	assert.NotEmpty(t, model.Snapshots)
	assert.Less(t, len(model.Snapshots), 51)
}

func TestProcessBadRunParameters(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()

	cases := []struct {
		name      string
		steps     int
		stepHours float64
		mutate    func(*Conditions)
	}{
		{"zero steps", 0, 0.2, nil},
		{"negative step hours", 10, -1, nil},
		{"zero feed", 10, 0.2, func(c *Conditions) { c.InitialFeedAmount = 0 }},
		{"zero area", 10, 0.2, func(c *Conditions) { c.MembraneArea = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cond
			if tc.mutate != nil {
				tc.mutate(&c)
			}
			_, err := pv.IdealIsothermalProcess(c, tc.steps, tc.stepHours, DefaultPrecision)
			assert.ErrorIs(t, err, ErrBadRunParameters)
		})
	}
}

// syntheticCurveSet sweeps the ideal solver at two temperatures to produce a
// curve set with per-point permeances, the input a non-ideal run expects.
func syntheticCurveSet(t *testing.T, pv Pervaporation) membrane.DiffusionCurveSet {
	t.Helper()
	comps := []mixture.Composition{
		weight(0.02), weight(0.05), weight(0.1), weight(0.15), weight(0.2), weight(0.3),
	}
	set := membrane.DiffusionCurveSet{NameOfTheSet: "synthetic"}
	for _, temp := range []float64{358.15, 368.15} {
		curve, err := pv.IdealDiffusionCurve(temp, EvacuatedPermeate(0), comps, DefaultPrecision)
		require.NoError(t, err)
		set.Curves = append(set.Curves, curve)
	}
	return set
}

func TestNonIdealIsothermalProcess(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()
	set := syntheticCurveSet(t, pv)
	initial := [2]membrane.Permeance{
		membrane.NewPermeance(0.0153),
		membrane.NewPermeance(0.00000632),
	}

	model, err := pv.NonIdealIsothermalProcess(cond, set, initial, 10, 0.2, DefaultPrecision)
	require.NoError(t, err)
	require.Len(t, model.Snapshots, 11)

	// the fitted surfaces are anchored so the first step reproduces the
	// supplied permeances exactly
	assert.InDelta(t, 0.0153, model.Snapshots[0].Permeances[0].Value, 1e-12)
	assert.InDelta(t, 0.00000632, model.Snapshots[0].Permeances[1].Value, 1e-12)

	for i := 1; i < len(model.Snapshots); i++ {
		assert.Less(t, model.Snapshots[i].FeedMass, model.Snapshots[i-1].FeedMass)
		assert.Greater(t, model.Snapshots[i].Permeances[0].Value, 0.0)
	}
}

func TestNonIdealNonIsothermalProcess(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()
	set := syntheticCurveSet(t, pv)
	initial := [2]membrane.Permeance{
		membrane.NewPermeance(0.0153),
		membrane.NewPermeance(0.00000632),
	}

	model, err := pv.NonIdealNonIsothermalProcess(cond, set, initial, 10, 0.2, DefaultPrecision)
	require.NoError(t, err)
	require.Len(t, model.Snapshots, 11)
	assert.False(t, model.Isothermal)
	last := len(model.Snapshots) - 1
	assert.Less(t, model.Snapshots[last].FeedTemperature, cond.InitialFeedTemperature)
}

func TestNonIdealProcessRequiresPermeances(t *testing.T) {
	pv := testUnit()
	cond := dehydrationConditions()
	set := syntheticCurveSet(t, pv)
	for i := range set.Curves {
		set.Curves[i].Permeances = nil
	}
	initial := [2]membrane.Permeance{
		membrane.NewPermeance(0.0153),
		membrane.NewPermeance(0.00000632),
	}
	_, err := pv.NonIdealIsothermalProcess(cond, set, initial, 10, 0.2, DefaultPrecision)
	assert.ErrorIs(t, err, optimizer.ErrMissingPermeances)
}
