package mixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membranelab/pervaporation/pkg/components"
)

func TestPartialPressuresPureLimits(t *testing.T) {
	mix := waterEthanol()
	const temp = 368.15

	// pure first component collapses to its Antoine pressure
	pure1, _ := NewComposition(1, Molar)
	p1, p2 := mix.PartialPressures(temp, pure1)
	assert.InDelta(t, mix.FirstComponent.AntoinePressure(temp), p1, 1e-9)
	assert.InDelta(t, 0.0, p2, 1e-9)

	// pure second component collapses to its Antoine pressure
	pure2, _ := NewComposition(0, Molar)
	p1, p2 = mix.PartialPressures(temp, pure2)
	assert.InDelta(t, 0.0, p1, 1e-9)
	assert.InDelta(t, mix.SecondComponent.AntoinePressure(temp), p2, 1e-9)
}

func TestPartialPressuresPositiveDeviation(t *testing.T) {
	// water/ethanol shows positive deviation from Raoult's law: the
	// activity-corrected partial pressure exceeds the ideal one.
	mix := waterEthanol()
	const temp = 368.15

	comp, _ := NewComposition(0.1, Weight)
	molar := comp.ToMolar(mix)
	p1, p2 := mix.PartialPressures(temp, comp)

	ideal1 := mix.FirstComponent.AntoinePressure(temp) * molar.First()
	ideal2 := mix.SecondComponent.AntoinePressure(temp) * molar.Second()
	assert.Greater(t, p1, ideal1)
	assert.Greater(t, p2, ideal2)
}

func TestPartialPressuresWeightAndMolarAgree(t *testing.T) {
	mix := waterEthanol()
	w, _ := NewComposition(0.25, Weight)
	m := w.ToMolar(mix)

	w1, w2 := mix.PartialPressures(360, w)
	m1, m2 := mix.PartialPressures(360, m)
	assert.InDelta(t, m1, w1, 1e-9)
	assert.InDelta(t, m2, w2, 1e-9)
}

func TestLoadRegistry(t *testing.T) {
	comps, err := components.Load("testdata/components.yaml")
	require.NoError(t, err)

	reg, err := Load("testdata/mixtures.yaml", comps)
	require.NoError(t, err)

	mix, err := reg.Get("H2O_EtOH")
	require.NoError(t, err)
	assert.Equal(t, "H2O", mix.FirstComponent.Name)
	assert.Equal(t, "EtOH", mix.SecondComponent.Name)
	assert.InDelta(t, 5823, mix.NRTLParams.G12, 1e-12)
	assert.Nil(t, mix.NRTLParams.Alpha21)

	meoh, err := reg.Get("H2O_MeOH")
	require.NoError(t, err)
	require.NotNil(t, meoh.NRTLParams.Alpha21)
	assert.InDelta(t, 0.3, *meoh.NRTLParams.Alpha21, 1e-12)
	assert.InDelta(t, 2.7321, meoh.NRTLParams.A12, 1e-12)

	_, err = reg.Get("H2O_DMSO")
	assert.ErrorIs(t, err, ErrUnknownMixture)

	assert.Equal(t, []string{"H2O_EtOH", "H2O_MeOH"}, reg.Names())
}
