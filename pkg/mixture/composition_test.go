package mixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membranelab/pervaporation/pkg/components"
)

func waterEthanol() Mixture {
	return Mixture{
		Name: "H2O_EtOH",
		FirstComponent: components.Component{
			Name:             "H2O",
			MolecularWeight:  18.02,
			AntoineConstants: components.AntoineConstants{A: 7.20389, B: 1733.926, C: -39.485},
		},
		SecondComponent: components.Component{
			Name:             "EtOH",
			MolecularWeight:  46.07,
			AntoineConstants: components.AntoineConstants{A: 7.24677, B: 1598.673, C: -46.424},
		},
		NRTLParams: NRTLParameters{G12: 5823, G21: -633, Alpha12: 0.3},
	}
}

func TestNewComposition(t *testing.T) {
	c, err := NewComposition(0.3, Weight)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, c.First(), 1e-12)
	assert.InDelta(t, 0.7, c.Second(), 1e-12)

	_, err = NewComposition(-0.1, Weight)
	assert.ErrorIs(t, err, ErrCompositionRange)
	_, err = NewComposition(1.1, Molar)
	assert.ErrorIs(t, err, ErrCompositionRange)
	_, err = NewComposition(0.5, CompositionType("volume"))
	assert.ErrorIs(t, err, ErrCompositionType)
}

func TestCompositionComplement(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.5, 0.99, 1} {
		c, err := NewComposition(p, Molar)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, c.First()+c.Second(), 1e-15)
		assert.GreaterOrEqual(t, c.First(), 0.0)
		assert.LessOrEqual(t, c.First(), 1.0)
	}
}

func TestCompositionConversionRoundTrip(t *testing.T) {
	mix := waterEthanol()

	w, _ := NewComposition(0.1, Weight)
	m := w.ToMolar(mix)
	assert.Equal(t, Molar, m.Type)
	// water is lighter, so its mole fraction exceeds its weight fraction
	assert.Greater(t, m.First(), w.First())
	assert.InDelta(t, 1.0, m.First()+m.Second(), 1e-15)

	back := m.ToWeight(mix)
	assert.InDelta(t, w.First(), back.First(), 1e-12)

	// conversions are no-ops on the matching basis
	assert.Equal(t, w, w.ToWeight(mix))
	assert.Equal(t, m, m.ToMolar(mix))
}

func TestCompositionBoundaries(t *testing.T) {
	mix := waterEthanol()
	pureFirst, _ := NewComposition(1, Weight)
	pureSecond, _ := NewComposition(0, Weight)
	assert.InDelta(t, 1.0, pureFirst.ToMolar(mix).First(), 1e-15)
	assert.InDelta(t, 0.0, pureSecond.ToMolar(mix).First(), 1e-15)
}
