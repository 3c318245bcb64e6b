package mixture

import (
	"math"

	"github.com/membranelab/pervaporation/pkg/components"
)

// NRTLParameters are the binary interaction parameters of the NRTL activity
// model. Alpha21 is optional; when nil it falls back to Alpha12. A12/A21 add
// a linear temperature dependence to the interaction energies.
type NRTLParameters struct {
	G12     float64  `yaml:"g12"`
	G21     float64  `yaml:"g21"`
	Alpha12 float64  `yaml:"alpha12"`
	Alpha21 *float64 `yaml:"alpha21"`
	A12     float64  `yaml:"a12"`
	A21     float64  `yaml:"a21"`
}

// Mixture is an ordered pair of components with NRTL interaction parameters.
// Immutable; share freely across computations.
type Mixture struct {
	Name            string
	FirstComponent  components.Component
	SecondComponent components.Component
	NRTLParams      NRTLParameters
}

// PartialPressures returns the non-ideal partial vapour pressures (kPa) of
// both components at the given temperature (K) and liquid composition. The
// activity coefficients come from the NRTL model; the composition is
// converted to a mole basis first.
func (m Mixture) PartialPressures(temperature float64, comp Composition) (first, second float64) {
	c := comp.ToMolar(m)
	x1, x2 := c.First(), c.Second()

	rt := components.R * temperature
	tau1 := (m.NRTLParams.G12 + m.NRTLParams.A12*temperature) / rt
	tau2 := (m.NRTLParams.G21 + m.NRTLParams.A21*temperature) / rt

	alpha1 := m.NRTLParams.Alpha12
	alpha2 := alpha1
	if m.NRTLParams.Alpha21 != nil {
		alpha2 = *m.NRTLParams.Alpha21
	}

	g1 := math.Exp(-alpha1 * tau1)
	g2 := math.Exp(-alpha2 * tau2)

	d1 := x1 + x2*g2
	d2 := x2 + x1*g1

	gamma1 := math.Exp(x2 * x2 * (tau2*(g2/d1)*(g2/d1) + tau1*g1/(d2*d2)))
	gamma2 := math.Exp(x1 * x1 * (tau1*(g1/d2)*(g1/d2) + tau2*g2/(d1*d1)))

	first = m.FirstComponent.AntoinePressure(temperature) * gamma1 * x1
	second = m.SecondComponent.AntoinePressure(temperature) * gamma2 * x2
	return first, second
}
