package components

import (
	"math"

	"github.com/membranelab/pervaporation/pkg/numutil"
)

// R is the universal gas constant in J/(mol*K).
const R = 8.314462

// AntoineConstants hold the base-10 Antoine correlation coefficients for one
// component. Pressure in kPa, temperature in K.
type AntoineConstants struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
}

// HeatCapacityConstants hold the cubic molar heat capacity polynomial
// Cp(T) = A + B*T + C*T^2 + D*T^3 in J/(mol*K).
type HeatCapacityConstants struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
}

// Component is one pure species with its property correlations.
// Immutable once loaded; share freely across goroutines.
type Component struct {
	Name                  string                `yaml:"name"`
	MolecularWeight       float64               `yaml:"molecular_weight"`
	AntoineConstants      AntoineConstants      `yaml:"antoine_constants"`
	HeatCapacityConstants HeatCapacityConstants `yaml:"heat_capacity_constants"`
}

// AntoinePressure returns the saturated vapour pressure in kPa at the given
// temperature in K, 10^(a - b/(T+c)).
func (c Component) AntoinePressure(temperature float64) float64 {
	return math.Pow(10, c.AntoineConstants.A-c.AntoineConstants.B/(temperature+c.AntoineConstants.C))
}

// VaporisationHeat returns the heat of vaporisation in J/mol at the given
// temperature in K, from the Clausius-Clapeyron form of the Antoine equation.
func (c Component) VaporisationHeat(temperature float64) float64 {
	tc := temperature / (temperature + c.AntoineConstants.C)
	return tc * tc * R * c.AntoineConstants.B * math.Ln10
}

// HeatCapacity returns the molar heat capacity in J/(mol*K) at the given
// temperature in K.
func (c Component) HeatCapacity(temperature float64) float64 {
	hc := c.HeatCapacityConstants
	return numutil.Horner([]float64{hc.A, hc.B, hc.C, hc.D}, temperature)
}

// SpecificHeat returns the mean molar heat capacity in J/(mol*K) over the
// temperature interval [tLow, tHigh]. A degenerate interval falls back to the
// instantaneous heat capacity.
func (c Component) SpecificHeat(tLow, tHigh float64) float64 {
	if tLow > tHigh {
		tLow, tHigh = tHigh, tLow
	}
	if tHigh-tLow < 1e-9 {
		return c.HeatCapacity(tHigh)
	}
	return (c.heatCapacityIntegral(tHigh) - c.heatCapacityIntegral(tLow)) / (tHigh - tLow)
}

// heatCapacityIntegral is the antiderivative of the Cp polynomial at t.
func (c Component) heatCapacityIntegral(t float64) float64 {
	hc := c.HeatCapacityConstants
	return numutil.Horner([]float64{0, hc.A, hc.B / 2, hc.C / 3, hc.D / 4}, t)
}
