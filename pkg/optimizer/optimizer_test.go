package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membranelab/pervaporation/pkg/membrane"
	"github.com/membranelab/pervaporation/pkg/mixture"
)

func TestFromParams(t *testing.T) {
	f, err := FromParams([]float64{2, 0.5, -0.1, 300, 40}, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2, f.Alpha, 1e-15)
	assert.Equal(t, []float64{0.5, -0.1}, f.A)
	assert.Equal(t, []float64{300, 40}, f.B)
	assert.Equal(t, 1, f.N())
	assert.Equal(t, 1, f.M())

	_, err = FromParams([]float64{1, 1, 1}, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidModelOrder)
	_, err = FromParams([]float64{1, 1}, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidModelOrder)
}

func TestEvaluate(t *testing.T) {
	f := PermeanceFunction{Alpha: 1.5, A: []float64{0.2, 0.4}, B: []float64{120}}
	x, temp := 0.3, 340.0
	want := 1.5 * math.Exp(0.2+0.4*x-120/temp)
	assert.InDelta(t, want, f.Evaluate(x, temp), 1e-12)
}

func TestDerivativesMatchFiniteDifference(t *testing.T) {
	f := PermeanceFunction{Alpha: 0.8, A: []float64{0.1, 0.6, -0.3}, B: []float64{200, 50}}
	const (
		x = 0.35
		tk = 345.0
		h = 1e-6
	)

	numX := (f.Evaluate(x+h, tk) - f.Evaluate(x-h, tk)) / (2 * h)
	assert.InDelta(t, numX, f.DerivativeX(x, tk), math.Abs(numX)*1e-5+1e-9)

	numT := (f.Evaluate(x, tk+h) - f.Evaluate(x, tk-h)) / (2 * h)
	assert.InDelta(t, numT, f.DerivativeT(x, tk), math.Abs(numT)*1e-4+1e-9)
}

// synthetic generates exact measurements from a known function.
func synthetic(f PermeanceFunction, temps []float64) Measurements {
	var out Measurements
	for _, tk := range temps {
		for x := 0.1; x < 0.95; x += 0.1 {
			out = append(out, Measurement{X: x, T: tk, P: f.Evaluate(x, tk)})
		}
	}
	return out
}

func TestFitRoundTrip(t *testing.T) {
	gen := PermeanceFunction{Alpha: 1.2, A: []float64{0.8, 0.5}, B: []float64{250}}
	data := synthetic(gen, []float64{330, 350})

	fit, err := Fit(data, Options{N: 1, M: 0})
	require.NoError(t, err)

	// noiseless data from an exactly representable model: the recovered
	// surface reproduces the generator even if the raw parameters differ
	// (alpha and a_0 are mutually redundant)
	assert.Less(t, fit.RMS, 5e-3)
	for _, tk := range []float64{330, 350} {
		for _, x := range []float64{0.2, 0.5, 0.8} {
			want := gen.Evaluate(x, tk)
			assert.InDelta(t, want, fit.Function.Evaluate(x, tk), math.Abs(want)*0.02)
		}
	}
}

func TestFitOrderSearchNeverWorseThanPinnedZero(t *testing.T) {
	gen := PermeanceFunction{Alpha: 0.9, A: []float64{0.3, 1.1}, B: []float64{180}}
	data := synthetic(gen, []float64{333.15, 353.15})

	pinned, err := Fit(data, Options{N: 0, M: 0})
	require.NoError(t, err)
	auto, err := Fit(data, Options{N: AutoOrder, M: AutoOrder})
	require.NoError(t, err)

	assert.LessOrEqual(t,
		totalSquaredResidual(data, auto.Function),
		totalSquaredResidual(data, pinned.Function)+1e-9)
}

func TestAugmentWithBoundaryZeros(t *testing.T) {
	data := Measurements{
		{X: 0.2, T: 330, P: 1},
		{X: 0.4, T: 330, P: 2},
		{X: 0.2, T: 350, P: 3},
	}

	first := augmentWithBoundaryZeros(data, FirstComponent)
	require.Len(t, first, 5) // two distinct temperatures
	assert.Equal(t, Measurement{X: 0, T: 330, P: 0}, first[3])
	assert.Equal(t, Measurement{X: 0, T: 350, P: 0}, first[4])

	second := augmentWithBoundaryZeros(data, SecondComponent)
	assert.Equal(t, Measurement{X: 1, T: 330, P: 0}, second[3])

	// augmentation never mutates the input
	assert.Len(t, data, 3)
}

func TestFitZeroBoundaryReportsOriginalResidual(t *testing.T) {
	gen := PermeanceFunction{Alpha: 1.1, A: []float64{0.4, 0.9}, B: []float64{210}}
	data := synthetic(gen, []float64{340})

	fit, err := Fit(data, Options{N: AutoOrder, M: AutoOrder, ZeroBoundary: true})
	require.NoError(t, err)
	assert.InDelta(t, rms(data, fit.Function), fit.RMS, 1e-12)
}

func TestFitErrors(t *testing.T) {
	data := Measurements{{X: 0.5, T: 330, P: 1}, {X: 0.6, T: 330, P: 1.2}, {X: 0.7, T: 330, P: 1.4}}

	_, err := Fit(data, Options{Component: 2})
	assert.ErrorIs(t, err, ErrInvalidComponentIndex)

	_, err = Fit(nil, Options{})
	assert.ErrorIs(t, err, ErrNoMeasurements)

	_, err = Fit(data, Options{N: -3, M: 0})
	assert.ErrorIs(t, err, ErrInvalidModelOrder)

	// 3+n+m exceeds the measurement count
	_, err = Fit(data, Options{N: 2, M: 2})
	assert.ErrorIs(t, err, ErrInvalidModelOrder)
}

func TestFromDiffusionCurve(t *testing.T) {
	c1, _ := mixture.NewComposition(0.1, mixture.Weight)
	c2, _ := mixture.NewComposition(0.3, mixture.Weight)
	curve := membrane.DiffusionCurve{
		MembraneName:     "Pervap_4101",
		FeedTemperature:  368.15,
		FeedCompositions: []mixture.Composition{c1, c2},
		PartialFluxes:    [][2]float64{{0.5, 0.001}, {0.9, 0.002}},
		Permeances: [][2]membrane.Permeance{
			{membrane.NewPermeance(0.015), membrane.NewPermeance(6e-6)},
			{membrane.NewPermeance(0.017), membrane.NewPermeance(7e-6)},
		},
	}

	first, err := FromDiffusionCurve(curve, FirstComponent)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, Measurement{X: 0.1, T: 368.15, P: 0.015}, first[0])

	second, err := FromDiffusionCurve(curve, SecondComponent)
	require.NoError(t, err)
	assert.Equal(t, Measurement{X: 0.3, T: 368.15, P: 7e-6}, second[1])

	_, err = FromDiffusionCurve(curve, 5)
	assert.ErrorIs(t, err, ErrInvalidComponentIndex)

	curve.Permeances = nil
	_, err = FromDiffusionCurve(curve, FirstComponent)
	assert.ErrorIs(t, err, ErrMissingPermeances)

	set := membrane.DiffusionCurveSet{NameOfTheSet: "set", Curves: []membrane.DiffusionCurve{}}
	ms, err := FromDiffusionCurveSet(set, FirstComponent)
	require.NoError(t, err)
	assert.Empty(t, ms)
}
