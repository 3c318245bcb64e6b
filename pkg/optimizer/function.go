package optimizer

import (
	"fmt"
	"math"

	"github.com/membranelab/pervaporation/pkg/numutil"
)

// PermeanceFunction is a fitted closed-form permeance surface
//
//	f(x, t) = alpha * exp( sum a_i*x^i - (sum b_i*x^i)/t )
//
// where x is the weight fraction of the first component and t the
// temperature in K. Immutable once fit.
type PermeanceFunction struct {
	Alpha float64   `json:"alpha"`
	A     []float64 `json:"a"`
	B     []float64 `json:"b"`
}

// N is the composition polynomial order.
func (f PermeanceFunction) N() int { return len(f.A) - 1 }

// M is the temperature polynomial order.
func (f PermeanceFunction) M() int { return len(f.B) - 1 }

// FromParams unpacks a flat parameter vector [alpha, a_0..a_n, b_0..b_m].
func FromParams(params []float64, n, m int) (PermeanceFunction, error) {
	if n < 0 || m < 0 {
		return PermeanceFunction{}, fmt.Errorf("%w: n=%d m=%d", ErrInvalidModelOrder, n, m)
	}
	if len(params) != 3+n+m {
		return PermeanceFunction{}, fmt.Errorf("%w: want %d params, got %d", ErrInvalidModelOrder, 3+n+m, len(params))
	}
	f := PermeanceFunction{
		Alpha: params[0],
		A:     append([]float64(nil), params[1:n+2]...),
		B:     append([]float64(nil), params[n+2:]...),
	}
	return f, nil
}

// Evaluate returns the permeance at composition x and temperature t.
func (f PermeanceFunction) Evaluate(x, t float64) float64 {
	return f.Alpha * math.Exp(numutil.Horner(f.A, x)-numutil.Horner(f.B, x)/t)
}

// DerivativeX is the closed-form partial derivative with respect to
// composition.
func (f PermeanceFunction) DerivativeX(x, t float64) float64 {
	return f.Evaluate(x, t) * (polyDerivative(f.A, x) - polyDerivative(f.B, x)/t)
}

// DerivativeT is the closed-form partial derivative with respect to
// temperature.
func (f PermeanceFunction) DerivativeT(x, t float64) float64 {
	return f.Evaluate(x, t) * numutil.Horner(f.B, x) / (t * t)
}

// polyDerivative evaluates d/dx of the polynomial with coefficients c.
func polyDerivative(c []float64, x float64) float64 {
	var acc float64
	for i := len(c) - 1; i >= 1; i-- {
		acc = acc*x + float64(i)*c[i]
	}
	return acc
}
