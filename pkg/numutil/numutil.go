package numutil

import "math"

// Clamp01 clamps x into [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	// guard against NaN
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// SafeDiv returns n/d, or 0 when d is numerically zero.
func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// Horner evaluates the polynomial c[0] + c[1]*x + ... + c[len-1]*x^(len-1).
func Horner(coeffs []float64, x float64) float64 {
	var acc float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc*x + coeffs[i]
	}
	return acc
}
