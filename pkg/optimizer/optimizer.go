package optimizer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// AutoOrder requests the exhaustive model-order search for N or M.
const AutoOrder = -1

// Options control a permeance-function fit.
type Options struct {
	// N and M are the composition and temperature polynomial orders.
	// AutoOrder searches the (n, m) grid exhaustively.
	N, M int

	// Component selects which mixture component the measurements belong to
	// (FirstComponent or SecondComponent). It governs which composition
	// boundary receives synthetic zeros.
	Component int

	// ZeroBoundary injects zero-permeance measurements at the
	// pure-other-component boundary for every distinct temperature, to
	// enforce that a single-component feed yields no flux of the other
	// component. Augmentation affects the fit input only, never the
	// reported residual.
	ZeroBoundary bool
}

// FitResult is the outcome of one fit: the best function found, its RMS
// residual over the original measurement set, and whether the optimizer
// reported convergence. A non-converged result still carries the best
// candidate found.
type FitResult struct {
	Function  PermeanceFunction
	RMS       float64
	Converged bool
}

// Fit regresses a permeance function from measurements by derivative-free
// minimisation of the RMS residual, starting from an all-ones guess.
func Fit(data Measurements, opts Options) (FitResult, error) {
	if opts.Component != FirstComponent && opts.Component != SecondComponent {
		return FitResult{}, fmt.Errorf("%w: %d", ErrInvalidComponentIndex, opts.Component)
	}
	if len(data) == 0 {
		return FitResult{}, ErrNoMeasurements
	}
	if opts.N < AutoOrder || opts.M < AutoOrder {
		return FitResult{}, fmt.Errorf("%w: n=%d m=%d", ErrInvalidModelOrder, opts.N, opts.M)
	}

	input := data
	if opts.ZeroBoundary {
		input = augmentWithBoundaryZeros(data, opts.Component)
	}

	if opts.N != AutoOrder && opts.M != AutoOrder {
		if 3+opts.N+opts.M > len(input) {
			return FitResult{}, fmt.Errorf("%w: %d params for %d measurements",
				ErrInvalidModelOrder, 3+opts.N+opts.M, len(input))
		}
		f, converged := fitOrders(input, opts.N, opts.M)
		return FitResult{Function: f, RMS: rms(data, f), Converged: converged}, nil
	}

	// Exhaustive small-order grid; the winner is judged on the ORIGINAL
	// measurement set so boundary augmentation and larger grids cannot buy
	// a better score by overfitting.
	maxOrder := min(5, int(math.Floor(math.Sqrt(float64(len(data))))))
	var (
		best          PermeanceFunction
		bestScore     = math.Inf(1)
		bestConverged bool
		fitted        bool
	)
	for n := 0; n <= maxOrder; n++ {
		for m := 0; m <= maxOrder; m++ {
			if 3+n+m > len(input) && !(n == 0 && m == 0) {
				continue
			}
			f, converged := fitOrders(input, n, m)
			score := totalSquaredResidual(data, f)
			if score < bestScore {
				best, bestScore, bestConverged, fitted = f, score, converged, true
			}
		}
	}
	if !fitted {
		return FitResult{}, fmt.Errorf("%w: no feasible (n, m) for %d measurements",
			ErrInvalidModelOrder, len(data))
	}
	return FitResult{Function: best, RMS: rms(data, best), Converged: bestConverged}, nil
}

// fitOrders runs one Nelder-Mead minimisation at fixed polynomial orders.
// Optimizer failure degrades to the best point reached rather than an error.
func fitOrders(data Measurements, n, m int) (PermeanceFunction, bool) {
	x0 := make([]float64, 3+n+m)
	for i := range x0 {
		x0[i] = 1
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			f, err := FromParams(params, n, m)
			if err != nil {
				return math.Inf(1)
			}
			return rms(data, f)
		},
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if result == nil || result.X == nil {
		f, _ := FromParams(x0, n, m)
		return f, false
	}
	f, ferr := FromParams(result.X, n, m)
	if ferr != nil {
		f, _ = FromParams(x0, n, m)
		return f, false
	}
	return f, err == nil
}

// rms is the root-mean-square residual of f over data.
func rms(data Measurements, f PermeanceFunction) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(totalSquaredResidual(data, f) / float64(len(data)))
}

// totalSquaredResidual sums squared prediction errors over data.
func totalSquaredResidual(data Measurements, f PermeanceFunction) float64 {
	var sum float64
	for _, d := range data {
		r := f.Evaluate(d.X, d.T) - d.P
		sum += r * r
	}
	return sum
}

// augmentWithBoundaryZeros appends zero-permeance points at the composition
// boundary of the complementary pure feed (x=0 when fitting the first
// component, x=1 for the second) for every distinct temperature observed.
func augmentWithBoundaryZeros(data Measurements, component int) Measurements {
	boundary := 0.0
	if component == SecondComponent {
		boundary = 1.0
	}
	out := append(Measurements(nil), data...)
	for _, t := range data.Temperatures() {
		out = append(out, Measurement{X: boundary, T: t, P: 0})
	}
	return out
}
