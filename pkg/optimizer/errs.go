package optimizer

import "errors"

var (
	// ErrInvalidComponentIndex indicates a component selector outside the
	// binary pair (0 = first, 1 = second).
	ErrInvalidComponentIndex = errors.New("optimizer: component index must be 0 or 1")

	// ErrInvalidModelOrder indicates negative polynomial orders or more free
	// parameters than measurements.
	ErrInvalidModelOrder = errors.New("optimizer: invalid model order")

	// ErrNoMeasurements indicates a fit over an empty measurement set.
	ErrNoMeasurements = errors.New("optimizer: no measurements")

	// ErrMissingPermeances indicates a diffusion curve without recorded
	// permeances was used as fitting input.
	ErrMissingPermeances = errors.New("optimizer: diffusion curve has no permeances")
)
