package membrane

import "errors"

var (
	// ErrUnknownUnits indicates a permeance unit string outside the
	// supported set.
	ErrUnknownUnits = errors.New("membrane: unknown permeance units")

	// ErrNoExperiments indicates a permeance lookup for a component the
	// membrane has no characterisation data for.
	ErrNoExperiments = errors.New("membrane: no ideal experiments for component")

	// ErrInsufficientData indicates that a temperature-dependent lookup or
	// an activation-energy regression was requested with fewer than two
	// experiments and no activation energy given.
	ErrInsufficientData = errors.New("membrane: not enough experiments for temperature extrapolation")
)
