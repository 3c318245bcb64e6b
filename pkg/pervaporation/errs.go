package pervaporation

import "errors"

var (
	// ErrDegenerateFlux indicates a zero total flux while deriving the
	// permeate composition (both driving forces vanished or both
	// permeances are zero).
	ErrDegenerateFlux = errors.New("pervaporation: zero total flux")

	// ErrNonConvergence indicates the permeate-composition fixed point did
	// not meet the precision within the iteration cap.
	ErrNonConvergence = errors.New("pervaporation: flux iteration did not converge")

	// ErrInsufficientFeed indicates a time step that would remove more mass
	// than the feed holds, or drive a component fraction negative.
	ErrInsufficientFeed = errors.New("pervaporation: insufficient feed for step")

	// ErrBadRunParameters indicates non-positive step count, step duration
	// or feed amount.
	ErrBadRunParameters = errors.New("pervaporation: invalid process parameters")
)
