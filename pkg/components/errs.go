package components

import "errors"

var (
	// ErrUnknownComponent indicates a lookup for a name that was never loaded.
	ErrUnknownComponent = errors.New("components: unknown component")

	// ErrBadMolecularWeight indicates a non-positive molecular weight in a
	// component definition.
	ErrBadMolecularWeight = errors.New("components: molecular weight must be positive")
)
