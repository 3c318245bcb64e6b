package mixture

import "errors"

var (
	// ErrCompositionRange indicates a fraction outside [0,1].
	ErrCompositionRange = errors.New("mixture: composition fraction out of [0,1]")

	// ErrCompositionType indicates a basis other than weight or molar.
	ErrCompositionType = errors.New("mixture: unknown composition type")

	// ErrUnknownMixture indicates a registry lookup for a name that was
	// never loaded.
	ErrUnknownMixture = errors.New("mixture: unknown mixture")
)
