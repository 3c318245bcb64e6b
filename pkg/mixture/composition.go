package mixture

import "fmt"

// CompositionType tags the basis a binary composition is expressed in.
type CompositionType string

const (
	Weight CompositionType = "weight"
	Molar  CompositionType = "molar"
)

// Composition is the fraction of the first component of a binary mixture,
// tagged with its basis. The second component's fraction is always 1-P.
type Composition struct {
	P    float64         `yaml:"p" json:"p"`
	Type CompositionType `yaml:"type" json:"type"`
}

// NewComposition validates p into [0,1] and returns the tagged composition.
func NewComposition(p float64, t CompositionType) (Composition, error) {
	if p < 0 || p > 1 {
		return Composition{}, fmt.Errorf("%w: %g", ErrCompositionRange, p)
	}
	if t != Weight && t != Molar {
		return Composition{}, fmt.Errorf("%w: %q", ErrCompositionType, t)
	}
	return Composition{P: p, Type: t}, nil
}

// First returns the fraction of the first component.
func (c Composition) First() float64 { return c.P }

// Second returns the fraction of the second component.
func (c Composition) Second() float64 { return 1 - c.P }

// ToMolar converts to a mole-fraction composition using the mixture's
// molecular weights. Already-molar compositions are returned unchanged.
func (c Composition) ToMolar(mix Mixture) Composition {
	if c.Type == Molar {
		return c
	}
	mw1 := mix.FirstComponent.MolecularWeight
	mw2 := mix.SecondComponent.MolecularWeight
	p := (c.P / mw1) / (c.P/mw1 + (1-c.P)/mw2)
	return Composition{P: p, Type: Molar}
}

// ToWeight converts to a weight-fraction composition using the mixture's
// molecular weights. Already-weight compositions are returned unchanged.
func (c Composition) ToWeight(mix Mixture) Composition {
	if c.Type == Weight {
		return c
	}
	mw1 := mix.FirstComponent.MolecularWeight
	mw2 := mix.SecondComponent.MolecularWeight
	p := c.P * mw1 / (c.P*mw1 + (1-c.P)*mw2)
	return Composition{P: p, Type: Weight}
}
