package optimizer

import (
	"fmt"

	"github.com/membranelab/pervaporation/pkg/membrane"
)

// Component selectors for fitting input extraction.
const (
	FirstComponent  = 0
	SecondComponent = 1
)

// Measurement is one observed (composition, temperature, permeance) triple.
// X is the weight fraction of the first mixture component.
type Measurement struct {
	X float64 `json:"x"`
	T float64 `json:"t"`
	P float64 `json:"p"`
}

// Measurements is an unordered collection of fitting input; only the
// multiset matters.
type Measurements []Measurement

// Temperatures returns the distinct temperatures present, in first-seen
// order.
func (ms Measurements) Temperatures() []float64 {
	seen := make(map[float64]struct{}, len(ms))
	var out []float64
	for _, m := range ms {
		if _, ok := seen[m.T]; ok {
			continue
		}
		seen[m.T] = struct{}{}
		out = append(out, m.T)
	}
	return out
}

// FromDiffusionCurve extracts the permeance observations of one component
// from a diffusion curve. The curve must carry recorded permeances.
func FromDiffusionCurve(curve membrane.DiffusionCurve, component int) (Measurements, error) {
	if component != FirstComponent && component != SecondComponent {
		return nil, fmt.Errorf("%w: %d", ErrInvalidComponentIndex, component)
	}
	if len(curve.Permeances) != curve.Len() {
		return nil, fmt.Errorf("%w: %s", ErrMissingPermeances, curve.MembraneName)
	}
	out := make(Measurements, 0, curve.Len())
	for i := 0; i < curve.Len(); i++ {
		out = append(out, Measurement{
			X: curve.FeedCompositions[i].First(),
			T: curve.FeedTemperature,
			P: curve.Permeances[i][component].Value,
		})
	}
	return out, nil
}

// FromDiffusionCurveSet concatenates the observations of all curves in the
// set for one component.
func FromDiffusionCurveSet(set membrane.DiffusionCurveSet, component int) (Measurements, error) {
	var out Measurements
	for _, curve := range set.Curves {
		ms, err := FromDiffusionCurve(curve, component)
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
	}
	return out, nil
}
