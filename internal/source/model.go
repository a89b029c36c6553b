package source

import (
	"starblend/internal/transform"
	"starblend/pkg/cube"
)

// Model renders the combined (bands, height, width) image of all components
// through the current Gamma, weighted by the SED.
func (s *Source) Model() *cube.Cube {
	parts := s.ComponentModels(nil, true)
	out := parts[0]
	for _, p := range parts[1:] {
		out.Add(p)
	}
	return out
}

// ComponentModels renders one (bands, height, width) image per component.
// gamma overrides the source's current operator when non-nil, e.g. to render
// through a differential shift. With useSED false, all-ones weights replace
// the SED, producing the per-band morphology-only images used by SED error
// estimation.
//
// Without a PSF the single shared operator is applied to each morphology
// once and scaled across bands (an outer product); with a PSF each band has
// its own operator. The two branches agree exactly when every PSF kernel is
// the identity.
func (s *Source) ComponentModels(gamma transform.Gamma, useSED bool) []*cube.Cube {
	if gamma == nil {
		gamma = s.Gamma
	}
	h, w := s.frame.Height(), s.frame.Width()
	out := make([]*cube.Cube, s.k)

	for k := 0; k < s.k; k++ {
		m := cube.New(s.bands, h, w)
		morph := s.Morph.RawRowView(k)
		if gamma.Shared() {
			t := gamma.Band(0).Apply(nil, morph)
			for b := 0; b < s.bands; b++ {
				a := s.sedWeight(k, b, useSED)
				band := m.Band(b)
				for i, v := range t {
					band[i] = a * v
				}
			}
		} else {
			for b := 0; b < s.bands; b++ {
				a := s.sedWeight(k, b, useSED)
				if a == 0 {
					continue
				}
				t := gamma.Band(b).Apply(nil, morph)
				band := m.Band(b)
				for i, v := range t {
					band[i] = a * v
				}
			}
		}
		out[k] = m
	}
	return out
}

func (s *Source) sedWeight(k, b int, useSED bool) float64 {
	if !useSED {
		return 1
	}
	return s.SED.At(k, b)
}
