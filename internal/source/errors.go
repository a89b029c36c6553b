package source

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"starblend/pkg/cube"
)

// maskedWeightScale is the placeholder applied to zero-weight pixels: a
// small multiple of each band's smallest live weight, keeping the design
// matrix non-singular. Errors at those pixels are zeroed afterward.
const maskedWeightScale = 1e-3

// condWarnLimit flags covariance inversions that are close to singular.
const condWarnLimit = 1e12

// MorphError estimates per-pixel standard errors of each component's
// morphology by linear error propagation, assuming the source is isolated.
// weights is the (bands, height, width) inverse-variance image of the full
// observation. Pixels whose weight is zero across all bands come back as
// exactly zero.
//
// Without a PSF the pixel covariance stays diagonal and the estimate is
// closed-form. With a PSF the per-component design matrix mixes pixels and
// a dense covariance inversion is required; this does not scale to large
// frames and can fail for wide PSFs, in which case an error is returned
// rather than silent garbage. No regularization is applied.
func (s *Source) MorphError(weights *cube.Cube) (*mat.Dense, error) {
	w, mask, err := s.frameWeights(weights)
	if err != nil {
		return nil, err
	}
	n := s.frame.Pixels()
	out := mat.NewDense(s.k, n, nil)

	if !s.HasPSF() {
		// Sigma_morph = diag((A^T Sigma_pix^-1 A)^-1) per component
		for k := 0; k < s.k; k++ {
			row := out.RawRowView(k)
			for j := 0; j < n; j++ {
				var sum float64
				for b := 0; b < s.bands; b++ {
					a := s.SED.At(k, b)
					sum += a * a * w.Band(b)[j]
				}
				row[j] = 1 / math.Sqrt(sum)
			}
		}
	} else {
		for k := 0; k < s.k; k++ {
			sigma := s.morphCovariance(k, w)
			if c := mat.Cond(sigma, 2); c > condWarnLimit {
				slog.Warn("source: morphology covariance is ill-conditioned",
					"component", k, "cond", c)
			}
			var inv mat.Dense
			if err := inv.Inverse(sigma); err != nil {
				return nil, fmt.Errorf("source: morphology covariance inversion failed for component %d: %w", k, err)
			}
			row := out.RawRowView(k)
			for j := 0; j < n; j++ {
				row[j] = math.Sqrt(inv.At(j, j))
			}
		}
	}

	for k := 0; k < s.k; k++ {
		row := out.RawRowView(k)
		for j, m := range mask {
			if m {
				row[j] = 0
			}
		}
	}
	return out, nil
}

// SEDError estimates per-band standard errors of each component's SED by
// linear error propagation, assuming the source is isolated. The PSF branch
// builds the per-component design matrix from the SED-less rendered model;
// its covariance is diagonal per band, so the inversion is benign unless an
// entire band carries no flux.
func (s *Source) SEDError(weights *cube.Cube) (*mat.Dense, error) {
	w, _, err := s.frameWeights(weights)
	if err != nil {
		return nil, err
	}
	n := s.frame.Pixels()
	out := mat.NewDense(s.k, s.bands, nil)

	if !s.HasPSF() {
		for k := 0; k < s.k; k++ {
			morph := s.Morph.RawRowView(k)
			row := out.RawRowView(k)
			for b := 0; b < s.bands; b++ {
				var sum float64
				wb := w.Band(b)
				for j := 0; j < n; j++ {
					sum += morph[j] * morph[j] * wb[j]
				}
				row[b] = 1 / math.Sqrt(sum)
			}
		}
		return out, nil
	}

	models := s.ComponentModels(nil, false)
	for k := 0; k < s.k; k++ {
		sigma := mat.NewDense(s.bands, s.bands, nil)
		for b := 0; b < s.bands; b++ {
			var sum float64
			mb := models[k].Band(b)
			wb := w.Band(b)
			for j := 0; j < n; j++ {
				sum += mb[j] * mb[j] * wb[j]
			}
			sigma.Set(b, b, sum)
		}
		var inv mat.Dense
		if err := inv.Inverse(sigma); err != nil {
			return nil, fmt.Errorf("source: SED covariance inversion failed for component %d: %w", k, err)
		}
		row := out.RawRowView(k)
		for b := 0; b < s.bands; b++ {
			row[b] = math.Sqrt(inv.At(b, b))
		}
	}
	return out, nil
}

// frameWeights extracts the weight sub-image overlapping the frame, padding
// with zeros where the frame leaves the observation, and substitutes the
// masked-pixel placeholder. The returned mask marks pixels whose summed
// weight across bands was exactly zero.
func (s *Source) frameWeights(weights *cube.Cube) (*cube.Cube, []bool, error) {
	if weights.Bands != s.bands {
		return nil, nil, fmt.Errorf("source: weights have %d bands, want %d", weights.Bands, s.bands)
	}
	h, w := s.frame.Height(), s.frame.Width()
	out := cube.New(s.bands, h, w)
	ySpan, xSpan := s.frame.SliceFor(weights.Height, weights.Width)
	for b := 0; b < s.bands; b++ {
		for y := ySpan.Start; y < ySpan.Stop; y++ {
			for x := xSpan.Start; x < xSpan.Stop; x++ {
				out.Set(b, y, x, weights.At(b, s.frame.Bottom+y, s.frame.Left+x))
			}
		}
	}

	n := h * w
	mask := make([]bool, n)
	masked := 0
	for j := 0; j < n; j++ {
		var sum float64
		for b := 0; b < s.bands; b++ {
			sum += out.Band(b)[j]
		}
		if sum == 0 {
			mask[j] = true
			masked++
		}
	}
	if masked > 0 && masked < n {
		for b := 0; b < s.bands; b++ {
			band := out.Band(b)
			low := math.Inf(1)
			for j, m := range mask {
				if !m && band[j] < low {
					low = band[j]
				}
			}
			for j, m := range mask {
				if m {
					band[j] = maskedWeightScale * low
				}
			}
		}
	}
	return out, mask, nil
}

// morphCovariance assembles sum_b sed[k,b]^2 * Gamma_b^T W_b Gamma_b, the
// inverse covariance of component k's morphology under the stacked per-band
// design matrix.
func (s *Source) morphCovariance(k int, w *cube.Cube) *mat.Dense {
	n := s.frame.Pixels()
	sigma := mat.NewDense(n, n, nil)
	var wa, at mat.Dense
	for b := 0; b < s.bands; b++ {
		a := s.SED.At(k, b)
		if a == 0 {
			continue
		}
		g := s.Gamma.Band(b).Dense()
		wb := w.Band(b)
		wa.CloneFrom(g)
		for i := 0; i < n; i++ {
			row := wa.RawRowView(i)
			for j := range row {
				row[j] *= wb[i]
			}
		}
		at.Mul(g.T(), &wa)
		at.Scale(a*a, &at)
		sigma.Add(sigma, &at)
	}
	return sigma
}
