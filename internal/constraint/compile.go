package constraint

import (
	"log/slog"

	"starblend/internal/prox"
	"starblend/internal/transform"
)

// Dual is one slot of the dualized constraint list: a linear operator and
// the proximal operator applied to the transformed auxiliary variable. L is
// nil for prox-only duals (Cone). A zero Dual (both fields nil) marks a
// component that opted out of the kind occupying that slot.
type Dual struct {
	L    *transform.Matrix
	Prox prox.Op
}

// Empty reports whether this slot is an opt-out.
func (d Dual) Empty() bool {
	return d.L == nil && d.Prox == nil
}

// Compiled is the operator graph for one source: per-component proximal
// operators for SED and morphology, plus the dual list in kind-major order
// with one slot per component per dualized kind, preserving positional
// alignment with components.
type Compiled struct {
	SED   []prox.Op
	Morph []prox.Op
	Duals []Dual
}

// Compile builds the operator graph for K components on a (height, width)
// frame. sets must already be broadcast to length K. Iteration runs over
// kinds in canonical order so that expensive shared matrices are built once
// for all components that declare them.
func Compile(sets []Set, height, width int) Compiled {
	k := len(sets)
	out := Compiled{
		SED:   make([]prox.Op, k),
		Morph: make([]prox.Op, k),
	}
	// The SED projection is fixed: non-negative, summing to one.
	for i := range out.SED {
		out.SED[i] = prox.UnityPlus()
	}

	morph := make([][]prox.Op, k)
	for _, kind := range kinds {
		declared := false
		for _, s := range sets {
			if s.Has(kind) {
				declared = true
				break
			}
		}
		if !declared {
			continue
		}

		switch kind {
		case Nonneg:
			for i, s := range sets {
				if s.Has(kind) {
					morph[i] = append(morph[i], prox.Plus())
				}
			}
		case L0:
			for i, s := range sets {
				if c, ok := s.Find(kind); ok {
					morph[i] = append(morph[i], prox.Hard(c.Thresh))
				}
			}
		case L1:
			for i, s := range sets {
				if c, ok := s.Find(kind); ok {
					morph[i] = append(morph[i], prox.Soft(c.Thresh))
				}
			}
		case Monotonic:
			for i, s := range sets {
				if c, ok := s.Find(kind); ok {
					morph[i] = append(morph[i], prox.StrictMonotonic(height, width, c.Thresh))
				}
			}
		case RadialMonotonic:
			// The shared matrix is parameterized by component 0's UseNearest
			// only; other components' parameters are ignored.
			c0, ok := sets[0].Find(kind)
			if !ok {
				slog.Debug("constraint: radial-monotonic declared without component 0, using default parameter")
			}
			m := transform.RadialMonotonic(height, width, ok && c0.UseNearest)
			for _, s := range sets {
				if s.Has(kind) {
					out.Duals = append(out.Duals, Dual{L: m, Prox: prox.Plus()})
				} else {
					out.Duals = append(out.Duals, Dual{})
				}
			}
		case Symmetric:
			m := transform.Symmetry(height, width)
			for _, s := range sets {
				if s.Has(kind) {
					out.Duals = append(out.Duals, Dual{L: m, Prox: prox.Zero()})
				} else {
					out.Duals = append(out.Duals, Dual{})
				}
			}
		case Cone:
			c0, ok := sets[0].Find(RadialMonotonic)
			g := transform.RadialMonotonic(height, width, ok && c0.UseNearest).Dense()
			for _, s := range sets {
				if s.Has(kind) {
					out.Duals = append(out.Duals, Dual{Prox: prox.Cone(g)})
				} else {
					out.Duals = append(out.Duals, Dual{})
				}
			}
		case TVX:
			m := transform.GradientX(height, width)
			for _, s := range sets {
				if c, ok := s.Find(kind); ok {
					out.Duals = append(out.Duals, Dual{L: m, Prox: prox.Soft(c.Thresh)})
				} else {
					out.Duals = append(out.Duals, Dual{})
				}
			}
		case TVY:
			m := transform.GradientY(height, width)
			for _, s := range sets {
				if c, ok := s.Find(kind); ok {
					out.Duals = append(out.Duals, Dual{L: m, Prox: prox.Soft(c.Thresh)})
				} else {
					out.Duals = append(out.Duals, Dual{})
				}
			}
		}
	}

	for i := range morph {
		switch len(morph[i]) {
		case 0:
			out.Morph[i] = prox.Identity()
		case 1:
			out.Morph[i] = morph[i][0]
		default:
			out.Morph[i] = prox.AlternatingProjections(morph[i], 1)
		}
	}
	return out
}
