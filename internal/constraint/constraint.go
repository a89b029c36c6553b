// Package constraint turns declarative per-component constraint sets into
// the operator graph the optimizer consumes: one composed proximal operator
// per morphology, and (linear operator, proximal operator) pairs for the
// dualized constraints handled through an ADMM-style split.
package constraint

import "fmt"

// Kind identifies a constraint. The declared order below is the canonical
// compilation order; shared matrices are built once per kind, not per
// component.
type Kind int

const (
	// Nonneg projects the morphology onto the non-negative orthant.
	Nonneg Kind = iota
	// L0 hard-thresholds the morphology at Thresh.
	L0
	// L1 soft-thresholds (shrinks) the morphology by Thresh.
	L1
	// Monotonic enforces strict monotonic decrease from the center via a
	// direct projection; Thresh sets the per-step decay.
	Monotonic
	// RadialMonotonic enforces monotonic decrease through a dualized sparse
	// operator with non-negativity on the transformed variable.
	RadialMonotonic
	// Symmetric enforces 180-degree point symmetry through a dualized
	// operator driven to zero.
	Symmetric
	// Cone enforces exact radial monotonicity by dense cone projection on
	// the dualized slot. Very slow; prefer RadialMonotonic.
	Cone
	// TVX soft-thresholds the horizontal gradient (total variation in x).
	TVX
	// TVY soft-thresholds the vertical gradient (total variation in y).
	TVY

	numKinds
)

// kinds in canonical order.
var kinds = []Kind{Nonneg, L0, L1, Monotonic, RadialMonotonic, Symmetric, Cone, TVX, TVY}

var kindNames = map[Kind]string{
	Nonneg:          "nonneg",
	L0:              "l0",
	L1:              "l1",
	Monotonic:       "monotonic",
	RadialMonotonic: "radial-monotonic",
	Symmetric:       "symmetric",
	Cone:            "cone",
	TVX:             "tv-x",
	TVY:             "tv-y",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a constraint name, as used in config files.
func ParseKind(name string) (Kind, error) {
	for k, s := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("constraint: unknown kind %q", name)
}

// Constraint is one declared constraint with its parameters. Thresh applies
// to L0, L1, Monotonic, TVX and TVY; UseNearest applies to RadialMonotonic.
type Constraint struct {
	Kind       Kind
	Thresh     float64
	UseNearest bool
}

// Set is the list of constraints applied to a single component.
type Set []Constraint

// Find returns the declared constraint of the given kind, if any. A kind
// declared twice resolves to its first occurrence.
func (s Set) Find(k Kind) (Constraint, bool) {
	for _, c := range s {
		if c.Kind == k {
			return c, true
		}
	}
	return Constraint{}, false
}

// Has reports whether the set declares the given kind.
func (s Set) Has(k Kind) bool {
	_, ok := s.Find(k)
	return ok
}

// Broadcast normalizes a constraint specification to one set per component:
// nil means unconstrained, a single set applies to every component, and a
// full-length list is used as-is.
func Broadcast(sets []Set, k int) ([]Set, error) {
	switch len(sets) {
	case 0:
		out := make([]Set, k)
		return out, nil
	case 1:
		out := make([]Set, k)
		for i := range out {
			out[i] = sets[0]
		}
		return out, nil
	case k:
		return sets, nil
	}
	return nil, fmt.Errorf("constraint: got %d sets for %d components", len(sets), k)
}
