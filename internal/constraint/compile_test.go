package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast(t *testing.T) {
	set := Set{{Kind: Nonneg}}

	out, err := Broadcast(nil, 3)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = Broadcast([]Set{set}, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, set, out[2])

	_, err = Broadcast([]Set{set, set}, 3)
	assert.Error(t, err)
}

func TestCompileUnconstrained(t *testing.T) {
	c := Compile(make([]Set, 2), 3, 3)
	require.Len(t, c.Morph, 2)
	require.Len(t, c.SED, 2)
	assert.Empty(t, c.Duals)

	// identity morphology prox
	x := []float64{-1, 2}
	c.Morph[0](x, 0)
	assert.Equal(t, []float64{-1, 2}, x)

	// SED prox is always simplex projection
	sed := []float64{3, 1}
	c.SED[0](sed, 0)
	assert.Equal(t, []float64{0.75, 0.25}, sed)
}

// The composed direct operator follows the canonical kind order, not the
// order constraints were declared in.
func TestCompileCanonicalOrder(t *testing.T) {
	declared := Set{{Kind: L1, Thresh: 0.5}, {Kind: Nonneg}}
	c := Compile([]Set{declared}, 3, 3)

	x := make([]float64, 9)
	x[0], x[1] = -1, 2
	c.Morph[0](x, 0)
	// Nonneg clips -1 to 0, then Soft shrinks the survivor
	assert.Equal(t, 0.0, x[0])
	assert.Equal(t, 1.5, x[1])
}

func TestCompileDualSlotsKeepComponentAlignment(t *testing.T) {
	sets := []Set{
		{{Kind: Symmetric}},
		{},
		{{Kind: Symmetric}, {Kind: TVX, Thresh: 0.1}},
	}
	c := Compile(sets, 3, 3)
	// kind-major: 3 symmetric slots then 3 TVX slots
	require.Len(t, c.Duals, 6)
	assert.False(t, c.Duals[0].Empty())
	assert.True(t, c.Duals[1].Empty())
	assert.False(t, c.Duals[2].Empty())
	assert.True(t, c.Duals[3].Empty())
	assert.True(t, c.Duals[4].Empty())
	assert.False(t, c.Duals[5].Empty())

	// the shared matrix is built once
	assert.Same(t, c.Duals[0].L, c.Duals[2].L)
}

func TestCompileRadialMonotonicUsesComponentZeroParameter(t *testing.T) {
	sets := []Set{
		{{Kind: RadialMonotonic, UseNearest: true}},
		{{Kind: RadialMonotonic, UseNearest: false}},
	}
	c := Compile(sets, 3, 3)
	require.Len(t, c.Duals, 2)
	// both components share the matrix built from component 0's parameter
	assert.Same(t, c.Duals[0].L, c.Duals[1].L)
}

func TestCompileConeIsProxOnly(t *testing.T) {
	c := Compile([]Set{{{Kind: Cone}}}, 3, 3)
	require.Len(t, c.Duals, 1)
	assert.Nil(t, c.Duals[0].L)
	assert.NotNil(t, c.Duals[0].Prox)
	assert.False(t, c.Duals[0].Empty())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("radial-monotonic")
	require.NoError(t, err)
	assert.Equal(t, RadialMonotonic, k)

	_, err = ParseKind("bogus")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "l1", L1.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
