package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starblend/internal/constraint"
)

func TestDefaultIsUsable(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.Bands, 0)
	require.Len(t, cfg.Source, 1)
	set, err := cfg.Source[0].ConstraintSet()
	require.NoError(t, err)
	assert.True(t, set.Has(constraint.Nonneg))
	assert.True(t, set.Has(constraint.Symmetric))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	doc := `
bands: 2
height: 31
width: 31
frame:
  height: 9
  width: 9
psf:
  size: 5
  sigma: 0.9
sources:
  - y: 15.5
    x: 14.2
    k: 2
    constraints:
      - kind: nonneg
      - kind: l1
        thresh: 0.05
      - kind: radial-monotonic
        use_nearest: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Bands)
	assert.Equal(t, 9, cfg.Frame.Height)
	require.Len(t, cfg.Source, 1)
	assert.Equal(t, 15.5, cfg.Source[0].Y)
	assert.Equal(t, 2, cfg.Source[0].K)

	set, err := cfg.Source[0].ConstraintSet()
	require.NoError(t, err)
	require.Len(t, set, 3)
	c, ok := set.Find(constraint.L1)
	require.True(t, ok)
	assert.Equal(t, 0.05, c.Thresh)
	c, ok = set.Find(constraint.RadialMonotonic)
	require.True(t, ok)
	assert.True(t, c.UseNearest)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("bands: [not an int"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestParseUnknownKind(t *testing.T) {
	_, err := ConstraintSpec{Kind: "wavelet"}.Parse()
	assert.Error(t, err)
}
