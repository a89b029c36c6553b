// Package source models a single light source inside a blend: a local pixel
// frame, a factorized brightness model (SED x morphology), the per-band
// Gamma operators that map morphology into the observed frame, and the
// compiled constraint operators the optimizer applies each iteration.
//
// A Source never optimizes itself. The optimizer mutates SED and Morph
// between iterations and consumes the proximal operators, the dual
// constraint list, and the rendered models exposed here.
package source

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"starblend/internal/constraint"
	"starblend/internal/frame"
	"starblend/internal/prox"
	"starblend/internal/transform"
	"starblend/pkg/cube"
	"starblend/pkg/grid"
)

// initFloor keeps the initial morphology peak strictly positive even for a
// zero-flux center pixel.
const initFloor = 1e-10

// Options configures a new Source.
type Options struct {
	// K is the number of components sharing the center. Zero means one.
	K int
	// PSF is the observation's point spread function; nil disables PSF
	// convolution and Gamma degenerates to the sub-pixel shift.
	PSF *transform.PSF
	// Constraints per component: nil, a single broadcast set, or K sets.
	Constraints []constraint.Set
	// FixSED / FixMorph mark components the optimizer must not update.
	// Either one bool (broadcast) or K bools.
	FixSED   []bool
	FixMorph []bool
	// FixFrame prevents recentering and resizing by the outer fitter.
	FixFrame bool
	// ShiftCenter is the differential-image step used by center fitting.
	// Zero means the default of 0.2 pixels.
	ShiftCenter float64
}

// Source is one deblended light source.
type Source struct {
	frame   frame.Frame
	bands   int
	k       int
	gammaOp *transform.GammaOp

	// SED is (K x Bands); Morph is (K x pixels), each row the flattened
	// row-major morphology of one component. Both are mutated in place by
	// the optimizer.
	SED   *mat.Dense
	Morph *mat.Dense

	// Gamma is rebuilt on every recenter and resize.
	Gamma transform.Gamma

	// Compiled constraint operators; see SetConstraints.
	ProxSED   []prox.Op
	ProxMorph []prox.Op
	Duals     []constraint.Dual

	FixSED      []bool
	FixMorph    []bool
	FixFrame    bool
	ShiftCenter float64

	constraints []constraint.Set
}

// New creates a source centered at center with a (bands, height, width)
// frame. Height and width are forced odd. SED and morphology start zeroed;
// use Init or set them directly before fitting.
func New(center grid.Point, bands, height, width int, opts Options) (*Source, error) {
	if bands < 1 {
		return nil, fmt.Errorf("source: bands must be at least 1, got %d", bands)
	}
	k := opts.K
	if k == 0 {
		k = 1
	}
	if k < 1 {
		return nil, fmt.Errorf("source: K must be at least 1, got %d", opts.K)
	}
	if opts.PSF != nil && opts.PSF.Kernels() != 1 && opts.PSF.Kernels() != bands {
		return nil, fmt.Errorf("source: PSF has %d kernels for %d bands", opts.PSF.Kernels(), bands)
	}
	f, err := frame.New(center, height, width)
	if err != nil {
		return nil, err
	}

	fixSED, err := broadcastBool(opts.FixSED, k, "FixSED")
	if err != nil {
		return nil, err
	}
	fixMorph, err := broadcastBool(opts.FixMorph, k, "FixMorph")
	if err != nil {
		return nil, err
	}
	shift := opts.ShiftCenter
	if shift == 0 {
		shift = 0.2
	}

	s := &Source{
		frame:       f,
		bands:       bands,
		k:           k,
		gammaOp:     transform.NewGammaOp(opts.PSF),
		SED:         mat.NewDense(k, bands, nil),
		Morph:       mat.NewDense(k, f.Pixels(), nil),
		FixSED:      fixSED,
		FixMorph:    fixMorph,
		FixFrame:    opts.FixFrame,
		ShiftCenter: shift,
	}
	s.Gamma = s.gammaOp.Build(f.Offset(), bands, f.Height(), f.Width())
	if err := s.SetConstraints(opts.Constraints); err != nil {
		return nil, err
	}
	return s, nil
}

// K returns the number of components.
func (s *Source) K() int {
	return s.k
}

// Bands returns the number of wavelength bands.
func (s *Source) Bands() int {
	return s.bands
}

// Height returns the frame height.
func (s *Source) Height() int {
	return s.frame.Height()
}

// Width returns the frame width.
func (s *Source) Width() int {
	return s.frame.Width()
}

// Shape returns the (bands, height, width) shape of the source image.
func (s *Source) Shape() (bands, height, width int) {
	return s.bands, s.frame.Height(), s.frame.Width()
}

// Center returns the continuous center in full-image coordinates.
func (s *Source) Center() grid.Point {
	return s.frame.Center
}

// Frame returns the current frame.
func (s *Source) Frame() frame.Frame {
	return s.frame
}

// HasPSF reports whether the source convolves with a PSF.
func (s *Source) HasPSF() bool {
	return s.gammaOp.HasPSF()
}

// Constraints returns the per-component constraint sets currently compiled.
func (s *Source) Constraints() []constraint.Set {
	return s.constraints
}

// MorphImage returns the 2D view of component k's morphology. The view
// aliases the flat row of Morph, which stays authoritative.
func (s *Source) MorphImage(k int) cube.Plane {
	return cube.Plane{
		Height: s.frame.Height(),
		Width:  s.frame.Width(),
		Data:   s.Morph.RawRowView(k),
	}
}

// SetCenter moves the source to a new continuous center: the frame is
// re-derived at the current size and Gamma is rebuilt for the new sub-pixel
// offset. SED and morphology are untouched.
func (s *Source) SetCenter(center grid.Point) {
	f, err := frame.New(center, s.frame.Height(), s.frame.Width())
	if err != nil {
		// size is unchanged and already validated
		panic(err)
	}
	s.frame = f
	s.Gamma = s.gammaOp.Build(f.Offset(), s.bands, f.Height(), f.Width())
}

// Resize rebuilds the frame at a new size around the current center. The
// morphology region shared by the old and new frames is carried over; mass
// outside the overlap is truncated and newly added pixels are zero. Gamma
// and the constraint operators are rebuilt since both depend on the frame
// shape. Resizing to the current size is a no-op.
func (s *Source) Resize(height, width int) error {
	old := s.frame
	f, err := frame.New(s.frame.Center, height, width)
	if err != nil {
		return err
	}
	if f == old {
		return nil
	}

	oldY, oldX, newY, newX := frame.Overlap(old, f)
	morph := mat.NewDense(s.k, f.Pixels(), nil)
	for k := 0; k < s.k; k++ {
		src := s.Morph.RawRowView(k)
		dst := morph.RawRowView(k)
		for y := 0; y < oldY.Len(); y++ {
			srcRow := (oldY.Start + y) * old.Width()
			dstRow := (newY.Start + y) * f.Width()
			for x := 0; x < oldX.Len(); x++ {
				dst[dstRow+newX.Start+x] = src[srcRow+oldX.Start+x]
			}
		}
	}
	s.Morph = morph
	s.frame = f
	s.SetCenter(f.Center)
	if err := s.SetConstraints(s.constraints); err != nil {
		return err
	}
	slog.Debug("source: resized frame",
		"height", f.Height(), "width", f.Width(),
		"oldHeight", old.Height(), "oldWidth", old.Width())
	return nil
}

// SetConstraints recompiles the proximal operator graph from a constraint
// specification: nil for unconstrained, one set broadcast to all components,
// or one set per component. Previously compiled operators are discarded.
func (s *Source) SetConstraints(sets []constraint.Set) error {
	bc, err := constraint.Broadcast(sets, s.k)
	if err != nil {
		return err
	}
	s.constraints = bc
	compiled := constraint.Compile(bc, s.frame.Height(), s.frame.Width())
	s.ProxSED = compiled.SED
	s.ProxMorph = compiled.Morph
	s.Duals = compiled.Duals
	return nil
}

// Init seeds component 0 from the observation: the SED is the (normalized)
// spectrum of the pixel under the rounded center, and the morphology is a
// single center pixel carrying the summed flux. This works well for point
// sources and poorly resolved galaxies; additional components stay zero.
func (s *Source) Init(img *cube.Cube) error {
	if img.Bands != s.bands {
		return fmt.Errorf("source: image has %d bands, want %d", img.Bands, s.bands)
	}
	c := s.frame.CenterInt()
	if c.Y < 0 || c.Y >= img.Height || c.X < 0 || c.X >= img.Width {
		return fmt.Errorf("source: center (%d, %d) outside image %dx%d",
			c.Y, c.X, img.Height, img.Width)
	}

	sed := s.SED.RawRowView(0)
	var flux float64
	for b := 0; b < s.bands; b++ {
		v := img.At(b, c.Y, c.X)
		sed[b] = v
		flux += v
	}
	prox.UnityPlus()(sed, 0)

	morph := s.Morph.RawRowView(0)
	for i := range morph {
		morph[i] = 0
	}
	cy, cx := s.frame.Height()/2, s.frame.Width()/2
	morph[cy*s.frame.Width()+cx] = flux + initFloor
	return nil
}

func broadcastBool(v []bool, k int, name string) ([]bool, error) {
	switch len(v) {
	case 0:
		return make([]bool, k), nil
	case 1:
		out := make([]bool, k)
		for i := range out {
			out[i] = v[0]
		}
		return out, nil
	case k:
		return v, nil
	}
	return nil, fmt.Errorf("source: %s has %d entries for %d components", name, len(v), k)
}
