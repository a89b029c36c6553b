// Package config loads simulation and source presets from YAML for the
// command-line tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"starblend/internal/constraint"
)

// Config describes an observation and the sources to model in it.
type Config struct {
	Bands  int          `yaml:"bands"`
	Height int          `yaml:"height"`
	Width  int          `yaml:"width"`
	Frame  FrameSpec    `yaml:"frame"`
	PSF    PSFSpec      `yaml:"psf"`
	Source []SourceSpec `yaml:"sources"`
}

// FrameSpec is the per-source frame size.
type FrameSpec struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

// PSFSpec selects a PSF model. Sigma 0 disables the PSF.
type PSFSpec struct {
	Size  int     `yaml:"size"`
	Sigma float64 `yaml:"sigma"`
}

// SourceSpec places one source.
type SourceSpec struct {
	Y           float64          `yaml:"y"`
	X           float64          `yaml:"x"`
	K           int              `yaml:"k"`
	Constraints []ConstraintSpec `yaml:"constraints"`
}

// ConstraintSpec names a constraint with its parameters.
type ConstraintSpec struct {
	Kind       string  `yaml:"kind"`
	Thresh     float64 `yaml:"thresh"`
	UseNearest bool    `yaml:"use_nearest"`
}

// Parse resolves the spec into a typed constraint.
func (c ConstraintSpec) Parse() (constraint.Constraint, error) {
	kind, err := constraint.ParseKind(c.Kind)
	if err != nil {
		return constraint.Constraint{}, err
	}
	return constraint.Constraint{Kind: kind, Thresh: c.Thresh, UseNearest: c.UseNearest}, nil
}

// ConstraintSet resolves a source's constraint list.
func (s SourceSpec) ConstraintSet() (constraint.Set, error) {
	set := make(constraint.Set, 0, len(s.Constraints))
	for _, cs := range s.Constraints {
		c, err := cs.Parse()
		if err != nil {
			return nil, err
		}
		set = append(set, c)
	}
	return set, nil
}

// Default returns a small single-source scene with a seeing-limited PSF and
// the usual monotonic+symmetric galaxy constraints.
func Default() Config {
	return Config{
		Bands:  3,
		Height: 51,
		Width:  51,
		Frame:  FrameSpec{Height: 15, Width: 15},
		PSF:    PSFSpec{Size: 7, Sigma: 1.2},
		Source: []SourceSpec{
			{
				Y: 25, X: 25, K: 1,
				Constraints: []ConstraintSpec{
					{Kind: "nonneg"},
					{Kind: "monotonic", Thresh: 0},
					{Kind: "symmetric"},
				},
			},
		},
	}
}

// Load reads a YAML config file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}
