// Package config loads the INI-style parameter deck the CLI driver reads
// before a run starts. Apart from xsect.LoadTable, which reads the
// cross-section files, the core packages never read files themselves;
// everything here exists purely to hand the driver validated plain Go
// values.
package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// MeshConfig describes the global mesh geometry and timestep schedule.
type MeshConfig struct {
	Nx, Ny       int
	Width        float64
	Height       float64
	Dt           float64
	Iterations   int
	Pad          int
}

// SourceConfig describes the rectangular particle source region and the
// population it injects.
type SourceConfig struct {
	Left, Bottom   float64
	Width, Height  float64
	NParticles     int
	InitialEnergy  float64
}

// MaterialConfig names the on-disk cross-section decks and the nuclide
// parameters that go with them.
type MaterialConfig struct {
	MassNo       float64
	MolarMass    float64
	ScatterFile  string
	AbsorbFile   string
}

// Deck is the full parameter set for one run, shaped as the gcfg section
// wrapper the reference implementation uses for its own decks: one
// exported struct field per `[Section]` header.
type Deck struct {
	Mesh     MeshConfig
	Source   SourceConfig
	Material MaterialConfig
	Debug    bool
}

// ReadFile loads a Deck from an INI-style file using the same parser the
// reference pack standardizes on for its own configuration.
func ReadFile(path string) (*Deck, error) {
	deck := &Deck{}
	wrapper := struct {
		Mesh     MeshConfig
		Source   SourceConfig
		Material MaterialConfig
		Debug    struct{ Enabled bool }
	}{}
	if err := gcfg.ReadFileInto(&wrapper, path); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	deck.Mesh = wrapper.Mesh
	deck.Source = wrapper.Source
	deck.Material = wrapper.Material
	deck.Debug = wrapper.Debug.Enabled

	if err := deck.CheckInit(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return deck, nil
}

// CheckInit validates a Deck before a run starts, following the reference
// implementation's own per-struct validation-method idiom rather than
// scattering guards through the driver.
func (d *Deck) CheckInit() error {
	if d.Mesh.Nx <= 0 || d.Mesh.Ny <= 0 {
		return fmt.Errorf("config: mesh dimensions must be positive, got %dx%d", d.Mesh.Nx, d.Mesh.Ny)
	}
	if d.Mesh.Width <= 0 || d.Mesh.Height <= 0 {
		return fmt.Errorf("config: mesh width/height must be positive, got %gx%g", d.Mesh.Width, d.Mesh.Height)
	}
	if d.Mesh.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", d.Mesh.Dt)
	}
	if d.Mesh.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be positive, got %d", d.Mesh.Iterations)
	}
	if d.Mesh.Pad < 0 {
		return fmt.Errorf("config: pad must be non-negative, got %d", d.Mesh.Pad)
	}

	if d.Source.NParticles <= 0 {
		return fmt.Errorf("config: source.nparticles must be positive, got %d", d.Source.NParticles)
	}
	if d.Source.InitialEnergy <= 0 {
		return fmt.Errorf("config: source.initialenergy must be positive, got %g", d.Source.InitialEnergy)
	}
	if d.Source.Width <= 0 || d.Source.Height <= 0 {
		return fmt.Errorf("config: source region width/height must be positive, got %gx%g", d.Source.Width, d.Source.Height)
	}
	if d.Source.Left < 0 || d.Source.Left+d.Source.Width > d.Mesh.Width {
		return fmt.Errorf("config: source region x-extent [%g,%g) outside mesh width %g", d.Source.Left, d.Source.Left+d.Source.Width, d.Mesh.Width)
	}
	if d.Source.Bottom < 0 || d.Source.Bottom+d.Source.Height > d.Mesh.Height {
		return fmt.Errorf("config: source region y-extent [%g,%g) outside mesh height %g", d.Source.Bottom, d.Source.Bottom+d.Source.Height, d.Mesh.Height)
	}

	if d.Material.MassNo <= 0 {
		return fmt.Errorf("config: material.massno must be positive, got %g", d.Material.MassNo)
	}
	if d.Material.MolarMass <= 0 {
		return fmt.Errorf("config: material.molarmass must be positive, got %g", d.Material.MolarMass)
	}
	if d.Material.ScatterFile == "" || d.Material.AbsorbFile == "" {
		return fmt.Errorf("config: material.scatterfile and material.absorbfile are required")
	}

	return nil
}
