package physics

import (
	"fmt"

	"neutron2d/xsect"
)

// Material describes the single scattering nuclide the mesh is filled
// with: its mass number (which fixes the elastic-scatter kinematics) and
// molar mass (which fixes number density from cell density), plus the two
// microscopic cross-section tables that govern macroscopic scaling.
type Material struct {
	MassNo    float64
	MolarMass float64
	Scatter   *xsect.Table
	Absorb    *xsect.Table
}

// CheckInit validates a Material the way the reference implementation
// validates its own config structs: a single method checked once, before
// the run starts, rather than scattered field guards on every access.
func (m *Material) CheckInit() error {
	if m.MassNo <= 0 {
		return fmt.Errorf("physics: mass number %g must be positive", m.MassNo)
	}
	if m.MolarMass <= 0 {
		return fmt.Errorf("physics: molar mass %g must be positive", m.MolarMass)
	}
	if m.Scatter == nil {
		return fmt.Errorf("physics: material has no scatter cross-section table")
	}
	if m.Absorb == nil {
		return fmt.Errorf("physics: material has no absorb cross-section table")
	}
	return nil
}

// numberDensity returns atoms per cm^3 for cell density rho (g/cm^3).
func (m *Material) numberDensity(rho float64) float64 {
	return rho * Avogadros / m.MolarMass
}

// macroscopic looks up both microscopic cross sections at energy e and
// scales them to macroscopic cross sections for cell density rho. It
// returns an error wrapping xsect.ErrOutOfRange if e falls outside either
// table's domain.
func (m *Material) macroscopic(e, rho float64) (sigmaSMacro, sigmaAMacro float64, err error) {
	sigmaS, _, err := m.Scatter.Lookup(e)
	if err != nil {
		return 0, 0, fmt.Errorf("physics: scatter cross section: %w", err)
	}
	sigmaA, _, err := m.Absorb.Lookup(e)
	if err != nil {
		return 0, 0, fmt.Errorf("physics: absorb cross section: %w", err)
	}
	n := m.numberDensity(rho)
	return n * sigmaS * Barns, n * sigmaA * Barns, nil
}
