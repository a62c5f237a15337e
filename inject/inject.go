// Package inject seeds a fresh particle population: uniformly placed in a
// rectangular source region, isotropic in direction, mono-energetic, with
// the book-keeping fields the event engine expects to start from.
package inject

import (
	"fmt"
	"math"

	"neutron2d/mesh"
	"neutron2d/particle"
	"neutron2d/rng"
)

// SourceRegion is the rectangle new particles are placed uniformly inside,
// given in world coordinates local to the mesh tile supplied to Particles.
type SourceRegion struct {
	Left, Bottom float64
	Width, Height float64
}

// CheckInit validates a SourceRegion before a run starts.
func (r SourceRegion) CheckInit() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("inject: source region width/height must be positive, got %gx%g", r.Width, r.Height)
	}
	return nil
}

// Particles fills store[0:n] with a freshly seeded population: particle i
// uses rng.Draw4(i, 0, 0) as its sole source of randomness, which is also
// the particle's RNG key for every subsequent step (particle keys are the
// store's index, stable for the run's lifetime).
func Particles(store *particle.Store, m *mesh.View, region SourceRegion, dt, initialEnergy float64, n int) error {
	if n > store.Len() {
		return fmt.Errorf("inject: requested %d particles but store only holds %d", n, store.Len())
	}
	if err := region.CheckInit(); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		draw := rng.Draw4(uint64(i), 0, 0)

		x := region.Left + draw[0]*region.Width
		y := region.Bottom + draw[1]*region.Height

		localX := m.LocateX(x)
		localY := m.LocateY(y)
		if localX < 0 || localY < 0 {
			return fmt.Errorf("inject: particle %d at (%g,%g) lies outside the mesh tile", i, x, y)
		}
		gx, gy := m.LocalToGlobal(localX, localY)

		theta := 2 * math.Pi * draw[2]
		omegaX, omegaY := math.Cos(theta), math.Sin(theta)

		store.Set(i, x, y, omegaX, omegaY, initialEnergy, 1.0, gx, gy, dt, 0.0, true)
	}
	return nil
}
