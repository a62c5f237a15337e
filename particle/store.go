// Package particle holds the tracked population as a structure of arrays:
// one slice per attribute rather than one slice of per-particle structs.
// The event engine walks these slices index by index, which keeps the
// hot per-particle fields (position, direction, energy) contiguous and
// lets a worker own a contiguous index range without any per-particle
// allocation.
package particle

import "fmt"

// Store is the structure-of-arrays population. All slices share length N;
// index i identifies one particle across every slice.
type Store struct {
	X, Y           []float64
	OmegaX, OmegaY []float64
	Energy         []float64
	Weight         []float64
	CellX, CellY   []int
	DtToCensus     []float64
	MfpToCollision []float64
	Alive          []bool
}

// NewStore allocates a Store for n particles, all fields zeroed.
func NewStore(n int) *Store {
	return &Store{
		X: make([]float64, n), Y: make([]float64, n),
		OmegaX: make([]float64, n), OmegaY: make([]float64, n),
		Energy: make([]float64, n),
		Weight: make([]float64, n),
		CellX:  make([]int, n), CellY: make([]int, n),
		DtToCensus:     make([]float64, n),
		MfpToCollision: make([]float64, n),
		Alive:          make([]bool, n),
	}
}

// Len returns the number of particle slots in the store.
func (s *Store) Len() int { return len(s.X) }

// CheckInit validates that every slice has the same length as X, matching
// the reference implementation's convention of validating a compound value
// once at construction rather than defending every accessor.
func (s *Store) CheckInit() error {
	n := len(s.X)
	slices := map[string]int{
		"Y": len(s.Y), "OmegaX": len(s.OmegaX), "OmegaY": len(s.OmegaY),
		"Energy": len(s.Energy), "Weight": len(s.Weight),
		"CellX": len(s.CellX), "CellY": len(s.CellY),
		"DtToCensus": len(s.DtToCensus), "MfpToCollision": len(s.MfpToCollision),
		"Alive": len(s.Alive),
	}
	for name, l := range slices {
		if l != n {
			return fmt.Errorf("particle: field %s has length %d, want %d", name, l, n)
		}
	}
	return nil
}

// Set writes the full state of particle i in one call, used by the
// injector to seed a freshly allocated slot.
func (s *Store) Set(i int, x, y, omegaX, omegaY, energy, weight float64, cellx, celly int, dtToCensus, mfpToCollision float64, alive bool) {
	s.X[i], s.Y[i] = x, y
	s.OmegaX[i], s.OmegaY[i] = omegaX, omegaY
	s.Energy[i] = energy
	s.Weight[i] = weight
	s.CellX[i], s.CellY[i] = cellx, celly
	s.DtToCensus[i] = dtToCensus
	s.MfpToCollision[i] = mfpToCollision
	s.Alive[i] = alive
}
