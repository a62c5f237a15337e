// Package tally implements the cell-indexed energy-deposition accumulator
// that every worker adds into concurrently. Go's sync/atomic exposes no
// atomic add for float64 on any platform, so each cell is stored as its
// raw IEEE-754 bits behind an atomic.Uint64 and updated with a
// compare-and-swap retry loop.
package tally

import (
	"math"
	"sync/atomic"
)

// Tally is a flat, row-major (celly*nx + cellx) grid of accumulated energy
// deposition. The zero value is not usable; construct with New.
type Tally struct {
	nx, ny int
	cells  []atomic.Uint64
}

// New allocates a Tally for an nx-by-ny cell grid, all cells zeroed.
func New(nx, ny int) *Tally {
	return &Tally{nx: nx, ny: ny, cells: make([]atomic.Uint64, nx*ny)}
}

// Dims returns the tally grid's dimensions.
func (t *Tally) Dims() (nx, ny int) { return t.nx, t.ny }

// Add atomically adds delta to cell (cellx, celly).
func (t *Tally) Add(cellx, celly int, delta float64) {
	t.addAt(celly*t.nx+cellx, delta)
}

func (t *Tally) addAt(idx int, delta float64) {
	cell := &t.cells[idx]
	for {
		old := cell.Load()
		newVal := math.Float64frombits(old) + delta
		if cell.CompareAndSwap(old, math.Float64bits(newVal)) {
			return
		}
	}
}

// Get returns the current value of cell (cellx, celly). Callers must not
// call Get concurrently with unfinished Add calls from other workers; the
// contract is that reads happen only after the step's barrier.
func (t *Tally) Get(cellx, celly int) float64 {
	return math.Float64frombits(t.cells[celly*t.nx+cellx].Load())
}

// Sum returns the total accumulated deposition across all cells.
func (t *Tally) Sum() float64 {
	total := 0.0
	for i := range t.cells {
		total += math.Float64frombits(t.cells[i].Load())
	}
	return total
}

// Reset zeroes every cell, for reuse across independent runs in tests.
func (t *Tally) Reset() {
	for i := range t.cells {
		t.cells[i].Store(0)
	}
}
