// Package xsect implements the energy-indexed cross-section lookup table:
// a monotone sequence of (energy, value) pairs searched by a width-halving
// guess-and-step scan and interpolated linearly between neighbors.
package xsect

import (
	"fmt"

	"github.com/phil-mansfield/table"
)

// LoadTable reads a two-column (energy, cross-section) text file using the
// same whitespace-delimited tabular reader the reference pack depends on
// for its own data decks, then builds a Table from it. Column 0 is the
// energy key, column 1 the cross-section value.
func LoadTable(path string) (*Table, error) {
	cols, err := table.ReadTable(path, []int{0, 1}, nil)
	if err != nil {
		return nil, fmt.Errorf("xsect: reading %s: %w", path, err)
	}
	if len(cols) != 2 {
		return nil, fmt.Errorf("xsect: %s: expected 2 columns, got %d", path, len(cols))
	}
	t, err := NewTable(cols[0], cols[1])
	if err != nil {
		return nil, fmt.Errorf("xsect: %s: %w", path, err)
	}
	return t, nil
}

// ErrOutOfRange is returned by Lookup when the requested energy falls
// outside [keys[0], keys[last]).
var ErrOutOfRange = fmt.Errorf("xsect: energy out of range")

// Table is an immutable, strictly-increasing-keyed lookup table mapping
// energy to a microscopic cross section. One Table exists per reaction
// channel (scatter, absorb).
type Table struct {
	keys, vals []float64
}

// NewTable builds a Table from parallel energy/value slices. keys must be
// strictly increasing and of the same length as vals.
func NewTable(keys, vals []float64) (*Table, error) {
	if len(keys) != len(vals) {
		return nil, fmt.Errorf(
			"xsect: %d keys but %d values", len(keys), len(vals),
		)
	}
	if len(keys) < 2 {
		return nil, fmt.Errorf("xsect: need at least 2 points, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			return nil, fmt.Errorf(
				"xsect: keys not strictly increasing at index %d (%g <= %g)",
				i, keys[i], keys[i-1],
			)
		}
	}

	t := &Table{keys: make([]float64, len(keys)), vals: make([]float64, len(vals))}
	copy(t.keys, keys)
	copy(t.vals, vals)
	return t, nil
}

// Len returns the number of (key, value) pairs in the table.
func (t *Table) Len() int { return len(t.keys) }

// Lookup returns the linearly-interpolated cross section at energy e and
// the index ix such that keys[ix] <= e < keys[ix+1]. It fails with
// ErrOutOfRange if e lies outside [keys[0], keys[last]).
func (t *Table) Lookup(e float64) (sigma float64, ix int, err error) {
	n := len(t.keys)
	if e < t.keys[0] || e >= t.keys[n-1] {
		return 0, 0, fmt.Errorf("%w: e=%g not in [%g, %g)", ErrOutOfRange, e, t.keys[0], t.keys[n-1])
	}

	ix = guessAndStep(t.keys, e)

	x0, x1 := t.keys[ix], t.keys[ix+1]
	v0, v1 := t.vals[ix], t.vals[ix+1]
	sigma = v0 + (e-x0)/(x1-x0)*(v1-v0)
	return sigma, ix, nil
}

// guessAndStep finds ix such that keys[ix] <= e < keys[ix+1] using a
// width-halving guess-and-step search: it starts at the midpoint of the
// table and halves the step each iteration (clamped to a minimum step of
// 1), converging onto the containing interval. keys[0] <= e < keys[last]
// must already hold.
func guessAndStep(keys []float64, e float64) int {
	n := len(keys)
	ix := n / 2
	width := n / 2
	for {
		if width > 1 {
			width /= 2
		}
		switch {
		case ix < n-1 && keys[ix+1] <= e:
			ix += width
		case ix > 0 && keys[ix] > e:
			ix -= width
		default:
			if ix > n-2 {
				ix = n - 2
			}
			if ix < 0 {
				ix = 0
			}
			return ix
		}
		if ix < 0 {
			ix = 0
		}
		if ix > n-2 {
			ix = n - 2
		}
	}
}
