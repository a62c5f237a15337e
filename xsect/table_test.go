package xsect

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsBadInput(t *testing.T) {
	_, err := NewTable([]float64{1}, []float64{1})
	assert.Error(t, err, "expected error for too few points")

	_, err = NewTable([]float64{1, 2}, []float64{1})
	assert.Error(t, err, "expected error for mismatched lengths")

	_, err = NewTable([]float64{2, 1}, []float64{1, 2})
	assert.Error(t, err, "expected error for non-increasing keys")
}

func TestLookupLinearInterpolation(t *testing.T) {
	tbl, err := NewTable([]float64{0, 10, 20}, []float64{0, 100, 100})
	require.NoError(t, err)

	sigma, ix, err := tbl.Lookup(5)
	require.NoError(t, err)
	assert.Equal(t, 50.0, sigma)
	assert.Equal(t, 0, ix)
}

func TestLookupOutOfRange(t *testing.T) {
	tbl, err := NewTable([]float64{0, 10}, []float64{0, 1})
	require.NoError(t, err)

	_, _, err = tbl.Lookup(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, _, err = tbl.Lookup(10)
	assert.ErrorIs(t, err, ErrOutOfRange, "upper bound should be excluded")
}

func TestLookupMatchesAnalyticOverLargeTable(t *testing.T) {
	n := 1001
	keys := make([]float64, n)
	vals := make([]float64, n)
	lo, hi := 1e-5, 2e7
	logLo, logHi := math.Log(lo), math.Log(hi)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		keys[i] = math.Exp(logLo + frac*(logHi-logLo))
		vals[i] = keys[i]
	}
	tbl, err := NewTable(keys, vals)
	require.NoError(t, err)

	for i := 0; i < n-1; i++ {
		mid := 0.5 * (keys[i] + keys[i+1])
		sigma, ix, err := tbl.Lookup(mid)
		require.NoError(t, err)
		assert.Equal(t, i, ix, "Lookup(%g) ix", mid)
		want := 0.5 * (vals[i] + vals[i+1])
		assert.InDelta(t, want, sigma, want*1e-9, "Lookup(%g)", mid)
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scatter.dat")
	content := "# energy sigma\n0.0 1.0\n1.0 2.0\n2.0 4.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tbl, err := LoadTable(path)
	require.NoError(t, err)

	sigma, _, err := tbl.Lookup(0.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, sigma)
}
