package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDeck() *Deck {
	return &Deck{
		Mesh:     MeshConfig{Nx: 8, Ny: 8, Width: 8, Height: 8, Dt: 1, Iterations: 10, Pad: 0},
		Source:   SourceConfig{Left: 1, Bottom: 1, Width: 2, Height: 2, NParticles: 1000, InitialEnergy: 1e6},
		Material: MaterialConfig{MassNo: 12, MolarMass: 12, ScatterFile: "scatter.dat", AbsorbFile: "absorb.dat"},
	}
}

func TestCheckInitAcceptsValidDeck(t *testing.T) {
	assert.NoError(t, validDeck().CheckInit())
}

func TestCheckInitRejectsSourceOutsideMesh(t *testing.T) {
	d := validDeck()
	d.Source.Left = 7
	d.Source.Width = 5
	assert.Error(t, d.CheckInit(), "expected error for source region outside mesh bounds")
}

func TestCheckInitRejectsNonPositiveIterations(t *testing.T) {
	d := validDeck()
	d.Mesh.Iterations = 0
	assert.Error(t, d.CheckInit(), "expected error for zero iterations")
}

func TestCheckInitRejectsMissingCrossSectionFiles(t *testing.T) {
	d := validDeck()
	d.Material.ScatterFile = ""
	assert.Error(t, d.CheckInit(), "expected error for missing scatter file")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.ini")
	content := `[mesh]
nx = 8
ny = 8
width = 8.0
height = 8.0
dt = 1.0
iterations = 10
pad = 0

[source]
left = 1.0
bottom = 1.0
width = 2.0
height = 2.0
nparticles = 1000
initialenergy = 1e6

[material]
massno = 12
molarmass = 12
scatterfile = scatter.dat
absorbfile = absorb.dat
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	deck, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, deck.Mesh.Nx)
	assert.Equal(t, 1000, deck.Source.NParticles)
}
