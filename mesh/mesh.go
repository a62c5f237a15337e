// Package mesh provides a read-only view over the padded Cartesian grid the
// engine tracks particles on: cell-edge coordinates along each axis and a
// per-cell density field. Engine code works in local (unpadded) cell
// coordinates; the pad offset is kept entirely inside the accessors here.
package mesh

import "fmt"

// View is an immutable description of one rank's local tile of the global
// mesh: edge coordinates (strictly increasing, one extra point than cells)
// and cell density, both stored with pad ghost cells on every side.
type View struct {
	globalNx, globalNy int
	nx, ny             int
	xOff, yOff         int
	pad                int
	edgex, edgey       []float64
	density            []float64
}

// NewView builds a View. edgex must have nx+2*pad+1 entries and be strictly
// increasing; edgey analogously for ny. density must have
// (nx+2*pad)*(ny+2*pad) entries, all nonnegative.
func NewView(globalNx, globalNy, nx, ny, xOff, yOff, pad int, edgex, edgey, density []float64) (*View, error) {
	if len(edgex) != nx+2*pad+1 {
		return nil, fmt.Errorf("mesh: edgex has %d entries, want %d", len(edgex), nx+2*pad+1)
	}
	if len(edgey) != ny+2*pad+1 {
		return nil, fmt.Errorf("mesh: edgey has %d entries, want %d", len(edgey), ny+2*pad+1)
	}
	if len(density) != (nx+2*pad)*(ny+2*pad) {
		return nil, fmt.Errorf("mesh: density has %d entries, want %d", len(density), (nx+2*pad)*(ny+2*pad))
	}
	if err := checkMonotone("edgex", edgex); err != nil {
		return nil, err
	}
	if err := checkMonotone("edgey", edgey); err != nil {
		return nil, err
	}
	for i, d := range density {
		if d < 0 {
			return nil, fmt.Errorf("mesh: density[%d] = %g is negative", i, d)
		}
	}

	v := &View{
		globalNx: globalNx, globalNy: globalNy,
		nx: nx, ny: ny,
		xOff: xOff, yOff: yOff,
		pad:     pad,
		edgex:   make([]float64, len(edgex)),
		edgey:   make([]float64, len(edgey)),
		density: make([]float64, len(density)),
	}
	copy(v.edgex, edgex)
	copy(v.edgey, edgey)
	copy(v.density, density)
	return v, nil
}

func checkMonotone(name string, edges []float64) error {
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return fmt.Errorf("mesh: %s not strictly increasing at index %d (%g <= %g)", name, i, edges[i], edges[i-1])
		}
	}
	return nil
}

// GlobalDims returns the global mesh dimensions.
func (v *View) GlobalDims() (nx, ny int) { return v.globalNx, v.globalNy }

// LocalDims returns this tile's unpadded dimensions.
func (v *View) LocalDims() (nx, ny int) { return v.nx, v.ny }

// Offsets returns the tile's origin in global cell coordinates.
func (v *View) Offsets() (xOff, yOff int) { return v.xOff, v.yOff }

// EdgeX returns the x coordinate of the left edge of local (unpadded) cell
// cellx, where cellx may range over [-pad, nx+pad] to reach ghost edges.
func (v *View) EdgeX(cellx int) float64 { return v.edgex[cellx+v.pad] }

// EdgeY returns the y coordinate of the bottom edge of local cell celly.
func (v *View) EdgeY(celly int) float64 { return v.edgey[celly+v.pad] }

// Density returns the density of local cell (cellx, celly).
func (v *View) Density(cellx, celly int) float64 {
	return v.density[v.idx(cellx, celly)]
}

func (v *View) idx(cellx, celly int) int {
	return (celly+v.pad)*(v.nx+2*v.pad) + (cellx + v.pad)
}

// InBoundsGlobal reports whether global cell indices lie within the global
// mesh.
func (v *View) InBoundsGlobal(gx, gy int) bool {
	return gx >= 0 && gx < v.globalNx && gy >= 0 && gy < v.globalNy
}

// GlobalToLocal converts global cell indices to this tile's local (unpadded)
// cell indices.
func (v *View) GlobalToLocal(gx, gy int) (cellx, celly int) {
	return gx - v.xOff, gy - v.yOff
}

// LocalToGlobal converts local cell indices to global cell indices.
func (v *View) LocalToGlobal(cellx, celly int) (gx, gy int) {
	return cellx + v.xOff, celly + v.yOff
}

// LocateX scans the x edge array for the local cell containing world
// coordinate x, returning -1 if x lies outside the tile (including ghost
// cells). Mirrors the explicit edge scan the reference injector uses so
// that non-uniform meshes are handled without assuming a closed form.
func (v *View) LocateX(x float64) int {
	for i := -v.pad; i < v.nx+v.pad; i++ {
		if x >= v.EdgeX(i) && x < v.EdgeX(i+1) {
			return i
		}
	}
	return -1
}

// LocateY scans the y edge array analogously to LocateX.
func (v *View) LocateY(y float64) int {
	for i := -v.pad; i < v.ny+v.pad; i++ {
		if y >= v.EdgeY(i) && y < v.EdgeY(i+1) {
			return i
		}
	}
	return -1
}
