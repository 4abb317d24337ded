// Package velmodel holds the in-memory representation of a 2-D seismic
// velocity model: a dense grid of P-wave speeds indexed by depth sample
// and trace number.
package velmodel

import (
	"fmt"
	"math"
)

// VelocityGrid is a dense 2-D grid of wave speeds in meters per second.
// Rows are depth samples, columns are traces. Row 0 is the deepest
// sample so that row order matches the domain z-vector, which runs from
// the bottom of the model up to the free surface.
//
// The grid is immutable once constructed: the sizing pipeline reads it
// but never writes to it.
type VelocityGrid struct {
	Nz int // number of depth samples (rows)
	Nx int // number of traces (columns)

	vals []float64 // row-major, vals[i*Nx+j]
}

// New validates and wraps a row-major slice of velocity samples.
// The slice is retained, not copied; callers must not modify it after
// handing it over. Every sample must be finite.
func New(nz, nx int, vals []float64) (*VelocityGrid, error) {
	if nz <= 0 || nx <= 0 {
		return nil, fmt.Errorf("velmodel: grid dimensions must be positive, got %dx%d", nz, nx)
	}
	if len(vals) != nz*nx {
		return nil, fmt.Errorf("velmodel: expected %d samples for a %dx%d grid, got %d", nz*nx, nz, nx, len(vals))
	}
	for k, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("velmodel: non-finite velocity %g at sample %d (row %d, col %d)", v, k, k/nx, k%nx)
		}
	}
	return &VelocityGrid{Nz: nz, Nx: nx, vals: vals}, nil
}

// At returns the velocity at depth row i, trace column j.
// Indices must be in range; At does not bounds-check beyond the slice.
func (g *VelocityGrid) At(i, j int) float64 {
	return g.vals[i*g.Nx+j]
}

// Values returns the backing row-major slice. Read-only by convention.
func (g *VelocityGrid) Values() []float64 {
	return g.vals
}

// MinMax returns the smallest and largest velocity in the model.
func (g *VelocityGrid) MinMax() (min, max float64) {
	min, max = g.vals[0], g.vals[0]
	for _, v := range g.vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
