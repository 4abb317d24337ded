package geom

import (
	"fmt"
	"math"
	"sort"
)

// Interpolant evaluates a finalized sizing field at arbitrary points by
// bilinear interpolation over the regular (z, x) grid. It is built once
// from a frozen field and never mutated, so it is safe for concurrent
// queries by the mesh generator.
//
// Queries outside the grid bounds return NaN rather than extrapolating;
// the mesh generator is expected to only ask about points inside the
// domain.
type Interpolant struct {
	zvec []float64 // ascending depth coordinates, len nz
	xvec []float64 // ascending horizontal coordinates, len nx
	vals []float64 // row-major nz*nx
	nx   int
}

// NewInterpolant builds an interpolant from the coordinate vectors and a
// row-major value grid. Both vectors must be strictly increasing with at
// least two entries each.
func NewInterpolant(zvec, xvec, vals []float64) (*Interpolant, error) {
	if len(zvec) < 2 || len(xvec) < 2 {
		return nil, fmt.Errorf("geom: interpolant needs at least a 2x2 grid, got %dx%d", len(zvec), len(xvec))
	}
	if len(vals) != len(zvec)*len(xvec) {
		return nil, fmt.Errorf("geom: interpolant grid has %d values, want %d", len(vals), len(zvec)*len(xvec))
	}
	if !sort.Float64sAreSorted(zvec) || !sort.Float64sAreSorted(xvec) {
		return nil, fmt.Errorf("geom: interpolant coordinate vectors must be ascending")
	}
	return &Interpolant{zvec: zvec, xvec: xvec, vals: vals, nx: len(xvec)}, nil
}

// At returns the interpolated value at (z, x), or NaN if the point lies
// outside the grid.
func (it *Interpolant) At(z, x float64) float64 {
	nz := len(it.zvec)
	nx := it.nx
	if z < it.zvec[0] || z > it.zvec[nz-1] || x < it.xvec[0] || x > it.xvec[nx-1] {
		return math.NaN()
	}

	i := cellIndex(it.zvec, z)
	j := cellIndex(it.xvec, x)

	tz := (z - it.zvec[i]) / (it.zvec[i+1] - it.zvec[i])
	tx := (x - it.xvec[j]) / (it.xvec[j+1] - it.xvec[j])

	v00 := it.vals[i*nx+j]
	v01 := it.vals[i*nx+j+1]
	v10 := it.vals[(i+1)*nx+j]
	v11 := it.vals[(i+1)*nx+j+1]

	return v00*(1-tz)*(1-tx) + v01*(1-tz)*tx + v10*tz*(1-tx) + v11*tz*tx
}

// cellIndex returns the lower grid index i such that
// vec[i] <= v <= vec[i+1], for v already known to be in range.
func cellIndex(vec []float64, v float64) int {
	i := sort.SearchFloat64s(vec, v)
	if i > 0 {
		i--
	}
	if i > len(vec)-2 {
		i = len(vec) - 2
	}
	return i
}
