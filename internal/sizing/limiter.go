package sizing

/*
Gradient limiter

Bounds how fast the sizing field may grow between neighbouring grid
cells. The limited field is the pointwise-largest h' <= h satisfying

	|h'(a) - h'(b)| <= grade * elen

for every 4-connected cell pair (a, b), i.e. the stationary solution of
the Hamilton-Jacobi inequality |grad h| <= grade on the grid. Small
features in the velocity model (low-velocity lenses needing fine
elements) therefore spread a gradual size transition into their
surroundings instead of meeting coarse elements head on.

The solver is an iterative fixed-point sweep rather than a priority
queue: each iteration performs four Gauss-Seidel passes over the grid
(forward rows, backward rows, forward columns, backward columns),
clamping each cell against its in-bounds neighbours with

	h[c] = min(h[c], h[n] + grade*elen)

In-place Gauss-Seidel updates let a pass propagate a constraint across
the whole grid in its sweep direction, so realistic fields reach the
fixed point in a handful of iterations. The update only ever lowers
values and the min-clamp is commutative, so any sweep order converges
to the same fixed point; the directional ordering just gets there
faster. Boundary cells use their in-bounds neighbours only, no
wraparound.
*/

// LimitGradient rewrites f in place so that adjacent values differ by
// at most grade*elen, where elen is the grid spacing in meters. It
// returns the number of full iterations performed and whether a fixed
// point was reached before maxSweeps. Hitting the cap is a best-effort
// result, not an error: the field returned is still closer to the bound
// than the input.
//
// Values are only ever lowered. The limiter does not re-enforce a
// minimum edge length; callers that need a hard floor must re-clamp
// afterwards.
func LimitGradient(f *Field, elen, grade float64, maxSweeps int) (sweeps int, converged bool) {
	if grade <= 0 {
		return 0, true
	}
	step := grade * elen

	for sweeps = 1; sweeps <= maxSweeps; sweeps++ {
		changed := sweepRows(f, step, false)
		changed = sweepRows(f, step, true) || changed
		changed = sweepCols(f, step, false) || changed
		changed = sweepCols(f, step, true) || changed
		if !changed {
			return sweeps, true
		}
	}
	return maxSweeps, false
}

// relax clamps the cell at (i, j) against one neighbour value and
// reports whether it changed.
func relax(vals []float64, idx int, bound float64) bool {
	if vals[idx] > bound {
		vals[idx] = bound
		return true
	}
	return false
}

// sweepRows visits every cell row by row, relaxing against all four
// in-bounds neighbours. reverse flips the traversal order of both axes
// so constraints propagate toward decreasing indices as well.
func sweepRows(f *Field, step float64, reverse bool) bool {
	nz, nx, vals := f.Nz, f.Nx, f.vals
	changed := false
	for ii := 0; ii < nz; ii++ {
		i := ii
		if reverse {
			i = nz - 1 - ii
		}
		for jj := 0; jj < nx; jj++ {
			j := jj
			if reverse {
				j = nx - 1 - jj
			}
			idx := i*nx + j
			if i > 0 {
				changed = relax(vals, idx, vals[idx-nx]+step) || changed
			}
			if i < nz-1 {
				changed = relax(vals, idx, vals[idx+nx]+step) || changed
			}
			if j > 0 {
				changed = relax(vals, idx, vals[idx-1]+step) || changed
			}
			if j < nx-1 {
				changed = relax(vals, idx, vals[idx+1]+step) || changed
			}
		}
	}
	return changed
}

// sweepCols is sweepRows with the column index in the outer loop, so
// updates flow along rows first.
func sweepCols(f *Field, step float64, reverse bool) bool {
	nz, nx, vals := f.Nz, f.Nx, f.vals
	changed := false
	for jj := 0; jj < nx; jj++ {
		j := jj
		if reverse {
			j = nx - 1 - jj
		}
		for ii := 0; ii < nz; ii++ {
			i := ii
			if reverse {
				i = nz - 1 - ii
			}
			idx := i*nx + j
			if i > 0 {
				changed = relax(vals, idx, vals[idx-nx]+step) || changed
			}
			if i < nz-1 {
				changed = relax(vals, idx, vals[idx+nx]+step) || changed
			}
			if j > 0 {
				changed = relax(vals, idx, vals[idx-1]+step) || changed
			}
			if j < nx-1 {
				changed = relax(vals, idx, vals[idx+1]+step) || changed
			}
		}
	}
	return changed
}
