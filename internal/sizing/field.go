package sizing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidField reports a sizing field that violates the build
// postcondition (a non-positive or non-finite entry). It indicates an
// inconsistent constraint combination, not a recoverable condition.
var ErrInvalidField = errors.New("sizing: field has non-positive or non-finite entries")

// Field is a dense grid of desired edge lengths in meters, with the
// same shape and layout as the velocity model it was built from. The
// build stages mutate it in place; once Build returns it is frozen and
// only read through the interpolant.
type Field struct {
	Nz, Nx int

	vals []float64 // row-major, vals[i*Nx+j]
}

// NewField wraps a row-major slice as a sizing field. The slice is
// retained, not copied. Used by the build pipeline and by stores that
// rehydrate persisted fields.
func NewField(nz, nx int, vals []float64) (*Field, error) {
	if nz <= 0 || nx <= 0 {
		return nil, fmt.Errorf("sizing: field dimensions must be positive, got %dx%d", nz, nx)
	}
	if len(vals) != nz*nx {
		return nil, fmt.Errorf("sizing: expected %d values for a %dx%d field, got %d", nz*nx, nz, nx, len(vals))
	}
	return &Field{Nz: nz, Nx: nx, vals: vals}, nil
}

// newUniform allocates a field with every entry set to h.
func newUniform(nz, nx int, h float64) *Field {
	vals := make([]float64, nz*nx)
	for i := range vals {
		vals[i] = h
	}
	return &Field{Nz: nz, Nx: nx, vals: vals}
}

// At returns the edge length at depth row i, trace column j.
func (f *Field) At(i, j int) float64 {
	return f.vals[i*f.Nx+j]
}

// Values returns the backing row-major slice.
func (f *Field) Values() []float64 {
	return f.vals
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	vals := make([]float64, len(f.vals))
	copy(vals, f.vals)
	return &Field{Nz: f.Nz, Nx: f.Nx, vals: vals}
}

// MinMax returns the smallest and largest edge length in the field.
func (f *Field) MinMax() (min, max float64) {
	min, max = f.vals[0], f.vals[0]
	for _, v := range f.vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Validate enforces the build postcondition: every entry strictly
// positive and finite.
func (f *Field) Validate() error {
	for k, v := range f.vals {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value %g at row %d, col %d", ErrInvalidField, v, k/f.Nx, k%f.Nx)
		}
	}
	return nil
}
