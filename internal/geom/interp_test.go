package geom

import (
	"math"
	"testing"
)

func TestDomainVectors(t *testing.T) {
	b := BBox{Zmin: -1000, Zmax: 0, Xmin: 0, Xmax: 2000}
	zvec, xvec := DomainVectors(b, 5, 3)

	if len(zvec) != 5 || len(xvec) != 3 {
		t.Fatalf("got vector lengths %d, %d, want 5, 3", len(zvec), len(xvec))
	}
	if zvec[0] != -1000 || zvec[4] != 0 {
		t.Errorf("zvec spans [%g, %g], want [-1000, 0]", zvec[0], zvec[4])
	}
	if xvec[0] != 0 || xvec[2] != 2000 {
		t.Errorf("xvec spans [%g, %g], want [0, 2000]", xvec[0], xvec[2])
	}
	if xvec[1] != 1000 {
		t.Errorf("xvec[1] = %g, want 1000 (even spacing)", xvec[1])
	}
}

func TestNewInterpolantValidation(t *testing.T) {
	if _, err := NewInterpolant([]float64{0}, []float64{0, 1}, []float64{1, 2}); err == nil {
		t.Error("expected error for single-entry z vector")
	}
	if _, err := NewInterpolant([]float64{0, 1}, []float64{0, 1}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for value count mismatch")
	}
	if _, err := NewInterpolant([]float64{1, 0}, []float64{0, 1}, []float64{1, 2, 3, 4}); err == nil {
		t.Error("expected error for descending z vector")
	}
}

func TestInterpolantAt(t *testing.T) {
	// 2x2 grid over the unit square: values equal z + 10*x so bilinear
	// interpolation reproduces the plane exactly.
	zvec := []float64{0, 1}
	xvec := []float64{0, 1}
	vals := []float64{0, 10, 1, 11}
	it, err := NewInterpolant(zvec, xvec, vals)
	if err != nil {
		t.Fatalf("NewInterpolant: %v", err)
	}

	tests := []struct {
		z, x, want float64
	}{
		{0, 0, 0},
		{1, 1, 11},
		{0.5, 0.5, 5.5},
		{1, 0, 1},
		{0.25, 0.75, 7.75},
	}
	for _, tt := range tests {
		if got := it.At(tt.z, tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%g, %g) = %g, want %g", tt.z, tt.x, got, tt.want)
		}
	}
}

func TestInterpolantOutsideReturnsNaN(t *testing.T) {
	it, err := NewInterpolant([]float64{0, 1}, []float64{0, 1}, []float64{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("NewInterpolant: %v", err)
	}
	for _, p := range [][2]float64{{-0.1, 0.5}, {1.1, 0.5}, {0.5, -0.1}, {0.5, 1.1}} {
		if got := it.At(p[0], p[1]); !math.IsNaN(got) {
			t.Errorf("At(%g, %g) = %g, want NaN outside grid", p[0], p[1], got)
		}
	}
}

func TestSizingQuery(t *testing.T) {
	b := BBox{Zmin: 0, Zmax: 1, Xmin: 0, Xmax: 1}
	it, err := NewInterpolant([]float64{0, 1}, []float64{0, 1}, []float64{2, 2, 2, 2})
	if err != nil {
		t.Fatalf("NewInterpolant: %v", err)
	}
	q := NewSizingQuery(it, b)
	if got := q.Size(0.5, 0.5); got != 2 {
		t.Errorf("Size = %g, want 2", got)
	}
	if got := q.Distance(0.5, 0.5); got != -0.5 {
		t.Errorf("Distance = %g, want -0.5", got)
	}
}
