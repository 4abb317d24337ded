package sizing

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/meshsize.report/internal/geom"
	"github.com/banshee-data/meshsize.report/internal/velmodel"
)

func uniformModel(t *testing.T, nz, nx int, v float64) *velmodel.VelocityGrid {
	t.Helper()
	vals := make([]float64, nz*nx)
	for i := range vals {
		vals[i] = v
	}
	g, err := velmodel.New(nz, nx, vals)
	if err != nil {
		t.Fatalf("velmodel.New: %v", err)
	}
	return g
}

var testBox = geom.BBox{Zmin: -1000, Zmax: 0, Xmin: 0, Xmax: 1000}

func TestBuildUniformHmin(t *testing.T) {
	grid := uniformModel(t, 10, 10, 2000)
	f, stats, err := Build(grid, testBox, DefaultOptions(100))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < f.Nz; i++ {
		for j := 0; j < f.Nx; j++ {
			if f.At(i, j) != 100 {
				t.Fatalf("field[%d][%d] = %g, want uniform 100", i, j, f.At(i, j))
			}
		}
	}
	if stats.CFLAdjusted != 0 || stats.GradeSweeps != 0 || !stats.GradeConverged {
		t.Errorf("unexpected stats with all stages disabled: %+v", stats)
	}
}

func TestBuildWavelengthCriterion(t *testing.T) {
	// v/(freq*wl) = 2000/(5*5) = 80.
	grid := uniformModel(t, 8, 8, 2000)

	t.Run("clamped up to hmin", func(t *testing.T) {
		opts := DefaultOptions(100)
		opts.WavelengthNodes = 5
		f, _, err := Build(grid, testBox, opts)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got := f.At(4, 4); got != 100 {
			t.Errorf("field value = %g, want 100 (raw 80 raised to hmin)", got)
		}
	})

	t.Run("raw size above hmin", func(t *testing.T) {
		opts := DefaultOptions(50)
		opts.WavelengthNodes = 5
		f, _, err := Build(grid, testBox, opts)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got := f.At(4, 4); got != 80 {
			t.Errorf("field value = %g, want 80", got)
		}
	})
}

func TestBuildHmaxClamp(t *testing.T) {
	// Raw wavelength size 4000/(5*5) = 160, capped at 120.
	grid := uniformModel(t, 6, 6, 4000)
	opts := DefaultOptions(50)
	opts.WavelengthNodes = 5
	opts.Hmax = 120
	f, _, err := Build(grid, testBox, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, max := f.MinMax(); max != 120 {
		t.Errorf("max field value = %g, want 120", max)
	}
}

func TestBuildCFLEnlargement(t *testing.T) {
	grid := uniformModel(t, 6, 6, 2000)
	opts := DefaultOptions(100)
	opts.Timestep = 0.02
	// courant at hmin: 2000*0.02/100 = 0.4 > 0.2 everywhere.
	f, stats, err := Build(grid, testBox, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := 2000 * 0.02 / 0.2
	if got := f.At(3, 3); got != want {
		t.Errorf("field value = %g, want %g (enlarged for stability)", got, want)
	}
	if stats.CFLAdjusted != 36 {
		t.Errorf("CFLAdjusted = %d, want 36", stats.CFLAdjusted)
	}

	// CFL property: velocity*dt/h <= courant max everywhere.
	const eps = 1e-12
	for i := 0; i < f.Nz; i++ {
		for j := 0; j < f.Nx; j++ {
			cr := grid.At(i, j) * opts.Timestep / f.At(i, j)
			if cr > opts.CourantMax+eps {
				t.Fatalf("courant %g at [%d][%d] exceeds %g", cr, i, j, opts.CourantMax)
			}
		}
	}
}

func TestBuildCFLMayExceedHmax(t *testing.T) {
	// Stability takes precedence over the resolution cap.
	grid := uniformModel(t, 4, 4, 2000)
	opts := DefaultOptions(50)
	opts.Hmax = 100
	opts.Timestep = 0.02
	f, _, err := Build(grid, testBox, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := f.At(0, 0); got != 200 {
		t.Errorf("field value = %g, want 200 (CFL overrides hmax)", got)
	}
}

func TestBuildGradationPreservesFloor(t *testing.T) {
	// A slow lens forces fine sizes; grading must not drag neighbours
	// below hmin.
	nz, nx := 12, 12
	vals := make([]float64, nz*nx)
	for i := range vals {
		vals[i] = 4000
	}
	vals[6*nx+6] = 500
	grid, err := velmodel.New(nz, nx, vals)
	if err != nil {
		t.Fatalf("velmodel.New: %v", err)
	}

	opts := DefaultOptions(30)
	opts.WavelengthNodes = 5
	opts.Grade = 0.05
	f, stats, err := Build(grid, testBox, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !stats.GradeConverged || stats.GradeSweeps == 0 {
		t.Errorf("expected converged limiter with at least one sweep, got %+v", stats)
	}
	min, _ := f.MinMax()
	if min < opts.Hmin {
		t.Errorf("min field value %g dropped below hmin %g after grading", min, opts.Hmin)
	}
}

func TestBuildRejectsBadInputs(t *testing.T) {
	grid := uniformModel(t, 4, 4, 2000)

	if _, _, err := Build(grid, testBox, DefaultOptions(0)); !errors.Is(err, ErrBadOptions) {
		t.Errorf("Build with zero hmin: error %v, want ErrBadOptions", err)
	}
	badBox := geom.BBox{Zmin: 0, Zmax: -1000, Xmin: 0, Xmax: 1000}
	if _, _, err := Build(grid, badBox, DefaultOptions(100)); !errors.Is(err, geom.ErrBadBounds) {
		t.Errorf("Build with inverted box: error %v, want ErrBadBounds", err)
	}
}

func TestFieldValidate(t *testing.T) {
	f, err := NewField(2, 2, []float64{100, 100, 100, 100})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate on positive field: %v", err)
	}

	bad, err := NewField(2, 2, []float64{100, 0, 100, 100})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidField) {
		t.Errorf("Validate with zero entry: error %v, want ErrInvalidField", err)
	}

	inf, err := NewField(2, 2, []float64{100, math.Inf(1), 100, 100})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := inf.Validate(); !errors.Is(err, ErrInvalidField) {
		t.Errorf("Validate with infinite entry: error %v, want ErrInvalidField", err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	nz, nx := 10, 10
	vals := make([]float64, nz*nx)
	for i := range vals {
		vals[i] = 1500 + 250*float64(i%7)
	}
	grid, err := velmodel.New(nz, nx, vals)
	if err != nil {
		t.Fatalf("velmodel.New: %v", err)
	}
	opts := DefaultOptions(40)
	opts.WavelengthNodes = 5
	opts.Grade = 0.1
	opts.Timestep = 0.005

	f1, _, err := Build(grid, testBox, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f2, _, err := Build(grid, testBox, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for k, v := range f1.Values() {
		if f2.Values()[k] != v {
			t.Fatalf("builds differ at index %d: %g vs %g", k, v, f2.Values()[k])
		}
	}
}

func TestFieldInterpolant(t *testing.T) {
	grid := uniformModel(t, 5, 5, 2000)
	f, _, err := Build(grid, testBox, DefaultOptions(100))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fh, err := f.Interpolant(testBox)
	if err != nil {
		t.Fatalf("Interpolant: %v", err)
	}
	if got := fh.At(-500, 500); got != 100 {
		t.Errorf("fh(-500, 500) = %g, want 100", got)
	}
	if got := fh.At(100, 500); !math.IsNaN(got) {
		t.Errorf("fh above the surface = %g, want NaN", got)
	}
}
