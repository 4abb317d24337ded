package sizing

import (
	"log"
	"math"

	"github.com/banshee-data/meshsize.report/internal/geom"
	"github.com/banshee-data/meshsize.report/internal/velmodel"
)

// BuildStats reports what the optional stages did during a build.
type BuildStats struct {
	// GradeSweeps is the number of limiter iterations run, 0 when
	// grading was disabled.
	GradeSweeps int
	// GradeConverged is false only when the limiter hit its sweep cap
	// before reaching a fixed point. The field is still usable.
	GradeConverged bool
	// CFLAdjusted counts cells enlarged by the CFL stage.
	CFLAdjusted int
}

// Build computes the sizing field for a velocity model. The stages run
// in a fixed order, each reading and rewriting the field in place:
//
//  1. initialize to a uniform Hmin
//  2. wavelength criterion h = v / (freq * wl), if enabled
//  3. clamp up to Hmin
//  4. clamp down to Hmax, if finite
//  5. gradient limiting at the configured grade, then re-clamp to Hmin
//  6. CFL enlargement so the requested timestep stays stable
//
// Gradient limiting only lowers values, so step 5 re-applies the Hmin
// floor. The CFL stage may raise values above Hmax and above the graded
// bound: stability takes precedence over both, so the limiter is not
// re-run afterwards. Build is a pure function of its inputs; the same
// model, box and options always produce the same field.
func Build(grid *velmodel.VelocityGrid, bbox geom.BBox, opts Options) (*Field, BuildStats, error) {
	var stats BuildStats
	if err := opts.Validate(); err != nil {
		return nil, stats, err
	}
	if err := bbox.Validate(); err != nil {
		return nil, stats, err
	}

	nz, nx := grid.Nz, grid.Nx
	f := newUniform(nz, nx, opts.Hmin)
	vals := f.vals
	vp := grid.Values()

	if opts.WavelengthNodes > 0 {
		log.Printf("sizing: resolving wavelength with %g vertices at %g Hz", opts.WavelengthNodes, opts.MaxFrequency)
		scale := 1.0 / (opts.MaxFrequency * opts.WavelengthNodes)
		for k := range vals {
			vals[k] = vp[k] * scale
		}
	}

	clampFloor(vals, opts.Hmin)

	if !math.IsInf(opts.Hmax, 1) {
		log.Printf("sizing: enforcing maximum edge length %g m", opts.Hmax)
		for k := range vals {
			if vals[k] > opts.Hmax {
				vals[k] = opts.Hmax
			}
		}
	}

	stats.GradeConverged = true
	if opts.Grade > 0 {
		log.Printf("sizing: enforcing gradation of %g", opts.Grade)
		elen := bbox.Width() / float64(nx)
		stats.GradeSweeps, stats.GradeConverged = LimitGradient(f, elen, opts.Grade, opts.MaxSweeps)
		if !stats.GradeConverged {
			log.Printf("sizing: gradient limiter stopped after %d sweeps without reaching a fixed point", stats.GradeSweeps)
		}
		// The limiter only lowers values, so the floor must be
		// re-applied after grading.
		clampFloor(vals, opts.Hmin)
	}

	if opts.Timestep > 0 {
		log.Printf("sizing: enforcing timestep of %g s at courant %g", opts.Timestep, opts.CourantMax)
		for k := range vals {
			if vp[k]*opts.Timestep/vals[k] > opts.CourantMax {
				vals[k] = vp[k] * opts.Timestep / opts.CourantMax
				stats.CFLAdjusted++
			}
		}
	}

	if err := f.Validate(); err != nil {
		return nil, stats, err
	}
	return f, stats, nil
}

// clampFloor raises every entry below hmin up to hmin.
func clampFloor(vals []float64, hmin float64) {
	for k := range vals {
		if vals[k] < hmin {
			vals[k] = hmin
		}
	}
}

// Interpolant freezes the field into a bilinear interpolant over the
// domain coordinate vectors, the form consumed by the mesh generator.
func (f *Field) Interpolant(bbox geom.BBox) (*geom.Interpolant, error) {
	zvec, xvec := geom.DomainVectors(bbox, f.Nz, f.Nx)
	return geom.NewInterpolant(zvec, xvec, f.vals)
}
