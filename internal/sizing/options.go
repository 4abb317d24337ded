// Package sizing builds isotropic mesh sizing fields from 2-D seismic
// velocity models. The entry point is Build, which runs the fixed
// pipeline of constraint stages (wavelength criterion, min/max clamps,
// gradient limiting, CFL enlargement) and returns a dense field of
// desired edge lengths.
package sizing

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadOptions reports an invalid constraint configuration.
var ErrBadOptions = errors.New("sizing: invalid options")

// Default constraint values.
const (
	DefaultMaxFrequency = 5.0   // Hz, source frequency for the wavelength criterion
	DefaultCourantMax   = 0.2   // Courant number the requested timestep must satisfy
	DefaultMaxSweeps    = 10000 // gradient limiter iteration cap
)

// Options is the immutable constraint configuration for a build. Zero
// values disable the optional stages: WavelengthNodes == 0 skips the
// wavelength criterion, Timestep == 0 skips the CFL adjustment and
// Grade == 0 skips gradient limiting. Construct with DefaultOptions and
// validate once; a build never mutates its Options.
type Options struct {
	// Hmin is the minimum edge length in meters. Required, > 0.
	Hmin float64
	// Hmax is the maximum edge length in meters. +Inf disables the cap.
	Hmax float64
	// WavelengthNodes is the number of vertices per wavelength when
	// sizing from the local velocity. 0 disables the criterion.
	WavelengthNodes float64
	// MaxFrequency is the maximum source frequency in Hz used to
	// estimate the wavelength.
	MaxFrequency float64
	// Timestep is the desired stable timestep in seconds for the CFL
	// adjustment. 0 disables the adjustment.
	Timestep float64
	// CourantMax is the Courant number Timestep must be stable at.
	CourantMax float64
	// Grade is the maximum relative increase in edge length per unit
	// distance. 0 disables gradient limiting.
	Grade float64
	// MaxSweeps caps the gradient limiter iterations. Hitting the cap
	// is reported in BuildStats, not treated as an error.
	MaxSweeps int
}

// DefaultOptions returns an Options with the given minimum edge length
// and every optional stage disabled.
func DefaultOptions(hmin float64) Options {
	return Options{
		Hmin:         hmin,
		Hmax:         math.Inf(1),
		MaxFrequency: DefaultMaxFrequency,
		CourantMax:   DefaultCourantMax,
		MaxSweeps:    DefaultMaxSweeps,
	}
}

// Validate checks the configuration invariants. All violations are
// ConfigurationErrors detected before any field work starts.
func (o Options) Validate() error {
	if !(o.Hmin > 0) {
		return fmt.Errorf("%w: hmin must be positive, got %g", ErrBadOptions, o.Hmin)
	}
	if math.IsNaN(o.Hmax) || o.Hmax < o.Hmin {
		return fmt.Errorf("%w: hmax %g must be at least hmin %g", ErrBadOptions, o.Hmax, o.Hmin)
	}
	if o.WavelengthNodes < 0 {
		return fmt.Errorf("%w: wavelength nodes must not be negative, got %g", ErrBadOptions, o.WavelengthNodes)
	}
	if o.WavelengthNodes > 0 && !(o.MaxFrequency > 0) {
		return fmt.Errorf("%w: max frequency must be positive when the wavelength criterion is enabled, got %g", ErrBadOptions, o.MaxFrequency)
	}
	if o.Timestep < 0 {
		return fmt.Errorf("%w: timestep must not be negative, got %g", ErrBadOptions, o.Timestep)
	}
	if o.Timestep > 0 && !(o.CourantMax > 0) {
		return fmt.Errorf("%w: courant max must be positive when a timestep is requested, got %g", ErrBadOptions, o.CourantMax)
	}
	if o.Grade < 0 || math.IsNaN(o.Grade) {
		return fmt.Errorf("%w: grade must not be negative, got %g", ErrBadOptions, o.Grade)
	}
	if o.Grade > 0 && o.MaxSweeps <= 0 {
		return fmt.Errorf("%w: max sweeps must be positive when grading is enabled, got %d", ErrBadOptions, o.MaxSweeps)
	}
	return nil
}
