// Package geom provides the domain geometry for sizing-field builds:
// the rectangular bounding box, its signed distance function, the
// regular-grid coordinate vectors, and the bilinear size interpolant
// queried by the mesh generator.
package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadBounds reports an invalid or malformed bounding box.
var ErrBadBounds = errors.New("geom: invalid bounding box")

// BBox is the rectangular extent of the velocity model in meters.
// The z axis is depth (negative below the free surface, zero at the
// surface), the x axis is horizontal position. A typical marine model
// is BBox{Zmin: -12e3, Zmax: 0, Xmin: 0, Xmax: 67e3}.
type BBox struct {
	Zmin, Zmax float64
	Xmin, Xmax float64
}

// Validate checks that both axes have positive extent.
func (b BBox) Validate() error {
	if !(b.Zmin < b.Zmax) {
		return fmt.Errorf("%w: zmin %g must be less than zmax %g", ErrBadBounds, b.Zmin, b.Zmax)
	}
	if !(b.Xmin < b.Xmax) {
		return fmt.Errorf("%w: xmin %g must be less than xmax %g", ErrBadBounds, b.Xmin, b.Xmax)
	}
	return nil
}

// Width is the largest coordinate of the box. For the seismic
// convention used here (depths negative, x starting at zero) this is
// the horizontal extent of the model.
func (b BBox) Width() float64 {
	return math.Max(math.Max(b.Zmin, b.Zmax), math.Max(b.Xmin, b.Xmax))
}

// Depth is the smallest coordinate of the box, i.e. the (negative)
// depth of the model bottom.
func (b BBox) Depth() float64 {
	return math.Min(math.Min(b.Zmin, b.Zmax), math.Min(b.Xmin, b.Xmax))
}

// SignedDistance returns a negative value inside the rectangle,
// positive outside and zero on the boundary. The value is the distance
// to the nearest of the four edge half-planes, which underestimates the
// true Euclidean distance near the corners. Mesh generation only needs
// the sign and an approximate magnitude, so the cheaper form is kept.
func (b BBox) SignedDistance(z, x float64) float64 {
	d := math.Min(z-b.Zmin, b.Zmax-z)
	d = math.Min(d, x-b.Xmin)
	d = math.Min(d, b.Xmax-x)
	return -d
}

// ParseBBox parses a comma-separated bounding box of the form
// "zmin,zmax,xmin,xmax". Between 4 and 6 values are accepted; the two
// optional trailing values are reserved for a future 3-D extension and
// are currently ignored.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 4 || len(parts) > 6 {
		return BBox{}, fmt.Errorf("%w: need 4 to 6 comma-separated values, got %d", ErrBadBounds, len(parts))
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("%w: value %d (%q) is not a number", ErrBadBounds, i, strings.TrimSpace(p))
		}
		vals[i] = v
	}
	b := BBox{Zmin: vals[0], Zmax: vals[1], Xmin: vals[2], Xmax: vals[3]}
	if err := b.Validate(); err != nil {
		return BBox{}, err
	}
	return b, nil
}
