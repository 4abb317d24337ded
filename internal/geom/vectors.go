package geom

import "gonum.org/v1/gonum/floats"

// DomainVectors returns the grid coordinate vectors for an nz-by-nx
// model inside bbox. The z vector runs from the model bottom up to the
// free surface at zero; the x vector runs from zero to the model width.
// Both are evenly spaced and ascending.
func DomainVectors(bbox BBox, nz, nx int) (zvec, xvec []float64) {
	zvec = floats.Span(make([]float64, nz), bbox.Depth(), 0)
	xvec = floats.Span(make([]float64, nx), 0, bbox.Width())
	return zvec, xvec
}
