package geom

// SizingQuery pairs the two query functions the mesh generator needs:
// Size, the interpolated local edge length, and Distance, the signed
// distance to the domain boundary. Both are pure functions of the
// finalized build outputs.
type SizingQuery struct {
	fh *Interpolant
	fd BBox
}

// NewSizingQuery wraps a finalized interpolant and domain box.
func NewSizingQuery(fh *Interpolant, bbox BBox) SizingQuery {
	return SizingQuery{fh: fh, fd: bbox}
}

// Size returns the desired edge length at (z, x), NaN outside the grid.
func (q SizingQuery) Size(z, x float64) float64 {
	return q.fh.At(z, x)
}

// Distance returns the signed distance to the domain boundary, negative
// inside.
func (q SizingQuery) Distance(z, x float64) float64 {
	return q.fd.SignedDistance(z, x)
}
