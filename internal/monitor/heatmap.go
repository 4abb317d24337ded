// Package monitor renders sizing fields for inspection: static PNG
// heatmaps via gonum/plot, interactive ECharts pages, and a small debug
// web server over the run store.
package monitor

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/meshsize.report/internal/geom"
	"github.com/banshee-data/meshsize.report/internal/sizing"
)

// fieldGrid adapts a sizing field and its domain vectors to the
// plotter.GridXYZ interface. Columns map to x, rows to z.
type fieldGrid struct {
	field *sizing.Field
	zvec  []float64
	xvec  []float64
}

func (g fieldGrid) Dims() (c, r int)   { return len(g.xvec), len(g.zvec) }
func (g fieldGrid) Z(c, r int) float64 { return g.field.At(r, c) }
func (g fieldGrid) X(c int) float64    { return g.xvec[c] }
func (g fieldGrid) Y(r int) float64    { return g.zvec[r] }

// SavePNG writes a heatmap of the sizing field to path. The axes are
// the domain coordinates in meters, colors the local edge length.
func SavePNG(field *sizing.Field, bbox geom.BBox, path string) error {
	zvec, xvec := geom.DomainVectors(bbox, field.Nz, field.Nx)

	h := plotter.NewHeatMap(fieldGrid{field: field, zvec: zvec, xvec: xvec}, moreland.SmoothBlueRed().Palette(255))

	p := plot.New()
	p.Title.Text = "Isotropic mesh sizes"
	p.X.Label.Text = "x-direction (m)"
	p.Y.Label.Text = "z-direction (m)"
	p.Add(h)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("monitor: save heatmap %s: %w", path, err)
	}
	return nil
}
