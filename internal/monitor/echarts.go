package monitor

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/meshsize.report/internal/geom"
	"github.com/banshee-data/meshsize.report/internal/sizing"
)

// maxHeatMapCells caps the number of cells sent to the browser; larger
// fields are downsampled by stride.
const maxHeatMapCells = 20000

// viridis is the color ramp used for size values.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// RenderHeatMapHTML writes an interactive ECharts heatmap of the sizing
// field to w. subtitle is shown under the chart title, typically the
// source file and run id.
func RenderHeatMapHTML(w io.Writer, field *sizing.Field, bbox geom.BBox, subtitle string) error {
	zvec, xvec := geom.DomainVectors(bbox, field.Nz, field.Nx)

	// Downsample by stride to keep the page responsive on dense models.
	stride := 1
	if cells := field.Nz * field.Nx; cells > maxHeatMapCells {
		stride = int(math.Ceil(math.Sqrt(float64(cells) / float64(maxHeatMapCells))))
	}

	var xLabels, zLabels []string
	for j := 0; j < field.Nx; j += stride {
		xLabels = append(xLabels, fmt.Sprintf("%.0f", xvec[j]))
	}
	for i := 0; i < field.Nz; i += stride {
		zLabels = append(zLabels, fmt.Sprintf("%.0f", zvec[i]))
	}

	data := make([]opts.HeatMapData, 0, len(xLabels)*len(zLabels))
	for zi, i := 0, 0; i < field.Nz; zi, i = zi+1, i+stride {
		for xi, j := 0, 0; j < field.Nx; xi, j = xi+1, j+stride {
			data = append(data, opts.HeatMapData{Value: []interface{}{xi, zi, field.At(i, j)}})
		}
	}

	min, max := field.MinMax()

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Mesh sizing field", Theme: "dark", Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Isotropic mesh sizes (m)", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels, Name: "x (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: zLabels, Name: "z (m)", NameLocation: "middle", NameGap: 45}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(min),
			Max:        float32(max),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.AddSeries("edge length", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("monitor: render heatmap: %w", err)
	}
	return nil
}
