// Command meshsize builds an isotropic mesh sizing field from a SEG-Y
// velocity model, applying wavelength, resolution, gradation and CFL
// constraints, and optionally plots, persists or serves the result.
//
// Examples:
//
//	meshsize -segy vel_z6.25m_x12.5m_exact.segy -bbox "-12e3,0,0,67e3" -hmin 10 -wl 5 -grade 5 -dt 0.001 -png sizes.png
//	meshsize -db runs.db -serve :8080
package main

import (
	"flag"
	"log"
	"os"

	"github.com/banshee-data/meshsize.report/internal/fieldstore"
	"github.com/banshee-data/meshsize.report/internal/geom"
	"github.com/banshee-data/meshsize.report/internal/monitor"
	"github.com/banshee-data/meshsize.report/internal/segy"
	"github.com/banshee-data/meshsize.report/internal/sizing"
	"github.com/banshee-data/meshsize.report/internal/units"
)

var (
	segyPath = flag.String("segy", "", "path to the SEG-Y velocity model")
	bboxStr  = flag.String("bbox", "", `domain bounding box "zmin,zmax,xmin,xmax" in meters`)
	velUnits = flag.String("units", units.MPS, "velocity units in the model file ("+units.GetValidUnitsString()+")")
	hmin     = flag.Float64("hmin", 0, "minimum edge length in meters")
	hmax     = flag.Float64("hmax", 0, "maximum edge length in meters (0 = disabled)")
	wl       = flag.Float64("wl", 0, "vertices per wavelength (0 = disabled)")
	freq     = flag.Float64("freq", sizing.DefaultMaxFrequency, "maximum source frequency in Hz for the wavelength criterion")
	dt       = flag.Float64("dt", 0, "desired stable timestep in seconds (0 = disabled)")
	crMax    = flag.Float64("cr-max", sizing.DefaultCourantMax, "courant number the timestep must satisfy")
	grade    = flag.Float64("grade", 0, "maximum size variation per unit distance (0 = disabled)")
	dbPath   = flag.String("db", "", "sqlite database to record the run in (optional)")
	pngPath  = flag.String("png", "", "write a PNG heatmap to this path (optional)")
	htmlPath = flag.String("html", "", "write an ECharts HTML heatmap to this path (optional)")
	listen   = flag.String("serve", "", "serve stored runs on this address (requires -db)")
)

func main() {
	flag.Parse()

	var store *fieldstore.Store
	if *dbPath != "" {
		var err error
		store, err = fieldstore.NewStore(*dbPath)
		if err != nil {
			log.Fatalf("failed to open run store: %v", err)
		}
		defer store.Close()
	}

	// Serve-only mode: inspect previously recorded runs.
	if *segyPath == "" {
		if *listen == "" {
			flag.Usage()
			os.Exit(2)
		}
		if store == nil {
			log.Fatal("-serve without -segy requires -db")
		}
		log.Fatal(monitor.NewWebServer(store).ListenAndServe(*listen))
	}

	if *bboxStr == "" {
		log.Fatal("-bbox is required")
	}
	bbox, err := geom.ParseBBox(*bboxStr)
	if err != nil {
		log.Fatalf("invalid bounding box: %v", err)
	}

	opts := sizing.DefaultOptions(*hmin)
	opts.WavelengthNodes = *wl
	opts.MaxFrequency = *freq
	opts.Timestep = *dt
	opts.CourantMax = *crMax
	opts.Grade = *grade
	if *hmax > 0 {
		opts.Hmax = *hmax
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("invalid constraints: %v", err)
	}

	grid, err := segy.Read(*segyPath, *velUnits)
	if err != nil {
		log.Fatalf("failed to read velocity model: %v", err)
	}
	vmin, vmax := grid.MinMax()
	log.Printf("loaded %s: %dx%d samples, velocities %.0f-%.0f m/s", *segyPath, grid.Nz, grid.Nx, vmin, vmax)

	field, stats, err := sizing.Build(grid, bbox, opts)
	if err != nil {
		log.Fatalf("failed to build sizing field: %v", err)
	}
	hlo, hhi := field.MinMax()
	log.Printf("sizing field built: edge lengths %.1f-%.1f m, %d cells enlarged for CFL", hlo, hhi, stats.CFLAdjusted)
	if !stats.GradeConverged {
		log.Printf("warning: gradient limiter hit the sweep cap; field is best-effort graded")
	}

	if *pngPath != "" {
		if err := monitor.SavePNG(field, bbox, *pngPath); err != nil {
			log.Fatalf("failed to write PNG: %v", err)
		}
		log.Printf("wrote %s", *pngPath)
	}

	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			log.Fatalf("failed to create HTML output: %v", err)
		}
		if err := monitor.RenderHeatMapHTML(f, field, bbox, *segyPath); err != nil {
			f.Close()
			log.Fatalf("failed to write HTML: %v", err)
		}
		f.Close()
		log.Printf("wrote %s", *htmlPath)
	}

	if store != nil {
		run := fieldstore.Run{
			Source:   *segyPath,
			VelUnits: *velUnits,
			BBox:     bbox,
			Opts:     opts,
			Stats:    stats,
		}
		id, err := store.SaveRun(run, field)
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
		log.Printf("recorded run %s", id)
	}

	if *listen != "" {
		if store == nil {
			log.Fatal("-serve requires -db")
		}
		log.Fatal(monitor.NewWebServer(store).ListenAndServe(*listen))
	}
}
