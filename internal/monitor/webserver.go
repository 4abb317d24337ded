package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/banshee-data/meshsize.report/internal/fieldstore"
)

// WebServer exposes stored sizing runs for inspection: a JSON listing
// and per-run ECharts heatmaps. Debugging surface only, no auth.
type WebServer struct {
	store *fieldstore.Store
	mux   *http.ServeMux
}

// NewWebServer builds a server over the given run store.
func NewWebServer(store *fieldstore.Store) *WebServer {
	ws := &WebServer{store: store, mux: http.NewServeMux()}
	ws.mux.HandleFunc("/api/runs", ws.handleListRuns)
	ws.mux.HandleFunc("/debug/field", ws.handleFieldHeatmap)
	return ws
}

// ServeHTTP implements http.Handler.
func (ws *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws.mux.ServeHTTP(w, r)
}

// ListenAndServe blocks serving on addr.
func (ws *WebServer) ListenAndServe(addr string) error {
	log.Printf("monitor: serving sizing runs on %s", addr)
	return http.ListenAndServe(addr, ws)
}

// runSummary is the JSON shape of a run in the listing. hmax is null
// when the cap was disabled.
type runSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Source         string    `json:"source"`
	Nz             int       `json:"nz"`
	Nx             int       `json:"nx"`
	Hmin           float64   `json:"hmin"`
	Hmax           *float64  `json:"hmax"`
	Grade          float64   `json:"grade"`
	MinSize        float64   `json:"min_size"`
	MaxSize        float64   `json:"max_size"`
	GradeConverged bool      `json:"grade_converged"`
}

func (ws *WebServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	runs, err := ws.store.ListRuns(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list runs: %v", err))
		return
	}

	summaries := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		s := runSummary{
			ID:             run.ID,
			CreatedAt:      run.CreatedAt,
			Source:         run.Source,
			Nz:             run.Nz,
			Nx:             run.Nx,
			Hmin:           run.Opts.Hmin,
			Grade:          run.Opts.Grade,
			MinSize:        run.MinSize,
			MaxSize:        run.MaxSize,
			GradeConverged: run.Stats.GradeConverged,
		}
		if !math.IsInf(run.Opts.Hmax, 1) {
			hmax := run.Opts.Hmax
			s.Hmax = &hmax
		}
		summaries = append(summaries, s)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		log.Printf("monitor: encode run listing: %v", err)
	}
}

func (ws *WebServer) handleFieldHeatmap(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("run_id")
	if id == "" {
		ws.writeJSONError(w, http.StatusBadRequest, "run_id query parameter is required")
		return
	}

	run, field, err := ws.store.GetRun(id)
	if err != nil {
		ws.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("run %s: %v", id, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	subtitle := fmt.Sprintf("source=%s run=%s %dx%d", run.Source, run.ID, run.Nz, run.Nx)
	if err := RenderHeatMapHTML(w, field, run.BBox, subtitle); err != nil {
		log.Printf("monitor: render run %s: %v", id, err)
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
