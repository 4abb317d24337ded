// Package fieldstore persists sizing-field builds to sqlite so runs can
// be compared and re-plotted later without re-reading the velocity
// model.
package fieldstore

import (
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/meshsize.report/internal/geom"
	"github.com/banshee-data/meshsize.report/internal/sizing"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrRunNotFound is returned when a run id does not exist in the store.
var ErrRunNotFound = errors.New("fieldstore: run not found")

// Store wraps the sqlite database holding sizing runs.
type Store struct {
	*sql.DB
}

// Run records one sizing build: its inputs, constraint configuration
// and summary statistics. The field values themselves are stored as a
// blob alongside.
type Run struct {
	ID        string
	CreatedAt time.Time
	Source    string // velocity model path as given on the command line
	VelUnits  string
	BBox      geom.BBox
	Opts      sizing.Options
	Nz, Nx    int
	MinSize   float64
	MaxSize   float64
	Stats     sizing.BuildStats
}

// NewStore opens (creating if needed) the store at path and applies any
// pending schema migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fieldstore: open %s: %w", path, err)
	}
	s := &Store{db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrateUp applies the embedded migrations to the latest version.
func (s *Store) migrateUp() error {
	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("fieldstore: migration driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("fieldstore: migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("fieldstore: migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("fieldstore: migration up failed: %w", err)
	}
	return nil
}

// SaveRun inserts a run and its field, returning the generated run id.
func (s *Store) SaveRun(run Run, field *sizing.Field) (string, error) {
	id := uuid.NewString()
	createdAt := time.Now().UTC()
	min, max := field.MinMax()

	// +Inf is not representable in sqlite; hmax disabled is NULL.
	hmax := sql.NullFloat64{Float64: run.Opts.Hmax, Valid: !math.IsInf(run.Opts.Hmax, 1)}

	tx, err := s.Begin()
	if err != nil {
		return "", fmt.Errorf("fieldstore: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sizing_runs (
			id, created_at, source, vel_units,
			zmin, zmax, xmin, xmax,
			hmin, hmax, wavelength_nodes, max_frequency,
			timestep, courant_max, grade,
			nz, nx, min_size, max_size,
			grade_sweeps, grade_converged, cfl_adjusted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, createdAt, run.Source, run.VelUnits,
		run.BBox.Zmin, run.BBox.Zmax, run.BBox.Xmin, run.BBox.Xmax,
		run.Opts.Hmin, hmax, run.Opts.WavelengthNodes, run.Opts.MaxFrequency,
		run.Opts.Timestep, run.Opts.CourantMax, run.Opts.Grade,
		field.Nz, field.Nx, min, max,
		run.Stats.GradeSweeps, run.Stats.GradeConverged, run.Stats.CFLAdjusted,
	)
	if err != nil {
		return "", fmt.Errorf("fieldstore: insert run: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO sizing_fields (run_id, values_blob) VALUES (?, ?)`,
		id, encodeField(field)); err != nil {
		return "", fmt.Errorf("fieldstore: insert field: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("fieldstore: commit: %w", err)
	}
	return id, nil
}

// GetRun loads a run and its sizing field by id.
func (s *Store) GetRun(id string) (*Run, *sizing.Field, error) {
	row := s.QueryRow(`
		SELECT r.id, r.created_at, r.source, r.vel_units,
			r.zmin, r.zmax, r.xmin, r.xmax,
			r.hmin, r.hmax, r.wavelength_nodes, r.max_frequency,
			r.timestep, r.courant_max, r.grade,
			r.nz, r.nx, r.min_size, r.max_size,
			r.grade_sweeps, r.grade_converged, r.cfl_adjusted,
			f.values_blob
		FROM sizing_runs r
		JOIN sizing_fields f ON f.run_id = r.id
		WHERE r.id = ?`, id)

	var run Run
	var hmax sql.NullFloat64
	var blob []byte
	err := row.Scan(&run.ID, &run.CreatedAt, &run.Source, &run.VelUnits,
		&run.BBox.Zmin, &run.BBox.Zmax, &run.BBox.Xmin, &run.BBox.Xmax,
		&run.Opts.Hmin, &hmax, &run.Opts.WavelengthNodes, &run.Opts.MaxFrequency,
		&run.Opts.Timestep, &run.Opts.CourantMax, &run.Opts.Grade,
		&run.Nz, &run.Nx, &run.MinSize, &run.MaxSize,
		&run.Stats.GradeSweeps, &run.Stats.GradeConverged, &run.Stats.CFLAdjusted,
		&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("fieldstore: load run %s: %w", id, err)
	}

	run.Opts.Hmax = math.Inf(1)
	if hmax.Valid {
		run.Opts.Hmax = hmax.Float64
	}
	run.Opts.MaxSweeps = sizing.DefaultMaxSweeps

	field, err := decodeField(run.Nz, run.Nx, blob)
	if err != nil {
		return nil, nil, fmt.Errorf("fieldstore: run %s: %w", id, err)
	}
	return &run, field, nil
}

// ListRuns returns up to limit runs, newest first, without their field
// blobs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.Query(`
		SELECT id, created_at, source, vel_units,
			zmin, zmax, xmin, xmax,
			hmin, hmax, wavelength_nodes, max_frequency,
			timestep, courant_max, grade,
			nz, nx, min_size, max_size,
			grade_sweeps, grade_converged, cfl_adjusted
		FROM sizing_runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("fieldstore: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var hmax sql.NullFloat64
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Source, &run.VelUnits,
			&run.BBox.Zmin, &run.BBox.Zmax, &run.BBox.Xmin, &run.BBox.Xmax,
			&run.Opts.Hmin, &hmax, &run.Opts.WavelengthNodes, &run.Opts.MaxFrequency,
			&run.Opts.Timestep, &run.Opts.CourantMax, &run.Opts.Grade,
			&run.Nz, &run.Nx, &run.MinSize, &run.MaxSize,
			&run.Stats.GradeSweeps, &run.Stats.GradeConverged, &run.Stats.CFLAdjusted); err != nil {
			return nil, fmt.Errorf("fieldstore: scan run: %w", err)
		}
		run.Opts.Hmax = math.Inf(1)
		if hmax.Valid {
			run.Opts.Hmax = hmax.Float64
		}
		run.Opts.MaxSweeps = sizing.DefaultMaxSweeps
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// encodeField packs the field values as little-endian float64s.
func encodeField(f *sizing.Field) []byte {
	vals := f.Values()
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// decodeField unpacks a value blob into a field of the given shape.
func decodeField(nz, nx int, blob []byte) (*sizing.Field, error) {
	if len(blob) != 8*nz*nx {
		return nil, fmt.Errorf("field blob is %d bytes, want %d for a %dx%d grid", len(blob), 8*nz*nx, nz, nx)
	}
	vals := make([]float64, nz*nx)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return sizing.NewField(nz, nx, vals)
}
