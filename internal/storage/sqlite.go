// Package storage records render-loop statistics in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/samdwyer/tileworld/internal/config"
)

// Store manages the SQLite database connection for run statistics.
type Store struct {
	db *sql.DB
}

// Run is one recorded invocation of the render loop.
type Run struct {
	ID           int64
	Backend      string
	Mode         string
	WorldWidth   int
	WorldHeight  int
	Frames       int
	Overruns     int
	BlitFailures int
	TargetFPS    int
	AvgFrameTime time.Duration
	AvgFPS       float64
	Wall         time.Duration
	CreatedAt    time.Time
}

// BackendSummary aggregates the runs of one backend.
type BackendSummary struct {
	Backend      string
	Runs         int
	Frames       int64
	AvgFPS       float64
	AvgFrameTime time.Duration
	LastRun      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			backend TEXT NOT NULL,
			mode TEXT NOT NULL,
			world_width INTEGER NOT NULL DEFAULT 0,
			world_height INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			overruns INTEGER NOT NULL DEFAULT 0,
			blit_failures INTEGER NOT NULL DEFAULT 0,
			target_fps INTEGER NOT NULL DEFAULT 0,
			avg_frame_us INTEGER NOT NULL DEFAULT 0,
			avg_fps REAL NOT NULL DEFAULT 0,
			wall_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_backend ON runs(backend);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.Backend == "" {
		return 0, errors.New("storage: run has no backend")
	}
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (backend, mode, world_width, world_height, frames, overruns, blit_failures, target_fps, avg_frame_us, avg_fps, wall_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Backend,
		r.Mode,
		r.WorldWidth,
		r.WorldHeight,
		r.Frames,
		r.Overruns,
		r.BlitFailures,
		r.TargetFPS,
		r.AvgFrameTime.Microseconds(),
		r.AvgFPS,
		r.Wall.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty backend
// matches every backend.
func (s *Store) RecentRuns(backend string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, backend, mode, world_width, world_height, frames, overruns, blit_failures,
		        target_fps, avg_frame_us, avg_fps, wall_ms, created_at
		 FROM runs
		 WHERE ? = '' OR backend = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		backend, backend, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var frameUS, wallMS int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.Backend,
			&r.Mode,
			&r.WorldWidth,
			&r.WorldHeight,
			&r.Frames,
			&r.Overruns,
			&r.BlitFailures,
			&r.TargetFPS,
			&frameUS,
			&r.AvgFPS,
			&wallMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.AvgFrameTime = time.Duration(frameUS) * time.Microsecond
		r.Wall = time.Duration(wallMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// Summaries aggregates runs per backend, ordered by backend name.
func (s *Store) Summaries() ([]BackendSummary, error) {
	rows, err := s.db.Query(
		`SELECT backend, COUNT(*), SUM(frames), AVG(avg_fps), AVG(avg_frame_us), MAX(created_at)
		 FROM runs
		 GROUP BY backend
		 ORDER BY backend`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot summarize runs: %w", err)
	}
	defer rows.Close()

	var out []BackendSummary
	for rows.Next() {
		var b BackendSummary
		var frameUS float64
		var lastRun any
		if err := rows.Scan(&b.Backend, &b.Runs, &b.Frames, &b.AvgFPS, &frameUS, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan summary row: %w", err)
		}
		b.AvgFrameTime = time.Duration(frameUS) * time.Microsecond
		b.LastRun = parseTime(lastRun)
		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearRuns deletes every recorded run.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
