// Package runs keeps a ledger of training runs in SQLite so that the
// artifacts on disk can be traced back to the run and scores that produced
// them.
package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded training run.
type Run struct {
	ID             int64
	ArtifactID     string
	Kind           string
	Path           string
	Accuracy       float64
	MacroF1        float64
	TrainSeconds   float64
	PredictSeconds float64
	TrainRows      int
	TestRows       int
	CreatedAt      time.Time
}

// Store is the SQLite-backed ledger.
type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if they don't exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artifact_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	path TEXT NOT NULL,
	accuracy REAL NOT NULL,
	f1_macro REAL NOT NULL,
	train_seconds REAL NOT NULL DEFAULT 0,
	predict_seconds REAL NOT NULL DEFAULT 0,
	train_rows INTEGER NOT NULL DEFAULT 0,
	test_rows INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind, id);
`

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts r and fills in its ID and, when unset, CreatedAt.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			artifact_id, kind, path, accuracy, f1_macro,
			train_seconds, predict_seconds, train_rows, test_rows, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ArtifactID, r.Kind, r.Path, r.Accuracy, r.MacroF1,
		r.TrainSeconds, r.PredictSeconds, r.TrainRows, r.TestRows,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert run id: %w", err)
	}
	return nil
}

const selectRun = `
	SELECT id, artifact_id, kind, path, accuracy, f1_macro,
		train_seconds, predict_seconds, train_rows, test_rows, created_at
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var created string
	if err := s.Scan(&r.ID, &r.ArtifactID, &r.Kind, &r.Path, &r.Accuracy, &r.MacroF1,
		&r.TrainSeconds, &r.PredictSeconds, &r.TrainRows, &r.TestRows, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("run %d created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	return &r, nil
}

// List returns the newest runs first; limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	q := selectRun + " ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Latest returns the newest run of kind, or nil when there is none.
func (s *Store) Latest(ctx context.Context, kind string) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, selectRun+" WHERE kind = ? ORDER BY id DESC LIMIT 1", kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s run: %w", kind, err)
	}
	return r, nil
}
