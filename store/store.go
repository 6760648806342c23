// Package store keeps evaluation runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/katalvlaran/deepgo/evaluation"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("store: run not found")

// DefaultPath is used when Open gets an empty path.
const DefaultPath = "deepgo.db"

// Run is one stored evaluation outcome. TestLoss is NaN when the run had
// no training driver.
type Run struct {
	ID        string
	CreatedAt time.Time
	Root      string
	Strategy  string
	Precision float64
	Recall    float64
	F1        float64
	Included  int
	TestLoss  float64
	Functions []evaluation.FunctionReport
}

// Store persists runs to a single table; per-function reports are kept
// as a JSON blob.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("store: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		root TEXT NOT NULL,
		strategy TEXT NOT NULL,
		precision REAL NOT NULL,
		recall REAL NOT NULL,
		f1 REAL NOT NULL,
		included INTEGER NOT NULL,
		test_loss REAL,
		functions BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create runs table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Save inserts r, assigning a fresh ID and creation time when they are
// unset, and returns the stored run.
func (s *Store) Save(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	funcs, err := json.Marshal(r.Functions)
	if err != nil {
		return Run{}, fmt.Errorf("store: encode functions: %w", err)
	}
	var loss sql.NullFloat64
	if !math.IsNaN(r.TestLoss) {
		loss = sql.NullFloat64{Float64: r.TestLoss, Valid: true}
	}
	if _, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, root, strategy, precision, recall, f1, included, test_loss, functions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UnixNano(), r.Root, r.Strategy, r.Precision, r.Recall, r.F1, r.Included, loss, funcs,
	); err != nil {
		return Run{}, fmt.Errorf("store: insert run %s: %w", r.ID, err)
	}

	return r, nil
}

const selectRuns = `SELECT id, created_at, root, strategy, precision, recall, f1, included, test_loss, functions FROM runs`

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return r, err
}

// List returns all runs, newest first.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("store: select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r     Run
		nanos int64
		loss  sql.NullFloat64
		funcs []byte
	)
	if err := sc.Scan(&r.ID, &nanos, &r.Root, &r.Strategy, &r.Precision, &r.Recall, &r.F1, &r.Included, &loss, &funcs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("store: scan: %w", err)
	}
	r.CreatedAt = time.Unix(0, nanos).UTC()
	r.TestLoss = math.NaN()
	if loss.Valid {
		r.TestLoss = loss.Float64
	}
	if err := json.Unmarshal(funcs, &r.Functions); err != nil {
		return Run{}, fmt.Errorf("store: decode functions of %s: %w", r.ID, err)
	}

	return r, nil
}
