// Package audit persists a record of every optimization run so solves
// can be reviewed after the fact. Plain CRUD over SQLite; it never
// feeds back into the numerical core.
package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/frontier/portfolio"
)

// Run is a stored optimization run.
type Run struct {
	UUID           string
	Method         string
	Assets         int
	Converged      bool
	Iterations     int
	ExpectedReturn float64
	Volatility     float64
	SharpeRatio    float64
	Weights        []float64
	CreatedAt      time.Time
}

// Repository handles CRUD operations for optimization runs.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a run repository and ensures the schema exists.
func NewRepository(db *sql.DB, log zerolog.Logger) (*Repository, error) {
	if err := InitSchema(db); err != nil {
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "audit").Logger(),
	}, nil
}

// RecordRun satisfies portfolio.Recorder: it stores the headline
// metrics and weights of a completed solve.
func (r *Repository) RecordRun(method string, p *portfolio.OptimalPortfolio) error {
	_, err := r.Save(Run{
		Method:         method,
		Assets:         len(p.Weights),
		Converged:      p.Converged,
		Iterations:     p.Iterations,
		ExpectedReturn: p.ExpectedReturn,
		Volatility:     p.Volatility,
		SharpeRatio:    p.SharpeRatio,
		Weights:        p.Weights,
	})
	return err
}

// Save inserts a run and returns its uuid. A zero CreatedAt is filled
// with the current time.
func (r *Repository) Save(run Run) (string, error) {
	if run.UUID == "" {
		run.UUID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	blob, err := msgpack.Marshal(run.Weights)
	if err != nil {
		return "", fmt.Errorf("failed to encode weights: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO optimization_runs
			(uuid, method, assets, converged, iterations, expected_return, volatility, sharpe_ratio, weights_blob, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.UUID,
		run.Method,
		run.Assets,
		boolToInt(run.Converged),
		run.Iterations,
		run.ExpectedReturn,
		run.Volatility,
		run.SharpeRatio,
		blob,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	r.log.Debug().
		Str("uuid", run.UUID).
		Str("method", run.Method).
		Bool("converged", run.Converged).
		Msg("Recorded optimization run")
	return run.UUID, nil
}

// Get fetches a single run by uuid.
func (r *Repository) Get(id string) (*Run, error) {
	row := r.db.QueryRow(`
		SELECT uuid, method, assets, converged, iterations, expected_return, volatility, sharpe_ratio, weights_blob, created_at
		FROM optimization_runs
		WHERE uuid = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first.
func (r *Repository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT uuid, method, assets, converged, iterations, expected_return, volatility, sharpe_ratio, weights_blob, created_at
		FROM optimization_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run       Run
		converged int
		blob      []byte
		createdAt string
	)
	if err := s.Scan(
		&run.UUID,
		&run.Method,
		&run.Assets,
		&converged,
		&run.Iterations,
		&run.ExpectedReturn,
		&run.Volatility,
		&run.SharpeRatio,
		&blob,
		&createdAt,
	); err != nil {
		return nil, err
	}

	run.Converged = converged != 0
	if err := msgpack.Unmarshal(blob, &run.Weights); err != nil {
		return nil, fmt.Errorf("failed to decode weights: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
