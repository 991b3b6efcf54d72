// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/revlint/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create records the start of a run.
func (r *RunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	status := run.Status
	if status == "" {
		status = "running"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO lint_runs (id, kind, status, dry_run) VALUES (?, ?, ?, ?)",
		run.ID, run.Kind, status, run.DryRun,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// Finish records the outcome of a run.
func (r *RunRepository) Finish(ctx context.Context, id, status, summary string, changes int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE lint_runs SET status = ?, summary = ?, changes = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, summary, changes, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("run %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, kind, status, dry_run, summary, changes, started_at, finished_at FROM lint_runs WHERE id = ?",
		id,
	)
	record, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return record, nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	query := "SELECT id, kind, status, dry_run, summary, changes, started_at, finished_at FROM lint_runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*secondary.RunRecord, error) {
	var (
		summary    sql.NullString
		startedAt  time.Time
		finishedAt sql.NullTime
	)

	record := &secondary.RunRecord{}
	err := row.Scan(&record.ID, &record.Kind, &record.Status, &record.DryRun, &summary, &record.Changes, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	record.Summary = summary.String
	record.StartedAt = startedAt.Format(time.RFC3339)
	if finishedAt.Valid {
		record.FinishedAt = finishedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Ensure RunRepository implements the interface
var _ secondary.RunRepository = (*RunRepository)(nil)
