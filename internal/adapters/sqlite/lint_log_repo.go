// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/revlint/internal/ports/secondary"
)

// LintLogRepository implements secondary.LintLogRepository with SQLite.
type LintLogRepository struct {
	db *sql.DB
}

// NewLintLogRepository creates a new SQLite lint log repository.
func NewLintLogRepository(db *sql.DB) *LintLogRepository {
	return &LintLogRepository{db: db}
}

// Create persists a new lint log entry.
func (r *LintLogRepository) Create(ctx context.Context, log *secondary.LintLogRecord) error {
	var actorID, fieldName, oldValue, newValue sql.NullString
	if log.ActorID != "" {
		actorID = sql.NullString{String: log.ActorID, Valid: true}
	}
	if log.FieldName != "" {
		fieldName = sql.NullString{String: log.FieldName, Valid: true}
	}
	if log.OldValue != "" {
		oldValue = sql.NullString{String: log.OldValue, Valid: true}
	}
	if log.NewValue != "" {
		newValue = sql.NullString{String: log.NewValue, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lint_log (id, run_id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.RunID,
		actorID,
		log.EntityType,
		log.EntityID,
		log.Action,
		fieldName,
		oldValue,
		newValue,
	)
	if err != nil {
		return fmt.Errorf("failed to create lint log: %w", err)
	}

	return nil
}

// List retrieves log entries matching the given filters, oldest first.
func (r *LintLogRepository) List(ctx context.Context, filters secondary.LintLogFilters) ([]*secondary.LintLogRecord, error) {
	query := `SELECT id, run_id, timestamp, actor_id, entity_type, entity_id, action, field_name, old_value, new_value FROM lint_log WHERE 1=1`
	args := []any{}

	if filters.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, filters.RunID)
	}

	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	query += " ORDER BY timestamp ASC, id ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lint logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.LintLogRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			timestamp time.Time
		)

		record := &secondary.LintLogRecord{}
		err := rows.Scan(&record.ID,
			&record.RunID,
			&timestamp,
			&actorID,
			&record.EntityType,
			&record.EntityID,
			&record.Action,
			&fieldName,
			&oldValue,
			&newValue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lint log: %w", err)
		}
		record.Timestamp = timestamp.Format(time.RFC3339)
		record.ActorID = actorID.String
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String

		logs = append(logs, record)
	}

	return logs, rows.Err()
}

// GetNextID returns the next available log ID.
func (r *LintLogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("LL-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM lint_log", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next lint log ID: %w", err)
	}

	return fmt.Sprintf("LL-%04d", maxID+1), nil
}

// PruneOlderThan deletes log entries older than the given number of days.
func (r *LintLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM lint_log WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune lint logs: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}

// Ensure LintLogRepository implements the interface
var _ secondary.LintLogRepository = (*LintLogRepository)(nil)
