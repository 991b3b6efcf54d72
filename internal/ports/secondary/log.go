package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the run and actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error
}

// LintLogRepository defines the secondary port for lint log (audit trail) persistence.
// Logs are immutable - no Update operations, but old entries can be pruned.
type LintLogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, log *LintLogRecord) error

	// List retrieves log entries matching the given filters.
	List(ctx context.Context, filters LintLogFilters) ([]*LintLogRecord, error)

	// GetNextID returns the next available log ID.
	GetNextID(ctx context.Context) (string, error)

	// PruneOlderThan deletes log entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// LintLogRecord represents a lint log entry as stored in persistence.
type LintLogRecord struct {
	ID         string
	RunID      string
	Timestamp  string
	ActorID    string // Empty string means null
	EntityType string // 'item', 'tag'
	EntityID   string
	Action     string // 'create', 'update'
	FieldName  string // Empty string means null - for updates only
	OldValue   string // Empty string means null
	NewValue   string // Empty string means null
}

// LintLogFilters contains filter options for querying logs.
type LintLogFilters struct {
	RunID    string
	EntityID string
	Limit    int
}

// RunRepository defines the secondary port for run history persistence.
type RunRepository interface {
	// Create records the start of a run.
	Create(ctx context.Context, run *RunRecord) error

	// Finish records the outcome of a run.
	Finish(ctx context.Context, id, status, summary string, changes int) error

	// GetByID retrieves a run by its ID.
	GetByID(ctx context.Context, id string) (*RunRecord, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]*RunRecord, error)
}

// RunRecord represents a sweep, fix or clear run as stored in persistence.
type RunRecord struct {
	ID         string // UUID
	Kind       string // 'sweep', 'fix', 'clear'
	Status     string // 'running', 'completed', 'failed', 'cancelled'
	DryRun     bool
	Summary    string
	Changes    int
	StartedAt  string
	FinishedAt string // Empty string means null
}
