package primary

import "context"

// RunService defines the primary port for run history.
type RunService interface {
	// ListRuns returns recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// GetRun returns a run with its recorded changes.
	GetRun(ctx context.Context, id string) (*RunDetail, error)

	// PruneChanges deletes audit entries older than days and returns how
	// many were removed.
	PruneChanges(ctx context.Context, days int) (int, error)
}

// Run represents a sweep, fix or clear run at the port boundary.
type Run struct {
	ID         string
	Kind       string
	Status     string
	DryRun     bool
	Summary    string
	Changes    int
	StartedAt  string
	FinishedAt string
}

// RunDetail is a run plus its audit entries.
type RunDetail struct {
	Run     *Run
	Changes []*Change
}

// Change is one audited mutation.
type Change struct {
	Timestamp  string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
}
