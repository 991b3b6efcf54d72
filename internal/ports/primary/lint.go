package primary

import "context"

// SweepService defines the primary port for lint sweeps.
type SweepService interface {
	// Sweep evaluates the configured scope and marks offending items.
	Sweep(ctx context.Context, req SweepRequest) (*SweepResponse, error)
}

// FixPackService defines the primary port for fix pack runs.
type FixPackService interface {
	// Fix applies the selected repairs over the configured scope.
	Fix(ctx context.Context, req FixRequest) (*FixResponse, error)
}

// ClearService defines the primary port for clearing lint marks.
type ClearService interface {
	// Clear removes the review tag (and optionally flags and stamps).
	Clear(ctx context.Context, req ClearRequest) (*ClearResponse, error)
}

// QueueService defines the primary port for the lint queue.
type QueueService interface {
	// OpenQueue lists items carrying the review tag and opens the queue view.
	OpenQueue(ctx context.Context, req QueueRequest) (*QueueResponse, error)
}

// SweepRequest contains parameters for a sweep.
type SweepRequest struct {
	DryRun bool
}

// SweepResponse contains the result of a sweep.
type SweepResponse struct {
	RunID           string
	ProjectsFlagged int
	TasksFlagged    int
	Findings        []*Finding
	Summary         string
	Changes         int
	Planned         []string // effect descriptions, dry runs only
}

// Finding is one flagged item at the port boundary.
type Finding struct {
	ItemID    string
	Name      string
	IsProject bool
	Reasons   []string
}

// FixRequest contains parameters for a fix pack run.
type FixRequest struct {
	AddWaitingSince   bool
	ResetWaitingSince bool
	TriageInbox       bool
	RepairDefer       bool
	DeferPolicy       string // 'today', 'clear'
	RepairDue         bool
	DuePolicy         string // 'today', 'next_week', 'clear'
	AssumeYes         bool
	DryRun            bool
}

// FixResponse contains the result of a fix pack run.
type FixResponse struct {
	RunID           string
	NothingSelected bool
	Summary         string
	Changes         int
	Planned         []string
}

// ClearRequest contains parameters for clearing lint marks.
type ClearRequest struct {
	Scope        string   // 'selection' or 'all'
	ItemIDs      []string // project or task IDs, selection scope only
	RemoveStamps bool
	RemoveFlags  bool
	AssumeYes    bool
	DryRun       bool
}

// ClearResponse contains the result of a clear.
type ClearResponse struct {
	RunID           string
	TagMissing      bool
	ProjectsCleared int
	TasksCleared    int
	Summary         string
	Changes         int
	Planned         []string
}

// QueueRequest contains parameters for opening the lint queue.
type QueueRequest struct {
	NoOpen bool // list only, do not hand the URL to the navigator
}

// QueueResponse contains the lint queue.
type QueueResponse struct {
	TagName    string
	TagMissing bool
	URL        string
	Items      []*QueueItem
}

// QueueItem is an item carrying the review tag.
type QueueItem struct {
	ID        string
	Name      string
	IsProject bool
	Flagged   bool
	Reasons   string // contents of the @lint stamp, empty if none
	LintedAt  string // date of the @lintAt stamp, empty if none
}
