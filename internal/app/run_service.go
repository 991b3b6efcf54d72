package app

import (
	"context"
	"fmt"

	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

// RunServiceImpl implements the RunService interface.
type RunServiceImpl struct {
	runs    secondary.RunRepository
	logRepo secondary.LintLogRepository
}

// NewRunService creates a new RunService with injected dependencies.
func NewRunService(runs secondary.RunRepository, logRepo secondary.LintLogRepository) *RunServiceImpl {
	return &RunServiceImpl{
		runs:    runs,
		logRepo: logRepo,
	}
}

// ListRuns returns recent runs, newest first.
func (s *RunServiceImpl) ListRuns(ctx context.Context, limit int) ([]*primary.Run, error) {
	records, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = recordToRun(r)
	}
	return runs, nil
}

// GetRun returns a run with its recorded changes.
func (s *RunServiceImpl) GetRun(ctx context.Context, id string) (*primary.RunDetail, error) {
	record, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	logs, err := s.logRepo.List(ctx, secondary.LintLogFilters{RunID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to list changes: %w", err)
	}

	detail := &primary.RunDetail{Run: recordToRun(record)}
	for _, l := range logs {
		detail.Changes = append(detail.Changes, &primary.Change{
			Timestamp:  l.Timestamp,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Action:     l.Action,
			FieldName:  l.FieldName,
			OldValue:   l.OldValue,
			NewValue:   l.NewValue,
		})
	}
	return detail, nil
}

// PruneChanges deletes audit entries older than days.
func (s *RunServiceImpl) PruneChanges(ctx context.Context, days int) (int, error) {
	if days < 1 {
		return 0, fmt.Errorf("days must be at least 1, got %d", days)
	}
	n, err := s.logRepo.PruneOlderThan(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune changes: %w", err)
	}
	return n, nil
}

// Helper functions

func recordToRun(r *secondary.RunRecord) *primary.Run {
	return &primary.Run{
		ID:         r.ID,
		Kind:       r.Kind,
		Status:     r.Status,
		DryRun:     r.DryRun,
		Summary:    r.Summary,
		Changes:    r.Changes,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// Ensure RunServiceImpl implements the interface
var _ primary.RunService = (*RunServiceImpl)(nil)
