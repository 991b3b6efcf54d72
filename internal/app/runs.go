package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/example/revlint/internal/ctxutil"
	"github.com/example/revlint/internal/models"
	"github.com/example/revlint/internal/ports/secondary"
)

// ErrRequiredTag is returned when a tag a run depends on cannot be found or
// created. Nothing has been mutated when it is returned.
var ErrRequiredTag = errors.New("required tag unavailable")

// ErrCancelled is returned when the user declines a confirmation prompt.
var ErrCancelled = errors.New("cancelled")

// Run kinds
const (
	runKindSweep = "sweep"
	runKindFix   = "fix"
	runKindClear = "clear"
)

// Run statuses
const (
	runStatusRunning   = "running"
	runStatusCompleted = "completed"
	runStatusFailed    = "failed"
	runStatusCancelled = "cancelled"
)

// runTracker records the lifecycle of a run in the run repository.
// A nil repository disables tracking.
type runTracker struct {
	runs   secondary.RunRepository
	logger *slog.Logger
}

// start records a new running run and returns a context carrying its ID.
func (t runTracker) start(ctx context.Context, kind string, dryRun bool) (context.Context, string, error) {
	id := uuid.NewString()
	if t.runs != nil {
		record := &secondary.RunRecord{
			ID:     id,
			Kind:   kind,
			Status: runStatusRunning,
			DryRun: dryRun,
		}
		if err := t.runs.Create(ctx, record); err != nil {
			return ctx, "", fmt.Errorf("failed to record run: %w", err)
		}
	}
	t.logger.Debug("run started", "run", id, "kind", kind, "dry_run", dryRun)
	return ctxutil.WithRunID(ctx, id), id, nil
}

// finish records the outcome of a run. runErr decides the status.
func (t runTracker) finish(ctx context.Context, id string, runErr error, summary string, changes int) {
	status := runStatusCompleted
	switch {
	case errors.Is(runErr, ErrCancelled):
		status = runStatusCancelled
	case runErr != nil:
		status = runStatusFailed
		summary = runErr.Error()
	}
	t.logger.Debug("run finished", "run", id, "status", status, "changes", changes)
	if t.runs == nil {
		return
	}
	if err := t.runs.Finish(ctx, id, status, summary, changes); err != nil {
		t.logger.Warn("failed to record run outcome", "run", id, "error", err)
	}
}

// findOrCreateTag looks a tag up by name and creates it when missing.
// With create false a missing tag is returned unsaved, with an empty ID.
func findOrCreateTag(ctx context.Context, store secondary.ItemStore, logWriter secondary.LogWriter, name string, create bool) (models.Tag, error) {
	if name == "" {
		return models.Tag{}, fmt.Errorf("%w: tag name is empty", ErrRequiredTag)
	}
	tag, err := store.FindTagByName(ctx, name)
	if err != nil {
		return models.Tag{}, fmt.Errorf("%w: %q: %v", ErrRequiredTag, name, err)
	}
	if tag != nil {
		return *tag, nil
	}
	if !create {
		return models.Tag{Name: name}, nil
	}
	tag, err = store.CreateTag(ctx, name)
	if err != nil {
		return models.Tag{}, fmt.Errorf("%w: %q: %v", ErrRequiredTag, name, err)
	}
	if err := logWriter.LogCreate(ctx, "tag", tag.ID); err != nil {
		return models.Tag{}, fmt.Errorf("failed to log tag creation: %w", err)
	}
	return *tag, nil
}
