package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/lint"
	"github.com/example/revlint/internal/core/scope"
	"github.com/example/revlint/internal/core/sweep"
	"github.com/example/revlint/internal/models"
	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

// SweepServiceImpl implements the SweepService interface.
type SweepServiceImpl struct {
	store     secondary.ItemStore
	prefs     secondary.PreferenceStore
	logWriter secondary.LogWriter
	executor  EffectExecutor
	tracker   runTracker
	logger    *slog.Logger
	now       func() time.Time
}

// NewSweepService creates a new SweepService with injected dependencies.
func NewSweepService(
	store secondary.ItemStore,
	prefs secondary.PreferenceStore,
	logWriter secondary.LogWriter,
	executor EffectExecutor,
	runs secondary.RunRepository,
	logger *slog.Logger,
) *SweepServiceImpl {
	return &SweepServiceImpl{
		store:     store,
		prefs:     prefs,
		logWriter: logWriter,
		executor:  executor,
		tracker:   runTracker{runs: runs, logger: logger},
		logger:    logger,
		now:       time.Now,
	}
}

// Sweep evaluates the configured scope and marks offending items.
func (s *SweepServiceImpl) Sweep(ctx context.Context, req primary.SweepRequest) (*primary.SweepResponse, error) {
	cfg, err := config.Load(ctx, s.prefs)
	if err != nil {
		return nil, err
	}

	ctx, runID, err := s.tracker.start(ctx, runKindSweep, req.DryRun)
	if err != nil {
		return nil, err
	}

	resp, err := s.sweep(ctx, cfg, req)
	if err != nil {
		s.tracker.finish(ctx, runID, err, "", 0)
		return nil, err
	}
	resp.RunID = runID
	s.tracker.finish(ctx, runID, nil, resp.Summary, resp.Changes)
	return resp, nil
}

func (s *SweepServiceImpl) sweep(ctx context.Context, cfg config.Config, req primary.SweepRequest) (*primary.SweepResponse, error) {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	projects, err := scope.ResolveProjects(cat, cfg)
	if err != nil {
		return nil, err
	}

	// The review tag must exist before anything is marked.
	reviewTag, err := findOrCreateTag(ctx, s.store, s.logWriter, cfg.ReviewTagName, !req.DryRun)
	if err != nil {
		return nil, err
	}

	var tasks []*models.Item
	if cfg.LintTasksEnabled {
		tasks = scope.ResolveTasksForLint(cat, projects)
	}
	s.logger.Debug("sweep scope resolved", "mode", cfg.ScopeMode, "projects", len(projects), "tasks", len(tasks))

	plan := sweep.GeneratePlan(sweep.PlanInput{
		Projects:  projects,
		Tasks:     tasks,
		Config:    cfg,
		ReviewTag: reviewTag,
		Now:       s.now(),
	})

	s.logger.Debug("sweep reasons", plan.Counts.ReasonAttrs()...)

	resp := &primary.SweepResponse{
		ProjectsFlagged: plan.Counts.ProjectsFlagged,
		TasksFlagged:    plan.Counts.TasksFlagged,
		Findings:        findingsToPort(plan.Findings),
		Summary:         plan.Counts.Summary(),
	}

	if req.DryRun {
		resp.Planned = describeEffects(plan.Effects)
		return resp, nil
	}

	if err := s.executor.Execute(ctx, plan.Effects); err != nil {
		return nil, err
	}
	resp.Changes = countChanges(plan.Effects)
	s.logger.Info("sweep complete", "projects_flagged", resp.ProjectsFlagged, "tasks_flagged", resp.TasksFlagged, "changes", resp.Changes)
	return resp, nil
}

func findingsToPort(findings []sweep.Finding) []*primary.Finding {
	out := make([]*primary.Finding, 0, len(findings))
	for _, f := range findings {
		out = append(out, &primary.Finding{
			ItemID:    f.ItemID,
			Name:      f.Name,
			IsProject: f.IsProject,
			Reasons:   lint.Strings(f.Reasons),
		})
	}
	return out
}

// Ensure SweepServiceImpl implements the interface
var _ primary.SweepService = (*SweepServiceImpl)(nil)
