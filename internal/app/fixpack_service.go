package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/fixpack"
	"github.com/example/revlint/internal/core/scope"
	"github.com/example/revlint/internal/models"
	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

const nothingSelectedSummary = "No fixes selected. Nothing to do."

// FixPackServiceImpl implements the FixPackService interface.
type FixPackServiceImpl struct {
	store     secondary.ItemStore
	prefs     secondary.PreferenceStore
	logWriter secondary.LogWriter
	executor  EffectExecutor
	prompter  secondary.Prompter
	tracker   runTracker
	logger    *slog.Logger
	now       func() time.Time
}

// NewFixPackService creates a new FixPackService with injected dependencies.
func NewFixPackService(
	store secondary.ItemStore,
	prefs secondary.PreferenceStore,
	logWriter secondary.LogWriter,
	executor EffectExecutor,
	prompter secondary.Prompter,
	runs secondary.RunRepository,
	logger *slog.Logger,
) *FixPackServiceImpl {
	return &FixPackServiceImpl{
		store:     store,
		prefs:     prefs,
		logWriter: logWriter,
		executor:  executor,
		prompter:  prompter,
		tracker:   runTracker{runs: runs, logger: logger},
		logger:    logger,
		now:       time.Now,
	}
}

// Fix applies the selected repairs over the configured scope.
// The user confirms the selection before anything is touched.
func (s *FixPackServiceImpl) Fix(ctx context.Context, req primary.FixRequest) (*primary.FixResponse, error) {
	cfg, err := config.Load(ctx, s.prefs)
	if err != nil {
		return nil, err
	}

	opts := fixpack.Options{
		AddWaitingSince:   req.AddWaitingSince,
		ResetWaitingSince: req.ResetWaitingSince,
		TriageInbox:       req.TriageInbox,
		RepairDefer:       req.RepairDefer,
		DeferPolicy:       fixpack.DeferPolicy(req.DeferPolicy),
		RepairDue:         req.RepairDue,
		DuePolicy:         fixpack.DuePolicy(req.DuePolicy),
	}.ForConfig(cfg)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !opts.Any() {
		return &primary.FixResponse{NothingSelected: true, Summary: nothingSelectedSummary}, nil
	}

	if !req.AssumeYes && !req.DryRun {
		ok, err := s.prompter.Confirm(ctx, confirmFixMessage(opts))
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	ctx, runID, err := s.tracker.start(ctx, runKindFix, req.DryRun)
	if err != nil {
		return nil, err
	}

	resp, err := s.fix(ctx, cfg, opts, req.DryRun)
	if err != nil {
		s.tracker.finish(ctx, runID, err, "", 0)
		return nil, err
	}
	resp.RunID = runID
	s.tracker.finish(ctx, runID, nil, resp.Summary, resp.Changes)
	return resp, nil
}

func (s *FixPackServiceImpl) fix(ctx context.Context, cfg config.Config, opts fixpack.Options, dryRun bool) (*primary.FixResponse, error) {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	projects, err := scope.ResolveProjects(cat, cfg)
	if err != nil {
		return nil, err
	}

	var triageTag models.Tag
	if opts.TriageInbox {
		triageTag, err = findOrCreateTag(ctx, s.store, s.logWriter, cfg.TriageTagName, !dryRun)
		if err != nil {
			return nil, err
		}
	}

	// The fix pack repairs every in-scope task, whether or not task linting is on.
	tasks := scope.ResolveTasksForLint(cat, projects)

	plan := fixpack.GeneratePlan(fixpack.PlanInput{
		Projects:  projects,
		Tasks:     tasks,
		Config:    cfg,
		Options:   opts,
		TriageTag: triageTag,
		Now:       s.now(),
	})

	resp := &primary.FixResponse{Summary: plan.Counts.Summary()}
	if dryRun {
		resp.Planned = describeEffects(plan.Effects)
		return resp, nil
	}

	if err := s.executor.Execute(ctx, plan.Effects); err != nil {
		return nil, err
	}
	resp.Changes = countChanges(plan.Effects)
	s.logger.Info("fix pack complete", "repairs", plan.Counts.Total(), "changes", resp.Changes)
	return resp, nil
}

func confirmFixMessage(opts fixpack.Options) string {
	var fixes []string
	if opts.AddWaitingSince {
		fixes = append(fixes, "add missing @waitingSince stamps")
	}
	if opts.ResetWaitingSince {
		fixes = append(fixes, "reset stale @waitingSince stamps")
	}
	if opts.TriageInbox {
		fixes = append(fixes, "tag old inbox items for triage")
	}
	if opts.RepairDefer {
		fixes = append(fixes, fmt.Sprintf("repair stale defer dates (%s)", opts.DeferPolicy))
	}
	if opts.RepairDue {
		fixes = append(fixes, fmt.Sprintf("repair past due dates (%s)", opts.DuePolicy))
	}
	return "Apply fixes: " + strings.Join(fixes, "; ") + "?"
}

// Ensure FixPackServiceImpl implements the interface
var _ primary.FixPackService = (*FixPackServiceImpl)(nil)
