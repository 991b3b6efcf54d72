package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/clearmarks"
	"github.com/example/revlint/internal/core/scope"
	"github.com/example/revlint/internal/models"
	"github.com/example/revlint/internal/ports/primary"
	"github.com/example/revlint/internal/ports/secondary"
)

// ErrInvalidScope is returned for an unknown clear scope or an empty selection.
var ErrInvalidScope = errors.New("invalid clear scope")

// ClearServiceImpl implements the ClearService interface.
type ClearServiceImpl struct {
	store    secondary.ItemStore
	prefs    secondary.PreferenceStore
	executor EffectExecutor
	prompter secondary.Prompter
	tracker  runTracker
	logger   *slog.Logger
}

// NewClearService creates a new ClearService with injected dependencies.
func NewClearService(
	store secondary.ItemStore,
	prefs secondary.PreferenceStore,
	executor EffectExecutor,
	prompter secondary.Prompter,
	runs secondary.RunRepository,
	logger *slog.Logger,
) *ClearServiceImpl {
	return &ClearServiceImpl{
		store:    store,
		prefs:    prefs,
		executor: executor,
		prompter: prompter,
		tracker:  runTracker{runs: runs, logger: logger},
		logger:   logger,
	}
}

// Clear removes the review tag from the selection or from every in-scope
// item. The review tag is looked up by name and never created.
func (s *ClearServiceImpl) Clear(ctx context.Context, req primary.ClearRequest) (*primary.ClearResponse, error) {
	target := clearmarks.Scope(req.Scope)
	switch target {
	case clearmarks.ScopeSelection:
		if len(req.ItemIDs) == 0 {
			return nil, fmt.Errorf("%w: selection is empty", ErrInvalidScope)
		}
	case clearmarks.ScopeAll:
	default:
		return nil, fmt.Errorf("%w: %q (want selection or all)", ErrInvalidScope, req.Scope)
	}

	cfg, err := config.Load(ctx, s.prefs)
	if err != nil {
		return nil, err
	}

	tag, err := s.store.FindTagByName(ctx, cfg.ReviewTagName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tag %q: %w", cfg.ReviewTagName, err)
	}
	if tag == nil {
		return &primary.ClearResponse{
			TagMissing: true,
			Summary:    fmt.Sprintf("The lint tag %q does not exist. Nothing to clear.", cfg.ReviewTagName),
		}, nil
	}

	if !req.AssumeYes && !req.DryRun {
		ok, err := s.prompter.Confirm(ctx, confirmClearMessage(target, len(req.ItemIDs), tag.Name, req))
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	ctx, runID, err := s.tracker.start(ctx, runKindClear, req.DryRun)
	if err != nil {
		return nil, err
	}

	resp, err := s.clear(ctx, cfg, *tag, target, req)
	if err != nil {
		s.tracker.finish(ctx, runID, err, "", 0)
		return nil, err
	}
	resp.RunID = runID
	s.tracker.finish(ctx, runID, nil, resp.Summary, resp.Changes)
	return resp, nil
}

func (s *ClearServiceImpl) clear(ctx context.Context, cfg config.Config, tag models.Tag, target clearmarks.Scope, req primary.ClearRequest) (*primary.ClearResponse, error) {
	var projects []*models.Project
	var tasks []*models.Item
	var err error
	if target == clearmarks.ScopeSelection {
		projects, tasks, err = s.resolveSelection(ctx, req.ItemIDs)
	} else {
		projects, tasks, err = s.resolveAll(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}

	plan := clearmarks.GeneratePlan(clearmarks.PlanInput{
		Projects:     projects,
		Tasks:        tasks,
		ReviewTag:    tag,
		RemoveFlags:  req.RemoveFlags,
		RemoveStamps: req.RemoveStamps,
	})

	resp := &primary.ClearResponse{
		ProjectsCleared: plan.Counts.Projects,
		TasksCleared:    plan.Counts.Tasks,
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
	s.logger.Info("clear complete", "scope", target, "projects", resp.ProjectsCleared, "tasks", resp.TasksCleared)
	return resp, nil
}

// resolveSelection looks each ID up as a project first, then as an item. A
// project root item resolves to its project. Each item is cleared once.
func (s *ClearServiceImpl) resolveSelection(ctx context.Context, ids []string) ([]*models.Project, []*models.Item, error) {
	var projects []*models.Project
	var tasks []*models.Item
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}

		p, err := s.getProject(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			item, err := s.store.GetItem(ctx, id)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to get item %s: %w", id, err)
			}
			if !isProjectRoot(item) {
				seen[item.ID] = true
				tasks = append(tasks, item)
				continue
			}
			if p, err = s.getProject(ctx, item.ProjectID); err != nil {
				return nil, nil, err
			}
			if p == nil {
				return nil, nil, fmt.Errorf("failed to get project %s: %w", item.ProjectID, secondary.ErrNotFound)
			}
		}

		key := p.ID
		if p.Root != nil {
			key = p.Root.ID
		}
		if seen[key] {
			seen[id] = true
			continue
		}
		seen[id], seen[key], seen[p.ID] = true, true, true
		projects = append(projects, p)
	}
	return projects, tasks, nil
}

// getProject returns nil without error when id names no project.
func (s *ClearServiceImpl) getProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

func isProjectRoot(item *models.Item) bool {
	return item.ProjectID != "" && item.ParentID == ""
}

func (s *ClearServiceImpl) resolveAll(ctx context.Context, cfg config.Config) ([]*models.Project, []*models.Item, error) {
	cat, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load items: %w", err)
	}
	projects, err := scope.ResolveProjects(cat, cfg)
	if err != nil {
		return nil, nil, err
	}
	return projects, scope.ResolveTasksForLint(cat, projects), nil
}

func confirmClearMessage(target clearmarks.Scope, selected int, tagName string, req primary.ClearRequest) string {
	what := "every in-scope item"
	if target == clearmarks.ScopeSelection {
		what = fmt.Sprintf("%d selected item(s)", selected)
	}
	msg := fmt.Sprintf("Remove %q from %s", tagName, what)
	if req.RemoveFlags {
		msg += ", unflag them"
	}
	if req.RemoveStamps {
		msg += ", strip lint stamps"
	}
	return msg + "?"
}

// Ensure ClearServiceImpl implements the interface
var _ primary.ClearService = (*ClearServiceImpl)(nil)
