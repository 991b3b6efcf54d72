// Package scope resolves which projects and tasks a run operates on.
// Resolution is pure: it reads a catalog snapshot and the configuration.
package scope

import (
	"errors"
	"fmt"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/lint"
	"github.com/example/revlint/internal/models"
)

// ErrScopeNotFound is returned when the configured scope folder or tag is not
// set or no longer exists.
var ErrScopeNotFound = errors.New("scope not found")

// NotFoundError describes which scope target failed to resolve.
type NotFoundError struct {
	Mode config.ScopeMode
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("no %s configured for %s", e.Label(), e.Mode)
	}
	return fmt.Sprintf("configured %s %s no longer exists", e.Label(), e.ID)
}

// Unwrap lets errors.Is match ErrScopeNotFound.
func (e *NotFoundError) Unwrap() error { return ErrScopeNotFound }

// Label returns "folder" or "tag".
func (e *NotFoundError) Label() string {
	if e.Mode == config.ScopeFolder {
		return "folder"
	}
	return "tag"
}

// ResolveProjects selects the candidate projects for cfg's scope mode, then
// drops projects whose root carries an exclude tag. Output order follows the
// catalog.
func ResolveProjects(cat *models.Catalog, cfg config.Config) ([]*models.Project, error) {
	statusOK := func(p *models.Project) bool {
		if p.Status == models.ProjectActive {
			return true
		}
		return cfg.IncludeOnHoldProjects && p.Status == models.ProjectOnHold
	}

	var candidates []*models.Project

	switch cfg.ScopeMode {
	case config.ScopeFolder:
		if cfg.ScopeFolderID == "" || cat.FindFolder(cfg.ScopeFolderID) == nil {
			return nil, &NotFoundError{Mode: cfg.ScopeMode, ID: cfg.ScopeFolderID}
		}
		inFolder := folderClosure(cat.Folders, cfg.ScopeFolderID)
		for _, p := range cat.Projects {
			if p.FolderID != "" && inFolder[p.FolderID] && statusOK(p) {
				candidates = append(candidates, p)
			}
		}

	case config.ScopeTag:
		if cfg.ScopeTagID == "" {
			return nil, &NotFoundError{Mode: cfg.ScopeMode}
		}
		if _, ok := cat.FindTag(cfg.ScopeTagID); !ok {
			return nil, &NotFoundError{Mode: cfg.ScopeMode, ID: cfg.ScopeTagID}
		}
		for _, p := range cat.Projects {
			if statusOK(p) && p.Root != nil && p.Root.HasTagID(cfg.ScopeTagID) {
				candidates = append(candidates, p)
			}
		}

	default:
		for _, p := range cat.Projects {
			if statusOK(p) {
				candidates = append(candidates, p)
			}
		}
	}

	exclude := cfg.ExcludeNames()
	result := make([]*models.Project, 0, len(candidates))
	for _, p := range candidates {
		if !ShouldExcludeProject(p, exclude) {
			result = append(result, p)
		}
	}
	return result, nil
}

// ResolveTasksForLint returns the remaining non-root tasks of projects
// followed by the remaining inbox tasks, deduplicated by ID in first-seen
// order. Exclude tags are not applied; callers filter per item.
func ResolveTasksForLint(cat *models.Catalog, projects []*models.Project) []*models.Item {
	seen := make(map[string]bool)
	var result []*models.Item

	add := func(t *models.Item) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		result = append(result, t)
	}

	for _, p := range projects {
		for _, t := range lint.RemainingTasks(p) {
			add(t)
		}
	}

	for _, t := range cat.Inbox {
		if lint.IsRemaining(t) {
			add(t)
		}
	}

	return result
}

// ShouldExclude reports whether any of the item's tags is named in names.
func ShouldExclude(item *models.Item, names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if item.HasTagNamed(name) {
			return true
		}
	}
	return false
}

// ShouldExcludeProject applies ShouldExclude to the project's root item.
func ShouldExcludeProject(p *models.Project, names []string) bool {
	return p.Root != nil && ShouldExclude(p.Root, names)
}

// folderClosure returns rootID and every folder nested under it.
func folderClosure(folders []*models.Folder, rootID string) map[string]bool {
	parent := make(map[string]string, len(folders))
	for _, f := range folders {
		parent[f.ID] = f.ParentID
	}

	inside := map[string]bool{rootID: true}
	for _, f := range folders {
		visited := map[string]bool{}
		for id := f.ID; id != "" && !visited[id]; id = parent[id] {
			visited[id] = true
			if id == rootID {
				inside[f.ID] = true
				break
			}
		}
	}
	return inside
}
