// Package clearmarks plans removal of lint marks: the review tag and,
// optionally, the flag and the lint stamps.
package clearmarks

import (
	"fmt"
	"strings"

	"github.com/example/revlint/internal/core/effects"
	"github.com/example/revlint/internal/core/stamp"
	"github.com/example/revlint/internal/models"
)

// Scope selects which items a clear operates on.
type Scope string

// Clear scopes
const (
	ScopeSelection Scope = "selection"
	ScopeAll       Scope = "all"
)

// PlanInput contains pre-fetched data for clear planning.
type PlanInput struct {
	Projects     []*models.Project
	Tasks        []*models.Item
	ReviewTag    models.Tag
	RemoveFlags  bool
	RemoveStamps bool
}

// Counts tallies cleared items.
type Counts struct {
	Projects int
	Tasks    int
}

// Plan is the outcome of clear planning.
type Plan struct {
	Counts  Counts
	Effects []effects.Effect
}

// GeneratePlan plans clearing for every project root and task carrying the
// review tag. @waitingSince stamps are never touched.
func GeneratePlan(input PlanInput) Plan {
	var plan Plan

	for _, p := range input.Projects {
		if p.Root == nil || !p.Root.HasTagNamed(input.ReviewTag.Name) {
			continue
		}
		plan.Counts.Projects++
		plan.Effects = append(plan.Effects, clearItem(p.Root, input)...)
	}

	for _, t := range input.Tasks {
		if !t.HasTagNamed(input.ReviewTag.Name) {
			continue
		}
		plan.Counts.Tasks++
		plan.Effects = append(plan.Effects, clearItem(t, input)...)
	}

	return plan
}

func clearItem(item *models.Item, input PlanInput) []effects.Effect {
	effs := []effects.Effect{effects.TagEffect{
		ItemID:    item.ID,
		TagID:     input.ReviewTag.ID,
		TagName:   input.ReviewTag.Name,
		Operation: effects.TagRemove,
	}}

	if input.RemoveFlags && item.Flagged {
		effs = append(effs, effects.FlagEffect{ItemID: item.ID, Flagged: false})
	}

	if input.RemoveStamps {
		note := stamp.Remove(item.Note, stamp.LintAtRE)
		note = stamp.Remove(note, stamp.LintRE)
		if note != item.Note {
			effs = append(effs, effects.NoteEffect{ItemID: item.ID, Old: item.Note, New: note})
		}
	}

	return effs
}

// Summary renders the counts as the report shown after a clear.
func (c Counts) Summary() string {
	var lines []string
	if c.Projects > 0 {
		lines = append(lines, fmt.Sprintf("%d %s cleared.", c.Projects, plural(c.Projects, "project")))
	}
	if c.Tasks > 0 {
		lines = append(lines, fmt.Sprintf("%d %s cleared.", c.Tasks, plural(c.Tasks, "task")))
	}
	if len(lines) == 0 {
		return "No items with the lint tag were found in the target scope."
	}
	return strings.Join(lines, "\n")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
