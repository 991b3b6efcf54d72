package clearmarks

import (
	"strings"
	"testing"

	"github.com/example/revlint/internal/core/effects"
	"github.com/example/revlint/internal/models"
)

var reviewTag = models.Tag{ID: "TAG-001", Name: "⚠ Review Lint"}

func TestGeneratePlan_RemovesTagFlagAndStamps(t *testing.T) {
	task := &models.Item{
		ID:      "T1",
		Flagged: true,
		Tags:    []models.Tag{reviewTag},
		Note:    "Call Ann\n@waitingSince(2024-03-01)\n@lintAt(2024-06-15)\n@lint(T_OVERDUE,T_DEFER_PAST)",
	}

	plan := GeneratePlan(PlanInput{
		Tasks:        []*models.Item{task},
		ReviewTag:    reviewTag,
		RemoveFlags:  true,
		RemoveStamps: true,
	})

	if plan.Counts.Tasks != 1 || plan.Counts.Projects != 0 {
		t.Errorf("Counts = %+v, want 1 task", plan.Counts)
	}
	if len(plan.Effects) != 3 {
		t.Fatalf("effects = %d, want 3", len(plan.Effects))
	}

	tag := plan.Effects[0].(effects.TagEffect)
	if tag.Operation != effects.TagRemove || tag.TagID != reviewTag.ID {
		t.Errorf("tag effect = %+v", tag)
	}
	flag := plan.Effects[1].(effects.FlagEffect)
	if flag.Flagged {
		t.Error("expected unflag")
	}
	note := plan.Effects[2].(effects.NoteEffect)
	if strings.Contains(note.New, "@lint") {
		t.Errorf("lint stamps survived: %q", note.New)
	}
	if note.New != "Call Ann\n@waitingSince(2024-03-01)" {
		t.Errorf("note = %q", note.New)
	}
}

func TestGeneratePlan_OptionsOff(t *testing.T) {
	task := &models.Item{ID: "T1", Flagged: true, Tags: []models.Tag{reviewTag}, Note: "@lint(T_OVERDUE)"}

	plan := GeneratePlan(PlanInput{Tasks: []*models.Item{task}, ReviewTag: reviewTag})

	if len(plan.Effects) != 1 {
		t.Fatalf("effects = %d, want only the tag removal", len(plan.Effects))
	}
	if _, ok := plan.Effects[0].(effects.TagEffect); !ok {
		t.Errorf("effect = %T, want TagEffect", plan.Effects[0])
	}
}

func TestGeneratePlan_SkipsUntaggedItems(t *testing.T) {
	p := &models.Project{ID: "P1", Root: &models.Item{ID: "P1", Tags: []models.Tag{reviewTag}}}
	q := &models.Project{ID: "P2", Root: &models.Item{ID: "P2", Note: "@lint(P_EMPTY)"}}
	task := &models.Item{ID: "T1", Tags: []models.Tag{{ID: "TAG-5", Name: "Errands"}}}

	plan := GeneratePlan(PlanInput{
		Projects:     []*models.Project{p, q},
		Tasks:        []*models.Item{task},
		ReviewTag:    reviewTag,
		RemoveStamps: true,
	})

	if plan.Counts != (Counts{Projects: 1}) {
		t.Errorf("Counts = %+v, want 1 project", plan.Counts)
	}
	if len(plan.Effects) != 1 {
		t.Errorf("effects = %d, want 1", len(plan.Effects))
	}
}

func TestCountsSummary(t *testing.T) {
	tests := []struct {
		counts Counts
		want   string
	}{
		{Counts{}, "No items with the lint tag were found in the target scope."},
		{Counts{Projects: 1}, "1 project cleared."},
		{Counts{Tasks: 4}, "4 tasks cleared."},
		{Counts{Projects: 2, Tasks: 1}, "2 projects cleared.\n1 task cleared."},
	}
	for _, tt := range tests {
		if got := tt.counts.Summary(); got != tt.want {
			t.Errorf("Summary(%+v) = %q, want %q", tt.counts, got, tt.want)
		}
	}
}
