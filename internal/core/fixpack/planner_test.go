package fixpack

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/effects"
	"github.com/example/revlint/internal/models"
)

var (
	now       = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	triageTag = models.Tag{ID: "TAG-002", Name: "Needs Triage"}
	waiting   = models.Tag{ID: "TAG-003", Name: "Waiting"}
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func daysAgo(n int) *time.Time {
	t := now.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func onlyEffect[T effects.Effect](t *testing.T, plan Plan) T {
	t.Helper()
	if len(plan.Effects) != 1 {
		t.Fatalf("effects = %d, want 1: %v", len(plan.Effects), plan.Effects)
	}
	eff, ok := plan.Effects[0].(T)
	if !ok {
		t.Fatalf("effect = %T", plan.Effects[0])
	}
	return eff
}

func TestOptions(t *testing.T) {
	if (Options{}).Any() {
		t.Error("empty options should select nothing")
	}
	if !(Options{RepairDue: true}).Any() {
		t.Error("RepairDue should count as a selection")
	}

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"no date repairs", Options{TriageInbox: true}, false},
		{"defer today", Options{RepairDefer: true, DeferPolicy: DeferToday}, false},
		{"defer unknown", Options{RepairDefer: true, DeferPolicy: "tomorrow"}, true},
		{"due next week", Options{RepairDue: true, DuePolicy: DueNextWeek}, false},
		{"due missing policy", Options{RepairDue: true}, true},
		{"policy ignored when repair off", Options{DuePolicy: "bogus"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidPolicy) {
				t.Errorf("Validate() = %v, want ErrInvalidPolicy", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestGeneratePlan_AddWaitingSince(t *testing.T) {
	task := &models.Item{ID: "T1", Note: "Asked Bob", Tags: []models.Tag{waiting}, Status: models.StatusBlocked}
	stamped := &models.Item{ID: "T2", Note: "@waitingSince(2024-06-10)", Tags: []models.Tag{waiting}}
	untagged := &models.Item{ID: "T3"}

	plan := GeneratePlan(PlanInput{
		Tasks:   []*models.Item{task, stamped, untagged},
		Config:  config.Default(),
		Options: Options{AddWaitingSince: true},
		Now:     now,
	})

	if plan.Counts.WaitingAdded != 1 {
		t.Errorf("WaitingAdded = %d, want 1", plan.Counts.WaitingAdded)
	}
	note := onlyEffect[effects.NoteEffect](t, plan)
	if note.ItemID != "T1" || note.New != "Asked Bob\n@waitingSince(2024-06-15)" {
		t.Errorf("note effect = %+v", note)
	}
}

func TestGeneratePlan_ResetWaitingSince(t *testing.T) {
	stale := &models.Item{ID: "T1", Note: "x @waitingSince(2024-05-01) y", Tags: []models.Tag{waiting}}
	fresh := &models.Item{ID: "T2", Note: "@waitingSince(2024-06-01)", Tags: []models.Tag{waiting}}
	unstamped := &models.Item{ID: "T3", Tags: []models.Tag{waiting}}

	plan := GeneratePlan(PlanInput{
		Tasks:   []*models.Item{stale, fresh, unstamped},
		Config:  config.Default(),
		Options: Options{ResetWaitingSince: true},
		Now:     now,
	})

	if plan.Counts.WaitingReset != 1 {
		t.Errorf("WaitingReset = %d, want 1", plan.Counts.WaitingReset)
	}
	note := onlyEffect[effects.NoteEffect](t, plan)
	if note.New != "x @waitingSince(2024-06-15) y" {
		t.Errorf("note = %q", note.New)
	}
}

func TestGeneratePlan_WaitingDisabledByConfig(t *testing.T) {
	cfg := config.Default()
	cfg.EnableWaitingSinceStamp = false
	task := &models.Item{ID: "T1", Tags: []models.Tag{waiting}}

	plan := GeneratePlan(PlanInput{
		Tasks:   []*models.Item{task},
		Config:  cfg,
		Options: Options{AddWaitingSince: true, ResetWaitingSince: true},
		Now:     now,
	})

	if len(plan.Effects) != 0 || plan.Counts.Total() != 0 {
		t.Errorf("expected no repairs, got %d effects", len(plan.Effects))
	}
}

func TestGeneratePlan_TriageInbox(t *testing.T) {
	old := &models.Item{ID: "I1", InInbox: true, AddedDate: daysAgo(3)}
	young := &models.Item{ID: "I2", InInbox: true, AddedDate: daysAgo(1)}
	triaged := &models.Item{ID: "I3", InInbox: true, AddedDate: daysAgo(10), Tags: []models.Tag{triageTag}}
	undated := &models.Item{ID: "I4", InInbox: true}

	plan := GeneratePlan(PlanInput{
		Tasks:     []*models.Item{old, young, triaged, undated},
		Config:    config.Default(),
		Options:   Options{TriageInbox: true},
		TriageTag: triageTag,
		Now:       now,
	})

	tag := onlyEffect[effects.TagEffect](t, plan)
	if tag.ItemID != "I1" || tag.TagID != triageTag.ID || tag.Operation != effects.TagAdd {
		t.Errorf("tag effect = %+v", tag)
	}
	if got := plan.Counts.Summary(); got != `1 inbox item tagged "Needs Triage".` {
		t.Errorf("Summary() = %q", got)
	}
}

func TestGeneratePlan_RepairDefer(t *testing.T) {
	tests := []struct {
		name   string
		policy DeferPolicy
		want   *time.Time
	}{
		{"today", DeferToday, date(2024, 6, 15)},
		{"clear", DeferClear, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Item{ID: "T1", DeferDate: daysAgo(8)}
			boundary := &models.Item{ID: "T2", DeferDate: daysAgo(7)}

			plan := GeneratePlan(PlanInput{
				Tasks:   []*models.Item{task, boundary},
				Config:  config.Default(),
				Options: Options{RepairDefer: true, DeferPolicy: tt.policy},
				Now:     now,
			})

			eff := onlyEffect[effects.DateEffect](t, plan)
			if eff.ItemID != "T1" || eff.Field != effects.FieldDefer {
				t.Errorf("effect = %+v", eff)
			}
			if !sameInstant(eff.New, tt.want) {
				t.Errorf("New = %v, want %v", eff.New, tt.want)
			}
		})
	}
}

func TestGeneratePlan_RepairDue(t *testing.T) {
	tests := []struct {
		name   string
		policy DuePolicy
		want   *time.Time
	}{
		{"today", DueToday, date(2024, 6, 15)},
		{"next week", DueNextWeek, date(2024, 6, 22)},
		{"clear", DueClear, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Item{ID: "T1", DueDate: date(2024, 6, 1)}
			future := &models.Item{ID: "T2", DueDate: date(2024, 6, 20)}

			plan := GeneratePlan(PlanInput{
				Tasks:   []*models.Item{task, future},
				Config:  config.Default(),
				Options: Options{RepairDue: true, DuePolicy: tt.policy},
				Now:     now,
			})

			eff := onlyEffect[effects.DateEffect](t, plan)
			if eff.ItemID != "T1" || eff.Field != effects.FieldDue {
				t.Errorf("effect = %+v", eff)
			}
			if !sameInstant(eff.New, tt.want) {
				t.Errorf("New = %v, want %v", eff.New, tt.want)
			}
			if plan.Counts.DueRepaired != 1 {
				t.Errorf("DueRepaired = %d, want 1", plan.Counts.DueRepaired)
			}
		})
	}
}

func TestGeneratePlan_RepairDueAlreadyAtTarget(t *testing.T) {
	task := &models.Item{ID: "T1", DueDate: date(2024, 6, 15)}

	plan := GeneratePlan(PlanInput{
		Tasks:   []*models.Item{task},
		Config:  config.Default(),
		Options: Options{RepairDue: true, DuePolicy: DueToday},
		Now:     now,
	})

	if len(plan.Effects) != 0 {
		t.Errorf("re-running today policy should be a no-op, got %v", plan.Effects)
	}
}

func TestGeneratePlan_ProjectRoots(t *testing.T) {
	root := &models.Item{ID: "P1", DeferDate: daysAgo(30)}
	p := &models.Project{ID: "P1", Status: models.ProjectActive, Root: root}

	plan := GeneratePlan(PlanInput{
		Projects: []*models.Project{p},
		Config:   config.Default(),
		Options:  Options{RepairDefer: true, DeferPolicy: DeferClear},
		Now:      now,
	})

	eff := onlyEffect[effects.DateEffect](t, plan)
	if eff.ItemID != "P1" || eff.New != nil {
		t.Errorf("effect = %+v, want P1 defer cleared", eff)
	}
}

func TestGeneratePlan_RepairsTasksCarryingExcludeTags(t *testing.T) {
	someday := models.Tag{ID: "TAG-009", Name: "Someday/Maybe"}

	tests := []struct {
		name    string
		task    *models.Item
		options Options
		check   func(t *testing.T, plan Plan)
	}{
		{
			name:    "waiting stamp added",
			task:    &models.Item{ID: "T1", Tags: []models.Tag{waiting, someday}},
			options: Options{AddWaitingSince: true},
			check: func(t *testing.T, plan Plan) {
				eff := onlyEffect[effects.NoteEffect](t, plan)
				if eff.ItemID != "T1" || !strings.Contains(eff.New, "@waitingSince(2024-06-15)") {
					t.Errorf("effect = %+v, want T1 stamped today", eff)
				}
				if plan.Counts.WaitingAdded != 1 {
					t.Errorf("WaitingAdded = %d, want 1", plan.Counts.WaitingAdded)
				}
			},
		},
		{
			name:    "stale defer repaired",
			task:    &models.Item{ID: "T2", DeferDate: daysAgo(30), Tags: []models.Tag{someday}},
			options: Options{RepairDefer: true, DeferPolicy: DeferClear},
			check: func(t *testing.T, plan Plan) {
				eff := onlyEffect[effects.DateEffect](t, plan)
				if eff.ItemID != "T2" || eff.New != nil {
					t.Errorf("effect = %+v, want T2 defer cleared", eff)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := GeneratePlan(PlanInput{
				Tasks:   []*models.Item{tt.task},
				Config:  config.Default(),
				Options: tt.options,
				Now:     now,
			})
			tt.check(t, plan)
		})
	}
}

func TestCountsSummary(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   string
	}{
		{"nothing", Counts{}, "No changes made."},
		{
			name: "everything",
			counts: Counts{
				WaitingAdded: 1, WaitingReset: 2, InboxTriaged: 3, DeferRepaired: 1, DueRepaired: 2,
				TriageTagName: "Needs Triage", DeferPolicy: DeferClear, DuePolicy: DueNextWeek,
			},
			want: "1 @waitingSince stamp added.\n" +
				"2 stale @waitingSince stamps reset.\n" +
				"3 inbox items tagged \"Needs Triage\".\n" +
				"1 defer date repaired (clear).\n" +
				"2 due dates repaired (next_week).",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.counts.Summary(); got != tt.want {
				t.Errorf("Summary() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
