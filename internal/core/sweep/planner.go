// Package sweep plans a lint sweep: it evaluates every in-scope project and
// task and produces the tag, flag and note effects that mark offenders.
package sweep

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/effects"
	"github.com/example/revlint/internal/core/lint"
	"github.com/example/revlint/internal/core/scope"
	"github.com/example/revlint/internal/core/stamp"
	"github.com/example/revlint/internal/models"
)

// PlanInput contains pre-fetched data for sweep planning.
// All values must be gathered by the caller - no I/O in the planner.
type PlanInput struct {
	Projects  []*models.Project // resolved scope
	Tasks     []*models.Item    // ResolveTasksForLint output; ignored when task linting is off
	Config    config.Config
	ReviewTag models.Tag // ID may be empty on a dry run when the tag does not exist yet
	Now       time.Time
}

// Finding records one flagged item.
type Finding struct {
	ItemID    string
	Name      string
	IsProject bool
	Reasons   []lint.RuleCode
}

// Counts tallies a sweep.
type Counts struct {
	ProjectsFlagged     int
	ProjectReasons      map[lint.RuleCode]int
	SkippedNoNextAction int

	TasksLinted     bool
	TasksFlagged    int
	TaskReasons     map[lint.RuleCode]int
	SkippedInboxAge int
}

// Total returns the number of flagged projects and tasks.
func (c Counts) Total() int {
	return c.ProjectsFlagged + c.TasksFlagged
}

// Plan is the outcome of sweep planning.
type Plan struct {
	Findings []Finding
	Counts   Counts
	Effects  []effects.Effect
}

// GeneratePlan evaluates projects and tasks and plans the marking effects.
// Clean items produce no effects, and neither do marks already in place.
// This is a pure function - all input data must be pre-fetched.
func GeneratePlan(input PlanInput) Plan {
	cfg := input.Config
	plan := Plan{
		Counts: Counts{
			ProjectReasons: make(map[lint.RuleCode]int),
			TaskReasons:    make(map[lint.RuleCode]int),
			TasksLinted:    cfg.LintTasksEnabled,
		},
	}

	for _, p := range input.Projects {
		result := lint.ComputeProjectReasons(p, cfg, input.Now)
		if result.SkipNoNextAction {
			plan.Counts.SkippedNoNextAction++
			plan.Effects = append(plan.Effects, skipped("next action check skipped: task status unavailable", p.ID))
		}
		if len(result.Reasons) == 0 || p.Root == nil {
			continue
		}

		plan.Counts.ProjectsFlagged++
		for _, r := range result.Reasons {
			plan.Counts.ProjectReasons[r]++
		}
		plan.Findings = append(plan.Findings, Finding{
			ItemID:    p.Root.ID,
			Name:      p.Name(),
			IsProject: true,
			Reasons:   result.Reasons,
		})
		plan.Effects = append(plan.Effects, markItem(p.Root, result.Reasons, input)...)
	}

	if !cfg.LintTasksEnabled {
		return plan
	}

	exclude := cfg.ExcludeNames()
	for _, t := range input.Tasks {
		if scope.ShouldExclude(t, exclude) {
			continue
		}

		result := lint.ComputeTaskReasons(t, cfg, input.Now)
		if result.SkippedInboxAge {
			plan.Counts.SkippedInboxAge++
			plan.Effects = append(plan.Effects, skipped("inbox age check skipped: no creation date", t.ID))
		}
		if len(result.Reasons) == 0 {
			continue
		}

		plan.Counts.TasksFlagged++
		for _, r := range result.Reasons {
			plan.Counts.TaskReasons[r]++
		}
		plan.Findings = append(plan.Findings, Finding{
			ItemID:  t.ID,
			Name:    t.Name,
			Reasons: result.Reasons,
		})
		plan.Effects = append(plan.Effects, markItem(t, result.Reasons, input)...)
	}

	return plan
}

func skipped(message, itemID string) effects.LogEffect {
	return effects.LogEffect{Level: "debug", Message: message, Fields: map[string]any{"item": itemID}}
}

// markItem plans the tag, flag and stamp effects for one flagged item.
func markItem(item *models.Item, reasons []lint.RuleCode, input PlanInput) []effects.Effect {
	var effs []effects.Effect

	if !item.HasTagNamed(input.ReviewTag.Name) {
		effs = append(effs, effects.TagEffect{
			ItemID:    item.ID,
			TagID:     input.ReviewTag.ID,
			TagName:   input.ReviewTag.Name,
			Operation: effects.TagAdd,
		})
	}

	if input.Config.AlsoFlag && !item.Flagged {
		effs = append(effs, effects.FlagEffect{ItemID: item.ID, Flagged: true})
	}

	note := stamp.Upsert(item.Note, stamp.LintAtRE, stamp.LintAt(input.Now))
	note = stamp.Upsert(note, stamp.LintRE, stamp.Lint(lint.Strings(reasons)))
	if note != item.Note {
		effs = append(effs, effects.NoteEffect{ItemID: item.ID, Old: item.Note, New: note})
	}

	return effs
}

// Summary renders the counts as the multi-line report shown after a sweep.
func (c Counts) Summary() string {
	if c.Total() == 0 {
		return "No issues found. Your database looks clean!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Projects flagged: %d\n", c.ProjectsFlagged)
	writeCount(&b, "No Next Action", c.ProjectReasons[lint.ProjectNoNextAction])
	writeCount(&b, "Has Overdue Tasks", c.ProjectReasons[lint.ProjectHasOverdue])
	writeCount(&b, "Empty", c.ProjectReasons[lint.ProjectEmpty])
	if c.SkippedNoNextAction > 0 {
		fmt.Fprintf(&b, "  · (P_NO_NEXT_ACTION check skipped for %d: status unavailable)\n", c.SkippedNoNextAction)
	}

	if c.TasksLinted {
		fmt.Fprintf(&b, "\nTasks flagged: %d\n", c.TasksFlagged)
		writeCount(&b, "Overdue", c.TaskReasons[lint.TaskOverdue])
		writeCount(&b, "Defer Past", c.TaskReasons[lint.TaskDeferPast])
		writeCount(&b, "Inbox Old", c.TaskReasons[lint.TaskInboxOld])
		writeCount(&b, "Waiting Stale", c.TaskReasons[lint.TaskWaitingTooLong])
		if c.SkippedInboxAge > 0 {
			fmt.Fprintf(&b, "  · (Inbox age check skipped for %d: no creation date)\n", c.SkippedInboxAge)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// ReasonAttrs returns the non-zero per-code counts as slog key-value pairs,
// in rule evaluation order. Unlike Summary it includes every code.
func (c Counts) ReasonAttrs() []any {
	var attrs []any
	for _, code := range lint.ProjectRules {
		if n := c.ProjectReasons[code]; n > 0 {
			attrs = append(attrs, string(code), n)
		}
	}
	for _, code := range lint.TaskRules {
		if n := c.TaskReasons[code]; n > 0 {
			attrs = append(attrs, string(code), n)
		}
	}
	return attrs
}

func writeCount(b *strings.Builder, label string, n int) {
	if n > 0 {
		fmt.Fprintf(b, "  · %s: %d\n", label, n)
	}
}
