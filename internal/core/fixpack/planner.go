// Package fixpack plans the fix pack: a caller-selected set of independent,
// idempotent repairs over the lint scope.
package fixpack

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/effects"
	"github.com/example/revlint/internal/core/lint"
	"github.com/example/revlint/internal/core/stamp"
	"github.com/example/revlint/internal/models"
)

// DeferPolicy selects what a stale defer date is repaired to.
type DeferPolicy string

// Defer policies
const (
	DeferToday DeferPolicy = "today"
	DeferClear DeferPolicy = "clear"
)

// DuePolicy selects what a past due date is repaired to.
type DuePolicy string

// Due policies
const (
	DueToday    DuePolicy = "today"
	DueNextWeek DuePolicy = "next_week"
	DueClear    DuePolicy = "clear"
)

// ErrInvalidPolicy is returned by Options.Validate for unknown policies.
var ErrInvalidPolicy = errors.New("invalid repair policy")

// Options selects which repairs run.
type Options struct {
	AddWaitingSince   bool
	ResetWaitingSince bool
	TriageInbox       bool
	RepairDefer       bool
	DeferPolicy       DeferPolicy
	RepairDue         bool
	DuePolicy         DuePolicy
}

// Any reports whether at least one repair is selected.
func (o Options) Any() bool {
	return o.AddWaitingSince || o.ResetWaitingSince || o.TriageInbox || o.RepairDefer || o.RepairDue
}

// Validate checks the policies of the selected date repairs.
func (o Options) Validate() error {
	if o.RepairDefer {
		switch o.DeferPolicy {
		case DeferToday, DeferClear:
		default:
			return fmt.Errorf("%w: defer policy %q (want today or clear)", ErrInvalidPolicy, o.DeferPolicy)
		}
	}
	if o.RepairDue {
		switch o.DuePolicy {
		case DueToday, DueNextWeek, DueClear:
		default:
			return fmt.Errorf("%w: due policy %q (want today, next_week or clear)", ErrInvalidPolicy, o.DuePolicy)
		}
	}
	return nil
}

// ForConfig drops the waiting-since repairs when stamping is disabled.
func (o Options) ForConfig(cfg config.Config) Options {
	if !cfg.EnableWaitingSinceStamp {
		o.AddWaitingSince = false
		o.ResetWaitingSince = false
	}
	return o
}

// PlanInput contains pre-fetched data for fix pack planning.
// All values must be gathered by the caller - no I/O in the planner.
type PlanInput struct {
	Projects  []*models.Project
	Tasks     []*models.Item
	Config    config.Config
	Options   Options
	TriageTag models.Tag // required when Options.TriageInbox is set
	Now       time.Time
}

// Counts tallies the repairs a plan performs.
type Counts struct {
	WaitingAdded  int
	WaitingReset  int
	InboxTriaged  int
	DeferRepaired int
	DueRepaired   int

	TriageTagName string
	DeferPolicy   DeferPolicy
	DuePolicy     DuePolicy
}

// Total returns the number of repairs.
func (c Counts) Total() int {
	return c.WaitingAdded + c.WaitingReset + c.InboxTriaged + c.DeferRepaired + c.DueRepaired
}

// Plan is the outcome of fix pack planning.
type Plan struct {
	Counts  Counts
	Effects []effects.Effect
}

// GeneratePlan plans the selected repairs over tasks, then the date repairs
// over project roots. Exclude tags are not applied to tasks; excluded
// projects never reach the plan.
// This is a pure function - all input data must be pre-fetched.
func GeneratePlan(input PlanInput) Plan {
	opts := input.Options.ForConfig(input.Config)
	cfg := input.Config
	plan := Plan{Counts: Counts{
		TriageTagName: input.TriageTag.Name,
		DeferPolicy:   opts.DeferPolicy,
		DuePolicy:     opts.DuePolicy,
	}}

	for _, t := range input.Tasks {
		plan.Effects = append(plan.Effects, planWaiting(t, opts, cfg, input.Now, &plan.Counts)...)

		if opts.TriageInbox && lint.InboxIsOld(t, cfg, input.Now) {
			plan.Effects = append(plan.Effects, effects.TagEffect{
				ItemID:    t.ID,
				TagID:     input.TriageTag.ID,
				TagName:   input.TriageTag.Name,
				Operation: effects.TagAdd,
			})
			plan.Counts.InboxTriaged++
		}

		plan.Effects = append(plan.Effects, planDates(t, opts, cfg, input.Now, &plan.Counts)...)
	}

	for _, p := range input.Projects {
		if p.Root == nil {
			continue
		}
		plan.Effects = append(plan.Effects, planDates(p.Root, opts, cfg, input.Now, &plan.Counts)...)
	}

	return plan
}

func planWaiting(t *models.Item, opts Options, cfg config.Config, now time.Time, counts *Counts) []effects.Effect {
	if !opts.AddWaitingSince && !opts.ResetWaitingSince {
		return nil
	}
	if cfg.WaitingTagName == "" || !t.HasTagNamed(cfg.WaitingTagName) {
		return nil
	}

	since, ok := stamp.ReadWaitingSince(t.Note)
	switch {
	case !ok && opts.AddWaitingSince:
		counts.WaitingAdded++
	case ok && opts.ResetWaitingSince && lint.DaysBetween(since, now) > cfg.WaitingStaleDays:
		counts.WaitingReset++
	default:
		return nil
	}

	note := stamp.Upsert(t.Note, stamp.WaitingRE, stamp.WaitingSince(now))
	return []effects.Effect{effects.NoteEffect{ItemID: t.ID, Old: t.Note, New: note}}
}

func planDates(item *models.Item, opts Options, cfg config.Config, now time.Time, counts *Counts) []effects.Effect {
	var effs []effects.Effect
	today := lint.StartOfDay(now)

	if opts.RepairDefer && lint.DeferIsStale(item, now, cfg.DeferPastGraceDays) {
		var target *time.Time
		if opts.DeferPolicy == DeferToday {
			target = &today
		}
		effs = append(effs, effects.DateEffect{ItemID: item.ID, Field: effects.FieldDefer, Old: item.DeferDate, New: target})
		counts.DeferRepaired++
	}

	if opts.RepairDue && item.DueDate != nil && item.DueDate.Before(now) {
		var target *time.Time
		switch opts.DuePolicy {
		case DueToday:
			target = &today
		case DueNextWeek:
			next := lint.AddDays(today, 7)
			target = &next
		}
		if !sameInstant(item.DueDate, target) {
			effs = append(effs, effects.DateEffect{ItemID: item.ID, Field: effects.FieldDue, Old: item.DueDate, New: target})
			counts.DueRepaired++
		}
	}

	return effs
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Summary renders the counts as the report shown after a fix pack run.
func (c Counts) Summary() string {
	var lines []string
	if c.WaitingAdded > 0 {
		lines = append(lines, fmt.Sprintf("%d @waitingSince %s added.", c.WaitingAdded, plural(c.WaitingAdded, "stamp")))
	}
	if c.WaitingReset > 0 {
		lines = append(lines, fmt.Sprintf("%d stale @waitingSince %s reset.", c.WaitingReset, plural(c.WaitingReset, "stamp")))
	}
	if c.InboxTriaged > 0 {
		lines = append(lines, fmt.Sprintf("%d inbox %s tagged %q.", c.InboxTriaged, plural(c.InboxTriaged, "item"), c.TriageTagName))
	}
	if c.DeferRepaired > 0 {
		lines = append(lines, fmt.Sprintf("%d defer %s repaired (%s).", c.DeferRepaired, plural(c.DeferRepaired, "date"), c.DeferPolicy))
	}
	if c.DueRepaired > 0 {
		lines = append(lines, fmt.Sprintf("%d due %s repaired (%s).", c.DueRepaired, plural(c.DueRepaired, "date"), c.DuePolicy))
	}
	if len(lines) == 0 {
		return "No changes made."
	}
	return strings.Join(lines, "\n")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
