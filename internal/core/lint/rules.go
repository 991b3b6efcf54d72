// Package lint contains the rule evaluator: pure functions that compute the
// ordered set of violated rules for a project or task.
package lint

import (
	"time"

	"github.com/example/revlint/internal/config"
	"github.com/example/revlint/internal/core/stamp"
	"github.com/example/revlint/internal/models"
)

// RuleCode identifies a violated rule.
type RuleCode string

// Project-level rules
const (
	ProjectEmpty        RuleCode = "P_EMPTY"
	ProjectHasOverdue   RuleCode = "P_HAS_OVERDUE"
	ProjectOverdue      RuleCode = "P_OVERDUE"
	ProjectDeferPast    RuleCode = "P_DEFER_PAST"
	ProjectNoNextAction RuleCode = "P_NO_NEXT_ACTION"
)

// Task-level rules
const (
	TaskOverdue        RuleCode = "T_OVERDUE"
	TaskDeferPast      RuleCode = "T_DEFER_PAST"
	TaskInboxOld       RuleCode = "T_INBOX_OLD"
	TaskWaitingTooLong RuleCode = "T_WAITING_TOO_LONG"
)

// ProjectRules lists project rule codes in evaluation order.
var ProjectRules = []RuleCode{ProjectEmpty, ProjectHasOverdue, ProjectOverdue, ProjectDeferPast, ProjectNoNextAction}

// TaskRules lists task rule codes in evaluation order.
var TaskRules = []RuleCode{TaskOverdue, TaskDeferPast, TaskInboxOld, TaskWaitingTooLong}

// ProjectResult is the outcome of evaluating one project.
type ProjectResult struct {
	Reasons []RuleCode
	// SkipNoNextAction is set when P_NO_NEXT_ACTION could not be evaluated
	// because the store reports no availability status.
	SkipNoNextAction bool
}

// TaskResult is the outcome of evaluating one task.
type TaskResult struct {
	Reasons []RuleCode
	// SkippedInboxAge is set when T_INBOX_OLD could not be evaluated because
	// the task has no creation timestamp.
	SkippedInboxAge bool
}

// Strings converts codes to their string form, preserving order.
func Strings(codes []RuleCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// IsRemaining reports whether the item is neither completed nor dropped.
func IsRemaining(item *models.Item) bool {
	return item.Status != models.StatusCompleted && item.Status != models.StatusDropped
}

// IsAvailableIsh reports whether the item counts as a next action. known is
// false when the store reported no availability status for the item.
func IsAvailableIsh(item *models.Item) (available, known bool) {
	switch item.Status {
	case models.StatusUnknown:
		return false, false
	case models.StatusAvailable, models.StatusNext, models.StatusDueSoon, models.StatusOverdue:
		return true, true
	default:
		return false, true
	}
}

// RemainingTasks returns the project's descendants that are not the root and
// not completed or dropped.
func RemainingTasks(p *models.Project) []*models.Item {
	var remaining []*models.Item
	for _, t := range p.Tasks {
		if p.Root != nil && t.ID == p.Root.ID {
			continue
		}
		if IsRemaining(t) {
			remaining = append(remaining, t)
		}
	}
	return remaining
}

// ComputeProjectReasons evaluates the project rules in order:
// P_EMPTY, P_HAS_OVERDUE, P_OVERDUE, P_DEFER_PAST, P_NO_NEXT_ACTION.
func ComputeProjectReasons(p *models.Project, cfg config.Config, now time.Time) ProjectResult {
	var result ProjectResult
	remaining := RemainingTasks(p)

	empty := len(remaining) == 0
	if empty {
		result.Reasons = append(result.Reasons, ProjectEmpty)
	}

	for _, t := range remaining {
		if IsOverdue(t, now) {
			result.Reasons = append(result.Reasons, ProjectHasOverdue)
			break
		}
	}

	if p.Root != nil {
		if IsOverdue(p.Root, now) {
			result.Reasons = append(result.Reasons, ProjectOverdue)
		}
		if DeferIsStale(p.Root, now, cfg.DeferPastGraceDays) {
			result.Reasons = append(result.Reasons, ProjectDeferPast)
		}
	}

	// Empty projects have nothing to check for a next action.
	if empty {
		return result
	}

	hasNext := false
	for _, t := range remaining {
		available, known := IsAvailableIsh(t)
		if !known {
			result.SkipNoNextAction = true
			return result
		}
		if available {
			hasNext = true
		}
	}
	if !hasNext {
		result.Reasons = append(result.Reasons, ProjectNoNextAction)
	}

	return result
}

// ComputeTaskReasons evaluates the task rules in order:
// T_OVERDUE, T_DEFER_PAST, T_INBOX_OLD, T_WAITING_TOO_LONG.
func ComputeTaskReasons(t *models.Item, cfg config.Config, now time.Time) TaskResult {
	var result TaskResult

	if IsOverdue(t, now) {
		result.Reasons = append(result.Reasons, TaskOverdue)
	}

	if DeferIsStale(t, now, cfg.DeferPastGraceDays) {
		result.Reasons = append(result.Reasons, TaskDeferPast)
	}

	if t.InInbox && !t.HasTagNamed(cfg.TriageTagName) {
		if t.AddedDate == nil {
			result.SkippedInboxAge = true
		} else if DaysBetween(*t.AddedDate, now) > cfg.InboxMaxAgeDays {
			result.Reasons = append(result.Reasons, TaskInboxOld)
		}
	}

	// A waiting task without a stamp is not a violation: there is no data to
	// judge it by.
	if WaitingIsStale(t, cfg, now) {
		result.Reasons = append(result.Reasons, TaskWaitingTooLong)
	}

	return result
}

// WaitingIsStale reports whether t carries the waiting tag and a
// @waitingSince stamp older than the configured threshold.
func WaitingIsStale(t *models.Item, cfg config.Config, now time.Time) bool {
	if cfg.WaitingTagName == "" || !t.HasTagNamed(cfg.WaitingTagName) {
		return false
	}
	since, ok := stamp.ReadWaitingSince(t.Note)
	return ok && DaysBetween(since, now) > cfg.WaitingStaleDays
}

// InboxIsOld reports whether t is an untriaged inbox task older than the
// configured maximum age. Tasks without a creation timestamp are never old.
func InboxIsOld(t *models.Item, cfg config.Config, now time.Time) bool {
	if !t.InInbox || t.HasTagNamed(cfg.TriageTagName) || t.AddedDate == nil {
		return false
	}
	return DaysBetween(*t.AddedDate, now) > cfg.InboxMaxAgeDays
}
