package lint

import (
	"time"

	"github.com/example/revlint/internal/models"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// DaysBetween returns floor((to - from) / 1 day) measured in milliseconds.
// It is a duration, not a calendar-day difference.
func DaysBetween(from, to time.Time) int {
	diff := to.UnixMilli() - from.UnixMilli()
	days := diff / msPerDay
	if diff%msPerDay != 0 && diff < 0 {
		days--
	}
	return int(days)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays returns StartOfDay(t) moved by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// EffectiveDue returns the item's effective due date, falling back to its own
// due date. It returns nil when neither is set.
func EffectiveDue(item *models.Item) *time.Time {
	if item.EffectiveDueDate != nil {
		return item.EffectiveDueDate
	}
	return item.DueDate
}

// IsOverdue reports whether the item's effective due date is strictly before now.
func IsOverdue(item *models.Item, now time.Time) bool {
	due := EffectiveDue(item)
	return due != nil && due.Before(now)
}

// DeferIsStale reports whether the item's defer date is more than graceDays old.
func DeferIsStale(item *models.Item, now time.Time, graceDays int) bool {
	return item.DeferDate != nil && DaysBetween(*item.DeferDate, now) > graceDays
}
