// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import (
	"fmt"
	"time"
)

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Tag operations
const (
	TagAdd    = "add"
	TagRemove = "remove"
)

// Date fields
const (
	FieldDue   = "due"
	FieldDefer = "defer"
)

// LogEffect records a planner decision in the operational log. It never
// mutates the store.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// TagEffect attaches or detaches a tag on an item.
type TagEffect struct {
	ItemID    string
	TagID     string
	TagName   string
	Operation string // TagAdd or TagRemove
}

func (e TagEffect) EffectType() string { return "tag" }

// NoteEffect replaces an item's note. Old is carried for the audit log.
type NoteEffect struct {
	ItemID string
	Old    string
	New    string
}

func (e NoteEffect) EffectType() string { return "note" }

// FlagEffect sets an item's flagged attribute.
type FlagEffect struct {
	ItemID  string
	Flagged bool
}

func (e FlagEffect) EffectType() string { return "flag" }

// DateEffect sets or clears (New == nil) a due or defer date.
type DateEffect struct {
	ItemID string
	Field  string // FieldDue or FieldDefer
	Old    *time.Time
	New    *time.Time
}

func (e DateEffect) EffectType() string { return "date" }

// Describe renders an effect as a single human-readable line, used for
// dry runs.
func Describe(eff Effect) string {
	switch e := eff.(type) {
	case TagEffect:
		return fmt.Sprintf("%s: %s tag %q", e.ItemID, e.Operation, e.TagName)
	case NoteEffect:
		return fmt.Sprintf("%s: note %q -> %q", e.ItemID, e.Old, e.New)
	case FlagEffect:
		if e.Flagged {
			return e.ItemID + ": flag"
		}
		return e.ItemID + ": unflag"
	case DateEffect:
		if e.New == nil {
			return fmt.Sprintf("%s: clear %s date", e.ItemID, e.Field)
		}
		return fmt.Sprintf("%s: set %s date to %s", e.ItemID, e.Field, e.New.Format("2006-01-02"))
	case LogEffect:
		return fmt.Sprintf("[%s] %s", e.Level, e.Message)
	default:
		return eff.EffectType()
	}
}
