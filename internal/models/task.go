// Package models contains domain types for the item store: tasks, projects,
// folders and tags as the linter sees them.
// SQL persistence lives in internal/adapters/sqlite.
package models

import "time"

// TaskStatus is the availability status reported by the item store.
type TaskStatus string

// Task status constants. StatusUnknown means the store did not report an
// availability status for the item.
const (
	StatusUnknown   TaskStatus = ""
	StatusAvailable TaskStatus = "available"
	StatusNext      TaskStatus = "next"
	StatusBlocked   TaskStatus = "blocked"
	StatusDueSoon   TaskStatus = "due_soon"
	StatusOverdue   TaskStatus = "overdue"
	StatusCompleted TaskStatus = "completed"
	StatusDropped   TaskStatus = "dropped"
)

// ValidTaskStatus reports whether s is a status the store may report.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusUnknown, StatusAvailable, StatusNext, StatusBlocked,
		StatusDueSoon, StatusOverdue, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// Item is a task, or the root task of a project.
// Optional fields are nil when the store has no value for them.
type Item struct {
	ID        string
	Name      string
	Note      string
	Tags      []Tag
	ProjectID string // empty for inbox items
	ParentID  string // empty for inbox items and project roots

	DueDate          *time.Time
	EffectiveDueDate *time.Time // inherited from ancestors when set
	DeferDate        *time.Time
	AddedDate        *time.Time

	Status  TaskStatus
	Flagged bool
	InInbox bool
}

// HasTagNamed reports whether the item carries a tag with the given name.
func (i *Item) HasTagNamed(name string) bool {
	for _, t := range i.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasTagID reports whether the item carries the tag with the given ID.
func (i *Item) HasTagID(id string) bool {
	for _, t := range i.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
