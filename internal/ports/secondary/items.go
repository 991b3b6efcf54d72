// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"

	"github.com/example/revlint/internal/models"
)

// ErrNotFound is wrapped by stores when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// ItemStore defines the secondary port for the hierarchical task database.
type ItemStore interface {
	// Snapshot loads projects with their flattened tasks, folders, tags and
	// the inbox.
	Snapshot(ctx context.Context) (*models.Catalog, error)

	// GetItem retrieves a single item by ID.
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// GetProject retrieves a project, its root and its tasks.
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// FindTagByName returns the tag with the given name, or nil if none exists.
	FindTagByName(ctx context.Context, name string) (*models.Tag, error)

	// CreateTag creates a top-level tag.
	CreateTag(ctx context.Context, name string) (*models.Tag, error)

	// ListItemsByTag returns every item carrying the tag, projects first.
	ListItemsByTag(ctx context.Context, tagID string) ([]*models.Item, error)

	// AddTag attaches a tag. Attaching a tag already present is a no-op.
	AddTag(ctx context.Context, itemID, tagID string) error

	// RemoveTag detaches a tag. Detaching an absent tag is a no-op.
	RemoveTag(ctx context.Context, itemID, tagID string) error

	// SetNote replaces the item's note.
	SetNote(ctx context.Context, itemID, note string) error

	// SetFlagged sets the item's flagged attribute.
	SetFlagged(ctx context.Context, itemID string, flagged bool) error

	// SetDueDate sets or, with nil, clears the due date.
	SetDueDate(ctx context.Context, itemID string, due *time.Time) error

	// SetDeferDate sets or, with nil, clears the defer date.
	SetDeferDate(ctx context.Context, itemID string, deferDate *time.Time) error
}

// PreferenceStore defines the secondary port for the key-value preference store.
type PreferenceStore interface {
	// Read returns the stored value; ok is false when the key is unset.
	Read(ctx context.Context, key string) (value string, ok bool, err error)

	// Write stores a value, replacing any previous one.
	Write(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an unset key is a no-op.
	Delete(ctx context.Context, key string) error

	// List returns all stored values.
	List(ctx context.Context) (map[string]string, error)
}
