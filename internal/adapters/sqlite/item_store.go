// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/example/revlint/internal/models"
	"github.com/example/revlint/internal/ports/secondary"
)

// ItemStore implements secondary.ItemStore with SQLite.
type ItemStore struct {
	db *sql.DB
}

// NewItemStore creates a new SQLite item store.
func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `i.id, i.name, i.note, i.project_id, i.parent_id, i.status, i.flagged, i.in_inbox, i.due_date, i.defer_date, i.added_date`

// Snapshot loads the whole catalog.
func (s *ItemStore) Snapshot(ctx context.Context) (*models.Catalog, error) {
	cat := &models.Catalog{}

	folders, err := s.listFolders(ctx)
	if err != nil {
		return nil, err
	}
	cat.Folders = folders

	tags, err := s.listTags(ctx)
	if err != nil {
		return nil, err
	}
	cat.Tags = tags

	items, err := s.queryItems(ctx, "1=1")
	if err != nil {
		return nil, err
	}
	tree := newItemTree(items)

	rows, err := s.db.QueryContext(ctx, "SELECT id, folder_id, status FROM projects ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	var projects []*models.Project
	for rows.Next() {
		var folderID sql.NullString
		p := &models.Project{}
		if err := rows.Scan(&p.ID, &folderID, &p.Status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.FolderID = folderID.String
		projects = append(projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	for _, p := range projects {
		root, ok := tree.byID[p.ID]
		if !ok {
			// A project row without its root item is unusable.
			continue
		}
		p.Root = root
		p.Tasks = tree.flatten(root)
		cat.Projects = append(cat.Projects, p)
	}

	for _, it := range items {
		if it.InInbox && it.ParentID == "" {
			cat.Inbox = append(cat.Inbox, it)
			cat.Inbox = append(cat.Inbox, tree.flatten(it)...)
		}
	}

	return cat, nil
}

// GetItem retrieves a single item by ID, with its effective due date resolved.
func (s *ItemStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	items, err := s.queryItems(ctx, "i.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("item %s: %w", id, secondary.ErrNotFound)
	}
	item := items[0]

	effective := item.DueDate
	for parentID := item.ParentID; parentID != ""; {
		var (
			due  sql.NullTime
			next sql.NullString
		)
		err := s.db.QueryRowContext(ctx, "SELECT due_date, parent_id FROM items WHERE id = ?", parentID).Scan(&due, &next)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ancestors of %s: %w", id, err)
		}
		effective = earliest(effective, timePtr(due))
		parentID = next.String
	}
	item.EffectiveDueDate = effective

	return item, nil
}

// GetProject retrieves a project with its root and flattened tasks.
func (s *ItemStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var folderID sql.NullString
	p := &models.Project{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT folder_id, status FROM projects WHERE id = ?", id).Scan(&folderID, &p.Status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	p.FolderID = folderID.String

	items, err := s.queryItems(ctx, "i.project_id = ?", id)
	if err != nil {
		return nil, err
	}
	tree := newItemTree(items)
	root, ok := tree.byID[id]
	if !ok {
		return nil, fmt.Errorf("project %s has no root item: %w", id, secondary.ErrNotFound)
	}
	p.Root = root
	p.Tasks = tree.flatten(root)

	return p, nil
}

// FindTagByName returns the tag with the given name, or nil if none exists.
func (s *ItemStore) FindTagByName(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{}
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM tags WHERE name = ?", name).Scan(&tag.ID, &tag.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return tag, nil
}

// CreateTag creates a top-level tag.
func (s *ItemStore) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("tag name cannot be empty")
	}

	var maxID int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM tags WHERE id LIKE 'TAG-%'",
	).Scan(&maxID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next tag ID: %w", err)
	}

	tag := &models.Tag{ID: fmt.Sprintf("TAG-%03d", maxID+1), Name: name}
	_, err = s.db.ExecContext(ctx, "INSERT INTO tags (id, name) VALUES (?, ?)", tag.ID, tag.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}

// ListItemsByTag returns every item carrying the tag, project roots first.
func (s *ItemStore) ListItemsByTag(ctx context.Context, tagID string) ([]*models.Item, error) {
	items, err := s.queryItems(ctx, "i.id IN (SELECT item_id FROM item_tags WHERE tag_id = ?)", tagID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(a, b int) bool {
		return isRoot(items[a]) && !isRoot(items[b])
	})
	return items, nil
}

// AddTag attaches a tag after the item's existing tags.
func (s *ItemStore) AddTag(ctx context.Context, itemID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_tags (item_id, tag_id, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM item_tags WHERE item_id = ?))`,
		itemID, tagID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to add tag %s to %s: %w", tagID, itemID, err)
	}
	return s.touch(ctx, itemID)
}

// RemoveTag detaches a tag.
func (s *ItemStore) RemoveTag(ctx context.Context, itemID, tagID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM item_tags WHERE item_id = ? AND tag_id = ?", itemID, tagID)
	if err != nil {
		return fmt.Errorf("failed to remove tag %s from %s: %w", tagID, itemID, err)
	}
	return s.touch(ctx, itemID)
}

// SetNote replaces the item's note.
func (s *ItemStore) SetNote(ctx context.Context, itemID, note string) error {
	return s.update(ctx, itemID, "note", note)
}

// SetFlagged sets the item's flagged attribute.
func (s *ItemStore) SetFlagged(ctx context.Context, itemID string, flagged bool) error {
	return s.update(ctx, itemID, "flagged", flagged)
}

// SetDueDate sets or clears the due date.
func (s *ItemStore) SetDueDate(ctx context.Context, itemID string, due *time.Time) error {
	return s.update(ctx, itemID, "due_date", nullTime(due))
}

// SetDeferDate sets or clears the defer date.
func (s *ItemStore) SetDeferDate(ctx context.Context, itemID string, deferDate *time.Time) error {
	return s.update(ctx, itemID, "defer_date", nullTime(deferDate))
}

// update writes one column. column is never user input.
func (s *ItemStore) update(ctx context.Context, itemID, column string, value any) error {
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE items SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", column),
		value, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s of %s: %w", column, itemID, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("item %s: %w", itemID, secondary.ErrNotFound)
	}

	return nil
}

func (s *ItemStore) touch(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE items SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to touch %s: %w", itemID, err)
	}
	return nil
}

func (s *ItemStore) listFolders(ctx context.Context) ([]*models.Folder, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, parent_id, status FROM folders ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []*models.Folder
	for rows.Next() {
		var parentID sql.NullString
		f := &models.Folder{}
		if err := rows.Scan(&f.ID, &f.Name, &parentID, &f.Status); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		f.ParentID = parentID.String
		folders = append(folders, f)
	}

	return folders, rows.Err()
}

func (s *ItemStore) listTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM tags ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

// queryItems loads items matching where (over alias i) in outline order,
// with their tags attached. EffectiveDueDate is left to the caller.
func (s *ItemStore) queryItems(ctx context.Context, where string, args ...any) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM items i WHERE "+where+" ORDER BY i.position, i.rowid",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	var items []*models.Item
	byID := make(map[string]*models.Item)
	for rows.Next() {
		var (
			projectID, parentID       sql.NullString
			status                    string
			due, deferDate, addedDate sql.NullTime
		)
		item := &models.Item{}
		err := rows.Scan(&item.ID, &item.Name, &item.Note, &projectID, &parentID, &status,
			&item.Flagged, &item.InInbox, &due, &deferDate, &addedDate)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.ProjectID = projectID.String
		item.ParentID = parentID.String
		item.Status = models.TaskStatus(status)
		item.DueDate = timePtr(due)
		item.DeferDate = timePtr(deferDate)
		item.AddedDate = timePtr(addedDate)

		items = append(items, item)
		byID[item.ID] = item
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	tagRows, err := s.db.QueryContext(ctx,
		`SELECT it.item_id, t.id, t.name FROM item_tags it
		 JOIN tags t ON t.id = it.tag_id
		 JOIN items i ON i.id = it.item_id
		 WHERE `+where+` ORDER BY it.item_id, it.position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list item tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var itemID string
		var tag models.Tag
		if err := tagRows.Scan(&itemID, &tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan item tag: %w", err)
		}
		if item, ok := byID[itemID]; ok {
			item.Tags = append(item.Tags, tag)
		}
	}

	return items, tagRows.Err()
}

// itemTree indexes items by ID and parent for outline traversal.
type itemTree struct {
	byID     map[string]*models.Item
	children map[string][]*models.Item
}

func newItemTree(items []*models.Item) *itemTree {
	tree := &itemTree{
		byID:     make(map[string]*models.Item, len(items)),
		children: make(map[string][]*models.Item),
	}
	for _, it := range items {
		tree.byID[it.ID] = it
		if it.ParentID != "" {
			tree.children[it.ParentID] = append(tree.children[it.ParentID], it)
		}
	}
	return tree
}

// flatten returns the descendants of root depth-first and resolves effective
// due dates: the earliest due date on the path from root to the item.
func (t *itemTree) flatten(root *models.Item) []*models.Item {
	var out []*models.Item
	root.EffectiveDueDate = root.DueDate

	var walk func(parent *models.Item)
	walk = func(parent *models.Item) {
		for _, child := range t.children[parent.ID] {
			child.EffectiveDueDate = earliest(child.DueDate, parent.EffectiveDueDate)
			out = append(out, child)
			walk(child)
		}
	}
	walk(root)

	return out
}

func isRoot(item *models.Item) bool {
	return item.ProjectID != "" && item.ProjectID == item.ID
}

func earliest(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Ensure ItemStore implements the interface
var _ secondary.ItemStore = (*ItemStore)(nil)
