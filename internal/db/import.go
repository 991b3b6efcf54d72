package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/revlint/internal/models"
)

// ImportFile is the YAML description of a task database.
type ImportFile struct {
	Tags     []string      `yaml:"tags"`
	Folders  []FolderSpec  `yaml:"folders"`
	Projects []ProjectSpec `yaml:"projects"`
	Inbox    []TaskSpec    `yaml:"inbox"`
}

// FolderSpec describes a folder and its contents.
type FolderSpec struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Status   string        `yaml:"status"`
	Folders  []FolderSpec  `yaml:"folders"`
	Projects []ProjectSpec `yaml:"projects"`
}

// ProjectSpec describes a project. Note, tags, dates and flag belong to the
// project's root item.
type ProjectSpec struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	Status  string     `yaml:"status"`
	Note    string     `yaml:"note"`
	Tags    []string   `yaml:"tags"`
	Flagged bool       `yaml:"flagged"`
	Due     string     `yaml:"due"`
	Defer   string     `yaml:"defer"`
	Added   string     `yaml:"added"`
	Tasks   []TaskSpec `yaml:"tasks"`
}

// TaskSpec describes a task and its subtasks.
type TaskSpec struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	Status  string     `yaml:"status"` // defaults to available; "unknown" stores no status
	Note    string     `yaml:"note"`
	Tags    []string   `yaml:"tags"`
	Flagged bool       `yaml:"flagged"`
	Due     string     `yaml:"due"`
	Defer   string     `yaml:"defer"`
	Added   string     `yaml:"added"`
	Tasks   []TaskSpec `yaml:"tasks"`
}

// ImportOptions controls an import.
type ImportOptions struct {
	// Replace deletes existing folders, projects, items and tags first.
	// Preferences and run history are kept.
	Replace bool
}

// ImportStats counts imported rows.
type ImportStats struct {
	Folders  int
	Projects int
	Tasks    int
	Tags     int
}

// ErrInvalidImport is wrapped by Import for malformed input.
var ErrInvalidImport = errors.New("invalid import file")

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02T15:04:05", time.RFC3339}

// Import loads a YAML task database description into database inside one
// transaction.
func Import(ctx context.Context, database *sql.DB, r io.Reader, opts ImportOptions) (*ImportStats, error) {
	var file ImportFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if opts.Replace {
		for _, table := range []string{"item_tags", "items", "projects", "folders", "tags"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return nil, fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
	}

	imp, err := newImporter(ctx, tx)
	if err != nil {
		return nil, err
	}

	for _, name := range file.Tags {
		if _, err := imp.tagID(name); err != nil {
			return nil, err
		}
	}
	for i, f := range file.Folders {
		if err := imp.folder(f, "", i); err != nil {
			return nil, err
		}
	}
	for i, p := range file.Projects {
		if err := imp.project(p, "", i); err != nil {
			return nil, err
		}
	}
	for i, t := range file.Inbox {
		if err := imp.task(t, "", "", true, i); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	return &imp.stats, nil
}

type importer struct {
	ctx   context.Context
	tx    *sql.Tx
	tags  map[string]string
	next  map[string]int
	stats ImportStats
}

func newImporter(ctx context.Context, tx *sql.Tx) (*importer, error) {
	imp := &importer{ctx: ctx, tx: tx, tags: map[string]string{}, next: map[string]int{}}

	rows, err := tx.QueryContext(ctx, "SELECT id, name FROM tags")
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		imp.tags[name] = id
	}
	rows.Close()

	for prefix, table := range map[string]string{"TAG": "tags", "FLD": "folders", "PRJ": "projects", "TSK": "items"} {
		var maxID int
		err := tx.QueryRowContext(ctx,
			fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM %s WHERE id LIKE '%s-%%'", table, prefix),
		).Scan(&maxID)
		if err != nil {
			return nil, fmt.Errorf("failed to get next %s ID: %w", prefix, err)
		}
		imp.next[prefix] = maxID
	}

	return imp, nil
}

func (imp *importer) newID(prefix, explicit string) string {
	if explicit != "" {
		return explicit
	}
	imp.next[prefix]++
	return fmt.Sprintf("%s-%03d", prefix, imp.next[prefix])
}

func (imp *importer) tagID(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty tag name", ErrInvalidImport)
	}
	if id, ok := imp.tags[name]; ok {
		return id, nil
	}
	id := imp.newID("TAG", "")
	if _, err := imp.tx.ExecContext(imp.ctx, "INSERT INTO tags (id, name) VALUES (?, ?)", id, name); err != nil {
		return "", fmt.Errorf("failed to create tag %q: %w", name, err)
	}
	imp.tags[name] = id
	imp.stats.Tags++
	return id, nil
}

func (imp *importer) folder(f FolderSpec, parentID string, position int) error {
	if f.Name == "" {
		return fmt.Errorf("%w: folder without a name", ErrInvalidImport)
	}
	status := models.FolderStatus(f.Status)
	if status == "" {
		status = models.FolderActive
	}
	if status != models.FolderActive && status != models.FolderDropped {
		return fmt.Errorf("%w: folder %q has invalid status %q", ErrInvalidImport, f.Name, f.Status)
	}

	id := imp.newID("FLD", f.ID)
	_, err := imp.tx.ExecContext(imp.ctx,
		"INSERT INTO folders (id, name, parent_id, status, position) VALUES (?, ?, ?, ?, ?)",
		id, f.Name, nullString(parentID), string(status), position,
	)
	if err != nil {
		return fmt.Errorf("failed to import folder %q: %w", f.Name, err)
	}
	imp.stats.Folders++

	for i, child := range f.Folders {
		if err := imp.folder(child, id, i); err != nil {
			return err
		}
	}
	for i, p := range f.Projects {
		if err := imp.project(p, id, i); err != nil {
			return err
		}
	}
	return nil
}

func (imp *importer) project(p ProjectSpec, folderID string, position int) error {
	if p.Name == "" {
		return fmt.Errorf("%w: project without a name", ErrInvalidImport)
	}
	status := models.ProjectStatus(p.Status)
	if status == "" {
		status = models.ProjectActive
	}
	switch status {
	case models.ProjectActive, models.ProjectOnHold, models.ProjectDone, models.ProjectDropped:
	default:
		return fmt.Errorf("%w: project %q has invalid status %q", ErrInvalidImport, p.Name, p.Status)
	}

	id := imp.newID("PRJ", p.ID)
	_, err := imp.tx.ExecContext(imp.ctx,
		"INSERT INTO projects (id, folder_id, status, position) VALUES (?, ?, ?, ?)",
		id, nullString(folderID), string(status), position,
	)
	if err != nil {
		return fmt.Errorf("failed to import project %q: %w", p.Name, err)
	}
	imp.stats.Projects++

	root := TaskSpec{
		Name: p.Name, Note: p.Note, Tags: p.Tags, Flagged: p.Flagged,
		Due: p.Due, Defer: p.Defer, Added: p.Added,
	}
	if err := imp.insertItem(id, root, id, "", false, 0); err != nil {
		return err
	}

	for i, t := range p.Tasks {
		if err := imp.task(t, id, id, false, i); err != nil {
			return err
		}
	}
	return nil
}

func (imp *importer) task(t TaskSpec, projectID, parentID string, inInbox bool, position int) error {
	if t.Name == "" {
		return fmt.Errorf("%w: task without a name", ErrInvalidImport)
	}
	id := imp.newID("TSK", t.ID)
	if err := imp.insertItem(id, t, projectID, parentID, inInbox, position); err != nil {
		return err
	}
	imp.stats.Tasks++

	for i, child := range t.Tasks {
		if err := imp.task(child, projectID, id, inInbox, i); err != nil {
			return err
		}
	}
	return nil
}

func (imp *importer) insertItem(id string, t TaskSpec, projectID, parentID string, inInbox bool, position int) error {
	status, err := importStatus(t.Status)
	if err != nil {
		return fmt.Errorf("%w: item %q: %v", ErrInvalidImport, t.Name, err)
	}

	var dates [3]sql.NullTime
	for i, raw := range []string{t.Due, t.Defer, t.Added} {
		if dates[i], err = parseImportDate(raw); err != nil {
			return fmt.Errorf("%w: item %q: %v", ErrInvalidImport, t.Name, err)
		}
	}

	_, err = imp.tx.ExecContext(imp.ctx,
		`INSERT INTO items (id, name, note, project_id, parent_id, position, status, flagged, in_inbox, due_date, defer_date, added_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.Name, t.Note, nullString(projectID), nullString(parentID), position,
		string(status), t.Flagged, inInbox, dates[0], dates[1], dates[2],
	)
	if err != nil {
		return fmt.Errorf("failed to import item %q: %w", t.Name, err)
	}

	for i, name := range t.Tags {
		tagID, err := imp.tagID(name)
		if err != nil {
			return err
		}
		_, err = imp.tx.ExecContext(imp.ctx,
			"INSERT OR IGNORE INTO item_tags (item_id, tag_id, position) VALUES (?, ?, ?)",
			id, tagID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to tag item %q: %w", t.Name, err)
		}
	}
	return nil
}

func importStatus(raw string) (models.TaskStatus, error) {
	switch raw {
	case "":
		return models.StatusAvailable, nil
	case "unknown":
		return models.StatusUnknown, nil
	}
	status := models.TaskStatus(raw)
	if !models.ValidTaskStatus(status) {
		return "", fmt.Errorf("invalid status %q", raw)
	}
	return status, nil
}

func parseImportDate(raw string) (sql.NullTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullTime{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return sql.NullTime{Time: t, Valid: true}, nil
		}
	}
	return sql.NullTime{}, fmt.Errorf("invalid date %q", raw)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
