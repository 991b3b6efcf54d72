// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/example/revlint/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedTag inserts a tag and returns its ID.
func seedTag(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO tags (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	return id
}

// seedFolder inserts a folder and returns its ID.
func seedFolder(t *testing.T, db *sql.DB, id, name, parentID string) string {
	t.Helper()
	var parent any
	if parentID != "" {
		parent = parentID
	}
	_, err := db.Exec("INSERT INTO folders (id, name, parent_id) VALUES (?, ?, ?)", id, name, parent)
	if err != nil {
		t.Fatalf("failed to seed folder: %v", err)
	}
	return id
}

// seedProject inserts a project and its root item and returns the ID.
func seedProject(t *testing.T, db *sql.DB, id, name, folderID, status string) string {
	t.Helper()
	var folder any
	if folderID != "" {
		folder = folderID
	}
	if status == "" {
		status = "active"
	}
	if _, err := db.Exec("INSERT INTO projects (id, folder_id, status) VALUES (?, ?, ?)", id, folder, status); err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	if _, err := db.Exec("INSERT INTO items (id, name, project_id) VALUES (?, ?, ?)", id, name, id); err != nil {
		t.Fatalf("failed to seed project root: %v", err)
	}
	return id
}

// seedTask inserts a task under parentID (a project root or another task).
func seedTask(t *testing.T, db *sql.DB, id, name, projectID, parentID, status string, position int) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO items (id, name, project_id, parent_id, status, position) VALUES (?, ?, ?, ?, ?, ?)",
		id, name, projectID, parentID, status, position,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// seedInboxItem inserts an inbox item. added may be nil.
func seedInboxItem(t *testing.T, db *sql.DB, id, name string, added *time.Time) string {
	t.Helper()
	var addedAt any
	if added != nil {
		addedAt = *added
	}
	_, err := db.Exec(
		"INSERT INTO items (id, name, in_inbox, status, added_date) VALUES (?, ?, 1, 'available', ?)",
		id, name, addedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed inbox item: %v", err)
	}
	return id
}

// tagItem attaches a tag to an item.
func tagItem(t *testing.T, db *sql.DB, itemID, tagID string, position int) {
	t.Helper()
	_, err := db.Exec("INSERT INTO item_tags (item_id, tag_id, position) VALUES (?, ?, ?)", itemID, tagID, position)
	if err != nil {
		t.Fatalf("failed to tag item: %v", err)
	}
}

// setDue sets an item's due date.
func setDue(t *testing.T, db *sql.DB, itemID string, due time.Time) {
	t.Helper()
	if _, err := db.Exec("UPDATE items SET due_date = ? WHERE id = ?", due, itemID); err != nil {
		t.Fatalf("failed to set due date: %v", err)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
