package db

import "database/sql"

// SchemaSQL is the complete modern schema for fresh revlint installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(). If repository code references a column that
// doesn't exist here, tests fail immediately with "no such column".
//
// IMPORTANT: Keep this in sync with migrations.
//
// A project is a row in projects plus a root row in items sharing its ID.
// Task statuses are stored as reported by the source; the empty string means
// the source reported none.
const SchemaSQL = `
-- Folders (nested via parent_id)
CREATE TABLE IF NOT EXISTS folders (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	parent_id TEXT,
	status TEXT NOT NULL CHECK(status IN ('active', 'dropped')) DEFAULT 'active',
	position INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id);

-- Tags (names are unique; lookups are by name)
CREATE TABLE IF NOT EXISTS tags (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Projects
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	folder_id TEXT,
	status TEXT NOT NULL CHECK(status IN ('active', 'on_hold', 'done', 'dropped')) DEFAULT 'active',
	position INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_folder ON projects(folder_id);

-- Items: project roots, tasks and inbox items
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	project_id TEXT,
	parent_id TEXT,
	position INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL CHECK(status IN ('', 'available', 'next', 'blocked', 'due_soon', 'overdue', 'completed', 'dropped')) DEFAULT '',
	flagged INTEGER NOT NULL DEFAULT 0,
	in_inbox INTEGER NOT NULL DEFAULT 0,
	due_date DATETIME,
	defer_date DATETIME,
	added_date DATETIME,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
	FOREIGN KEY (parent_id) REFERENCES items(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id);
CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);
CREATE INDEX IF NOT EXISTS idx_items_inbox ON items(in_inbox);

-- Item tags (ordered)
CREATE TABLE IF NOT EXISTS item_tags (
	item_id TEXT NOT NULL,
	tag_id TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (item_id, tag_id),
	FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
	FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_item_tags_tag ON item_tags(tag_id);

-- Linter preferences (key-value)
CREATE TABLE IF NOT EXISTS preferences (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Runs
CREATE TABLE IF NOT EXISTS lint_runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL CHECK(kind IN ('sweep', 'fix', 'clear')),
	status TEXT NOT NULL CHECK(status IN ('running', 'completed', 'failed', 'cancelled')) DEFAULT 'running',
	dry_run INTEGER NOT NULL DEFAULT 0,
	summary TEXT,
	changes INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_lint_runs_started ON lint_runs(started_at);

-- Audit trail of mutations made by runs
CREATE TABLE IF NOT EXISTS lint_log (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	actor_id TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	FOREIGN KEY (run_id) REFERENCES lint_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_lint_log_run ON lint_log(run_id);
CREATE INDEX IF NOT EXISTS idx_lint_log_entity ON lint_log(entity_id);
`

// InitSchema creates the database schema
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations(db)
	}

	// Completely fresh install - create modern schema directly
	// Also create schema_version at max version to prevent migrations from running
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
