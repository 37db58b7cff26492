package database

import (
	"context"
	"database/sql"
)

// runMigrations creates the database schema. Column and application
// positions are dense zero-based ordinals maintained by the services;
// the schema deliberately does not declare UNIQUE(column_id, position)
// because the grouped writes that renumber are not atomic and pass
// through transient duplicates.
func runMigrations(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS board_columns (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		column_id TEXT NOT NULL REFERENCES board_columns(id),
		company TEXT NOT NULL,
		role TEXT NOT NULL,
		url TEXT,
		date_applied DATETIME,
		salary_min INTEGER,
		salary_max INTEGER,
		salary_currency TEXT NOT NULL DEFAULT 'USD',
		notes TEXT,
		position INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		role TEXT,
		email TEXT,
		phone TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL
	);

	-- from/to column ids are soft references: the transition log is
	-- append-only provenance and outlives column deletion.
	CREATE TABLE IF NOT EXISTS column_transitions (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
		from_column_id TEXT,
		to_column_id TEXT NOT NULL,
		transitioned_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS job_listings (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		source_id TEXT NOT NULL,
		company TEXT NOT NULL,
		title TEXT NOT NULL,
		locations TEXT NOT NULL DEFAULT '[]',
		url TEXT NOT NULL,
		category TEXT,
		sponsorship TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		date_posted DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(source, source_id)
	);

	CREATE TABLE IF NOT EXISTS api_tokens (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_board_columns_user ON board_columns(user_id, position);
	CREATE INDEX IF NOT EXISTS idx_applications_user ON applications(user_id);
	CREATE INDEX IF NOT EXISTS idx_applications_column ON applications(column_id, position);
	CREATE INDEX IF NOT EXISTS idx_contacts_application ON contacts(application_id);
	CREATE INDEX IF NOT EXISTS idx_transitions_application ON column_transitions(application_id);
	CREATE INDEX IF NOT EXISTS idx_job_listings_active ON job_listings(active, date_posted);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}
