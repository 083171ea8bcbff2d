package store

// The schema sticks to types both SQLite and PostgreSQL accept. Tag and
// question lists are stored as JSON arrays in TEXT columns.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL,
		title               TEXT NOT NULL,
		type                TEXT NOT NULL,
		start_page          INTEGER,
		end_page            INTEGER,
		start_question      INTEGER,
		end_question        INTEGER,
		sub_questions       INTEGER,
		vocab_count         INTEGER,
		completed_pages     INTEGER NOT NULL DEFAULT 0,
		completed_vocab     INTEGER NOT NULL DEFAULT 0,
		completed_questions TEXT NOT NULL DEFAULT '[]',
		progress            INTEGER NOT NULL DEFAULT 0,
		status              TEXT NOT NULL DEFAULT 'todo',
		priority            TEXT NOT NULL DEFAULT 'medium',
		due_date            TIMESTAMP NOT NULL,
		notify              BOOLEAN NOT NULL DEFAULT FALSE,
		notify_time         TIMESTAMP,
		reminded_at         TIMESTAMP,
		tags                TEXT NOT NULL DEFAULT '[]',
		created_at          TIMESTAMP NOT NULL,
		updated_at          TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_notify ON tasks(notify, reminded_at)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id      TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		bio          TEXT NOT NULL DEFAULT '',
		is_public    BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at   TIMESTAMP NOT NULL
	)`,
}
