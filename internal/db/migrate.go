package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL UNIQUE,
		summary            TEXT NOT NULL DEFAULT '',
		language           TEXT NOT NULL DEFAULT '',
		human_language     TEXT NOT NULL DEFAULT '',
		mode               TEXT NOT NULL DEFAULT 'study'
		                   CHECK(mode IN ('study','course_creator')),
		course_dir         TEXT NOT NULL DEFAULT '',
		remote_id          INTEGER NOT NULL DEFAULT 0,
		is_public          INTEGER NOT NULL DEFAULT 0,
		is_adaptive        INTEGER NOT NULL DEFAULT 0,
		is_idea_compatible INTEGER NOT NULL DEFAULT 0,
		update_date        TEXT,
		section_ids        TEXT NOT NULL DEFAULT '[]',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sections (
		id          TEXT PRIMARY KEY,
		course_id   TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		item_index  INTEGER NOT NULL,
		remote_id   INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS lessons (
		id          TEXT PRIMARY KEY,
		course_id   TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		section_id  TEXT REFERENCES sections(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		item_index  INTEGER NOT NULL,
		remote_id   INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sections_course ON sections(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_lessons_course ON lessons(course_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                   TEXT PRIMARY KEY,
		lesson_id            TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		name                 TEXT NOT NULL,
		task_index           INTEGER NOT NULL,
		remote_id            INTEGER NOT NULL DEFAULT 0,
		kind                 TEXT NOT NULL DEFAULT 'edu'
		                     CHECK(kind IN ('edu','output','theory','subtasks')),
		status               TEXT NOT NULL DEFAULT 'Unchecked'
		                     CHECK(status IN ('Unchecked','Failed','Solved')),
		description          TEXT NOT NULL DEFAULT '',
		active_subtask_index INTEGER NOT NULL DEFAULT 0,
		last_subtask_index   INTEGER NOT NULL DEFAULT 0,
		UNIQUE(lesson_id, name)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_lesson ON tasks(lesson_id)`,

	`CREATE TABLE IF NOT EXISTS task_files (
		task_id      TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		path         TEXT NOT NULL,
		kind         TEXT NOT NULL CHECK(kind IN ('task','test','additional')),
		text         TEXT NOT NULL DEFAULT '',
		visible      INTEGER NOT NULL DEFAULT 1,
		user_created INTEGER NOT NULL DEFAULT 0,
		placeholders TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (task_id, path)
	)`,

	// Check history for status changes recorded through the CLI.
	`CREATE TABLE IF NOT EXISTS check_results (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		status     TEXT NOT NULL,
		subtask    INTEGER NOT NULL DEFAULT 0,
		checked_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_check_results_task ON check_results(task_id)`,
}
