package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
)

type SQLiteTaskFileRepo struct {
	db db.DBTX
}

func NewSQLiteTaskFileRepo(conn db.DBTX) *SQLiteTaskFileRepo {
	return &SQLiteTaskFileRepo{db: conn}
}

func (r *SQLiteTaskFileRepo) Insert(ctx context.Context, taskID string, kind domain.FileKind, tf *domain.TaskFile) (bool, error) {
	placeholders, err := encodePlaceholders(tf.Placeholders)
	if err != nil {
		return false, fmt.Errorf("encoding placeholders for %q: %w", tf.Name, err)
	}
	visible := tf.Visible
	if kind != domain.KindTaskFile {
		visible = true
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_files (task_id, path, kind, text, visible, user_created, placeholders)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		taskID, tf.Name, string(kind), tf.Text, boolToInt(visible), boolToInt(tf.UserCreated), placeholders)
	if err != nil {
		return false, fmt.Errorf("inserting task file %q: %w", tf.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting task file %q: %w", tf.Name, err)
	}
	return n > 0, nil
}

func (r *SQLiteTaskFileRepo) ListByTask(ctx context.Context, taskID string) ([]FileRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT path, kind, text, visible, user_created, placeholders
		FROM task_files WHERE task_id = ? ORDER BY path`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var fr FileRow
		var kind, placeholders string
		var visible, userCreated int
		if err := rows.Scan(&fr.File.Name, &kind, &fr.File.Text, &visible, &userCreated, &placeholders); err != nil {
			return nil, fmt.Errorf("scanning task file: %w", err)
		}
		fr.Kind = domain.FileKind(kind)
		fr.File.Visible = intToBool(visible)
		fr.File.UserCreated = intToBool(userCreated)
		if fr.File.Placeholders, err = decodePlaceholders(placeholders); err != nil {
			return nil, fmt.Errorf("decoding placeholders for %q: %w", fr.File.Name, err)
		}
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task files: %w", err)
	}
	return out, nil
}
