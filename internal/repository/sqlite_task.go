package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, name, task_index, remote_id, kind, status, description,
	active_subtask_index, last_subtask_index`

// GetByID returns the task with its files.
func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	if err := r.attachFiles(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByLesson returns the lesson's tasks in order, files included.
func (r *SQLiteTaskRepo) ListByLesson(ctx context.Context, lessonID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE lesson_id = ? ORDER BY task_index`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	// Close before issuing file queries: in-memory databases hold one connection.
	rows.Close()

	for _, t := range tasks {
		if err := r.attachFiles(ctx, t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) UpdateProgress(ctx context.Context, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, active_subtask_index = ? WHERE id = ?`,
		string(t.Status), t.ActiveSubtaskIndex, t.ID)
	if err != nil {
		return fmt.Errorf("updating task progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) attachFiles(ctx context.Context, t *domain.Task) error {
	rows, err := NewSQLiteTaskFileRepo(r.db).ListByTask(ctx, t.ID)
	if err != nil {
		return err
	}
	for _, fr := range rows {
		switch fr.Kind {
		case domain.KindTaskFile:
			tf := fr.File
			t.Files[tf.Name] = &tf
		case domain.KindTestFile:
			t.TestsText[fr.File.Name] = fr.File.Text
		case domain.KindAdditionalFile:
			t.AdditionalFiles[fr.File.Name] = fr.File.Text
		}
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	t := domain.NewTask("", "")
	var kind, status string
	err := row.Scan(&t.ID, &t.Name, &t.Index, &t.RemoteID, &kind, &status, &t.Description,
		&t.ActiveSubtaskIndex, &t.LastSubtaskIndex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Kind = domain.TaskKind(kind)
	t.Status = domain.CheckStatus(status)
	return t, nil
}
