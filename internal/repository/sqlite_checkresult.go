package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/google/uuid"
)

// checkedAtLayout is fixed-width so checked_at sorts as text.
const checkedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteCheckResultRepo struct {
	db db.DBTX
}

func NewSQLiteCheckResultRepo(conn db.DBTX) *SQLiteCheckResultRepo {
	return &SQLiteCheckResultRepo{db: conn}
}

func (r *SQLiteCheckResultRepo) Create(ctx context.Context, cr *domain.CheckResult) error {
	if cr.ID == "" {
		cr.ID = uuid.New().String()
	}
	if cr.CheckedAt.IsZero() {
		cr.CheckedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO check_results (id, task_id, status, subtask, checked_at) VALUES (?, ?, ?, ?, ?)`,
		cr.ID, cr.TaskID, string(cr.Status), cr.Subtask, cr.CheckedAt.UTC().Format(checkedAtLayout))
	if err != nil {
		return fmt.Errorf("inserting check result: %w", err)
	}
	return nil
}

// ListByTask returns the task's results, newest first.
func (r *SQLiteCheckResultRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.CheckResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, status, subtask, checked_at FROM check_results
		WHERE task_id = ? ORDER BY checked_at DESC, rowid DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing check results: %w", err)
	}
	defer rows.Close()

	var out []*domain.CheckResult
	for rows.Next() {
		var cr domain.CheckResult
		var status, checkedAt string
		if err := rows.Scan(&cr.ID, &cr.TaskID, &status, &cr.Subtask, &checkedAt); err != nil {
			return nil, fmt.Errorf("scanning check result: %w", err)
		}
		cr.Status = domain.CheckStatus(status)
		if cr.CheckedAt, err = time.Parse(checkedAtLayout, checkedAt); err != nil {
			return nil, fmt.Errorf("parsing checked_at: %w", err)
		}
		out = append(out, &cr)
	}
	return out, rows.Err()
}
