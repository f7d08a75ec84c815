package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type CourseRepo interface {
	// SaveTree inserts the course with all its sections, lessons, tasks and
	// task files. Missing IDs are generated.
	SaveTree(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	GetByName(ctx context.Context, name string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	// LoadTree returns the course with its full item tree.
	LoadTree(ctx context.Context, id string) (*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// UpdateProgress stores status and the active sub-step.
	UpdateProgress(ctx context.Context, t *domain.Task) error
}

type TaskFileRepo interface {
	// Insert adds a file entry unless the path is already registered for
	// the task, reporting whether a row was written.
	Insert(ctx context.Context, taskID string, kind domain.FileKind, tf *domain.TaskFile) (bool, error)
	ListByTask(ctx context.Context, taskID string) ([]FileRow, error)
}

type CheckResultRepo interface {
	Create(ctx context.Context, r *domain.CheckResult) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.CheckResult, error)
}

// FileRow is one stored task_files row.
type FileRow struct {
	Kind domain.FileKind
	File domain.TaskFile
}
