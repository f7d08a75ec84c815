package service

import (
	"context"

	"github.com/alexanderramin/edutrack/internal/classifier"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/progress"
)

// Course references accepted by the services are a course name (case
// insensitive) or its ID.

type CourseService interface {
	// ImportDir loads the course directory at dir and stores it.
	ImportDir(ctx context.Context, dir string) (*domain.Course, error)
	// Get returns the course with its full tree.
	Get(ctx context.Context, ref string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Delete(ctx context.Context, ref string) error
	// Export writes the stored course as a course directory under dir.
	Export(ctx context.Context, ref, dir string) error
	// Classify reports how a path in the course directory would be
	// classified. info is nil when the path is ignored.
	Classify(ctx context.Context, ref, path string, isDir bool) (course *domain.Course, info classifier.FileInfo, err error)
}

// LessonProgress is the progress of one lesson.
type LessonProgress struct {
	Path     string // "lesson" or "section/lesson"
	Lesson   *domain.Lesson
	Progress progress.Progress
}

type CourseProgress struct {
	Course  *domain.Course
	Total   progress.Progress
	Lessons []LessonProgress
}

type ProgressService interface {
	Progress(ctx context.Context, ref string) (*CourseProgress, error)
}

// CheckOutcome is the result of recording a check.
type CheckOutcome struct {
	Course *domain.Course
	Task   *domain.Task
	Result domain.CheckResult
}

// CheckListener is notified after a check result has been stored.
type CheckListener interface {
	AfterCheck(ctx context.Context, course *domain.Course, task *domain.Task, result domain.CheckResult)
}

type CheckService interface {
	// RecordResult stores status for the task at taskPath ("lesson/task" or
	// "section/lesson/task") and notifies listeners.
	RecordResult(ctx context.Context, ref, taskPath string, status domain.CheckStatus) (*CheckOutcome, error)
	History(ctx context.Context, ref, taskPath string) ([]*domain.CheckResult, error)
}

// WatchEvent reports a classified path created in a watched course.
type WatchEvent struct {
	Path     string
	Info     classifier.FileInfo
	Inserted bool
	Progress progress.Progress
	Err      error
}

type WatchService interface {
	// Watch follows the course directory until ctx is done, sending an event
	// for every classified creation. events is closed when Watch returns.
	Watch(ctx context.Context, ref string, events chan<- WatchEvent) error
}

type RemoteService interface {
	// Fetch downloads a remote course, writes it under dir when dir is not
	// empty, and stores it.
	Fetch(ctx context.Context, remoteID int, language, dir string) (*domain.Course, error)
	// ExportWire encodes the stored course as a wire course object.
	ExportWire(ctx context.Context, ref string) ([]byte, error)
}
