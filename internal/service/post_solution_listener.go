package service

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// SolutionPoster submits a checked solution to the remote platform.
type SolutionPoster interface {
	LoggedIn() bool
	PostSolution(ctx context.Context, task *domain.Task, passed bool) error
}

// PostSolutionListener posts checked edu tasks of study courses when the user
// is logged in. Posting failures are logged and never fail the check.
type PostSolutionListener struct {
	poster SolutionPoster
	logger *slog.Logger
}

func NewPostSolutionListener(poster SolutionPoster, logger *slog.Logger) *PostSolutionListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostSolutionListener{poster: poster, logger: logger}
}

func (l *PostSolutionListener) AfterCheck(ctx context.Context, course *domain.Course, task *domain.Task, _ domain.CheckResult) {
	if !l.ShouldPost(course, task) {
		return
	}
	if err := l.poster.PostSolution(ctx, task, task.Status == domain.StatusSolved); err != nil {
		l.logger.WarnContext(ctx, "posting solution failed", "task", task.Name, "step", task.RemoteID, "error", err)
	}
}

// ShouldPost reports whether a check of task in course is sent to the
// platform.
func (l *PostSolutionListener) ShouldPost(course *domain.Course, task *domain.Task) bool {
	return l.poster != nil &&
		l.poster.LoggedIn() &&
		course != nil &&
		course.IsStudy() &&
		task.Status != domain.StatusUnchecked &&
		task.Kind == domain.TaskEdu
}
