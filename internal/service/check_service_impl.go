package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/repository"
)

type checkService struct {
	courses   repository.CourseRepo
	results   repository.CheckResultRepo
	uow       db.UnitOfWork
	listeners []CheckListener
	observer  UseCaseObserver
}

func NewCheckService(
	courses repository.CourseRepo,
	results repository.CheckResultRepo,
	uow db.UnitOfWork,
	listeners []CheckListener,
	observers ...UseCaseObserver,
) CheckService {
	return &checkService{
		courses:   courses,
		results:   results,
		uow:       uow,
		listeners: listeners,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *checkService) RecordResult(ctx context.Context, ref, taskPath string, status domain.CheckStatus) (outcome *CheckOutcome, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"course": ref, "task": taskPath, "status": string(status)}
	defer observe(ctx, s.observer, "record-check", startedAt, fields, &err)

	outcome = &CheckOutcome{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		courses := repository.NewSQLiteCourseRepo(tx)
		c, err := resolveCourse(ctx, courses, ref)
		if err != nil {
			return err
		}
		task := c.TaskByPath(taskPath)
		if task == nil {
			return fmt.Errorf("task %q in course %q: %w", taskPath, c.Name, repository.ErrNotFound)
		}

		subtask := task.ActiveSubtaskIndex
		if err := task.SetStatus(status); err != nil {
			return err
		}
		if err := repository.NewSQLiteTaskRepo(tx).UpdateProgress(ctx, task); err != nil {
			return err
		}
		result := domain.CheckResult{TaskID: task.ID, Status: status, Subtask: subtask}
		if err := repository.NewSQLiteCheckResultRepo(tx).Create(ctx, &result); err != nil {
			return err
		}

		outcome.Course = c
		outcome.Task = task
		outcome.Result = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["task_status"] = string(outcome.Task.Status)

	for _, l := range s.listeners {
		l.AfterCheck(ctx, outcome.Course, outcome.Task, outcome.Result)
	}
	return outcome, nil
}

func (s *checkService) History(ctx context.Context, ref, taskPath string) ([]*domain.CheckResult, error) {
	c, err := resolveCourse(ctx, s.courses, ref)
	if err != nil {
		return nil, err
	}
	task := c.TaskByPath(taskPath)
	if task == nil {
		return nil, fmt.Errorf("task %q in course %q: %w", taskPath, c.Name, repository.ErrNotFound)
	}
	return s.results.ListByTask(ctx, task.ID)
}
