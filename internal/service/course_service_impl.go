package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexanderramin/edutrack/internal/classifier"
	"github.com/alexanderramin/edutrack/internal/courseformat"
	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/repository"
)

type courseService struct {
	courses  repository.CourseRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCourseService(courses repository.CourseRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CourseService {
	return &courseService{
		courses:  courses,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *courseService) ImportDir(ctx context.Context, dir string) (course *domain.Course, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"dir": dir}
	defer observe(ctx, s.observer, "import-course", startedAt, fields, &err)

	course, err = courseformat.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading course: %w", err)
	}
	fields["course"] = course.Name
	fields["task_count"] = len(course.Tasks())

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteCourseRepo(tx).SaveTree(ctx, course)
	})
	if err != nil {
		return nil, fmt.Errorf("saving course %q: %w", course.Name, err)
	}
	return course, nil
}

func (s *courseService) Get(ctx context.Context, ref string) (*domain.Course, error) {
	return resolveCourse(ctx, s.courses, ref)
}

func (s *courseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *courseService) Delete(ctx context.Context, ref string) error {
	c, err := resolveCourse(ctx, s.courses, ref)
	if err != nil {
		return err
	}
	return s.courses.Delete(ctx, c.ID)
}

func (s *courseService) Export(ctx context.Context, ref, dir string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"course": ref, "dir": dir}
	defer observe(ctx, s.observer, "export-course", startedAt, fields, &err)

	c, err := resolveCourse(ctx, s.courses, ref)
	if err != nil {
		return err
	}
	return courseformat.Write(dir, c)
}

func (s *courseService) Classify(ctx context.Context, ref, path string, isDir bool) (*domain.Course, classifier.FileInfo, error) {
	c, err := resolveCourse(ctx, s.courses, ref)
	if err != nil {
		return nil, nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Dir, path)
	}
	info, ok := classifier.Classify(classifier.NewProject(c.Dir, c), classifier.Event{Path: path, IsDir: isDir})
	if !ok {
		return c, nil, nil
	}
	return c, info, nil
}
