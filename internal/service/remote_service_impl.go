package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexanderramin/edutrack/internal/courseformat"
	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/remote"
	"github.com/alexanderramin/edutrack/internal/repository"
)

// ErrCourseExists is returned when a fetched course has the name of a stored
// course.
var ErrCourseExists = errors.New("course already exists")

// CourseFetcher downloads a whole course from the remote platform.
type CourseFetcher interface {
	FetchCourse(ctx context.Context, id int, language string) (*domain.Course, error)
}

type remoteService struct {
	fetcher  CourseFetcher
	courses  repository.CourseRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRemoteService(fetcher CourseFetcher, courses repository.CourseRepo, uow db.UnitOfWork, observers ...UseCaseObserver) RemoteService {
	return &remoteService{
		fetcher:  fetcher,
		courses:  courses,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *remoteService) Fetch(ctx context.Context, remoteID int, language, dir string) (course *domain.Course, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"remote_id": remoteID}
	defer observe(ctx, s.observer, "fetch-course", startedAt, fields, &err)

	course, err = s.fetcher.FetchCourse(ctx, remoteID, language)
	if err != nil {
		return nil, fmt.Errorf("fetching course %d: %w", remoteID, err)
	}
	fields["course"] = course.Name
	fields["task_count"] = len(course.Tasks())

	_, err = s.courses.GetByName(ctx, course.Name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("course %q: %w", course.Name, ErrCourseExists)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	if dir != "" {
		if course.Dir, err = filepath.Abs(dir); err != nil {
			return nil, fmt.Errorf("resolving %s: %w", dir, err)
		}
	}

	// Files are written last so a failed write rolls the rows back.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteCourseRepo(tx).SaveTree(ctx, course); err != nil {
			return fmt.Errorf("saving course %q: %w", course.Name, err)
		}
		if course.Dir == "" {
			return nil
		}
		return courseformat.Write(course.Dir, course)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *remoteService) ExportWire(ctx context.Context, ref string) ([]byte, error) {
	c, err := resolveCourse(ctx, s.courses, ref)
	if err != nil {
		return nil, err
	}
	return remote.MarshalCourse(c)
}
