package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/edutrack/internal/courseformat"
	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/repository"
	"github.com/alexanderramin/edutrack/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	courses repository.CourseRepo
	tasks   repository.TaskRepo
	files   repository.TaskFileRepo
	results repository.CheckResultRepo
	uow     db.UnitOfWork
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testRepos{
		courses: repository.NewSQLiteCourseRepo(database),
		tasks:   repository.NewSQLiteTaskRepo(database),
		files:   repository.NewSQLiteTaskFileRepo(database),
		results: repository.NewSQLiteCheckResultRepo(database),
		uow:     testutil.NewTestUoW(database),
	}
}

// pythonCourse builds a study course with a top-level lesson and a section.
func pythonCourse(name string) *domain.Course {
	return testutil.NewTestCourse(name,
		testutil.WithItems(
			testutil.NewTestLesson("warmup",
				testutil.NewTestTask("intro", testutil.WithTaskKind(domain.TaskTheory)),
				testutil.NewTestTask("hello",
					testutil.WithTaskFile("main.py", "print('hi')"),
					testutil.WithTestFile("tests.py", "assert True"),
					testutil.WithRemoteStep(11),
				),
			),
			testutil.NewTestSection("core",
				testutil.NewTestLesson("control",
					testutil.NewTestTask("loops", testutil.WithTaskFile("loops.py", "for")),
					testutil.NewTestTask("steps", testutil.WithSubtasks(0, 1), testutil.WithTaskFile("s.py", "")),
				),
			),
		),
	)
}

// importCourse writes c to a temp dir and imports it through the service.
func importCourse(t *testing.T, repos testRepos, c *domain.Course) (*domain.Course, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "course")
	require.NoError(t, courseformat.Write(dir, c))
	imported, err := NewCourseService(repos.courses, repos.uow).ImportDir(context.Background(), dir)
	require.NoError(t, err)
	return imported, imported.Dir
}

type recordingUseCaseObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingUseCaseObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}
