package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/edutrack/internal/courseformat"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/repository"
	"github.com/alexanderramin/edutrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected write failure")

func TestCourseService_ImportRollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	courses := repository.NewSQLiteCourseRepo(database)
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 4, Err: errInjected}

	dir := filepath.Join(t.TempDir(), "course")
	require.NoError(t, courseformat.Write(dir, pythonCourse("Half Written")))

	_, err := NewCourseService(courses, uow).ImportDir(context.Background(), dir)
	require.ErrorIs(t, err, errInjected)

	list, err := courses.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckService_ResultWriteFailureKeepsStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := testRepos{
		courses: repository.NewSQLiteCourseRepo(database),
		tasks:   repository.NewSQLiteTaskRepo(database),
		files:   repository.NewSQLiteTaskFileRepo(database),
		results: repository.NewSQLiteCheckResultRepo(database),
		uow:     testutil.NewTestUoW(database),
	}
	course, _ := importCourse(t, repos, pythonCourse("Rollback"))

	// The status update is the first write and the result row the second.
	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errInjected}
	listener := &recordingListener{}
	svc := NewCheckService(repos.courses, repos.results, failing, []CheckListener{listener})

	_, err := svc.RecordResult(ctx, "Rollback", "warmup/hello", domain.StatusSolved)
	require.ErrorIs(t, err, errInjected)
	assert.Empty(t, listener.calls)

	stored, err := repos.tasks.GetByID(ctx, course.TaskByPath("warmup/hello").ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnchecked, stored.Status)
}
