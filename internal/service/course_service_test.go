package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/edutrack/internal/classifier"
	"github.com/alexanderramin/edutrack/internal/courseformat"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseService_ImportDirAndGet(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	obs := &recordingUseCaseObserver{}

	dir := filepath.Join(t.TempDir(), "course")
	require.NoError(t, courseformat.Write(dir, pythonCourse("Python Basics")))

	svc := NewCourseService(repos.courses, repos.uow, obs)
	imported, err := svc.ImportDir(ctx, dir)
	require.NoError(t, err)
	assert.NotEmpty(t, imported.ID)

	got, err := svc.Get(ctx, "python basics")
	require.NoError(t, err)
	assert.Equal(t, imported.ID, got.ID)
	assert.Len(t, got.Tasks(), 4)
	hello := got.TaskByPath("warmup/hello")
	require.NotNil(t, hello)
	assert.Equal(t, "assert True", hello.TestsText["tests.py"])

	byID, err := svc.Get(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, "Python Basics", byID.Name)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "import-course", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 4, obs.events[0].Fields["task_count"])
}

func TestCourseService_ImportDirRejectsInvalidCourse(t *testing.T) {
	repos := setupRepos(t)
	obs := &recordingUseCaseObserver{}
	svc := NewCourseService(repos.courses, repos.uow, obs)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, courseformat.CourseInfoFile),
		[]byte("title: Broken\nprogramming_language: python\ncontent: [missing]\n"), 0o644))

	_, err := svc.ImportDir(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	courses, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
}

func TestCourseService_ImportSameCourseTwiceFails(t *testing.T) {
	repos := setupRepos(t)
	_, dir := importCourse(t, repos, pythonCourse("Twice"))

	_, err := NewCourseService(repos.courses, repos.uow).ImportDir(context.Background(), dir)
	assert.Error(t, err)
}

func TestCourseService_ExportAndDelete(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	importCourse(t, repos, pythonCourse("Exported"))
	svc := NewCourseService(repos.courses, repos.uow)

	out := filepath.Join(t.TempDir(), "export")
	require.NoError(t, svc.Export(ctx, "Exported", out))
	reloaded, err := courseformat.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "Exported", reloaded.Name)
	assert.NotNil(t, reloaded.TaskByPath("core/control/loops"))

	require.NoError(t, svc.Delete(ctx, "exported"))
	_, err = svc.Get(ctx, "Exported")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCourseService_Classify(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	importCourse(t, repos, pythonCourse("Classified"))
	svc := NewCourseService(repos.courses, repos.uow)

	_, info, err := svc.Classify(ctx, "Classified", "warmup/hello/test_extra.py", false)
	require.NoError(t, err)
	f, ok := info.(classifier.FileInTask)
	require.True(t, ok)
	assert.Equal(t, domain.KindTestFile, f.Kind)
	assert.Equal(t, "test_extra.py", f.PathInTask)

	_, info, err = svc.Classify(ctx, "Classified", "core/control", true)
	require.NoError(t, err)
	assert.IsType(t, classifier.LessonDirectory{}, info)

	_, info, err = svc.Classify(ctx, "Classified", "warmup/hello/task.md", false)
	require.NoError(t, err)
	assert.Nil(t, info)

	_, _, err = svc.Classify(ctx, "nope", "x", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
