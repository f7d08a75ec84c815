package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepo_UpdateProgress(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	course := sampleTree()
	require.NoError(t, NewSQLiteCourseRepo(db).SaveTree(ctx, course))
	steps := course.TaskByPath("core/control/steps")
	require.NotNil(t, steps)

	require.NoError(t, steps.SetStatus(domain.StatusSolved))
	repo := NewSQLiteTaskRepo(db)
	require.NoError(t, repo.UpdateProgress(ctx, steps))

	fetched, err := repo.GetByID(ctx, steps.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnchecked, fetched.Status)
	assert.Equal(t, 1, fetched.ActiveSubtaskIndex)
}

func TestTaskRepo_UpdateProgress_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	task := testutil.NewTestTask("ghost")
	err := NewSQLiteTaskRepo(db).UpdateProgress(context.Background(), task)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskFileRepo_InsertIgnoresDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	course := sampleTree()
	require.NoError(t, NewSQLiteCourseRepo(db).SaveTree(ctx, course))
	hello := course.TaskByPath("warmup/hello")

	repo := NewSQLiteTaskFileRepo(db)
	inserted, err := repo.Insert(ctx, hello.ID, domain.KindTaskFile,
		&domain.TaskFile{Name: "util.py", Visible: true, UserCreated: true})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, hello.ID, domain.KindAdditionalFile, &domain.TaskFile{Name: "util.py"})
	require.NoError(t, err)
	assert.False(t, inserted, "a path lives in exactly one mapping")

	rows, err := repo.ListByTask(ctx, hello.ID)
	require.NoError(t, err)
	byPath := make(map[string]FileRow)
	for _, r := range rows {
		byPath[r.File.Name] = r
	}
	require.Contains(t, byPath, "util.py")
	assert.Equal(t, domain.KindTaskFile, byPath["util.py"].Kind)
	assert.True(t, byPath["util.py"].File.UserCreated)
	assert.Equal(t, domain.KindTestFile, byPath["tests.py"].Kind)
	assert.Len(t, rows, 4)
}

func TestCheckResultRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	course := sampleTree()
	require.NoError(t, NewSQLiteCourseRepo(db).SaveTree(ctx, course))
	hello := course.TaskByPath("warmup/hello")

	repo := NewSQLiteCheckResultRepo(db)
	first := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, &domain.CheckResult{TaskID: hello.ID, Status: domain.StatusFailed, CheckedAt: first}))
	require.NoError(t, repo.Create(ctx, &domain.CheckResult{TaskID: hello.ID, Status: domain.StatusSolved}))

	results, err := repo.ListByTask(ctx, hello.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusSolved, results[0].Status)
	assert.Equal(t, domain.StatusFailed, results[1].Status)
	assert.NotEmpty(t, results[0].ID)
}
