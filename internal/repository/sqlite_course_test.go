package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *domain.Course {
	hello := testutil.NewTestTask("hello",
		testutil.WithTaskFile("main.py", "print(1)", domain.AnswerPlaceholder{Offset: 6, Length: 1, PlaceholderText: "?"}),
		testutil.WithTestFile("tests.py", "assert True"),
		testutil.WithAdditionalFile("data.txt", "42"),
	)
	theory := testutil.NewTestTask("intro", testutil.WithTaskKind(domain.TaskTheory))
	steps := testutil.NewTestTask("steps", testutil.WithSubtasks(0, 2))

	update := time.Date(2024, 3, 1, 10, 30, 0, 0, time.FixedZone("", 3*3600))
	return testutil.NewTestCourse("Python Basics",
		testutil.WithRemoteInfo(domain.RemoteInfo{
			ID: 17, IsPublic: true, UpdateDate: &update, SectionIDs: []int{3, 4},
		}),
		testutil.WithItems(
			testutil.NewTestLesson("warmup", theory, hello),
			testutil.NewTestSection("core", testutil.NewTestLesson("control", steps)),
		),
	)
}

func TestCourseRepo_SaveTreeAndLoadTree(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCourseRepo(db)
	ctx := context.Background()

	course := sampleTree()
	require.NoError(t, repo.SaveTree(ctx, course))

	loaded, err := repo.LoadTree(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Python Basics", loaded.Name)
	assert.Equal(t, domain.ModeStudy, loaded.Mode)
	assert.Equal(t, 17, loaded.Remote.ID)
	assert.True(t, loaded.Remote.IsPublic)
	assert.False(t, loaded.Remote.IsAdaptive)
	assert.Equal(t, []int{3, 4}, loaded.Remote.SectionIDs)
	require.NotNil(t, loaded.Remote.UpdateDate)
	assert.True(t, course.Remote.UpdateDate.Equal(*loaded.Remote.UpdateDate))

	require.Len(t, loaded.Items, 2)
	warmup, ok := loaded.Items[0].(*domain.Lesson)
	require.True(t, ok)
	assert.Equal(t, "warmup", warmup.Name)
	require.Len(t, warmup.Tasks, 2)
	assert.Equal(t, "intro", warmup.Tasks[0].Name)
	assert.Equal(t, domain.TaskTheory, warmup.Tasks[0].Kind)

	hello := warmup.Tasks[1]
	require.NotNil(t, hello.TaskFile("main.py"))
	assert.Equal(t, "print(1)", hello.TaskFile("main.py").Text)
	assert.True(t, hello.TaskFile("main.py").Visible)
	require.Len(t, hello.TaskFile("main.py").Placeholders, 1)
	assert.Equal(t, "?", hello.TaskFile("main.py").Placeholders[0].PlaceholderText)
	assert.Equal(t, "assert True", hello.TestsText["tests.py"])
	assert.Equal(t, "42", hello.AdditionalFiles["data.txt"])

	core, ok := loaded.Items[1].(*domain.Section)
	require.True(t, ok)
	require.Len(t, core.Lessons, 1)
	steps := loaded.TaskByPath("core/control/steps")
	require.NotNil(t, steps)
	assert.Equal(t, domain.TaskSubtasks, steps.Kind)
	assert.Equal(t, 2, steps.LastSubtaskIndex)
}

func TestCourseRepo_GetByNameIsCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCourseRepo(db)
	ctx := context.Background()

	course := testutil.NewTestCourse("Kotlin Koans", testutil.WithLanguage("kotlin"))
	require.NoError(t, repo.SaveTree(ctx, course))

	fetched, err := repo.GetByName(ctx, "kotlin koans")
	require.NoError(t, err)
	assert.Equal(t, course.ID, fetched.ID)
	assert.Equal(t, "kotlin", fetched.Language)
	assert.Nil(t, fetched.Remote.UpdateDate)
	assert.Empty(t, fetched.Remote.SectionIDs)
}

func TestCourseRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCourseRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseRepo_DuplicateNameRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCourseRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveTree(ctx, testutil.NewTestCourse("Same")))
	assert.Error(t, repo.SaveTree(ctx, testutil.NewTestCourse("Same")))
}

func TestCourseRepo_ListAndUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCourseRepo(db)
	ctx := context.Background()

	a := testutil.NewTestCourse("A")
	b := testutil.NewTestCourse("B")
	require.NoError(t, repo.SaveTree(ctx, a))
	require.NoError(t, repo.SaveTree(ctx, b))

	b.Summary = "changed"
	b.Remote.IsIdeaCompatible = true
	require.NoError(t, repo.Update(ctx, b))

	courses, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	fetched, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", fetched.Summary)
	assert.True(t, fetched.Remote.IsIdeaCompatible)

	missing := testutil.NewTestCourse("ghost")
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestCourseRepo_DeleteCascadesToTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCourseRepo(db)
	tasks := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	course := sampleTree()
	require.NoError(t, repo.SaveTree(ctx, course))
	hello := course.TaskByPath("warmup/hello")
	require.NotNil(t, hello)

	require.NoError(t, repo.Delete(ctx, course.ID))

	_, err := tasks.GetByID(ctx, hello.ID)
	assert.ErrorIs(t, err, ErrNotFound, "task should be cascade-deleted with its course")

	files, err := NewSQLiteTaskFileRepo(db).ListByTask(ctx, hello.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCourseRepo_SaveTreeInsideUnitOfWork(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	course := sampleTree()
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteCourseRepo(tx).SaveTree(ctx, course)
	})
	require.NoError(t, err)

	loaded, err := NewSQLiteCourseRepo(database).LoadTree(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Tasks(), 3)
}
