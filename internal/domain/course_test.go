package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourse() *Course {
	hello := NewTask("hello", TaskEdu)
	intro := NewTask("intro", TaskTheory)
	loops := NewTask("loops", TaskEdu)
	return &Course{
		Name: "Python Basics",
		Items: []StudyItem{
			&Lesson{Name: "warmup", Tasks: []*Task{intro, hello}},
			&Section{Name: "core", Lessons: []*Lesson{
				{Name: "control", Tasks: []*Task{loops}},
			}},
		},
	}
}

func TestCourse_LessonsFlattensInOrder(t *testing.T) {
	c := sampleCourse()
	lessons := c.Lessons()
	require.Len(t, lessons, 2)
	assert.Equal(t, "warmup", lessons[0].Name)
	assert.Equal(t, "control", lessons[1].Name)
	assert.Len(t, c.Tasks(), 3)
}

func TestCourse_TaskByPath(t *testing.T) {
	c := sampleCourse()

	got := c.TaskByPath("warmup/hello")
	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Name)

	got = c.TaskByPath("core/control/loops")
	require.NotNil(t, got)
	assert.Equal(t, "loops", got.Name)

	assert.Nil(t, c.TaskByPath("core/missing/loops"))
	assert.Nil(t, c.TaskByPath("hello"))
	assert.Equal(t, "core/control/loops", c.TaskPath(got))
}

func TestLesson_TaskListForProgressSkipsTheory(t *testing.T) {
	c := sampleCourse()
	tasks := c.Lessons()[0].TaskListForProgress()
	require.Len(t, tasks, 1)
	assert.Equal(t, "hello", tasks[0].Name)
}

func TestCourse_IsStudyDefaultsToTrue(t *testing.T) {
	assert.True(t, (&Course{}).IsStudy())
	assert.False(t, (&Course{Mode: ModeCourseCreator}).IsStudy())
}

func TestTask_FileKindOf(t *testing.T) {
	task := NewTask("t", TaskEdu)
	task.AddTaskFile("src/main.py")
	task.AddTestsText("tests.py", "")
	task.AddAdditionalFile("data.txt", "")

	kind, ok := task.FileKindOf("tests.py")
	require.True(t, ok)
	assert.Equal(t, KindTestFile, kind)

	kind, ok = task.FileKindOf("src/main.py")
	require.True(t, ok)
	assert.Equal(t, KindTaskFile, kind)

	assert.True(t, task.HasFile("data.txt"))
	assert.False(t, task.HasFile("other.txt"))
}

func TestTask_SetStatusAdvancesSubtask(t *testing.T) {
	task := NewTask("steps", TaskSubtasks)
	task.LastSubtaskIndex = 2

	require.NoError(t, task.SetStatus(StatusSolved))
	assert.Equal(t, 1, task.ActiveSubtaskIndex)
	assert.Equal(t, StatusUnchecked, task.Status)

	require.NoError(t, task.SetStatus(StatusFailed))
	assert.Equal(t, 1, task.ActiveSubtaskIndex)
	assert.Equal(t, StatusFailed, task.Status)

	require.NoError(t, task.SetStatus(StatusSolved))
	require.NoError(t, task.SetStatus(StatusSolved))
	assert.Equal(t, 2, task.ActiveSubtaskIndex)
	assert.True(t, task.IsLastSubtaskSolved())
}

func TestTask_SetStatusRejectsUnknown(t *testing.T) {
	task := NewTask("t", TaskEdu)
	err := task.SetStatus("Passed")
	require.Error(t, err)
	assert.Equal(t, StatusUnchecked, task.Status)
}

func TestParseCheckStatus(t *testing.T) {
	st, ok := ParseCheckStatus("SOLVED")
	require.True(t, ok)
	assert.Equal(t, StatusSolved, st)

	_, ok = ParseCheckStatus("done")
	assert.False(t, ok)
}
