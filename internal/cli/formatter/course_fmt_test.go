package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/edutrack/internal/classifier"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func sampleCourse() *domain.Course {
	return testutil.NewTestCourse("Tree",
		testutil.WithItems(
			testutil.NewTestLesson("warmup",
				testutil.NewTestTask("intro", testutil.WithTaskKind(domain.TaskTheory)),
				testutil.NewTestTask("hello", testutil.WithStatus(domain.StatusSolved)),
			),
			testutil.NewTestSection("core",
				testutil.NewTestLesson("control",
					testutil.NewTestTask("steps", testutil.WithSubtasks(1, 2)),
				),
			),
		),
	)
}

func TestCheckResultLabel(t *testing.T) {
	assert.Equal(t, "Correct", CheckResultLabel(domain.StatusSolved))
	assert.Equal(t, "Incorrect", CheckResultLabel(domain.StatusFailed))
	assert.Equal(t, "", CheckResultLabel(domain.StatusUnchecked))
}

func TestCourseTree(t *testing.T) {
	items := CourseTree(sampleCourse())

	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"warmup/", "intro", "hello", "core/", "control/", "steps"}, titles)

	assert.Equal(t, 1, items[0].Level)
	assert.Equal(t, domain.CheckStatus(""), items[1].Status)
	assert.Equal(t, domain.StatusSolved, items[2].Status)
	assert.True(t, items[2].IsLast)
	assert.True(t, items[3].IsLast)
	assert.Equal(t, 3, items[5].Level)
	assert.Equal(t, "step 2/3", items[5].Detail)
}

func TestRenderTree(t *testing.T) {
	out := RenderTree(CourseTree(sampleCourse()))
	assert.Contains(t, out, "├─ warmup/")
	assert.Contains(t, out, "└─ core/")
	assert.Contains(t, out, "✔ ")
	assert.Contains(t, out, "[ step 2/3 ]")
	assert.Empty(t, RenderTree(nil))
}

func TestFormatCourseList(t *testing.T) {
	c := testutil.NewTestCourse("Listed", testutil.WithRemoteInfo(domain.RemoteInfo{ID: 77}))
	out := FormatCourseList([]*domain.Course{c})
	assert.Contains(t, out, "Listed")
	assert.Contains(t, out, "77")
	assert.Contains(t, FormatCourseList(nil), "No courses")
}

func TestFormatCheckHistory(t *testing.T) {
	results := []*domain.CheckResult{
		{Status: domain.StatusFailed, Subtask: 0, CheckedAt: time.Now()},
		{Status: domain.StatusSolved, Subtask: 1, CheckedAt: time.Now()},
	}
	out := FormatCheckHistory("warmup/hello", results)
	assert.Contains(t, out, "Incorrect")
	assert.Contains(t, out, "Correct")
	assert.Contains(t, out, "Just now")
	assert.Contains(t, FormatCheckHistory("warmup/hello", nil), "No checks recorded for warmup/hello")
}

func TestClassification(t *testing.T) {
	task := testutil.NewTestTask("hello")
	tests := []struct {
		info classifier.FileInfo
		want string
	}{
		{classifier.SectionDirectory{Section: &domain.Section{Name: "core"}}, "section core"},
		{classifier.LessonDirectory{Lesson: &domain.Lesson{Name: "warmup"}}, "lesson warmup"},
		{classifier.TaskDirectory{Task: task}, "task hello"},
		{classifier.FileInTask{Task: task, PathInTask: "tests.py", Kind: domain.KindTestFile}, "test file tests.py of task hello"},
		{nil, "ignored"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Classification(tt.info))
		})
	}
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestampFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestampFrom(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Sep 30, 2022", HumanTimestampFrom(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}
