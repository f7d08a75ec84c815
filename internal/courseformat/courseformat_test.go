package courseformat

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestLoad_PythonCourse(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"course-info.yaml":        "title: Python Basics\nprogramming_language: python\nlanguage: en\ncontent:\n  - warmup\n  - core\n",
		"course-remote-info.yaml": "id: 42\nis_public: true\nsections: [7]\n",

		"warmup/lesson-info.yaml":        "content:\n  - hello\n",
		"warmup/hello/task-info.yaml":    "type: edu\nfiles:\n  - name: main.py\n    placeholders:\n      - offset: 6\n        length: 5\n        placeholder_text: type here\n",
		"warmup/hello/main.py":           "print(\"hi\")",
		"warmup/hello/task.md":           "Say hi",
		"warmup/hello/tests.py":          "assert True",
		"warmup/hello/helper.py":         "x = 1",
		"warmup/hello/__pycache__/a.pyc": "bin",

		"core/section-info.yaml":                   "content:\n  - control\n",
		"core/control/lesson-info.yaml":            "content:\n  - loops\n  - intro\n",
		"core/control/loops/task-info.yaml":        "type: subtasks\nsubtasks: 3\nadditional_files:\n  - data.py\n",
		"core/control/loops/data.py":               "DATA = []",
		"core/control/loops/task-remote-info.yaml": "id: 900\n",
		"core/control/intro/task-info.yaml":        "type: theory\n",
	})

	course, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "Python Basics", course.Name)
	assert.Equal(t, "python", course.Language)
	assert.Equal(t, "en", course.HumanLanguage)
	assert.Equal(t, domain.ModeStudy, course.Mode)
	assert.Equal(t, 42, course.Remote.ID)
	assert.True(t, course.Remote.IsPublic)
	assert.Equal(t, []int{7}, course.Remote.SectionIDs)
	require.Len(t, course.Items, 2)

	hello := course.TaskByPath("warmup/hello")
	require.NotNil(t, hello)
	assert.Equal(t, "Say hi", hello.Description)
	mainFile := hello.TaskFile("main.py")
	require.NotNil(t, mainFile)
	assert.Equal(t, "print(\"hi\")", mainFile.Text)
	assert.True(t, mainFile.Visible)
	require.Len(t, mainFile.Placeholders, 1)
	assert.Equal(t, "type here", mainFile.Placeholders[0].PlaceholderText)

	assert.Equal(t, "assert True", hello.TestsText["tests.py"])
	helper := hello.TaskFile("helper.py")
	require.NotNil(t, helper, "files under the source dir are discovered as task files")
	assert.False(t, helper.UserCreated)
	assert.False(t, hello.HasFile("__pycache__/a.pyc"))
	assert.False(t, hello.HasFile("task.md"))
	assert.False(t, hello.HasFile("task-info.yaml"))

	loops := course.TaskByPath("core/control/loops")
	require.NotNil(t, loops)
	assert.Equal(t, domain.TaskSubtasks, loops.Kind)
	assert.Equal(t, 2, loops.LastSubtaskIndex)
	assert.Equal(t, 900, loops.RemoteID)
	assert.Equal(t, "DATA = []", loops.AdditionalFiles["data.py"])
	assert.Nil(t, loops.TaskFile("data.py"))
}

func TestLoad_CollectsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"course-info.yaml":    "title: Broken\nprogramming_language: python\ncontent:\n  - a\n  - a\n  - ghost\n",
		"a/lesson-info.yaml":  "content:\n  - t1\n  - t2\n",
		"a/t1/task-info.yaml": "type: quiz\n",
		"a/t2/task-info.yaml": "type: edu\nfiles:\n  - name: main.py\n    placeholders:\n      - offset: 3\n        length: 10\n        placeholder_text: x\n  - name: missing.py\n",
		"a/t2/main.py":        "abcd",
	})

	tree, err := ReadTree(dir)
	require.NoError(t, err)
	errs := ValidateTree(tree)

	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	assert.Contains(t, msgs, `content[1]: duplicate name "a"`)
	assert.Contains(t, msgs, `content "ghost": no section-info.yaml or lesson-info.yaml`)
	assert.Contains(t, msgs, `a/t1: type: invalid value "quiz"`)
	assert.Contains(t, msgs, `a/t2: files[0].placeholders[0]: range [3,13) outside file of length 4`)
	assert.Contains(t, msgs, `a/t2: files[1]: file "missing.py" not found`)

	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid course")
}

func TestValidateTree_RejectsNamesOutsideCourseDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"course-info.yaml":    "title: Sneaky\nprogramming_language: python\ncontent:\n  - ../outside\n  - a\n",
		"a/lesson-info.yaml":  "content:\n  - t1\n",
		"a/t1/task-info.yaml": "type: edu\nfiles:\n  - name: ../../main.py\nadditional_files:\n  - /etc/passwd\n",
	})

	tree, err := ReadTree(dir)
	require.NoError(t, err)
	errs := ValidateTree(tree)

	var unsafe int
	for _, e := range errs {
		if errors.Is(e, domain.ErrUnsafeName) {
			unsafe++
		}
	}
	assert.Equal(t, 3, unsafe)
}

func TestLoad_MissingCourseInfo(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), CourseInfoFile)
}

func TestWriteThenLoad_RoundTrip(t *testing.T) {
	update := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	hidden := testutil.NewTestTask("hidden", testutil.WithTaskFile("secret.py", "s = 1"))
	hidden.TaskFile("secret.py").Visible = false

	course := testutil.NewTestCourse("Round Trip",
		testutil.WithRemoteInfo(domain.RemoteInfo{ID: 5, IsAdaptive: true, UpdateDate: &update}),
		testutil.WithItems(
			testutil.NewTestLesson("basics",
				testutil.NewTestTask("hello",
					testutil.WithTaskFile("main.py", "print(0)", domain.AnswerPlaceholder{Offset: 6, Length: 1, PlaceholderText: "?"}),
					testutil.WithTestFile("tests/test_main.py", "assert 1"),
					testutil.WithAdditionalFile("notes.txt", "read me"),
					testutil.WithRemoteStep(77),
				),
				hidden,
			),
			testutil.NewTestSection("advanced",
				testutil.NewTestLesson("steps", testutil.NewTestTask("multi", testutil.WithSubtasks(0, 1))),
			),
		),
	)

	dir := filepath.Join(t.TempDir(), "course")
	require.NoError(t, Write(dir, course))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Round Trip", loaded.Name)
	assert.Equal(t, 5, loaded.Remote.ID)
	assert.True(t, loaded.Remote.IsAdaptive)
	require.NotNil(t, loaded.Remote.UpdateDate)
	assert.True(t, update.Equal(*loaded.Remote.UpdateDate))

	hello := loaded.TaskByPath("basics/hello")
	require.NotNil(t, hello)
	assert.Equal(t, 77, hello.RemoteID)
	assert.Equal(t, "Solve hello", hello.Description)
	assert.Equal(t, "print(0)", hello.TaskFile("main.py").Text)
	assert.Len(t, hello.TaskFile("main.py").Placeholders, 1)
	assert.Equal(t, "assert 1", hello.TestsText["tests/test_main.py"])
	assert.Equal(t, "read me", hello.AdditionalFiles["notes.txt"])

	secret := loaded.TaskByPath("basics/hidden").TaskFile("secret.py")
	require.NotNil(t, secret)
	assert.False(t, secret.Visible)

	multi := loaded.TaskByPath("advanced/steps/multi")
	require.NotNil(t, multi)
	assert.Equal(t, 1, multi.LastSubtaskIndex)
}

func TestWrite_RejectsNamesOutsideCourseDir(t *testing.T) {
	tests := []struct {
		name   string
		course *domain.Course
	}{
		{"task file", testutil.NewTestCourse("Escape", testutil.WithItems(
			testutil.NewTestLesson("basics", testutil.NewTestTask("hello",
				testutil.WithTaskFile("../../../../escaped.txt", "pwned"))),
		))},
		{"test file", testutil.NewTestCourse("Escape", testutil.WithItems(
			testutil.NewTestLesson("basics", testutil.NewTestTask("hello",
				testutil.WithTestFile("../escaped.txt", "pwned"))),
		))},
		{"lesson title", testutil.NewTestCourse("Escape", testutil.WithItems(
			testutil.NewTestLesson("..", testutil.NewTestTask("hello")),
		))},
		{"section title", testutil.NewTestCourse("Escape", testutil.WithItems(
			testutil.NewTestSection("a/../../escaped", testutil.NewTestLesson("basics")),
		))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "a", "b", "course")

			err := Write(dir, tt.course)
			require.ErrorIs(t, err, domain.ErrUnsafeName)

			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "nothing is written when a name is rejected")
			_, statErr = os.Stat(filepath.Join(root, "escaped.txt"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestWrite_RefusesNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	mine := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(mine, []byte("learner work"), 0o644))

	course := testutil.NewTestCourse("Clobber", testutil.WithItems(
		testutil.NewTestLesson("basics", testutil.NewTestTask("hello", testutil.WithTaskFile("main.py", "print(0)"))),
	))
	require.ErrorIs(t, Write(dir, course), ErrDirNotEmpty)

	data, err := os.ReadFile(mine)
	require.NoError(t, err)
	assert.Equal(t, "learner work", string(data))
}
