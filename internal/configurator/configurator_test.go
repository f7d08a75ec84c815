package configurator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForLanguage_FallsBackForUnknown(t *testing.T) {
	assert.Equal(t, "python", ForLanguage("Python").Language)
	assert.Equal(t, "src", ForLanguage("java").SourceDir)
	assert.Same(t, fallback, ForLanguage("cobol"))
}

func TestIsTestFile(t *testing.T) {
	py := ForLanguage("python")
	assert.True(t, py.IsTestFile("tests.py"))
	assert.True(t, py.IsTestFile("test_loops.py"))
	assert.True(t, py.IsTestFile("tests/helpers.py"))
	assert.True(t, py.IsTestFile("tests_subtask1.py"))
	assert.False(t, py.IsTestFile("main.py"))
	assert.False(t, py.IsTestFile("src/contest.py"))

	java := ForLanguage("java")
	assert.True(t, java.IsTestFile("test/MainTest.java"))
	assert.True(t, java.IsTestFile("src/MainTest.java"))
	assert.False(t, java.IsTestFile("src/Main.java"))

	golang := ForLanguage("go")
	assert.True(t, golang.IsTestFile("pkg/sum_test.go"))
	assert.False(t, golang.IsTestFile("sum.go"))
}

func TestIsUnderSourceDir(t *testing.T) {
	assert.True(t, ForLanguage("python").IsUnderSourceDir("anything/at/all.py"))

	java := ForLanguage("java")
	assert.True(t, java.IsUnderSourceDir("src/Main.java"))
	assert.True(t, java.IsUnderSourceDir("src/pkg/Util.java"))
	assert.False(t, java.IsUnderSourceDir("resources/data.txt"))
	assert.False(t, java.IsUnderSourceDir("srcfile.java"))
}

func TestExcludeFromArchive(t *testing.T) {
	py := ForLanguage("python")
	assert.True(t, py.ExcludeFromArchive("lesson1/task1/__pycache__/main.cpython-311.pyc"))
	assert.True(t, py.ExcludeFromArchive(".idea/workspace.xml"))
	assert.True(t, py.ExcludeFromArchive("lesson1/task1/out/result.txt"))
	assert.False(t, py.ExcludeFromArchive("lesson1/task1/main.py"))

	java := ForLanguage("java")
	assert.True(t, java.ExcludeFromArchive("lesson1/task1/build/classes/Main.class"))
	assert.False(t, java.ExcludeFromArchive("lesson1/task1/src/Main.java"))
}
