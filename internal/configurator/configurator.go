// Package configurator holds the per-language layout rules of a course:
// where task sources live, how test files are named, and which build
// artifacts never belong to a task.
package configurator

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Configurator describes the task layout for one programming language.
type Configurator struct {
	Language string

	// SourceDir is the task-relative directory holding task files. Empty
	// means the task directory itself.
	SourceDir string

	// TestDirs are task-relative directories whose contents are tests.
	TestDirs []string

	// TestFilePatterns are glob patterns matched against a file's base name.
	TestFilePatterns []string

	// ExcludePatterns are doublestar patterns matched against the
	// course-relative path.
	ExcludePatterns []string
}

var commonExcludes = []string{
	"**/.idea/**",
	"**/*.iml",
	"**/out/**",
	"**/.DS_Store",
}

var registry = map[string]*Configurator{
	"python": {
		Language:         "python",
		TestDirs:         []string{"tests"},
		TestFilePatterns: []string{"tests.py", "test_*.py", "tests_subtask*.py"},
		ExcludePatterns:  append([]string{"**/__pycache__/**", "**/*.pyc", "**/venv/**"}, commonExcludes...),
	},
	"java": {
		Language:         "java",
		SourceDir:        "src",
		TestDirs:         []string{"test"},
		TestFilePatterns: []string{"*Test.java"},
		ExcludePatterns:  append([]string{"**/build/**", "**/.gradle/**", "**/*.class"}, commonExcludes...),
	},
	"kotlin": {
		Language:         "kotlin",
		SourceDir:        "src",
		TestDirs:         []string{"test"},
		TestFilePatterns: []string{"*Test.kt"},
		ExcludePatterns:  append([]string{"**/build/**", "**/.gradle/**", "**/*.class"}, commonExcludes...),
	},
	"go": {
		Language:         "go",
		TestFilePatterns: []string{"*_test.go"},
		ExcludePatterns:  append([]string{"**/vendor/**"}, commonExcludes...),
	},
}

var fallback = &Configurator{
	TestDirs:         []string{"tests", "test"},
	TestFilePatterns: []string{"tests.*", "test_*"},
	ExcludePatterns:  commonExcludes,
}

// ForLanguage returns the configurator registered for lang, or a generic one.
func ForLanguage(lang string) *Configurator {
	if c, ok := registry[strings.ToLower(lang)]; ok {
		return c
	}
	return fallback
}

// Languages lists the languages with a dedicated configurator.
func Languages() []string {
	return []string{"go", "java", "kotlin", "python"}
}

// IsTestFile reports whether the task-relative path is a test file.
func (c *Configurator) IsTestFile(pathInTask string) bool {
	pathInTask = strings.Trim(pathInTask, "/")
	for _, dir := range c.TestDirs {
		if strings.HasPrefix(pathInTask, dir+"/") {
			return true
		}
	}
	base := path.Base(pathInTask)
	for _, pattern := range c.TestFilePatterns {
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// IsUnderSourceDir reports whether the task-relative path lies inside the
// task's source directory.
func (c *Configurator) IsUnderSourceDir(pathInTask string) bool {
	if c.SourceDir == "" {
		return true
	}
	return strings.HasPrefix(strings.Trim(pathInTask, "/"), c.SourceDir+"/")
}

// ExcludeFromArchive reports whether a course-relative path is a build or
// IDE artifact that never belongs to a task.
func (c *Configurator) ExcludeFromArchive(coursePath string) bool {
	coursePath = strings.Trim(coursePath, "/")
	for _, pattern := range c.ExcludePatterns {
		if ok, err := doublestar.Match(pattern, coursePath); err == nil && ok {
			return true
		}
	}
	return false
}
