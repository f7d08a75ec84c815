// Package classifier decides what a newly created path in a course directory
// is: a section, lesson or task directory, or a file belonging to a task.
// It never fails; anything it cannot place is ignored.
package classifier

import (
	"path/filepath"
	"strings"

	"github.com/alexanderramin/edutrack/internal/configurator"
	"github.com/alexanderramin/edutrack/internal/domain"
)

const (
	// GeneratedFilesFolder holds files produced by course tooling.
	GeneratedFilesFolder = ".coursecreator"

	windowPostfix  = "_window."
	windowsPostfix = "_windows"
	answersPostfix = "_answers"
)

var taskDescriptionFiles = map[string]bool{
	"task.md":   true,
	"task.html": true,
}

// Project is the course context a change event is interpreted in.
type Project struct {
	CourseDir    string
	Course       *domain.Course
	Configurator *configurator.Configurator

	// Student is set for a learner's working copy. Task files created in
	// it are flagged as user-created.
	Student bool

	Disposed bool
}

// NewProject builds a context for course rooted at dir.
func NewProject(dir string, course *domain.Course) *Project {
	p := &Project{CourseDir: dir, Course: course}
	if course != nil {
		p.Configurator = configurator.ForLanguage(course.Language)
		p.Student = course.IsStudy()
	}
	return p
}

// Event describes a created path.
type Event struct {
	Path  string
	IsDir bool
}

// FileInfo is the classification of a path: one of SectionDirectory,
// LessonDirectory, TaskDirectory or FileInTask.
type FileInfo interface {
	fileInfo()
}

type SectionDirectory struct {
	Section *domain.Section
}

type LessonDirectory struct {
	Lesson *domain.Lesson
}

type TaskDirectory struct {
	Task *domain.Task
}

type FileInTask struct {
	Task       *domain.Task
	PathInTask string
	Kind       domain.FileKind
}

func (SectionDirectory) fileInfo() {}
func (LessonDirectory) fileInfo()  {}
func (TaskDirectory) fileInfo()    {}
func (FileInTask) fileInfo()       {}

// IsConfigFile reports whether name is a course-format YAML file.
func IsConfigFile(name string) bool {
	return strings.HasSuffix(name, "-info.yaml")
}

// IsTaskDescriptionFile reports whether name is a task description.
func IsTaskDescriptionFile(name string) bool {
	return taskDescriptionFiles[name]
}

// Classify returns the classification of ev, or false when the path is
// ignored.
func Classify(p *Project, ev Event) (FileInfo, bool) {
	if p == nil || p.Disposed || p.Course == nil {
		return nil, false
	}
	slashPath := filepath.ToSlash(ev.Path)
	if strings.Contains(slashPath, GeneratedFilesFolder) {
		return nil, false
	}
	if IsConfigFile(filepath.Base(ev.Path)) {
		return nil, false
	}
	rel, ok := relativeToCourse(p.CourseDir, ev.Path)
	if !ok {
		return nil, false
	}
	conf := p.Configurator
	if conf == nil {
		conf = configurator.ForLanguage(p.Course.Language)
	}
	if conf.ExcludeFromArchive(rel) {
		return nil, false
	}

	segs := strings.Split(rel, "/")
	if ev.IsDir {
		return classifyDir(p.Course, segs)
	}

	task, depth := taskFor(p.Course, segs)
	if task == nil || len(segs) <= depth {
		return nil, false
	}
	pathInTask := strings.Join(segs[depth:], "/")

	if IsTaskDescriptionFile(segs[len(segs)-1]) ||
		strings.Contains(pathInTask, windowPostfix) ||
		strings.Contains(pathInTask, windowsPostfix) ||
		strings.Contains(pathInTask, answersPostfix) {
		return nil, false
	}

	// Tests win over the source dir: a test file inside src is still a test.
	if conf.IsTestFile(pathInTask) {
		return FileInTask{Task: task, PathInTask: pathInTask, Kind: domain.KindTestFile}, true
	}
	if conf.IsUnderSourceDir(pathInTask) {
		return FileInTask{Task: task, PathInTask: pathInTask, Kind: domain.KindTaskFile}, true
	}
	return FileInTask{Task: task, PathInTask: pathInTask, Kind: domain.KindAdditionalFile}, true
}

// Apply records a FileInTask classification in its task. Insertions are
// idempotent: an existing entry keeps its text and placeholders. Apply
// reports whether it added an entry.
func Apply(p *Project, info FileInfo) bool {
	f, ok := info.(FileInTask)
	if !ok || f.Task == nil {
		return false
	}
	task := f.Task
	switch f.Kind {
	case domain.KindTaskFile:
		if task.TaskFile(f.PathInTask) != nil {
			return false
		}
		tf := task.AddTaskFile(f.PathInTask)
		if p != nil && p.Student {
			tf.UserCreated = true
		}
		return true
	case domain.KindTestFile:
		if _, ok := task.TestsText[f.PathInTask]; ok {
			return false
		}
		task.AddTestsText(f.PathInTask, "")
		return true
	case domain.KindAdditionalFile:
		if _, ok := task.AdditionalFiles[f.PathInTask]; ok {
			return false
		}
		task.AddAdditionalFile(f.PathInTask, "")
		return true
	}
	return false
}

// FileCreated classifies ev and applies the result. info is nil when the
// path is ignored; inserted reports whether a task mapping changed.
func FileCreated(p *Project, ev Event) (info FileInfo, inserted bool) {
	info, ok := Classify(p, ev)
	if !ok {
		return nil, false
	}
	return info, Apply(p, info)
}

func relativeToCourse(courseDir, path string) (string, bool) {
	if courseDir == "" {
		return "", false
	}
	rel, err := filepath.Rel(filepath.Clean(courseDir), filepath.Clean(path))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || filepath.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

func classifyDir(course *domain.Course, segs []string) (FileInfo, bool) {
	switch len(segs) {
	case 1:
		if s := course.Section(segs[0]); s != nil {
			return SectionDirectory{Section: s}, true
		}
		if l := course.Lesson("", segs[0]); l != nil {
			return LessonDirectory{Lesson: l}, true
		}
	case 2:
		if l := course.Lesson(segs[0], segs[1]); l != nil {
			return LessonDirectory{Lesson: l}, true
		}
		if l := course.Lesson("", segs[0]); l != nil {
			if t := l.Task(segs[1]); t != nil {
				return TaskDirectory{Task: t}, true
			}
		}
	case 3:
		if l := course.Lesson(segs[0], segs[1]); l != nil {
			if t := l.Task(segs[2]); t != nil {
				return TaskDirectory{Task: t}, true
			}
		}
	}
	return nil, false
}

// taskFor finds the task owning a course-relative path and the number of
// leading segments naming the task directory.
func taskFor(course *domain.Course, segs []string) (*domain.Task, int) {
	if len(segs) >= 3 && course.Section(segs[0]) != nil {
		if l := course.Lesson(segs[0], segs[1]); l != nil {
			if t := l.Task(segs[2]); t != nil {
				return t, 3
			}
		}
		return nil, 0
	}
	if len(segs) >= 2 {
		if l := course.Lesson("", segs[0]); l != nil {
			if t := l.Task(segs[1]); t != nil {
				return t, 2
			}
		}
	}
	return nil, 0
}
