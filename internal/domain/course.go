package domain

import (
	"strings"
	"time"
)

// RemoteInfo holds the metadata a course carries on the remote platform.
type RemoteInfo struct {
	ID               int
	IsPublic         bool
	IsAdaptive       bool
	IsIdeaCompatible bool
	UpdateDate       *time.Time
	SectionIDs       []int
}

// StudyItem is a top-level entry of a course: a *Section or a *Lesson.
type StudyItem interface {
	ItemName() string
}

type Course struct {
	ID            string
	Name          string
	Summary       string
	Language      string
	HumanLanguage string
	Mode          CourseMode
	Dir           string // local directory the course lives in
	Items         []StudyItem
	Remote        RemoteInfo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Section struct {
	ID       string
	Name     string
	Index    int
	RemoteID int
	Lessons  []*Lesson
}

func (s *Section) ItemName() string { return s.Name }

type Lesson struct {
	ID       string
	Name     string
	Index    int
	RemoteID int
	Tasks    []*Task
}

func (l *Lesson) ItemName() string { return l.Name }

// IsStudy reports whether the course is taken by a learner rather than edited
// by its author.
func (c *Course) IsStudy() bool {
	return c.Mode == "" || c.Mode == ModeStudy
}

// Lessons flattens sections and top-level lessons in course order.
func (c *Course) Lessons() []*Lesson {
	var out []*Lesson
	for _, item := range c.Items {
		switch it := item.(type) {
		case *Section:
			out = append(out, it.Lessons...)
		case *Lesson:
			out = append(out, it)
		}
	}
	return out
}

// Tasks returns every task of the course in order.
func (c *Course) Tasks() []*Task {
	var out []*Task
	for _, l := range c.Lessons() {
		out = append(out, l.Tasks...)
	}
	return out
}

// Section returns the section with the given directory name.
func (c *Course) Section(name string) *Section {
	for _, item := range c.Items {
		if s, ok := item.(*Section); ok && s.Name == name {
			return s
		}
	}
	return nil
}

// Lesson returns the lesson with the given name. An empty section name looks
// among top-level lessons.
func (c *Course) Lesson(sectionName, name string) *Lesson {
	if sectionName != "" {
		s := c.Section(sectionName)
		if s == nil {
			return nil
		}
		for _, l := range s.Lessons {
			if l.Name == name {
				return l
			}
		}
		return nil
	}
	for _, item := range c.Items {
		if l, ok := item.(*Lesson); ok && l.Name == name {
			return l
		}
	}
	return nil
}

// TaskByPath resolves "lesson/task" or "section/lesson/task".
func (c *Course) TaskByPath(path string) *Task {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	var l *Lesson
	switch len(parts) {
	case 2:
		l = c.Lesson("", parts[0])
	case 3:
		l = c.Lesson(parts[0], parts[1])
	default:
		return nil
	}
	if l == nil {
		return nil
	}
	return l.Task(parts[len(parts)-1])
}

// TaskPath returns the course-relative directory of t, or "" when t does not
// belong to the course.
func (c *Course) TaskPath(t *Task) string {
	for _, item := range c.Items {
		switch it := item.(type) {
		case *Section:
			for _, l := range it.Lessons {
				if l.Task(t.Name) == t {
					return it.Name + "/" + l.Name + "/" + t.Name
				}
			}
		case *Lesson:
			if it.Task(t.Name) == t {
				return it.Name + "/" + t.Name
			}
		}
	}
	return ""
}

// Task returns the task with the given directory name.
func (l *Lesson) Task(name string) *Task {
	for _, t := range l.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TaskListForProgress returns the tasks that count towards progress. Theory
// tasks have nothing to check and are left out.
func (l *Lesson) TaskListForProgress() []*Task {
	out := make([]*Task, 0, len(l.Tasks))
	for _, t := range l.Tasks {
		if t.Kind == TaskTheory {
			continue
		}
		out = append(out, t)
	}
	return out
}
