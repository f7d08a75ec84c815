package testutil

import (
	"time"

	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/google/uuid"
)

// Course options
type CourseOption func(*domain.Course)

func WithLanguage(lang string) CourseOption {
	return func(c *domain.Course) {
		c.Language = lang
	}
}

func WithMode(m domain.CourseMode) CourseOption {
	return func(c *domain.Course) {
		c.Mode = m
	}
}

func WithItems(items ...domain.StudyItem) CourseOption {
	return func(c *domain.Course) {
		c.Items = append(c.Items, items...)
	}
}

func WithRemoteInfo(info domain.RemoteInfo) CourseOption {
	return func(c *domain.Course) {
		c.Remote = info
	}
}

func NewTestCourse(name string, opts ...CourseOption) *domain.Course {
	now := time.Now().UTC()
	c := &domain.Course{
		ID:            uuid.New().String(),
		Name:          name,
		Summary:       "test course",
		Language:      "python",
		HumanLanguage: "en",
		Mode:          domain.ModeStudy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestSection(name string, lessons ...*domain.Lesson) *domain.Section {
	for i, l := range lessons {
		l.Index = i + 1
	}
	return &domain.Section{ID: uuid.New().String(), Name: name, Lessons: lessons}
}

func NewTestLesson(name string, tasks ...*domain.Task) *domain.Lesson {
	for i, t := range tasks {
		t.Index = i + 1
	}
	return &domain.Lesson{ID: uuid.New().String(), Name: name, Tasks: tasks}
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskKind(k domain.TaskKind) TaskOption {
	return func(t *domain.Task) {
		t.Kind = k
	}
}

func WithStatus(s domain.CheckStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithTaskFile(path, text string, placeholders ...domain.AnswerPlaceholder) TaskOption {
	return func(t *domain.Task) {
		tf := t.AddTaskFile(path)
		tf.Text = text
		tf.Placeholders = placeholders
	}
}

func WithTestFile(path, text string) TaskOption {
	return func(t *domain.Task) {
		t.AddTestsText(path, text)
	}
}

func WithAdditionalFile(path, text string) TaskOption {
	return func(t *domain.Task) {
		t.AddAdditionalFile(path, text)
	}
}

func WithSubtasks(active, last int) TaskOption {
	return func(t *domain.Task) {
		t.Kind = domain.TaskSubtasks
		t.ActiveSubtaskIndex = active
		t.LastSubtaskIndex = last
	}
}

func WithRemoteStep(id int) TaskOption {
	return func(t *domain.Task) {
		t.RemoteID = id
	}
}

func NewTestTask(name string, opts ...TaskOption) *domain.Task {
	t := domain.NewTask(name, domain.TaskEdu)
	t.ID = uuid.New().String()
	t.Description = "Solve " + name
	for _, opt := range opts {
		opt(t)
	}
	return t
}
