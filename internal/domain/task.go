package domain

import (
	"fmt"
	"time"
)

// AnswerPlaceholder is an editable blank region inside a task file.
type AnswerPlaceholder struct {
	Offset          int
	Length          int
	PlaceholderText string
	SubtaskIndex    int
}

// CheckResult is one recorded verification of a task.
type CheckResult struct {
	ID        string
	TaskID    string
	Status    CheckStatus
	Subtask   int
	CheckedAt time.Time
}

type TaskFile struct {
	Name         string
	Text         string
	Visible      bool
	UserCreated  bool
	Placeholders []AnswerPlaceholder
}

type Task struct {
	ID          string
	Name        string
	Index       int
	RemoteID    int // step id on the remote platform
	Kind        TaskKind
	Status      CheckStatus
	Description string

	Files           map[string]*TaskFile
	TestsText       map[string]string
	AdditionalFiles map[string]string

	// Sub-stepped tasks only.
	ActiveSubtaskIndex int
	LastSubtaskIndex   int
}

// NewTask returns a task with initialized file mappings.
func NewTask(name string, kind TaskKind) *Task {
	return &Task{
		Name:            name,
		Kind:            kind,
		Status:          StatusUnchecked,
		Files:           make(map[string]*TaskFile),
		TestsText:       make(map[string]string),
		AdditionalFiles: make(map[string]string),
	}
}

func (t *Task) HasSubtasks() bool {
	return t.Kind == TaskSubtasks
}

func (t *Task) TaskFile(path string) *TaskFile {
	return t.Files[path]
}

// AddTaskFile registers an empty task file at path and returns it.
func (t *Task) AddTaskFile(path string) *TaskFile {
	if t.Files == nil {
		t.Files = make(map[string]*TaskFile)
	}
	tf := &TaskFile{Name: path, Visible: true}
	t.Files[path] = tf
	return tf
}

func (t *Task) AddTestsText(path, text string) {
	if t.TestsText == nil {
		t.TestsText = make(map[string]string)
	}
	t.TestsText[path] = text
}

func (t *Task) AddAdditionalFile(path, text string) {
	if t.AdditionalFiles == nil {
		t.AdditionalFiles = make(map[string]string)
	}
	t.AdditionalFiles[path] = text
}

// FileKindOf reports which mapping holds path.
func (t *Task) FileKindOf(path string) (FileKind, bool) {
	if _, ok := t.Files[path]; ok {
		return KindTaskFile, true
	}
	if _, ok := t.TestsText[path]; ok {
		return KindTestFile, true
	}
	if _, ok := t.AdditionalFiles[path]; ok {
		return KindAdditionalFile, true
	}
	return "", false
}

func (t *Task) HasFile(path string) bool {
	_, ok := t.FileKindOf(path)
	return ok
}

// IsLastSubtaskSolved reports whether the final sub-step has been passed.
func (t *Task) IsLastSubtaskSolved() bool {
	return t.HasSubtasks() && t.ActiveSubtaskIndex == t.LastSubtaskIndex && t.Status == StatusSolved
}

// SetStatus records a check result. Solving a sub-step that is not the last
// one moves the task to the next sub-step and resets it to unchecked.
func (t *Task) SetStatus(status CheckStatus) error {
	switch status {
	case StatusUnchecked, StatusFailed, StatusSolved:
	default:
		return fmt.Errorf("invalid check status %q", status)
	}
	if t.HasSubtasks() && status == StatusSolved && t.ActiveSubtaskIndex < t.LastSubtaskIndex {
		t.ActiveSubtaskIndex++
		t.Status = StatusUnchecked
		return nil
	}
	t.Status = status
	return nil
}
