package domain

import "strings"

// CheckStatus is the result of the last verification run of a task.
type CheckStatus string

const (
	StatusUnchecked CheckStatus = "Unchecked"
	StatusFailed    CheckStatus = "Failed"
	StatusSolved    CheckStatus = "Solved"
)

// ValidCheckStatuses is the canonical set of accepted check status strings.
var ValidCheckStatuses = map[string]CheckStatus{
	"unchecked": StatusUnchecked,
	"failed":    StatusFailed,
	"solved":    StatusSolved,
}

// ParseCheckStatus accepts a status in any letter case.
func ParseCheckStatus(s string) (CheckStatus, bool) {
	st, ok := ValidCheckStatuses[strings.ToLower(s)]
	return st, ok
}

type TaskKind string

const (
	TaskEdu      TaskKind = "edu"
	TaskOutput   TaskKind = "output"
	TaskTheory   TaskKind = "theory"
	TaskSubtasks TaskKind = "subtasks"
)

// ValidTaskKinds is the canonical set of accepted task type strings.
var ValidTaskKinds = map[string]bool{
	"edu": true, "output": true, "theory": true, "subtasks": true,
}

type CourseMode string

const (
	ModeStudy         CourseMode = "study"
	ModeCourseCreator CourseMode = "course_creator"
)

// FileKind names the task mapping a file path belongs to.
type FileKind string

const (
	KindTaskFile       FileKind = "task"
	KindTestFile       FileKind = "test"
	KindAdditionalFile FileKind = "additional"
)

