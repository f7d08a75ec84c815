// Package progress counts solved tasks over a course's lesson tree.
package progress

import (
	"fmt"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// Progress is a (solved, total) pair.
type Progress struct {
	Solved int
	Total  int
}

// Fraction returns Solved/Total, or 0 for an empty course.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Solved) / float64(p.Total)
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Solved, p.Total)
}

// CountAsOneTaskWithSubtasks counts progress for a course made of a single
// sub-stepped task, treating each sub-step as a task. The bool is false when
// the lessons do not have that shape.
func CountAsOneTaskWithSubtasks(lessons []*domain.Lesson) (Progress, bool) {
	if len(lessons) != 1 {
		return Progress{}, false
	}
	tasks := lessons[0].TaskListForProgress()
	if len(tasks) != 1 || !tasks[0].HasSubtasks() {
		return Progress{}, false
	}
	task := tasks[0]
	total := task.LastSubtaskIndex + 1
	if task.IsLastSubtaskSolved() {
		return Progress{Solved: total, Total: total}, true
	}
	return Progress{Solved: task.ActiveSubtaskIndex, Total: total}, true
}

// CountWithoutSubtasks counts every progress task as one unit.
func CountWithoutSubtasks(lessons []*domain.Lesson) Progress {
	var p Progress
	for _, lesson := range lessons {
		tasks := lesson.TaskListForProgress()
		p.Total += len(tasks)
		p.Solved += solvedTasks(tasks)
	}
	return p
}

// Count prefers the sub-step view and falls back to whole-task counting.
func Count(lessons []*domain.Lesson) Progress {
	if p, ok := CountAsOneTaskWithSubtasks(lessons); ok {
		return p
	}
	return CountWithoutSubtasks(lessons)
}

func solvedTasks(tasks []*domain.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == domain.StatusSolved {
			n++
		}
	}
	return n
}
