package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/edutrack/internal/classifier"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/progress"
)

const courseNameWidth = 40

// FormatCourseList renders stored courses as a table.
func FormatCourseList(courses []*domain.Course) string {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		remoteID := "-"
		if c.Remote.ID != 0 {
			remoteID = fmt.Sprintf("%d", c.Remote.ID)
		}
		rows = append(rows, []string{TruncID(c.ID), c.Name, c.Language, string(c.Mode), remoteID})
	}
	return Table{
		Columns: []Column{
			Col("ID"),
			{Title: "NAME", MaxWidth: courseNameWidth},
			Col("LANGUAGE"),
			Col("MODE"),
			NumCol("REMOTE"),
		},
		Rows:  rows,
		Empty: "No courses imported yet.",
	}.Render()
}

// FormatCourse renders a course summary box followed by its tree.
func FormatCourse(c *domain.Course) string {
	var info strings.Builder
	fmt.Fprintf(&info, "%s %s\n", Dim("Language:"), c.Language)
	fmt.Fprintf(&info, "%s %s\n", Dim("Mode:    "), c.Mode)
	if c.Dir != "" {
		fmt.Fprintf(&info, "%s %s\n", Dim("Dir:     "), c.Dir)
	}
	if c.Remote.ID != 0 {
		fmt.Fprintf(&info, "%s %d\n", Dim("Remote:  "), c.Remote.ID)
	}
	fmt.Fprintf(&info, "%s %s", Dim("Progress:"), ProgressLine(progress.Count(c.Lessons())))
	if c.Summary != "" {
		info.WriteString("\n\n" + c.Summary)
	}

	return RenderBox(c.Name, info.String()) + "\n" + RenderTree(CourseTree(c))
}

// FormatCheckHistory renders recorded checks newest first.
func FormatCheckHistory(taskPath string, results []*domain.CheckResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			HumanTimestamp(r.CheckedAt),
			CheckResult(r.Status),
			fmt.Sprintf("%d", r.Subtask+1),
		})
	}
	return Table{
		Columns: []Column{Col("WHEN"), Col("RESULT"), NumCol("STEP")},
		Rows:    rows,
		Empty:   fmt.Sprintf("No checks recorded for %s.", taskPath),
	}.Render()
}

// Classification describes a classifier result in one line.
func Classification(info classifier.FileInfo) string {
	switch fi := info.(type) {
	case classifier.SectionDirectory:
		return "section " + fi.Section.Name
	case classifier.LessonDirectory:
		return "lesson " + fi.Lesson.Name
	case classifier.TaskDirectory:
		return "task " + fi.Task.Name
	case classifier.FileInTask:
		return fmt.Sprintf("%s file %s of task %s", fi.Kind, fi.PathInTask, fi.Task.Name)
	default:
		return "ignored"
	}
}

// ClassificationLine prefixes Classification with the path.
func ClassificationLine(path string, info classifier.FileInfo) string {
	text := Classification(info)
	if info == nil {
		text = Dim(text)
	}
	return fmt.Sprintf("%s  %s", Bold(path), text)
}
