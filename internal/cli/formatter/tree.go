package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status domain.CheckStatus // empty for sections and lessons
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Solved items get a green ✔ prefix,
// failed ones a red ✖, and detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		statusPrefix := ""
		switch item.Status {
		case domain.StatusSolved:
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusFailed:
			statusPrefix = StyleRed.Render("✖ ")
		case domain.StatusUnchecked:
			statusPrefix = StyleDim.Render("○ ")
		}

		content := prefix + statusPrefix + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}

// CourseTree flattens a course into tree items: sections, lessons, then
// tasks with their status and kind.
func CourseTree(c *domain.Course) []TreeItem {
	var items []TreeItem
	for i, item := range c.Items {
		last := i == len(c.Items)-1
		switch it := item.(type) {
		case *domain.Section:
			items = append(items, TreeItem{Title: it.Name + "/", Level: 1, IsLast: last, Detail: "section"})
			for j, l := range it.Lessons {
				items = append(items, lessonItems(l, 2, j == len(it.Lessons)-1)...)
			}
		case *domain.Lesson:
			items = append(items, lessonItems(it, 1, last)...)
		}
	}
	return items
}

func lessonItems(l *domain.Lesson, level int, last bool) []TreeItem {
	items := []TreeItem{{Title: l.Name + "/", Level: level, IsLast: last}}
	for k, t := range l.Tasks {
		item := TreeItem{Title: t.Name, Level: level + 1, IsLast: k == len(l.Tasks)-1}
		if t.Kind != domain.TaskTheory {
			item.Status = t.Status
		}
		item.Detail = string(t.Kind)
		if t.HasSubtasks() {
			item.Detail = fmt.Sprintf("step %d/%d", t.ActiveSubtaskIndex+1, t.LastSubtaskIndex+1)
		}
		items = append(items, item)
	}
	return items
}
