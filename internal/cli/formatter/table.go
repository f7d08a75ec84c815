package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const colGap = 2

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column is one table column. Cells wider than MaxWidth are cut with an
// ellipsis; zero means no limit.
type Column struct {
	Title    string
	Align    Align
	MaxWidth int
}

// Table lays out rows under a header and a dim rule. Widths are measured on
// visible text so styled cells line up.
type Table struct {
	Columns []Column
	Rows    [][]string
	// Empty replaces the whole table when there are no rows.
	Empty string
}

// Col is a left-aligned column without a width limit.
func Col(title string) Column { return Column{Title: title} }

// NumCol is a right-aligned column for counts and ids.
func NumCol(title string) Column { return Column{Title: title, Align: AlignRight} }

func (t Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}
	if len(t.Rows) == 0 && t.Empty != "" {
		return Dim(t.Empty) + "\n"
	}

	cells := make([][]string, len(t.Rows))
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c.Title)
	}
	for r, row := range t.Rows {
		cells[r] = make([]string, len(t.Columns))
		for i, c := range t.Columns {
			if i >= len(row) {
				continue
			}
			cell := row[i]
			if c.MaxWidth > 0 && lipgloss.Width(cell) > c.MaxWidth {
				cell = ansi.Truncate(cell, c.MaxWidth, "…")
			}
			cells[r][i] = cell
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = StyleHeader.Render(c.Title)
	}
	t.writeLine(&b, titles, widths)

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	t.writeLine(&b, rules, widths)

	for _, row := range cells {
		t.writeLine(&b, row, widths)
	}
	return b.String()
}

func (t Table) writeLine(b *strings.Builder, cells []string, widths []int) {
	last := len(cells) - 1
	for i, cell := range cells {
		pad := max(widths[i]-lipgloss.Width(cell), 0)
		if t.Columns[i].Align == AlignRight {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			if i < last {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}
