package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/edutrack/internal/progress"
	"github.com/alexanderramin/edutrack/internal/service"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"

	progressBarWidth = 20
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar), pctStr)
}

// ProgressLine renders "3/10 solved" followed by a bar.
func ProgressLine(p progress.Progress) string {
	return fmt.Sprintf("%s solved  %s", p, RenderProgress(p.Fraction(), progressBarWidth))
}

// FormatProgress renders the course total and one line per lesson.
func FormatProgress(cp *service.CourseProgress) string {
	var b strings.Builder
	b.WriteString(Header(cp.Course.Name) + "\n\n")
	b.WriteString(ProgressLine(cp.Total) + "\n\n")

	rows := make([][]string, 0, len(cp.Lessons))
	for _, lp := range cp.Lessons {
		rows = append(rows, []string{
			lp.Path,
			lp.Progress.String(),
			RenderProgress(lp.Progress.Fraction(), progressBarWidth/2),
		})
	}
	if len(rows) > 0 {
		b.WriteString(Table{
			Columns: []Column{Col("LESSON"), NumCol("SOLVED"), Col("PROGRESS")},
			Rows:    rows,
		}.Render())
	}
	return b.String()
}
