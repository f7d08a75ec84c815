package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_AlignsColumns(t *testing.T) {
	out := Table{
		Columns: []Column{Col("NAME"), NumCol("N")},
		Rows:    [][]string{{"a", "7"}, {"bb", "123"}},
	}.Render()

	assert.Equal(t, []string{
		"NAME    N",
		"────  ───",
		"a       7",
		"bb    123",
	}, strings.Split(strings.TrimSuffix(out, "\n"), "\n"))
}

func TestTable_TruncatesWideCells(t *testing.T) {
	out := Table{
		Columns: []Column{{Title: "NAME", MaxWidth: 5}, Col("LANG")},
		Rows:    [][]string{{"Introduction", "go"}, {"Go", "python"}},
	}.Render()

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Intr…  go", lines[2])
	assert.Equal(t, "Go     python", lines[3])
}

func TestTable_MissingCellsAndEmpty(t *testing.T) {
	out := Table{
		Columns: []Column{Col("A"), Col("B")},
		Rows:    [][]string{{"x"}},
	}.Render()
	assert.Equal(t, "x  \n", strings.SplitAfter(out, "\n")[2])

	assert.Equal(t, "nothing here\n", Table{Columns: []Column{Col("A")}, Empty: "nothing here"}.Render())
	assert.Empty(t, Table{}.Render())
}
