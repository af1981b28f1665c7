package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Column struct {
	Header string
	// Right aligns the column, for numbers.
	Right bool
}

// Table renders rows of cells as aligned, styled text. Widths are measured
// with lipgloss so wide runes line up.
type Table struct {
	Columns []Column
	Rows    [][]string
}

func NewTable(columns ...Column) *Table {
	return &Table{Columns: columns}
}

func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	w := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		w[i] = lipgloss.Width(c.Header)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(w) && lipgloss.Width(cell) > w[i] {
				w[i] = lipgloss.Width(cell)
			}
		}
	}
	return w
}

func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}
	widths := t.widths()
	var b strings.Builder

	parts := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		parts[i] = pad(c.Header, widths[i], c.Right)
	}
	b.WriteString(StyleTableHeader.Render(strings.Join(parts, "  ")))
	b.WriteString("\n")

	for i := range t.Columns {
		parts[i] = strings.Repeat("─", widths[i])
	}
	b.WriteString(StyleTableBorder.Render(strings.Join(parts, "  ")))
	b.WriteString("\n")

	for idx, row := range t.Rows {
		for i, c := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts[i] = pad(cell, widths[i], c.Right)
		}
		style := StyleTableRow
		if idx%2 == 1 {
			style = StyleTableRowAlt
		}
		b.WriteString(style.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int, right bool) string {
	n := width - lipgloss.Width(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}
