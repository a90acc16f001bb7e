package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableGap = "  "

// RenderTable renders an aligned table with a header separator line.
// Columns are padded to their widest visible cell; the last column is
// never padded. Missing cells render empty.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i := range widths {
			if i < len(cells) {
				widths[i] = max(widths[i], lipgloss.Width(cells[i]))
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var b strings.Builder
	writeRow := func(cells []string, render func(i int, cell string) string) {
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(render(i, cell))
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", w-lipgloss.Width(cell)) + tableGap)
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(_ int, h string) string { return StyleHeader.Render(h) })

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	writeRow(rules, func(_ int, r string) string { return StyleDim.Render(r) })

	for _, row := range rows {
		writeRow(row, func(_ int, cell string) string { return cell })
	}
	return b.String()
}
