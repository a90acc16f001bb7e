package wheel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	termDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#504945"))
	termLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	termName  = lipgloss.NewStyle().Width(20)
	termCell  = lipgloss.NewStyle().Width(14)
)

// RenderTerminal draws the wheel unrolled as a grid: one row per segment,
// one column per rating ring, inner ring first.
func (w *Wheel) RenderTerminal(lit CellSet) string {
	var b strings.Builder

	header := []string{termName.Render("")}
	for _, r := range w.Ratings {
		header = append(header, termCell.Render(termLabel.Render(r.Label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for si, seg := range w.Segments {
		row := []string{termName.Render(seg.Icon + " " + seg.Name)}
		litStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.Color)).Bold(true)
		for ri := range w.Ratings {
			cell := termDim.Render("░░░░")
			if lit.Has(CellKey(si, ri)) {
				cell = litStyle.Render("████")
			}
			row = append(row, termCell.Render(cell))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}
