package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/wheel"
)

// FormatClusters renders numbered clusters with their insight and items.
// An empty list renders a single dim line.
func FormatClusters(title string, clusters []domain.Cluster) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(Header(title) + "\n")
	}
	if len(clusters) == 0 {
		b.WriteString(Dim("  No clusters yet.") + "\n")
		return b.String()
	}
	for i, c := range clusters {
		line := fmt.Sprintf("%d. %s", i+1, Bold(c.Label))
		if c.Proficiency != "" {
			line += "  " + StylePurple.Render("["+c.Proficiency+"]")
		}
		b.WriteString(line + "\n")
		if c.Insight != "" {
			b.WriteString(Dim(Wrap(c.Insight, textWidth, "   ")) + "\n")
		}
		for _, it := range c.Items {
			item := "   • " + it.Text
			if it.Rating != "" {
				item += " " + Dim("("+it.Rating+")")
			}
			b.WriteString(item + "\n")
		}
	}
	return b.String()
}

// FormatCounts renders how many final clusters each flow has stored.
func FormatCounts(counts map[domain.ClusterType]int) string {
	rows := make([][]string, 0, len(wheel.Kinds))
	for _, kind := range wheel.Kinds {
		n := counts[kind]
		mark := StyleGreen.Render("✓")
		if n == 0 {
			mark = StyleDim.Render("·")
		}
		rows = append(rows, []string{mark + " " + string(kind), fmt.Sprintf("%d", n)})
	}
	return RenderTable([]string{"FLOW", "CLUSTERS"}, rows)
}

// FormatIdentity renders the combined identity, or a hint when one of the
// three wheels is still dark.
func FormatIdentity(id *wheel.Identity) string {
	if id == nil {
		return Dim("Complete the skills, problems and persona flows to see your combined identity.") + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleHeader.Render(id.Title) + "\n")
	b.WriteString(Wrap(id.Description, textWidth, "") + "\n")
	b.WriteString(StyleGreen.Render(Wrap(id.Superpower, textWidth, "")) + "\n")
	return b.String()
}
