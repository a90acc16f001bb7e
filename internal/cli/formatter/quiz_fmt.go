package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/scoring"
)

const textWidth = 72

// FormatQuizResult renders the results screen: the path narrative, the
// need breakdown and the guidance for each unmet need.
func FormatQuizResult(cat *catalog.Catalog, r domain.QuizResult, content scoring.PathContent, guidance []scoring.NeedGuidance) string {
	var b strings.Builder

	accent := PathStyle(r.Path)
	b.WriteString(accent.Render("◆ "+strings.ToUpper(content.Badge)) + "\n")
	b.WriteString(Bold(content.Headline) + "\n")
	b.WriteString(Wrap(content.Subhead, textWidth, "") + "\n\n")

	if content.SeenMessage != "" {
		b.WriteString(Wrap(content.SeenMessage, textWidth, "") + "\n")
	}
	for _, p := range content.ValidationPoints {
		b.WriteString(StyleGreen.Render("  ✓ ") + p + "\n")
	}
	b.WriteString("\n")

	b.WriteString(Header("Your needs") + "\n")
	for _, nr := range r.Needs {
		need, ok := cat.Need(nr.ID)
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %-12s %-14s %s\n",
			need.Icon, need.Name, poleName(need, nr.Answer.Selection), MetIndicator(nr.Answer.Met)))
	}
	b.WriteString(Dim(fmt.Sprintf("  accomplish %d · connect %d · employment signals %d of %d",
		r.AccomplishCount, r.ConnectCount, r.EmploymentSignals, len(r.Structural))) + "\n\n")

	b.WriteString(Wrap(content.ClarityMessage, textWidth, "") + "\n")

	if len(guidance) > 0 {
		b.WriteString("\n" + FormatGuidance(guidance))
		if r.Path == domain.PathJob {
			b.WriteString("\n" + Header("Your next job must have") + "\n")
			for _, item := range scoring.Checklist(guidance) {
				b.WriteString("  ☐ " + item + "\n")
			}
		}
	}

	if content.CTAHeadline != "" {
		b.WriteString("\n" + accent.Render(content.CTAHeadline) + "\n")
		b.WriteString(Wrap(content.CTABody, textWidth, "") + "\n")
	}
	return b.String()
}

// FormatGuidance renders the advice for each unmet need.
func FormatGuidance(guidance []scoring.NeedGuidance) string {
	var b strings.Builder
	b.WriteString(Header("Unmet needs") + "\n")
	for _, g := range guidance {
		b.WriteString(fmt.Sprintf("%s %s %s\n", g.Icon, Bold(g.Name), Dim("("+g.PoleName+")")))
		if g.Seen != "" {
			b.WriteString(Wrap(g.Seen, textWidth, "  ") + "\n")
		}
		switch {
		case g.JobFix != nil:
			if g.JobFix.What != "" {
				b.WriteString(Wrap(g.JobFix.What, textWidth, "  ") + "\n")
			}
			for _, h := range g.JobFix.How {
				b.WriteString("    • " + h + "\n")
			}
			if g.JobFix.Where != "" {
				b.WriteString(Dim(Wrap("Where: "+g.JobFix.Where, textWidth, "  ")) + "\n")
			}
		case g.OwnThingFix != nil:
			if g.OwnThingFix.Why != "" {
				b.WriteString(Wrap(g.OwnThingFix.Why, textWidth, "  ") + "\n")
			}
			if g.OwnThingFix.Unlock != "" {
				b.WriteString(StyleGreen.Render(Wrap("Unlock: "+g.OwnThingFix.Unlock, textWidth, "  ")) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func poleName(need catalog.Need, sel domain.Selection) string {
	switch sel {
	case domain.SelectionLeft:
		return need.Accomplish.Name
	case domain.SelectionRight:
		return need.Connect.Name
	case domain.SelectionBoth:
		return "Blend"
	}
	return "-"
}
