package scoring

import (
	"fmt"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
)

// CTALink is where both paths send the user next.
const CTALink = "/nikigai/problems"

// PathContent is the narrative shown on the results screen.
type PathContent struct {
	Badge            string   `json:"badge"`
	Headline         string   `json:"headline"`
	Subhead          string   `json:"subhead"`
	SeenMessage      string   `json:"seen_message"`
	ValidationPoints []string `json:"validation_points"`
	ClarityMessage   string   `json:"clarity_message"`
	CTAHeadline      string   `json:"cta_headline"`
	CTABody          string   `json:"cta_body"`
	CTAButton        string   `json:"cta_button"`
	CTALink          string   `json:"cta_link"`
}

// PathContentFor builds the results narrative for r.
func PathContentFor(r domain.QuizResult) PathContent {
	n := len(r.UnmetNeeds)
	plural, pronoun := "", "it"
	if n > 1 {
		plural, pronoun = "s", "them"
	}

	if r.Path == domain.PathOwnThing {
		c := PathContent{
			Badge:    "Independence Path",
			Headline: "Your Path: Build Your Own Thing",
			Subhead: pick(r,
				"You want to win, and you want to do it on your own terms",
				"You want meaning and impact, and you need to own it",
				"You want freedom and ownership; employment will always feel constraining"),
			SeenMessage: "You've probably known this for a while, but maybe didn't trust it. " +
				"The data is clear: your structural preferences point strongly toward ownership and independence. " +
				"A job, even a great one, is unlikely to give you what you need. " +
				"This isn't about being unemployable or difficult. It's about being wired for sovereignty.",
			ValidationPoints: []string{
				"You trust your own judgment more than external validation",
				"Structure feels like friction, not support",
				"You can handle financial uncertainty for the right opportunity",
				"You're energized by ownership, not just participation",
				"Your work is an expression of who you are",
			},
			ClarityMessage: "Your needs are mostly met, but your structural profile still points to ownership. " +
				"You might be in a good situation now, but you'll likely feel the pull toward building your own thing eventually.",
			CTAHeadline: "Ready to figure out what to build?",
			CTABody:     "Find My Flow helps you identify business opportunities based on your skills, the problems you care about, and the people you want to serve.",
			CTAButton:   "Start Find My Flow",
			CTALink:     CTALink,
		}
		if n > 0 {
			c.ClarityMessage = fmt.Sprintf("You have %d unmet need%s right now. Here's why building your own thing is likely to solve %s:", n, plural, pronoun)
		}
		return c
	}

	c := PathContent{
		Badge:    "Employment Path",
		Headline: "Your Path: Find the Right Job",
		Subhead: pick(r,
			"You want mastery, growth, and recognition inside a structure that supports you",
			"You want meaning, connection, and impact inside an organization that shares your values",
			"You want fulfillment, and the right job can absolutely provide it"),
		SeenMessage: `You don't need to burn it all down. You don't need to "escape the matrix." ` +
			"You need a job that actually delivers what you value. The good news: that job exists. " +
			"The challenge is knowing exactly what to look for, and now you do.",
		ValidationPoints: []string{
			"You appreciate external feedback and recognition systems",
			"Structure helps you focus rather than constraining you",
			"Financial stability matters to your wellbeing",
			"You're energized by teams and shared missions",
			"You can thrive in a role without needing it to be your total self-expression",
		},
		ClarityMessage: "Your needs are mostly met. Your restlessness might be coming from somewhere else, " +
			"or you might just need minor adjustments rather than a big change.",
		CTAHeadline: "Ready to find roles that fit?",
		CTABody:     "The Flow Finder helps you identify career opportunities that match your specific needs, based on your skills, the problems you want to solve, and the impact you want to have.",
		CTAButton:   "Start Flow Finder",
		CTALink:     CTALink,
	}
	if n > 0 {
		c.ClarityMessage = fmt.Sprintf("You have %d unmet need%s right now. These are specific, fixable gaps, not reasons to abandon employment entirely. Here's what your next job needs to have:", n, plural)
	}
	return c
}

func pick(r domain.QuizResult, accomplish, connect, blend string) string {
	switch {
	case r.IsAccomplishOriented:
		return accomplish
	case r.IsConnectOriented:
		return connect
	default:
		return blend
	}
}

// NeedGuidance is the expanded advice for one unmet need. Exactly one of
// JobFix and OwnThingFix is set, depending on the path.
type NeedGuidance struct {
	NeedID        domain.NeedID        `json:"need_id"`
	Name          string               `json:"name"`
	Icon          string               `json:"icon"`
	PoleName      string               `json:"pole_name"`
	Seen          string               `json:"seen"`
	JobFix        *catalog.JobFix      `json:"job_fix,omitempty"`
	OwnThingFix   *catalog.OwnThingFix `json:"own_thing_fix,omitempty"`
	ChecklistItem string               `json:"checklist_item"`
}

// NeedGuidanceFor returns guidance for each unmet need in catalog order.
// Blend answers draw on the accomplish texts but are labelled "Blend".
func NeedGuidanceFor(cat *catalog.Catalog, r domain.QuizResult) []NeedGuidance {
	out := make([]NeedGuidance, 0, len(r.UnmetNeeds))
	for _, nr := range r.Needs {
		if !nr.IsUnmet {
			continue
		}
		need, ok := cat.Need(nr.ID)
		if !ok {
			continue
		}
		unmet, pole := need.AccomplishUnmet, "Blend"
		switch {
		case nr.IsAccomplish:
			pole = need.Accomplish.Name
		case nr.IsConnect:
			unmet, pole = need.ConnectUnmet, need.Connect.Name
		}
		g := NeedGuidance{
			NeedID:        need.ID,
			Name:          need.Name,
			Icon:          need.Icon,
			PoleName:      pole,
			Seen:          unmet.Seen,
			ChecklistItem: unmet.ChecklistItem,
		}
		if r.Path == domain.PathOwnThing {
			fix := unmet.OwnThingFix
			g.OwnThingFix = &fix
		} else {
			fix := unmet.JobFix
			g.JobFix = &fix
		}
		out = append(out, g)
	}
	return out
}

// Checklist lists what the next job must have, one line per unmet need.
// It is only meaningful on the job path.
func Checklist(guidance []NeedGuidance) []string {
	out := make([]string, 0, len(guidance))
	for _, g := range guidance {
		out = append(out, g.ChecklistItem)
	}
	return out
}
