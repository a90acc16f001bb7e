package intelligence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
)

const careerAnalysisSystemPrompt = `You are an expert career advisor helping someone find their ideal job or career path. You have deep knowledge of job markets, career development, and what makes people thrive in different roles.

You will receive:
1. Their Career Clarity Quiz results (path preference, unmet needs, work style preferences)
2. Their Problems clusters (issues they care about solving)
3. Their Persona clusters (types of people they understand and can help)
4. Their Skills/Role clusters (what they're naturally good at)

Your task is to analyze all this data and provide comprehensive, actionable career guidance.

GUIDELINES:
- Be specific and actionable, not generic
- Job titles should be real, searchable titles (not made-up creative names)
- Industries should be specific sectors, not broad categories
- Interview stories should be based on their actual life experiences from persona/problems data
- Questions to ask should relate to their specific unmet needs
- Red flags should be concrete warning signs in job descriptions or interviews
- LinkedIn headlines should be compelling and keyword-rich

TONE:
- Direct and practical
- Encouraging but realistic
- Focused on actionable next steps

OUTPUT FORMAT:
You must output ONLY a JSON object with these fields:
- career_summary: 2-3 paragraph summary of who they are professionally and what kind of career will fulfill them
- job_titles: 5-8 objects {title, why_fits, search_keywords: 2-3 strings}
- industries: 4-6 objects {name, why_fits, example_companies: 2-3 strings}
- company_characteristics: 5-7 objects {characteristic, why_matters, how_to_identify}
- interview_stories: 4-5 objects {story_hook, situation, what_it_shows, when_to_use}
- linkedin_headlines: 3 strings, max 120 chars each
- questions_to_ask: 6-8 objects {question, why_ask, red_flag_answer}
- red_flags: 5-7 objects {red_flag, why_problematic, what_to_look_for}
Output ONLY the JSON object, no markdown fences, no explanation.`

// BuildAnalysisPrompt renders the session data as the analysis request.
func BuildAnalysisPrompt(in AnalysisInput) string {
	var b strings.Builder
	b.WriteString("Analyze this person's career profile and provide comprehensive recommendations.\n\n")

	if q := in.Quiz; q != nil {
		path := "Build Own Thing"
		if q.PathResult == domain.PathJob {
			path = "Find the Right Job"
		}
		unmet := q.UnmetNeeds
		if unmet == nil {
			unmet = []domain.NeedID{}
		}
		b.WriteString("## CAREER CLARITY QUIZ RESULTS\n")
		fmt.Fprintf(&b, "- Path Result: %s\n", path)
		fmt.Fprintf(&b, "- Unmet Needs: %s\n", jsonList(unmet))
		fmt.Fprintf(&b, "- Accomplish Score: %d (higher = achievement-oriented)\n", q.AccomplishScore)
		fmt.Fprintf(&b, "- Employment Score: %d (higher = suited for employment)\n\n", q.EmploymentScore)

		if len(q.NeedAnswers) > 0 {
			b.WriteString("### Need Preferences:\n")
			for _, id := range domain.NeedOrder {
				a, ok := q.NeedAnswers[id]
				if !ok {
					continue
				}
				fmt.Fprintf(&b, "- %s: Prefers %s, Currently %s\n", id, preferenceLabel(a.Selection), a.Met)
			}
			b.WriteString("\n")
		}

		if len(q.StructuralAnswers) > 0 {
			b.WriteString("### Work Style Preferences:\n")
			for _, id := range domain.QuestionOrder {
				if v, ok := q.StructuralAnswers[id]; ok {
					fmt.Fprintf(&b, "- %s: %s\n", id, v)
				}
			}
			b.WriteString("\n")
		}
	}

	writeClusterSection(&b, "PROBLEMS THEY CARE ABOUT", in.Problems)
	writeClusterSection(&b, "PEOPLE THEY UNDERSTAND (Former versions of themselves)", in.Persona)
	writeClusterSection(&b, "THEIR SKILLS & ROLE ARCHETYPES", in.Skills)

	b.WriteString("\n---\nBased on ALL of the above, provide comprehensive career guidance. Be specific and actionable. Job titles should be REAL searchable job titles. All recommendations should directly connect to their profile data.\n")
	return b.String()
}

func preferenceLabel(s domain.Selection) string {
	switch s {
	case domain.SelectionLeft:
		return "Accomplish"
	case domain.SelectionRight:
		return "Connect"
	default:
		return "Both"
	}
}

func writeClusterSection(b *strings.Builder, title string, clusters []domain.Cluster) {
	if len(clusters) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n", title)
	for _, c := range clusters {
		insight := c.Insight
		if insight == "" {
			insight = "N/A"
		}
		fmt.Fprintf(b, "**%s**\n", c.Label)
		fmt.Fprintf(b, "- Insight: %s\n", insight)
		fmt.Fprintf(b, "- Items: %s\n\n", jsonList(c.ItemTexts()))
	}
}

// jsonList encodes v compactly without HTML escaping.
func jsonList(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
