package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/clarity/internal/domain"
)

// ExportFilename names the downloadable results file for day t.
func ExportFilename(t time.Time) string {
	return "career-clarity-results-" + t.Format("2006-01-02") + ".txt"
}

// ExportText renders an analysis as the plain-text results file.
func ExportText(a *domain.CareerAnalysis, generated time.Time) string {
	var b strings.Builder

	b.WriteString("CAREER CLARITY RESULTS\n")
	fmt.Fprintf(&b, "Generated: %s\n", generated.Format("1/2/2006"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	if a == nil {
		return b.String()
	}

	section(&b, "CAREER SUMMARY")
	b.WriteString(a.CareerSummary + "\n\n")

	section(&b, "JOB TITLES TO SEARCH FOR")
	for i, j := range a.JobTitles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, j.Title)
		fmt.Fprintf(&b, "   Why it fits: %s\n", j.WhyFits)
		fmt.Fprintf(&b, "   Search keywords: %s\n\n", strings.Join(j.SearchKeywords, ", "))
	}

	section(&b, "TARGET INDUSTRIES")
	for i, ind := range a.Industries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ind.Name)
		fmt.Fprintf(&b, "   Why: %s\n", ind.WhyFits)
		fmt.Fprintf(&b, "   Example companies: %s\n\n", strings.Join(ind.ExampleCompanies, ", "))
	}

	section(&b, "COMPANY CHARACTERISTICS TO LOOK FOR")
	for i, c := range a.CompanyCharacteristics {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Characteristic)
		fmt.Fprintf(&b, "   Why it matters: %s\n", c.WhyMatters)
		fmt.Fprintf(&b, "   How to identify: %s\n\n", c.HowToIdentify)
	}

	section(&b, "INTERVIEW STORIES")
	for i, s := range a.InterviewStories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.StoryHook)
		fmt.Fprintf(&b, "   Situation: %s\n", s.Situation)
		fmt.Fprintf(&b, "   What it shows: %s\n", s.WhatItShows)
		fmt.Fprintf(&b, "   When to use: %s\n\n", s.WhenToUse)
	}

	section(&b, "LINKEDIN HEADLINES")
	for i, h := range a.LinkedInHeadlines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, h)
	}
	b.WriteString("\n")

	section(&b, "QUESTIONS TO ASK EMPLOYERS")
	for i, q := range a.QuestionsToAsk {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
		fmt.Fprintf(&b, "   Why ask: %s\n", q.WhyAsk)
		fmt.Fprintf(&b, "   Red flag answer: %s\n\n", q.RedFlagAnswer)
	}

	section(&b, "RED FLAGS TO WATCH FOR")
	for i, r := range a.RedFlags {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.RedFlag)
		fmt.Fprintf(&b, "   Why problematic: %s\n", r.WhyProblematic)
		fmt.Fprintf(&b, "   What to look for: %s\n\n", r.WhatToLookFor)
	}

	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
}
