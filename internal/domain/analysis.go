package domain

// CareerAnalysis is the fixed-shape output of the career analysis collaborator.
// Every slice may be nil; renderers must guard accordingly.
type CareerAnalysis struct {
	CareerSummary          string                  `json:"career_summary"`
	JobTitles              []JobTitle              `json:"job_titles,omitempty"`
	Industries             []Industry              `json:"industries,omitempty"`
	CompanyCharacteristics []CompanyCharacteristic `json:"company_characteristics,omitempty"`
	InterviewStories       []InterviewStory        `json:"interview_stories,omitempty"`
	LinkedInHeadlines      []string                `json:"linkedin_headlines,omitempty"`
	QuestionsToAsk         []EmployerQuestion      `json:"questions_to_ask,omitempty"`
	RedFlags               []RedFlag               `json:"red_flags,omitempty"`
}

type JobTitle struct {
	Title          string   `json:"title"`
	WhyFits        string   `json:"why_fits"`
	SearchKeywords []string `json:"search_keywords,omitempty"`
}

type Industry struct {
	Name             string   `json:"name"`
	WhyFits          string   `json:"why_fits"`
	ExampleCompanies []string `json:"example_companies,omitempty"`
}

type CompanyCharacteristic struct {
	Characteristic string `json:"characteristic"`
	WhyMatters     string `json:"why_matters"`
	HowToIdentify  string `json:"how_to_identify"`
}

type InterviewStory struct {
	StoryHook   string `json:"story_hook"`
	Situation   string `json:"situation"`
	WhatItShows string `json:"what_it_shows"`
	WhenToUse   string `json:"when_to_use"`
}

type EmployerQuestion struct {
	Question      string `json:"question"`
	WhyAsk        string `json:"why_ask"`
	RedFlagAnswer string `json:"red_flag_answer"`
}

type RedFlag struct {
	RedFlag        string `json:"red_flag"`
	WhyProblematic string `json:"why_problematic"`
	WhatToLookFor  string `json:"what_to_look_for"`
}
