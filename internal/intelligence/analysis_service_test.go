package intelligence

import (
	"context"
	"testing"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/llm"
	"github.com/alexanderramin/clarity/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisJSON = `{
  "career_summary": "You turn confusion into clarity.",
  "job_titles": [{"title": "UX Researcher", "why_fits": "Curious.", "search_keywords": ["ux research", "user research"]}],
  "linkedin_headlines": ["Helping teams understand people"]
}`

func TestCareerAnalysisService_NoData(t *testing.T) {
	client := &fakeClient{text: analysisJSON}
	svc := NewCareerAnalysisService(client)

	_, err := svc.Analyze(context.Background(), AnalysisInput{})
	assert.ErrorIs(t, err, ErrNoAnalysisData)
	assert.Zero(t, client.calls(), "rejected before the model call")
}

func TestCareerAnalysisService_Analyze(t *testing.T) {
	client := &fakeClient{text: "```json\n" + analysisJSON + "\n```"}
	svc := NewCareerAnalysisService(client)

	in := AnalysisInput{Problems: []domain.Cluster{{Label: "Burnout", Items: domain.TextItems([]string{"rest"})}}}
	got, err := svc.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "You turn confusion into clarity.", got.CareerSummary)
	require.Len(t, got.JobTitles, 1)
	assert.Equal(t, []string{"ux research", "user research"}, got.JobTitles[0].SearchKeywords)
	assert.Nil(t, got.Industries)

	assert.Equal(t, llm.TaskCareerAnalysis, client.requests[0].Task)
}

func TestCareerAnalysisService_EmptySummaryRejected(t *testing.T) {
	client := &fakeClient{text: `{"career_summary":"  ","job_titles":[]}`}
	svc := NewCareerAnalysisService(client)

	_, err := svc.Analyze(context.Background(), AnalysisInput{Skills: []domain.Cluster{{Label: "x"}}})
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestBuildAnalysisPrompt_QuizAndClusters(t *testing.T) {
	q := testutil.NewTestQuizRecord("s")
	q.PathResult = domain.PathOwnThing
	q.UnmetNeeds = []domain.NeedID{domain.NeedFreedom}
	q.AccomplishScore = 4
	q.EmploymentScore = 1
	q.NeedAnswers = domain.NeedAnswers{
		domain.NeedFreedom: {Selection: domain.SelectionRight, Met: domain.MetNo},
		domain.NeedGrowth:  {Selection: domain.SelectionLeft, Met: domain.MetYes},
	}
	q.StructuralAnswers = domain.StructuralAnswers{domain.QuestionRisk: "b"}

	prompt := BuildAnalysisPrompt(AnalysisInput{
		Quiz:    q,
		Persona: []domain.Cluster{{Label: "The Overwhelmed Founder", Items: domain.TextItems([]string{"a & b"})}},
	})

	assert.Contains(t, prompt, "## CAREER CLARITY QUIZ RESULTS\n- Path Result: Build Own Thing\n- Unmet Needs: [\"freedom\"]\n")
	assert.Contains(t, prompt, "- Accomplish Score: 4 (higher = achievement-oriented)\n- Employment Score: 1 (higher = suited for employment)\n\n")
	assert.Contains(t, prompt, "### Need Preferences:\n- growth: Prefers Accomplish, Currently yes\n- freedom: Prefers Connect, Currently no\n\n")
	assert.Contains(t, prompt, "### Work Style Preferences:\n- risk: b\n\n")
	assert.Contains(t, prompt, "## PEOPLE THEY UNDERSTAND (Former versions of themselves)\n**The Overwhelmed Founder**\n- Insight: N/A\n- Items: [\"a & b\"]\n\n")
	assert.NotContains(t, prompt, "PROBLEMS THEY CARE ABOUT")
	assert.NotContains(t, prompt, "THEIR SKILLS")
}

func TestBuildAnalysisPrompt_JobPath(t *testing.T) {
	q := testutil.NewTestQuizRecord("s")
	prompt := BuildAnalysisPrompt(AnalysisInput{Quiz: q})
	assert.Contains(t, prompt, "- Path Result: Find the Right Job\n- Unmet Needs: []\n")
}

func twoSkills() []domain.Cluster {
	return []domain.Cluster{
		{Label: "Learning Experience Architect", Items: domain.TextItems([]string{"teaching", "design"})},
		{Label: "Creative Systems Designer", Items: domain.TextItems([]string{"systems"})},
	}
}
