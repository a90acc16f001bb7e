package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/flow"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func problemsView(t *testing.T, d *TestDriver) *discoveryView[flow.ProblemsStage] {
	t.Helper()
	v, ok := d.ActiveView().(*discoveryView[flow.ProblemsStage])
	require.True(t, ok, "active view is %T", d.ActiveView())
	return v
}

func withQuizSession(id string) func(*SharedState) {
	return func(s *SharedState) { s.QuizSession = id }
}

// answerProblemsThroughQ7 walks the problems flow from welcome to the end
// of the last question, continuing past both previews.
func answerProblemsThroughQ7(d *TestDriver) {
	d.PressEnter() // welcome
	d.Answer("a1", "a2", "a3")
	d.Answer("b1", "b2", "b3")
	d.PressEnter() // preview 1
	d.Answer("c1", "c2", "c3")
	d.Answer("d1", "d2", "d3")
	d.Answer("e1", "e2", "e3")
	d.PressEnter() // preview 2
	d.Answer("f1", "f2", "f3")
}

// --- home ---

func TestHome_OpensFlowsAndQuits(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app, newHomeView)

	assert.Contains(t, d.View(), "FIND YOUR FLOW")

	d.PressKey('2')
	assert.Equal(t, ViewProblems, d.ActiveViewID())
	assert.Equal(t, 2, d.StackDepth())
	assert.Contains(t, d.View(), "Problems")

	d.PressEsc()
	assert.Equal(t, ViewHome, d.ActiveViewID())

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestHome_PicksUpScoredQuizSession(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Set(progress.KeyQuiz, []byte(`{"stage":"results","sessionId":"quiz-earlier"}`)))

	d := NewTestDriver(t, env.app, newHomeView)
	assert.Equal(t, "quiz-earlier", d.State().QuizSession)
}

// --- quiz ---

func TestQuizView_FullRun(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newQuizView)

	d.PressEnter()
	v := d.ActiveView().(*quizView)
	require.Equal(t, flow.QuizNeeds, v.quiz.Stage)

	// Enter without answering is refused.
	d.PressEnter()
	assert.Equal(t, 0, v.quiz.CurrentNeed)
	assert.NotEmpty(t, d.Notice())

	for range domain.NeedOrder {
		d.PressKey('1')
		d.PressKey('y')
		d.PressEnter()
	}
	require.Equal(t, flow.QuizStructural, v.quiz.Stage)

	for range domain.QuestionOrder {
		d.PressKey('a')
		d.PressEnter()
	}

	require.Equal(t, flow.QuizResults, v.quiz.Stage)
	require.NotNil(t, v.outcome)
	assert.Contains(t, d.View(), "Your Path:")
	assert.Equal(t, v.quiz.SessionID, d.State().QuizSession)

	rec, err := env.app.Quiz.Get(context.Background(), v.quiz.SessionID)
	require.NoError(t, err)
	assert.Equal(t, v.outcome.QuizResultID(), rec.ID)

	// Results stay resumable.
	_, ok, err := env.store.Get(progress.KeyQuiz)
	require.NoError(t, err)
	assert.True(t, ok)

	d.PressKey('f')
	assert.Equal(t, ViewProblems, d.ActiveViewID())
	assert.Equal(t, v.quiz.SessionID, problemsView(t, d).s.SessionID)
}

func TestQuizView_RetakeStartsNewSession(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newQuizView)

	d.PressEnter()
	for range domain.NeedOrder {
		d.PressKey('3')
		d.PressKey('p')
		d.PressEnter()
	}
	for range domain.QuestionOrder {
		d.PressKey('b')
		d.PressEnter()
	}
	v := d.ActiveView().(*quizView)
	first := v.quiz.SessionID
	require.NotNil(t, v.outcome)

	d.PressKey('r')
	assert.Equal(t, flow.QuizIntro, v.quiz.Stage)
	assert.NotEqual(t, first, v.quiz.SessionID)
	assert.Empty(t, d.State().QuizSession)
	assert.Nil(t, v.outcome)
}

func TestApplyQuizEmail(t *testing.T) {
	app := testApp(t)
	seedQuiz(t, app, "tui-email")
	rec, err := app.Quiz.Get(context.Background(), "tui-email")
	require.NoError(t, err)

	msg := applyQuizEmail(context.Background(), app, rec.ID, "  ada@example.com ")
	assert.Equal(t, quizEmailMsg{}, msg)

	rec, err = app.Quiz.Get(context.Background(), "tui-email")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", rec.Email)

	msg = applyQuizEmail(context.Background(), app, rec.ID, "nope")
	got, ok := msg.(quizEmailMsg)
	require.True(t, ok)
	assert.ErrorIs(t, got.err, service.ErrInvalidEmail)
}

// --- problems ---

func TestProblemsView_FullRun(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newProblemsView, withQuizSession("quiz-problems"))
	v := problemsView(t, d)
	assert.Equal(t, "quiz-problems", v.s.SessionID)

	d.PressEnter()
	require.Equal(t, flow.ProblemsQ1, v.s.Stage)

	// Two answers are not enough.
	d.Type("one")
	d.PressTab()
	d.Type("two")
	d.PressEnter()
	assert.Equal(t, flow.ProblemsQ1, v.s.Stage)
	assert.Contains(t, d.Notice(), flow.MinAnswersHint)

	d.PressTab()
	d.Type("three")
	d.PressEnter()
	require.Equal(t, flow.ProblemsQ2, v.s.Stage)
	assert.Equal(t, []string{"one", "two", "three"}, v.s.Responses.Filled("q1_topics"))

	d.Answer("b1", "b2", "b3")
	require.Equal(t, flow.ProblemsProcessing1, v.s.Stage)
	require.Len(t, v.s.Preview, 2)
	assert.Contains(t, d.View(), "EARLY PATTERNS")

	d.PressEnter()
	d.Answer("c1", "c2", "c3")
	d.Answer("d1", "d2", "d3")
	d.Answer("e1", "e2", "e3")
	require.Equal(t, flow.ProblemsProcessing2, v.s.Stage)
	d.PressEnter()
	d.Answer("f1", "f2", "f3")
	d.Answer("g1", "g2", "g3")

	require.Equal(t, flow.ProblemsRating, v.s.Stage)
	assert.Contains(t, d.View(), "Teaching and explaining")

	// Saving is refused until every cluster is rated.
	d.PressKey('2')
	d.PressEnter()
	assert.Equal(t, flow.ProblemsRating, v.s.Stage)

	d.PressKey('3')
	d.PressEnter()
	require.Equal(t, flow.ProblemsSuccess, v.s.Stage)
	assert.Contains(t, d.View(), "Teaching and explaining")

	stored, err := env.app.Discovery.List(context.Background(), "quiz-problems", domain.ClusterProblems)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	byLabel := map[string]string{}
	for _, c := range stored {
		byLabel[c.Label] = c.Proficiency
	}
	assert.Equal(t, "pursuing", byLabel["Teaching and explaining"])
	assert.Equal(t, "proven", byLabel["Building tools"])

	kinds := env.clusterer.kinds
	assert.Equal(t, []intelligence.ClusterKind{intelligence.KindProblems, intelligence.KindProblems, intelligence.KindProblems}, kinds)
	assert.Len(t, env.clusterer.items[2], 21)

	_, ok, err := env.store.Get(progress.KeyProblems)
	require.NoError(t, err)
	assert.False(t, ok, "progress should be cleared on success")

	d.PressKey('n')
	assert.Equal(t, ViewPersona, d.ActiveViewID())
}

func TestProblemsView_ResumesSavedProgress(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newProblemsView)
	d.PressEnter()
	d.Answer("x1", "x2", "x3")
	session := problemsView(t, d).s.SessionID

	d2 := NewTestDriver(t, env.app, newProblemsView)
	v := problemsView(t, d2)
	assert.Equal(t, flow.ProblemsQ2, v.s.Stage)
	assert.Equal(t, session, v.s.SessionID)
	assert.Equal(t, []string{"x1", "x2", "x3"}, v.s.Responses.Filled("q1_topics"))
}

func TestProblemsView_AddInputAndGoBack(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app, newProblemsView)
	v := problemsView(t, d)

	d.PressEnter()
	before := len(v.s.Responses["q1_topics"])
	d.PressCtrlN()
	assert.Len(t, v.s.Responses["q1_topics"], before+1)
	assert.Equal(t, before, v.focus)

	d.Answer("a", "b", "c")
	require.Equal(t, flow.ProblemsQ2, v.s.Stage)

	d.PressEsc()
	assert.Equal(t, flow.ProblemsQ1, v.s.Stage)
	d.PressEsc()
	assert.Equal(t, flow.ProblemsWelcome, v.s.Stage)
	d.PressEsc()
	assert.True(t, d.Quitting, "esc on the only view leaves the app")
}

func TestProblemsView_PreviewFailureCanRetry(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newProblemsView)
	v := problemsView(t, d)

	d.PressEnter()
	d.Answer("a1", "a2", "a3")
	env.clusterer.fail(errors.New("model down"))
	d.Answer("b1", "b2", "b3")

	require.Equal(t, flow.ProblemsProcessing1, v.s.Stage)
	assert.Equal(t, flow.PreviewErrorMessage, v.s.PreviewError)
	assert.Contains(t, d.View(), flow.PreviewErrorMessage)

	env.clusterer.fail(nil)
	d.PressKey('r')
	assert.Empty(t, v.s.PreviewError)
	assert.Len(t, v.s.Preview, 2)
}

func TestProblemsView_FinalFailureThenRetry(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newProblemsView)
	v := problemsView(t, d)

	answerProblemsThroughQ7(d)
	env.clusterer.fail(errors.New("model down"))
	d.Answer("g1", "g2", "g3")

	require.Equal(t, flow.ProblemsError, v.s.Stage)
	assert.Contains(t, d.View(), flow.FinalErrorMessage)

	d.PressEsc()
	assert.Equal(t, flow.ProblemsQ7, v.s.Stage)

	d.PressEnter()
	require.Equal(t, flow.ProblemsError, v.s.Stage)

	env.clusterer.fail(nil)
	d.PressKey('r')
	assert.Equal(t, flow.ProblemsRating, v.s.Stage)
}

// --- skills ---

func TestSkillsView_QuietPreviewAndInlineFailure(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newSkillsView)
	v, ok := d.ActiveView().(*discoveryView[flow.SkillsStage])
	require.True(t, ok)

	env.clusterer.fail(errors.New("model down"))
	d.PressEnter()
	d.Answer("a1", "a2", "a3")
	d.Answer("b1", "b2", "b3")
	d.Answer("c1", "c2", "c3")

	require.Equal(t, flow.SkillsProcessing1, v.s.Stage)
	assert.Empty(t, v.s.PreviewError, "skills previews fail quietly")
	assert.Empty(t, v.s.Preview)

	d.PressEnter()
	d.Answer("d1", "d2", "d3")
	d.Answer("e1", "e2", "e3")

	require.Equal(t, flow.SkillsQ5, v.s.Stage)
	assert.Equal(t, flow.FinalErrorMessage, v.s.Error)
	assert.Contains(t, d.View(), flow.FinalErrorMessage)

	env.clusterer.fail(nil)
	d.PressEnter()
	require.Equal(t, flow.SkillsRating, v.s.Stage)
	assert.Equal(t, intelligence.KindRoles, env.clusterer.kinds[len(env.clusterer.kinds)-1])
}

// --- persona ---

func TestPersonaView_UsesProblemsContext(t *testing.T) {
	env := newTestEnv(t)
	seedClusters(t, env.app, "quiz-persona", domain.ClusterProblems)

	d := NewTestDriver(t, env.app, newPersonaView, withQuizSession("quiz-persona"))
	v, ok := d.ActiveView().(*discoveryView[flow.PersonaStage])
	require.True(t, ok)

	d.PressEnter()
	require.Equal(t, flow.PersonaConfirm, v.s.Stage)
	d.PressEnter()
	require.Equal(t, flow.PersonaRating, v.s.Stage)

	last := env.clusterer.items[len(env.clusterer.items)-1]
	assert.ElementsMatch(t, []string{
		"Teaching and explaining: You light up when someone else gets it.",
		"Building tools: You make the work easier for everyone after you.",
	}, last)

	d.PressKey('1')
	d.PressKey('1')
	d.PressEnter()
	require.Equal(t, flow.PersonaSuccess, v.s.Stage)

	stored, err := env.app.Discovery.List(context.Background(), "quiz-persona", domain.ClusterPersona)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestPersonaView_WithoutProblems(t *testing.T) {
	env := newTestEnv(t)
	d := NewTestDriver(t, env.app, newPersonaView)

	d.PressEnter()
	d.PressEnter()

	last := env.clusterer.items[len(env.clusterer.items)-1]
	assert.Equal(t, []string{flow.NoProblemsContext}, last)
}

// --- integration ---

func TestIntegrationView_AnalyzesStoredResults(t *testing.T) {
	env := newTestEnv(t)
	seedClusters(t, env.app, "quiz-integ", domain.ClusterSkills)
	seedClusters(t, env.app, "quiz-integ", domain.ClusterProblems)

	d := NewTestDriver(t, env.app, newIntegrationView, withQuizSession("quiz-integ"))
	v := d.ActiveView().(*integrationView)
	assert.Equal(t, 2, v.s.Counts[domain.ClusterSkills])
	assert.Equal(t, 0, v.s.Counts[domain.ClusterPersona])
	assert.Contains(t, d.View(), "FLOW")

	d.PressEnter()
	require.Equal(t, flow.IntegrationResults, v.s.Stage)
	assert.Contains(t, d.View(), "CAREER SUMMARY")
	assert.Contains(t, d.View(), "You make complex things simple.")

	// Reopening resumes the results without another analysis.
	env.analyzer.err = errors.New("should not be called")
	d2 := NewTestDriver(t, env.app, newIntegrationView, withQuizSession("quiz-integ"))
	v2 := d2.ActiveView().(*integrationView)
	assert.Equal(t, flow.IntegrationResults, v2.s.Stage)
}

func TestIntegrationView_NoData(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app, newIntegrationView, withQuizSession("quiz-empty"))
	v := d.ActiveView().(*integrationView)

	assert.Contains(t, d.View(), flow.NoDiscoveryDataMessage)
	d.PressEnter()
	assert.Equal(t, flow.IntegrationWelcome, v.s.Stage)
	assert.Contains(t, d.Notice(), flow.NoDiscoveryDataMessage)
}

func TestIntegrationView_FailureAndGoBack(t *testing.T) {
	env := newTestEnv(t)
	seedClusters(t, env.app, "quiz-fail", domain.ClusterSkills)
	env.analyzer.err = errors.New("model down")

	d := NewTestDriver(t, env.app, newIntegrationView, withQuizSession("quiz-fail"))
	v := d.ActiveView().(*integrationView)

	d.PressEnter()
	require.Equal(t, flow.IntegrationError, v.s.Stage)
	assert.Contains(t, d.View(), flow.AnalysisErrorMessage)

	d.PressEsc()
	assert.Equal(t, flow.IntegrationWelcome, v.s.Stage)

	env.analyzer.err = nil
	d.PressEnter()
	assert.Equal(t, flow.IntegrationResults, v.s.Stage)
}

func TestApplyDownload(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	msg := applyDownload(context.Background(), env.app, "quiz-dl", "nope", sampleAnalysis(), dir)
	got := msg.(downloadMsg)
	assert.ErrorIs(t, got.err, service.ErrInvalidEmail)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	msg = applyDownload(context.Background(), env.app, "quiz-dl", "ada@example.com", sampleAnalysis(), dir)
	got = msg.(downloadMsg)
	require.NoError(t, got.err)
	assert.Equal(t, filepath.Join(dir, "career-clarity-results-2026-04-09.txt"), got.path)

	data, err := os.ReadFile(got.path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "CAREER CLARITY RESULTS"))
}

func TestExportDir(t *testing.T) {
	app := testApp(t)
	assert.Equal(t, filepath.Join(app.Config.DataDir, "exports"), exportDir(app))

	app.Config = nil
	assert.Equal(t, ".", exportDir(app))
}
