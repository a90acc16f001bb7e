package flow

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill[S ~string](d *Discovery[S], s State[S], key string, answers ...string) State[S] {
	for i, a := range answers {
		s = d.SetAnswer(s, key, i, a)
	}
	return s
}

func TestProblems_InitialFields(t *testing.T) {
	s := Problems.New(catalog.Default(), "p")
	assert.Equal(t, ProblemsWelcome, s.Stage)
	assert.Len(t, s.Responses["q1_topics"], 5)
	assert.Len(t, s.Responses["q6_future"], 5)
	assert.Len(t, s.Responses["q7_pulls"], 3)
}

func TestProblems_MinimumAnswersThreshold(t *testing.T) {
	s := Problems.Next(Problems.New(catalog.Default(), "p"))
	require.Equal(t, ProblemsQ1, s.Stage)

	s = fill(Problems, s, "q1_topics", "psychology", "   ", "")
	assert.False(t, Problems.CanAdvance(s), "one filled answer")
	assert.Equal(t, ProblemsQ1, Problems.Next(s).Stage)

	s = fill(Problems, s, "q1_topics", "psychology", "business")
	assert.False(t, Problems.CanAdvance(s), "two filled answers")

	s = Problems.SetAnswer(s, "q1_topics", 4, "  health ")
	assert.True(t, Problems.CanAdvance(s), "exactly three")
	assert.Equal(t, ProblemsQ2, Problems.Next(s).Stage)
}

func TestProblems_AddInput(t *testing.T) {
	s := Problems.New(catalog.Default(), "p")
	s2 := Problems.AddInput(s, "q7_pulls")
	assert.Len(t, s.Responses["q7_pulls"], 3, "original untouched")
	assert.Len(t, s2.Responses["q7_pulls"], 4)
}

func TestProblems_ForwardThroughPreviews(t *testing.T) {
	s := Problems.New(catalog.Default(), "p")
	s = Problems.Next(s)
	s = fill(Problems, s, "q1_topics", "a", "b", "c")
	s = Problems.Next(s)
	s = fill(Problems, s, "q2_impact", "d", "e", "f")
	s = Problems.Next(s)
	require.Equal(t, ProblemsProcessing1, s.Stage)

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, Problems.PreviewItems(s))

	s = Problems.WithPreviewError(s, PreviewErrorMessage)
	assert.Equal(t, PreviewErrorMessage, s.PreviewError)
	assert.True(t, Problems.CanAdvance(s), "continue anyway")

	s = Problems.Next(s)
	assert.Equal(t, ProblemsQ3, s.Stage)
	assert.Empty(t, s.PreviewError)
}

func TestProblems_BackSkipsProcessingScreens(t *testing.T) {
	tests := []struct {
		from ProblemsStage
		want ProblemsStage
	}{
		{ProblemsWelcome, ProblemsWelcome},
		{ProblemsQ1, ProblemsWelcome},
		{ProblemsQ2, ProblemsQ1},
		{ProblemsQ3, ProblemsQ2},
		{ProblemsQ4, ProblemsQ3},
		{ProblemsQ6, ProblemsQ5},
		{ProblemsQ7, ProblemsQ6},
		{ProblemsRating, ProblemsRating},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			s := ProblemsState{Stage: tt.from}
			assert.Equal(t, tt.want, Problems.GoBack(s).Stage)
		})
	}
}

func TestSkills_BackSkipsPreview(t *testing.T) {
	assert.Equal(t, SkillsQ3, Skills.GoBack(SkillsState{Stage: SkillsQ4}).Stage)
	assert.Equal(t, SkillsQ4, Skills.GoBack(SkillsState{Stage: SkillsQ5}).Stage)
	assert.Equal(t, SkillsQ2, Skills.GoBack(SkillsState{Stage: SkillsQ3}).Stage)
}

func TestSkills_QuietPreviewAndInlineFailure(t *testing.T) {
	s := SkillsState{Stage: SkillsProcessing1}
	s = Skills.WithPreviewError(s, PreviewErrorMessage)
	assert.Empty(t, s.PreviewError)
	assert.Nil(t, s.Preview)

	s = Skills.BeginProcessing(SkillsState{Stage: SkillsQ5})
	s = Skills.WithFailure(s, FinalErrorMessage)
	assert.Equal(t, SkillsQ5, s.Stage)
	assert.Equal(t, FinalErrorMessage, s.Error)
	assert.Equal(t, s, Skills.Retry(s), "no error stage to retry from")
}

func TestProblems_ErrorStageRetryAndGoBack(t *testing.T) {
	s := Problems.BeginProcessing(ProblemsState{Stage: ProblemsQ7})
	s = Problems.WithFailure(s, FinalErrorMessage)
	require.Equal(t, ProblemsError, s.Stage)

	assert.Equal(t, ProblemsProcessing, Problems.Retry(s).Stage)
	back := Problems.Abandon(s)
	assert.Equal(t, ProblemsQ7, back.Stage)
	assert.Empty(t, back.Error)
}

func TestDiscovery_RatingGate(t *testing.T) {
	clusters := []domain.Cluster{
		{Label: "Burnout Recovery", Items: domain.TextItems([]string{"rest"})},
		{Label: "Creative Confidence", Items: domain.TextItems([]string{"art"})},
	}
	s := Problems.WithClusters(ProblemsState{Stage: ProblemsProcessing}, clusters)
	require.Equal(t, ProblemsRating, s.Stage)
	assert.False(t, Problems.CanAdvance(s))

	s, err := Problems.Rate(s, 1, "proven")
	require.NoError(t, err)
	assert.False(t, Problems.CanAdvance(s))

	_, err = Problems.Rate(s, 0, "mastering")
	require.ErrorIs(t, err, rating.ErrUnknownLevel)

	_, err = Problems.Rate(s, 5, "proven")
	require.Error(t, err)

	s, err = Problems.Rate(s, 0, "exploring")
	require.NoError(t, err)
	assert.True(t, Problems.CanAdvance(s))

	rated := Problems.Rated(s)
	assert.Equal(t, "exploring", rated[0].Proficiency)
	assert.Equal(t, "proven", rated[1].Proficiency)
	assert.Empty(t, s.Clusters[0].Proficiency, "state clusters stay unflattened")

	assert.Equal(t, ProblemsSuccess, Problems.Next(s).Stage)
}

func TestDiscovery_ZeroClustersOfferRetryAndBack(t *testing.T) {
	cat := catalog.Default()

	t.Run("error stage", func(t *testing.T) {
		s := Problems.WithClusters(Problems.BeginProcessing(Problems.New(cat, "p")), nil)
		require.Equal(t, ProblemsError, s.Stage)
		assert.Equal(t, NoClustersMessage, s.Error)
		assert.Equal(t, ProblemsProcessing, Problems.Retry(s).Stage)
		assert.Equal(t, ProblemsQ7, Problems.Abandon(s).Stage)
	})

	t.Run("inline error", func(t *testing.T) {
		s := Persona.WithClusters(Persona.BeginProcessing(Persona.New(cat, "p")), []domain.Cluster{})
		require.Equal(t, PersonaConfirm, s.Stage)
		assert.Equal(t, NoClustersMessage, s.Error)
		assert.True(t, Persona.CanAdvance(s))
		assert.Equal(t, PersonaProcessing, Persona.Next(s).Stage)
		assert.Equal(t, PersonaWelcome, Persona.GoBack(s).Stage)
	})

	t.Run("restore from empty rating", func(t *testing.T) {
		saved := SkillsState{Stage: SkillsRating, SessionID: "skills-old"}
		s := Skills.Restore(cat, &saved, func() string { return "unused" })
		require.Equal(t, SkillsQ5, s.Stage)
		assert.True(t, Skills.Back.Contains(s.Stage))
	})
}

func TestDiscovery_AllItems(t *testing.T) {
	s := Skills.New(catalog.Default(), "s")
	s = fill(Skills, s, "q5_skills", "speaking")
	s = fill(Skills, s, "q1_childhood", "lego", " ")
	assert.Equal(t, []string{"lego", "speaking"}, Skills.AllItems(s))
}

func TestDiscovery_StepLabel(t *testing.T) {
	assert.Equal(t, "Question 1 of 7", Problems.StepLabel(ProblemsQ1))
	assert.Equal(t, "Question 3 of 7", Problems.StepLabel(ProblemsQ3))
	assert.Equal(t, "Question 5 of 5", Skills.StepLabel(SkillsQ5))
	assert.Empty(t, Problems.StepLabel(ProblemsProcessing1))
}

func TestDiscovery_RestoreRoundTrip(t *testing.T) {
	cat := catalog.Default()
	s := Problems.Next(Problems.New(cat, "problems-abc"))
	s = fill(Problems, s, "q1_topics", "psychology", "", "Ünïcødé ✨", "  padded  ")
	s = Problems.AddInput(s, "q1_topics")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var saved ProblemsState
	require.NoError(t, json.Unmarshal(data, &saved))

	restored := Problems.Restore(cat, &saved, func() string { return "unused" })
	assert.Equal(t, s, restored)
	assert.Equal(t, "  padded  ", restored.Responses["q1_topics"][3])
}

func TestDiscovery_RestoreRules(t *testing.T) {
	cat := catalog.Default()
	newID := func() string { return "problems-new" }

	t.Run("welcome keeps id only", func(t *testing.T) {
		saved := ProblemsState{Stage: ProblemsWelcome, SessionID: "problems-old"}
		s := Problems.Restore(cat, &saved, newID)
		assert.Equal(t, ProblemsWelcome, s.Stage)
		assert.Equal(t, "problems-old", s.SessionID)
		assert.Len(t, s.Responses["q1_topics"], 5)
	})

	t.Run("unknown stage starts over", func(t *testing.T) {
		saved := ProblemsState{Stage: "q99"}
		s := Problems.Restore(cat, &saved, newID)
		assert.Equal(t, ProblemsWelcome, s.Stage)
		assert.Equal(t, "problems-new", s.SessionID)
	})

	t.Run("processing falls back to its trigger", func(t *testing.T) {
		saved := SkillsState{Stage: SkillsProcessing, SessionID: "skills-1"}
		s := Skills.Restore(cat, &saved, newID)
		assert.Equal(t, SkillsQ5, s.Stage)
	})

	t.Run("error stage is resumable", func(t *testing.T) {
		saved := ProblemsState{Stage: ProblemsError, SessionID: "problems-1", Error: FinalErrorMessage}
		s := Problems.Restore(cat, &saved, newID)
		assert.Equal(t, ProblemsError, s.Stage)
	})
}

func TestPersonaContext(t *testing.T) {
	assert.Equal(t, []string{NoProblemsContext}, PersonaContext(nil))
	got := PersonaContextText([]domain.Cluster{
		{Label: "Burnout Recovery", Insight: "You rebuilt yourself"},
		{Label: "Hidden Voices", Insight: "You found courage"},
	})
	assert.Equal(t, "Burnout Recovery: You rebuilt yourself\nHidden Voices: You found courage", got)
}

func TestEffectiveSessionID(t *testing.T) {
	assert.Equal(t, "career-quiz-1", EffectiveSessionID("career-quiz-1", "problems-2"))
	assert.Equal(t, "problems-2", EffectiveSessionID("", "problems-2"))
}
