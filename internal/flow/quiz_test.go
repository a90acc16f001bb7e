package flow

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID() string { return "career-quiz-fixed" }

func answerNeed(s QuizState) QuizState {
	return s.SetSelection(domain.SelectionLeft).SetMet(domain.MetPartial)
}

func TestQuiz_NeedsRequireBothChoices(t *testing.T) {
	s := NewQuizState("q").Start()
	require.Equal(t, QuizNeeds, s.Stage)

	assert.False(t, s.CanProceedNeed())
	assert.Equal(t, 0, s.NextNeed().CurrentNeed, "blocked until answered")

	s = s.SetSelection(domain.SelectionBoth)
	assert.False(t, s.CanProceedNeed())

	s = s.SetMet(domain.MetYes)
	assert.True(t, s.CanProceedNeed())
	assert.Equal(t, 1, s.NextNeed().CurrentNeed)
}

func TestQuiz_FullWalkThrough(t *testing.T) {
	s := NewQuizState("q").Start()
	for i := 0; i < len(domain.NeedOrder); i++ {
		require.Equal(t, QuizNeeds, s.Stage)
		require.Equal(t, i, s.CurrentNeed)
		s = answerNeed(s).NextNeed()
	}
	require.Equal(t, QuizStructural, s.Stage)
	require.Equal(t, 0, s.CurrentStructural)

	for i := 0; i < len(domain.QuestionOrder); i++ {
		require.Equal(t, QuizStructural, s.Stage)
		assert.False(t, s.CanProceedStructural())
		s = s.SetStructural("anything").NextStructural()
	}
	assert.Equal(t, QuizResults, s.Stage)
	assert.True(t, s.NeedAnswers.Complete())
	assert.True(t, s.StructuralAnswers.Complete())
}

func TestQuiz_PrevNeedNoOpAtFirst(t *testing.T) {
	s := NewQuizState("q").Start()
	assert.Equal(t, s, s.PrevNeed())

	s = answerNeed(s).NextNeed()
	assert.Equal(t, 0, s.PrevNeed().CurrentNeed)
}

func TestQuiz_PrevStructuralCrossesGroupBoundary(t *testing.T) {
	s := NewQuizState("q").Start()
	for range domain.NeedOrder {
		s = answerNeed(s).NextNeed()
	}
	require.Equal(t, QuizStructural, s.Stage)

	back := s.PrevStructural()
	assert.Equal(t, QuizNeeds, back.Stage)
	assert.Equal(t, len(domain.NeedOrder)-1, back.CurrentNeed)

	s = s.SetStructural("x").NextStructural()
	assert.Equal(t, 0, s.PrevStructural().CurrentStructural)
	assert.Equal(t, QuizStructural, s.PrevStructural().Stage)
}

func TestQuiz_SettersDoNotAlias(t *testing.T) {
	a := NewQuizState("q").Start()
	b := a.SetSelection(domain.SelectionRight)
	assert.Empty(t, a.NeedAnswers[domain.NeedGrowth].Selection)
	assert.Equal(t, domain.SelectionRight, b.NeedAnswers[domain.NeedGrowth].Selection)
}

func TestRestoreQuiz(t *testing.T) {
	t.Run("nothing saved mints an id", func(t *testing.T) {
		s := RestoreQuiz(nil, fixedID)
		assert.Equal(t, QuizIntro, s.Stage)
		assert.Equal(t, "career-quiz-fixed", s.SessionID)
	})

	t.Run("intro keeps saved id", func(t *testing.T) {
		saved := NewQuizState("career-quiz-saved")
		s := RestoreQuiz(&saved, fixedID)
		assert.Equal(t, QuizIntro, s.Stage)
		assert.Equal(t, "career-quiz-saved", s.SessionID)
	})

	t.Run("mid quiz restores everything", func(t *testing.T) {
		saved := answerNeed(NewQuizState("career-quiz-saved").Start()).NextNeed()
		saved = answerNeed(saved)

		s := RestoreQuiz(&saved, fixedID)
		assert.Equal(t, saved, s)
	})

	t.Run("out of range indices are clamped", func(t *testing.T) {
		saved := QuizState{Stage: QuizStructural, CurrentNeed: 12, CurrentStructural: -3, SessionID: "x"}
		s := RestoreQuiz(&saved, fixedID)
		assert.Equal(t, 5, s.CurrentNeed)
		assert.Equal(t, 0, s.CurrentStructural)
		assert.NotNil(t, s.NeedAnswers)
	})
}

func TestQuizState_BlobFormat(t *testing.T) {
	s := answerNeed(NewQuizState("career-quiz-1").Start())
	data, err := json.Marshal(s)
	require.NoError(t, err)

	for _, key := range []string{`"stage":"needs"`, `"currentNeed":0`, `"currentStructural":0`, `"needAnswers":{"growth":{"selection":"left","met":"partial"}}`, `"structuralAnswers":{}`, `"sessionId":"career-quiz-1"`} {
		assert.Contains(t, string(data), key)
	}

	var back QuizState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestNewQuizSessionID(t *testing.T) {
	a, b := NewQuizSessionID(), NewQuizSessionID()
	assert.True(t, strings.HasPrefix(a, "career-quiz-"))
	assert.NotEqual(t, a, b)
}

func TestQuiz_ResetNeverReusesSession(t *testing.T) {
	s := answerNeed(NewQuizState("old").Start())
	r := s.Reset(NewQuizSessionID())
	assert.Equal(t, QuizIntro, r.Stage)
	assert.Empty(t, r.NeedAnswers)
	assert.NotEqual(t, "old", r.SessionID)
}

func TestQuiz_Progress(t *testing.T) {
	s := NewQuizState("q")
	cur, total := s.Progress()
	assert.Zero(t, cur)
	assert.Zero(t, total)

	s = s.Start()
	cur, total = s.Progress()
	assert.Equal(t, 1, cur)
	assert.Equal(t, 6, total)
}

func TestTransition_DeferThenCommit(t *testing.T) {
	var tr Transition
	s := answerNeed(NewQuizState("q").Start())

	require.True(t, tr.Begin(func() { s = s.NextNeed() }))
	assert.True(t, tr.Animating())
	assert.Equal(t, 0, s.CurrentNeed, "state unchanged until commit")

	assert.False(t, tr.Begin(func() { s = s.PrevNeed() }), "input ignored while animating")

	require.True(t, tr.Commit())
	assert.False(t, tr.Animating())
	assert.Equal(t, 1, s.CurrentNeed)
	assert.False(t, tr.Commit(), "nothing pending")
}
