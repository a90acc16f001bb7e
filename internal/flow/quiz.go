package flow

import (
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/google/uuid"
)

type QuizStage string

const (
	QuizIntro      QuizStage = "intro"
	QuizNeeds      QuizStage = "needs"
	QuizStructural QuizStage = "structural"
	QuizResults    QuizStage = "results"
)

// QuizState is the persisted quiz progress. The json field names are the
// stored blob format.
type QuizState struct {
	Stage             QuizStage                `json:"stage"`
	CurrentNeed       int                      `json:"currentNeed"`
	CurrentStructural int                      `json:"currentStructural"`
	NeedAnswers       domain.NeedAnswers       `json:"needAnswers"`
	StructuralAnswers domain.StructuralAnswers `json:"structuralAnswers"`
	SessionID         string                   `json:"sessionId"`
}

// NewQuizSessionID mints a fresh quiz session id.
func NewQuizSessionID() string {
	return "career-quiz-" + uuid.NewString()
}

func NewQuizState(sessionID string) QuizState {
	return QuizState{
		Stage:             QuizIntro,
		NeedAnswers:       domain.NeedAnswers{},
		StructuralAnswers: domain.StructuralAnswers{},
		SessionID:         sessionID,
	}
}

// RestoreQuiz resumes saved progress when it is past the intro. Otherwise it
// starts fresh, keeping the saved session id if there is one.
func RestoreQuiz(saved *QuizState, newID func() string) QuizState {
	if saved != nil && saved.Stage != "" && saved.Stage != QuizIntro {
		s := *saved
		if s.NeedAnswers == nil {
			s.NeedAnswers = domain.NeedAnswers{}
		}
		if s.StructuralAnswers == nil {
			s.StructuralAnswers = domain.StructuralAnswers{}
		}
		s.CurrentNeed = clamp(s.CurrentNeed, len(domain.NeedOrder)-1)
		s.CurrentStructural = clamp(s.CurrentStructural, len(domain.QuestionOrder)-1)
		if s.SessionID == "" {
			s.SessionID = newID()
		}
		return s
	}
	if saved != nil && saved.SessionID != "" {
		return NewQuizState(saved.SessionID)
	}
	return NewQuizState(newID())
}

func clamp(i, hi int) int {
	if i < 0 {
		return 0
	}
	if i > hi {
		return hi
	}
	return i
}

// Reset discards all answers and starts over under a new session id.
func (s QuizState) Reset(sessionID string) QuizState {
	return NewQuizState(sessionID)
}

func (s QuizState) Start() QuizState {
	if s.Stage == QuizIntro {
		s.Stage = QuizNeeds
		s.CurrentNeed = 0
	}
	return s
}

func (s QuizState) NeedID() domain.NeedID {
	return domain.NeedOrder[s.CurrentNeed]
}

func (s QuizState) QuestionID() domain.QuestionID {
	return domain.QuestionOrder[s.CurrentStructural]
}

func (s QuizState) SetSelection(sel domain.Selection) QuizState {
	id := s.NeedID()
	a := s.NeedAnswers[id]
	a.Selection = sel
	s.NeedAnswers = s.NeedAnswers.Clone()
	s.NeedAnswers[id] = a
	return s
}

func (s QuizState) SetMet(met domain.MetLevel) QuizState {
	id := s.NeedID()
	a := s.NeedAnswers[id]
	a.Met = met
	s.NeedAnswers = s.NeedAnswers.Clone()
	s.NeedAnswers[id] = a
	return s
}

func (s QuizState) SetStructural(value string) QuizState {
	s.StructuralAnswers = s.StructuralAnswers.Clone()
	s.StructuralAnswers[s.QuestionID()] = value
	return s
}

func (s QuizState) CanProceedNeed() bool {
	return s.Stage == QuizNeeds && s.NeedAnswers[s.NeedID()].Complete()
}

func (s QuizState) CanProceedStructural() bool {
	return s.Stage == QuizStructural && s.StructuralAnswers[s.QuestionID()] != ""
}

// NextNeed advances to the next need, or to the structural questions after
// the last one. It is a no-op until the current need is answered.
func (s QuizState) NextNeed() QuizState {
	if !s.CanProceedNeed() {
		return s
	}
	if s.CurrentNeed < len(domain.NeedOrder)-1 {
		s.CurrentNeed++
		return s
	}
	s.Stage = QuizStructural
	s.CurrentStructural = 0
	return s
}

// PrevNeed steps back one need. It does nothing on the first need.
func (s QuizState) PrevNeed() QuizState {
	if s.Stage == QuizNeeds && s.CurrentNeed > 0 {
		s.CurrentNeed--
	}
	return s
}

// NextStructural advances to the next question, or to results after the
// last one.
func (s QuizState) NextStructural() QuizState {
	if !s.CanProceedStructural() {
		return s
	}
	if s.CurrentStructural < len(domain.QuestionOrder)-1 {
		s.CurrentStructural++
		return s
	}
	s.Stage = QuizResults
	return s
}

// PrevStructural steps back one question; from the first question it
// returns to the last need.
func (s QuizState) PrevStructural() QuizState {
	if s.Stage != QuizStructural {
		return s
	}
	if s.CurrentStructural > 0 {
		s.CurrentStructural--
		return s
	}
	s.Stage = QuizNeeds
	s.CurrentNeed = len(domain.NeedOrder) - 1
	return s
}

// Progress returns the 1-based position and total for the current group.
func (s QuizState) Progress() (current, total int) {
	switch s.Stage {
	case QuizNeeds:
		return s.CurrentNeed + 1, len(domain.NeedOrder)
	case QuizStructural:
		return s.CurrentStructural + 1, len(domain.QuestionOrder)
	}
	return 0, 0
}
