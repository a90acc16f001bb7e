package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/clarity/internal/flow"
	tea "github.com/charmbracelet/bubbletea"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App
	Ctx context.Context

	// QuizSession is the quiz session handed to the discovery flows once
	// the quiz has been scored.
	QuizSession string

	// TransitionDelay is how long a stage change animates before it
	// commits. Zero commits on the next message.
	TransitionDelay time.Duration

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(ctx context.Context, app *App) *SharedState {
	if ctx == nil {
		ctx = context.Background()
	}
	return &SharedState{App: app, Ctx: ctx, TransitionDelay: flow.TransitionDelay}
}

// afterTransition schedules the commit of a pending stage change.
func (s *SharedState) afterTransition() tea.Cmd {
	if s.TransitionDelay <= 0 {
		return func() tea.Msg { return transitionCommitMsg{} }
	}
	return tea.Tick(s.TransitionDelay, func(time.Time) tea.Msg { return transitionCommitMsg{} })
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

// viewportHeight leaves room for a view's own header and footer lines.
func (s *SharedState) viewportHeight() int {
	if h := s.ContentHeight() - 4; h > 5 {
		return h
	}
	return 20
}
