package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/flow"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// menuAction represents a single option in a menu.
type menuAction struct {
	label string
	hint  string
	key   string // single-key shortcut
	open  func(*SharedState) View
}

// homeView is the start menu: the quiz and the four Flow Finder flows.
type homeView struct {
	state   *SharedState
	cursor  int
	actions []menuAction
}

func newHomeView(state *SharedState) View {
	v := &homeView{
		state: state,
		actions: []menuAction{
			{label: "Career Clarity Quiz", hint: "job or your own thing?", key: "1", open: newQuizView},
			{label: "Problems Discovery", hint: "what you care about", key: "2", open: newProblemsView},
			{label: "Persona Discovery", hint: "who you help", key: "3", open: newPersonaView},
			{label: "Skills Discovery", hint: "what you're good at", key: "4", open: newSkillsView},
			{label: "Career Analysis", hint: "put it all together", key: "5", open: newIntegrationView},
		},
	}
	v.loadQuizSession()
	return v
}

// loadQuizSession picks up a quiz scored in an earlier run, so the flows
// share its session.
func (v *homeView) loadQuizSession() {
	if v.state.QuizSession != "" || v.state.App.Progress == nil {
		return
	}
	m := progress.NewMirror[flow.QuizState](v.state.App.Progress, progress.KeyQuiz, v.state.App.logger())
	saved, ok, err := m.Load()
	if err != nil || !ok {
		return
	}
	if saved.Stage == flow.QuizResults {
		v.state.QuizSession = saved.SessionID
	}
}

func (v *homeView) ID() ViewID    { return ViewHome }
func (v *homeView) Title() string { return "" }

func (v *homeView) ShortHelp() []key.Binding {
	return []key.Binding{
		binding("enter", "open"),
		binding("1-5", "jump"),
		binding("q", "quit"),
	}
}

func (v *homeView) Init() tea.Cmd { return nil }

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.actions)-1 {
			v.cursor++
		}
	case "enter":
		return v, pushView(v.actions[v.cursor].open(v.state))
	case "q", "esc":
		return v, tea.Quit
	default:
		for i, a := range v.actions {
			if keyMsg.String() == a.key {
				v.cursor = i
				return v, pushView(a.open(v.state))
			}
		}
	}
	return v, nil
}

func (v *homeView) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + formatter.StyleHeader.Render("FIND YOUR FLOW") + "\n")
	b.WriteString("  " + formatter.Dim("Start with the quiz, then work through the discovery flows.") + "\n\n")

	for i, a := range v.actions {
		cursor := "  "
		style := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			style = formatter.StyleBold
		}
		keyHint := formatter.Dim("[" + a.key + "]")
		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n", cursor, style.Render(a.label), formatter.Dim(a.hint), keyHint))
	}

	if v.state.QuizSession != "" {
		b.WriteString("\n  " + formatter.Dim("Quiz session: ") + formatter.TruncID(v.state.QuizSession) + "\n")
	}
	return b.String()
}
