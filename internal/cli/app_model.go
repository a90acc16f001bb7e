package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack and a bottom bar of key hints.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	// notice is the last flash, cleared by the next key press.
	notice string
}

func newAppModel(ctx context.Context, app *App, first func(*SharedState) View) appModel {
	state := newSharedState(ctx, app)
	return appModel{
		state:     state,
		viewStack: []View{first(state)},
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		m.notice = ""

	case pushViewMsg:
		m.notice = ""
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case replaceViewMsg:
		m.notice = ""
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case flashMsg:
		m.notice = msg.text
		return m, nil

	case wizardCompleteMsg:
		// Pop the wizard, then let the follow-up reach the view beneath it.
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	v := m.activeView()
	if v == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.breadcrumb() + "\n")
	b.WriteString(formatter.Dim(strings.Repeat("─", m.ruleWidth())) + "\n")
	b.WriteString(v.View())
	if m.notice != "" {
		b.WriteString("\n  " + m.notice + "\n")
	}
	b.WriteString("\n" + formatter.Dim(strings.Repeat("─", m.ruleWidth())) + "\n")
	b.WriteString(renderHints(v))
	return b.String()
}

func (m appModel) breadcrumb() string {
	parts := []string{formatter.StyleHeader.Render("CLARITY")}
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			parts = append(parts, t)
		}
	}
	return " " + strings.Join(parts, formatter.Dim(" › "))
}

func (m appModel) ruleWidth() int {
	if m.state.Width > 0 {
		return m.state.Width
	}
	return 60
}

func renderHints(v View) string {
	var hints []string
	for _, b := range v.ShortHelp() {
		h := b.Help()
		hints = append(hints, formatter.Bold(h.Key)+" "+formatter.Dim(h.Desc))
	}
	hints = append(hints, formatter.Bold("ctrl+c")+" "+formatter.Dim("quit"))
	return " " + strings.Join(hints, formatter.Dim(" · "))
}
