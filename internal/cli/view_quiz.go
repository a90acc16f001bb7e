package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/flow"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type quizScoredMsg struct {
	outcome *service.QuizOutcome
	err     error
}

type quizEmailMsg struct {
	err error
}

// quizView walks the six needs and five structural questions, then shows
// the scored result.
type quizView struct {
	state  *SharedState
	mirror *progress.Mirror[flow.QuizState]
	quiz   flow.QuizState
	trans  flow.Transition

	outcome    *service.QuizOutcome
	submitting bool
	submitErr  string
	emailSaved bool

	spinner spinner.Model
	results viewport.Model
}

func newQuizView(state *SharedState) View {
	app := state.App
	v := &quizView{
		state:   state,
		mirror:  progress.NewMirror[flow.QuizState](progressStore(app), progress.KeyQuiz, app.logger()),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
	}

	saved, ok, err := v.mirror.Load()
	if err != nil {
		app.logger().Warn("loading quiz progress", "error", err)
	}
	var prev *flow.QuizState
	if ok {
		prev = &saved
	}
	v.quiz = flow.RestoreQuiz(prev, flow.NewQuizSessionID)
	return v
}

func (v *quizView) ID() ViewID    { return ViewQuiz }
func (v *quizView) Title() string { return "Quiz" }

func (v *quizView) ShortHelp() []key.Binding {
	switch v.quiz.Stage {
	case flow.QuizIntro:
		return []key.Binding{binding("enter", "start"), binding("esc", "back")}
	case flow.QuizNeeds:
		return []key.Binding{binding("1-3", "pick side"), binding("y/p/n", "met?"), binding("enter", "next"), binding("←", "previous")}
	case flow.QuizStructural:
		return []key.Binding{binding("a/b", "choose"), binding("enter", "next"), binding("←", "previous")}
	}
	hints := []key.Binding{binding("↑/↓", "scroll"), binding("f", "start problems flow")}
	if v.outcome != nil && !v.emailSaved {
		hints = append(hints, binding("e", "email results"))
	}
	return append(hints, binding("r", "retake"), binding("esc", "back"))
}

func (v *quizView) Init() tea.Cmd {
	v.save()
	return v.onEnter()
}

func (v *quizView) save() {
	if err := v.mirror.Save(v.quiz); err != nil {
		v.state.App.logger().Warn("saving quiz progress", "error", err)
	}
}

// begin starts an animated stage change. Keys are ignored until it commits.
func (v *quizView) begin(apply func()) tea.Cmd {
	if !v.trans.Begin(apply) {
		return nil
	}
	return v.state.afterTransition()
}

// step applies next directly within a group and animates across groups.
func (v *quizView) step(next flow.QuizState) tea.Cmd {
	if next.Stage == v.quiz.Stage {
		v.quiz = next
		v.save()
		return nil
	}
	return v.begin(func() { v.quiz = next })
}

// onEnter starts scoring when the results stage has nothing to show yet.
func (v *quizView) onEnter() tea.Cmd {
	if v.quiz.Stage != flow.QuizResults || v.outcome != nil || v.submitting {
		return nil
	}
	return v.submit()
}

func (v *quizView) submit() tea.Cmd {
	v.submitting = true
	v.submitErr = ""
	app, ctx, q := v.state.App, v.state.Ctx, v.quiz
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		out, err := app.Quiz.Submit(ctx, q.SessionID, q.NeedAnswers, q.StructuralAnswers)
		return quizScoredMsg{outcome: out, err: err}
	})
}

func (v *quizView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case transitionCommitMsg:
		if v.trans.Commit() {
			v.save()
			return v, v.onEnter()
		}
		return v, nil

	case quizScoredMsg:
		v.submitting = false
		if msg.err != nil {
			v.state.App.logger().Error("scoring quiz", "session", v.quiz.SessionID, "error", msg.err)
			v.submitErr = msg.err.Error()
			return v, nil
		}
		v.outcome = msg.outcome
		v.state.QuizSession = msg.outcome.SessionID
		v.results = viewport.New(v.contentWidth(), v.state.viewportHeight())
		v.results.SetContent(formatter.FormatQuizResult(v.state.App.Catalog,
			msg.outcome.Result, msg.outcome.Content, msg.outcome.Guidance))
		return v, nil

	case quizEmailMsg:
		if msg.err != nil {
			return v, flash(formatter.Error(msg.err))
		}
		v.emailSaved = true
		return v, flash(formatter.StyleGreen.Render("✓ Email saved. Your results are on their way."))

	case spinner.TickMsg:
		if v.submitting {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil

	case tea.KeyMsg:
		if v.trans.Animating() {
			return v, nil
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *quizView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "esc" {
		return v, popView()
	}

	switch v.quiz.Stage {
	case flow.QuizIntro:
		if k == "enter" {
			return v, v.begin(func() { v.quiz = v.quiz.Start() })
		}

	case flow.QuizNeeds:
		switch k {
		case "1":
			v.quiz = v.quiz.SetSelection(domain.SelectionLeft)
		case "2":
			v.quiz = v.quiz.SetSelection(domain.SelectionBoth)
		case "3":
			v.quiz = v.quiz.SetSelection(domain.SelectionRight)
		case "y":
			v.quiz = v.quiz.SetMet(domain.MetYes)
		case "p":
			v.quiz = v.quiz.SetMet(domain.MetPartial)
		case "n":
			v.quiz = v.quiz.SetMet(domain.MetNo)
		case "enter", "right":
			if !v.quiz.CanProceedNeed() {
				return v, flash(formatter.Dim("Pick a side and how well it's met to continue."))
			}
			return v, v.step(v.quiz.NextNeed())
		case "left", "backspace":
			return v, v.step(v.quiz.PrevNeed())
		default:
			return v, nil
		}
		v.save()

	case flow.QuizStructural:
		q, _ := v.state.App.Catalog.Question(v.quiz.QuestionID())
		switch k {
		case "a":
			v.quiz = v.quiz.SetStructural(q.OptionA.Value)
		case "b":
			v.quiz = v.quiz.SetStructural(q.OptionB.Value)
		case "enter", "right":
			if !v.quiz.CanProceedStructural() {
				return v, flash(formatter.Dim("Choose a or b to continue."))
			}
			return v, v.step(v.quiz.NextStructural())
		case "left", "backspace":
			return v, v.step(v.quiz.PrevStructural())
		default:
			return v, nil
		}
		v.save()

	case flow.QuizResults:
		return v.handleResultsKey(msg)
	}
	return v, nil
}

func (v *quizView) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.submitting {
		return v, nil
	}
	switch msg.String() {
	case "enter":
		if v.submitErr != "" {
			return v, v.submit()
		}
	case "e":
		if v.outcome != nil && !v.emailSaved {
			return v, v.emailForm()
		}
	case "f":
		if v.outcome != nil {
			return v, replaceView(newProblemsView(v.state))
		}
	case "r":
		return v, v.retake()
	default:
		if v.outcome != nil {
			var cmd tea.Cmd
			v.results, cmd = v.results.Update(msg)
			return v, cmd
		}
	}
	return v, nil
}

// retake drops the saved answers and starts over under a fresh session.
func (v *quizView) retake() tea.Cmd {
	if err := v.mirror.Clear(); err != nil {
		v.state.App.logger().Warn("clearing quiz progress", "error", err)
	}
	v.quiz = v.quiz.Reset(flow.NewQuizSessionID())
	v.outcome = nil
	v.submitErr = ""
	v.emailSaved = false
	v.state.QuizSession = ""
	v.save()
	return nil
}

func (v *quizView) emailForm() tea.Cmd {
	var email string
	app, ctx, id := v.state.App, v.state.Ctx, v.outcome.QuizResultID()
	form := newEmailForm("Email my results", "We'll send you a copy of your results.", &email)
	return pushView(newWizardView(v.state, "Email", form, func() tea.Cmd {
		return func() tea.Msg { return applyQuizEmail(ctx, app, id, email) }
	}))
}

// applyQuizEmail stores the address against the scored quiz.
func applyQuizEmail(ctx context.Context, app *App, quizResultID, email string) tea.Msg {
	if err := app.Quiz.CaptureEmail(ctx, quizResultID, strings.TrimSpace(email)); err != nil {
		app.logger().Warn("capturing quiz email", "error", err)
		return quizEmailMsg{err: err}
	}
	return quizEmailMsg{}
}

func (v *quizView) contentWidth() int {
	if v.state.Width > 4 {
		return v.state.Width - 4
	}
	return 76
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *quizView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	switch v.quiz.Stage {
	case flow.QuizIntro:
		b.WriteString("  " + formatter.StyleHeader.Render("CAREER CLARITY QUIZ") + "\n\n")
		b.WriteString(formatter.Wrap("Six needs and five quick questions. Find out whether your next move is "+
			"a better job or building your own thing.", 68, "  ") + "\n\n")
		b.WriteString("  " + formatter.Dim("Press enter to begin.") + "\n")
	case flow.QuizNeeds:
		v.renderNeed(&b)
	case flow.QuizStructural:
		v.renderStructural(&b)
	case flow.QuizResults:
		v.renderResults(&b)
	}
	return b.String()
}

func (v *quizView) renderNeed(b *strings.Builder) {
	cur, total := v.quiz.Progress()
	need, _ := v.state.App.Catalog.Need(v.quiz.NeedID())
	answer := v.quiz.NeedAnswers[need.ID]

	b.WriteString("  " + formatter.RenderProgress(cur, total, 24) + "  " + formatter.Dim("Needs") + "\n\n")
	b.WriteString("  " + need.Icon + " " + formatter.Bold(need.Name) + "\n")
	b.WriteString(formatter.Wrap(need.Question, 68, "  ") + "\n\n")

	poles := []struct {
		key, label, desc string
		sel              domain.Selection
	}{
		{"1", need.Accomplish.Name, need.Accomplish.Description, domain.SelectionLeft},
		{"2", "Blend", "A bit of both", domain.SelectionBoth},
		{"3", need.Connect.Name, need.Connect.Description, domain.SelectionRight},
	}
	for _, p := range poles {
		b.WriteString(choiceLine(p.key, p.label, p.desc, answer.Selection == p.sel))
	}

	b.WriteString("\n  " + formatter.Dim("Is this need met right now?") + "\n")
	mets := []struct {
		key, label string
		met        domain.MetLevel
	}{
		{"y", "Yes", domain.MetYes},
		{"p", "Partly", domain.MetPartial},
		{"n", "No", domain.MetNo},
	}
	var parts []string
	for _, m := range mets {
		label := formatter.Dim("["+m.key+"] ") + m.label
		if answer.Met == m.met {
			label = formatter.StyleGreen.Render("["+m.key+"] "+m.label+" ✓")
		}
		parts = append(parts, label)
	}
	b.WriteString("  " + strings.Join(parts, "   ") + "\n")
}

func (v *quizView) renderStructural(b *strings.Builder) {
	cur, total := v.quiz.Progress()
	q, _ := v.state.App.Catalog.Question(v.quiz.QuestionID())
	answer := v.quiz.StructuralAnswers[q.ID]

	b.WriteString("  " + formatter.RenderProgress(cur, total, 24) + "  " + formatter.Dim("How you work") + "\n\n")
	b.WriteString("  " + q.Icon + " " + formatter.Bold(q.Name) + "\n")
	b.WriteString(formatter.Wrap(q.Question, 68, "  ") + "\n\n")
	b.WriteString(choiceLine("a", q.OptionA.Label, q.OptionA.Description, answer != "" && answer == q.OptionA.Value))
	b.WriteString(choiceLine("b", q.OptionB.Label, q.OptionB.Description, answer != "" && answer == q.OptionB.Value))
}

func (v *quizView) renderResults(b *strings.Builder) {
	switch {
	case v.submitting:
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Scoring your answers...") + "\n")
	case v.submitErr != "":
		b.WriteString("  " + formatter.StyleRed.Render("Could not score the quiz: ") + v.submitErr + "\n")
		b.WriteString("  " + formatter.Dim("Press enter to try again.") + "\n")
	case v.outcome != nil:
		b.WriteString(v.results.View() + "\n")
		if v.outcome.Record == nil {
			b.WriteString("  " + formatter.StyleYellow.Render("Your results could not be saved this time.") + "\n")
		}
		if v.emailSaved {
			b.WriteString("  " + formatter.StyleGreen.Render("✓ Results emailed") + "\n")
		}
		b.WriteString("  " + formatter.Dim(fmt.Sprintf("Session %s", v.outcome.SessionID)) + "\n")
	}
}

func choiceLine(k, label, desc string, selected bool) string {
	marker := "  "
	style := formatter.StyleFg
	if selected {
		marker = formatter.StyleGreen.Render("▸ ")
		style = formatter.StyleBold
	}
	line := fmt.Sprintf("%s%s %s", marker, formatter.Dim("["+k+"]"), style.Render(label))
	if desc != "" {
		line += "  " + formatter.Dim(desc)
	}
	return line + "\n"
}

// progressStore falls back to an in-memory store when none is wired.
func progressStore(app *App) progress.Store {
	if app.Progress == nil {
		app.Progress = progress.NewMemoryStore()
	}
	return app.Progress
}
