package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/flow"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/alexanderramin/clarity/internal/rating"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type previewResultMsg struct {
	clusters []domain.Cluster
	err      error
}

type finalResultMsg struct {
	clusters []domain.Cluster
	err      error
}

type clustersSavedMsg struct {
	err error
}

// discoveryView runs one Flow Finder flow: free-text questions, optional
// preview clusterings, the final clustering, rating and the saved result.
type discoveryView[S ~string] struct {
	state  *SharedState
	id     ViewID
	title  string
	def    *flow.Discovery[S]
	info   *catalog.Flow
	mirror *progress.Mirror[flow.State[S]]
	s      flow.State[S]
	trans  flow.Transition

	// finalItems overrides what the final clustering runs on.
	finalItems func(ctx context.Context, sessionID string) []string
	// next opens the flow suggested after success.
	next func(*SharedState) View

	inputs []textinput.Model
	focus  int
	cursor int

	busy    bool
	spinner spinner.Model
}

func newProblemsView(state *SharedState) View {
	return newDiscoveryView(state, ViewProblems, "Problems", flow.Problems,
		progress.KeyProblems, flow.NewProblemsSessionID, newPersonaView)
}

func newPersonaView(state *SharedState) View {
	v := newDiscoveryView(state, ViewPersona, "Persona", flow.Persona,
		progress.KeyPersona, flow.NewPersonaSessionID, newSkillsView)
	v.finalItems = func(ctx context.Context, sessionID string) []string {
		problems, err := state.App.Discovery.List(ctx, sessionID, domain.ClusterProblems)
		if err != nil {
			state.App.logger().Warn("loading problems clusters for persona", "session", sessionID, "error", err)
		}
		return flow.PersonaContext(problems)
	}
	return v
}

func newSkillsView(state *SharedState) View {
	return newDiscoveryView(state, ViewSkills, "Skills", flow.Skills,
		progress.KeySkills, flow.NewSkillsSessionID, newIntegrationView)
}

func newDiscoveryView[S ~string](
	state *SharedState,
	id ViewID,
	title string,
	def *flow.Discovery[S],
	storeKey string,
	newID func() string,
	next func(*SharedState) View,
) *discoveryView[S] {
	app := state.App
	v := &discoveryView[S]{
		state:   state,
		id:      id,
		title:   title,
		def:     def,
		mirror:  progress.NewMirror[flow.State[S]](progressStore(app), storeKey, app.logger()),
		next:    next,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
	}
	if f, ok := app.Catalog.Flow(def.ID); ok {
		v.info = f
	} else {
		v.info = &catalog.Flow{ID: def.ID, Title: title}
	}

	saved, ok, err := v.mirror.Load()
	if err != nil {
		app.logger().Warn("loading flow progress", "flow", def.ID, "error", err)
	}
	var prev *flow.State[S]
	if ok {
		prev = &saved
	}
	v.s = def.Restore(app.Catalog, prev, newID)
	v.s.SessionID = flow.EffectiveSessionID(state.QuizSession, v.s.SessionID)
	return v
}

func (v *discoveryView[S]) ID() ViewID    { return v.id }
func (v *discoveryView[S]) Title() string { return v.title }

func (v *discoveryView[S]) ShortHelp() []key.Binding {
	st := v.s.Stage
	switch {
	case v.isQuestion():
		return []key.Binding{binding("enter", "continue"), binding("tab", "next field"),
			binding("ctrl+n", "add answer"), binding("esc", "back")}
	case v.def.IsPreview(st):
		hints := []key.Binding{binding("enter", "continue")}
		if v.s.PreviewError != "" {
			hints = append(hints, binding("r", "retry"))
		}
		return append(hints, binding("esc", "back"))
	case st == v.def.Rating:
		return []key.Binding{binding("↑/↓", "select"), binding("1-3", "rate"), binding("enter", "save")}
	case v.def.ErrorStage != "" && st == v.def.ErrorStage:
		return []key.Binding{binding("r", "retry"), binding("esc", "go back")}
	case st == v.def.Success:
		hints := []key.Binding{binding("enter", "done")}
		if v.next != nil {
			hints = append(hints, binding("n", "next flow"))
		}
		return hints
	case st == v.def.Processing:
		return nil
	}
	return []key.Binding{binding("enter", "continue"), binding("esc", "back")}
}

func (v *discoveryView[S]) Init() tea.Cmd {
	v.save()
	return tea.Batch(v.ensureSession(), v.onEnter())
}

func (v *discoveryView[S]) save() {
	if err := v.mirror.Save(v.s); err != nil {
		v.state.App.logger().Warn("saving flow progress", "flow", v.def.ID, "error", err)
	}
}

// ensureSession registers the flow session row up front; completion writes
// reuse it.
func (v *discoveryView[S]) ensureSession() tea.Cmd {
	app, ctx, sid, ft := v.state.App, v.state.Ctx, v.s.SessionID, v.def.FlowType
	if app.Sessions == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := app.Sessions.Ensure(ctx, sid, ft); err != nil {
			app.logger().Warn("registering flow session", "session", sid, "flow", ft, "error", err)
		}
		return nil
	}
}

func (v *discoveryView[S]) isQuestion() bool {
	_, ok := v.def.QuestionKey(v.s.Stage)
	return ok
}

func (v *discoveryView[S]) begin(apply func()) tea.Cmd {
	if !v.trans.Begin(apply) {
		return nil
	}
	return v.state.afterTransition()
}

// onEnter sets up the stage just entered: fields for questions, calls for
// preview and processing stages.
func (v *discoveryView[S]) onEnter() tea.Cmd {
	st := v.s.Stage
	switch {
	case v.isQuestion():
		return v.syncInputs()
	case v.def.IsPreview(st) && v.s.Preview == nil && v.s.PreviewError == "" && !v.busy:
		return v.runPreview()
	case st == v.def.Processing && !v.busy:
		return v.runFinal()
	}
	return nil
}

func (v *discoveryView[S]) runPreview() tea.Cmd {
	v.busy = true
	app, ctx := v.state.App, v.state.Ctx
	typ, items := v.def.ClusterType, v.def.PreviewItems(v.s)
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		clusters, err := app.Discovery.Cluster(ctx, typ, items, false)
		return previewResultMsg{clusters: clusters, err: err}
	})
}

func (v *discoveryView[S]) runFinal() tea.Cmd {
	v.busy = true
	app, ctx, sid := v.state.App, v.state.Ctx, v.s.SessionID
	typ := v.def.ClusterType
	items := v.def.AllItems(v.s)
	finalItems := v.finalItems
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		if finalItems != nil {
			items = finalItems(ctx, sid)
		}
		clusters, err := app.Discovery.Cluster(ctx, typ, items, true)
		return finalResultMsg{clusters: clusters, err: err}
	})
}

func (v *discoveryView[S]) saveFinal() tea.Cmd {
	v.busy = true
	app, ctx, sid := v.state.App, v.state.Ctx, v.s.SessionID
	typ, rated := v.def.ClusterType, v.def.Rated(v.s)
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		return clustersSavedMsg{err: app.Discovery.SaveFinal(ctx, sid, typ, rated)}
	})
}

// syncInputs rebuilds the text fields from the responses of the current
// question and focuses one of them.
func (v *discoveryView[S]) syncInputs() tea.Cmd {
	k, ok := v.def.QuestionKey(v.s.Stage)
	if !ok {
		v.inputs = nil
		return nil
	}
	q, _ := v.info.Question(k)
	values := v.s.Responses[k]
	v.inputs = make([]textinput.Model, len(values))
	for i, val := range values {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%d. ", i+1)
		ti.Placeholder = q.Placeholder(i)
		ti.CharLimit = 280
		ti.Width = 64
		ti.SetValue(val)
		v.inputs[i] = ti
	}
	if v.focus >= len(v.inputs) {
		v.focus = len(v.inputs) - 1
	}
	if v.focus < 0 {
		v.focus = 0
	}
	return v.focusInput(v.focus)
}

func (v *discoveryView[S]) focusInput(i int) tea.Cmd {
	if len(v.inputs) == 0 {
		return nil
	}
	v.inputs[v.focus].Blur()
	v.focus = i
	return v.inputs[v.focus].Focus()
}

func (v *discoveryView[S]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case transitionCommitMsg:
		if v.trans.Commit() {
			v.save()
			return v, v.onEnter()
		}
		return v, nil

	case previewResultMsg:
		v.busy = false
		if msg.err != nil {
			v.state.App.logger().Warn("preview clustering failed", "flow", v.def.ID, "error", msg.err)
			v.s = v.def.WithPreviewError(v.s, flow.PreviewErrorMessage)
		} else {
			v.s = v.def.WithPreview(v.s, msg.clusters)
		}
		v.save()
		return v, nil

	case finalResultMsg:
		v.busy = false
		if msg.err != nil {
			v.state.App.logger().Error("final clustering failed", "flow", v.def.ID, "error", msg.err)
			v.s = v.def.WithFailure(v.s, flow.FinalErrorMessage)
			v.save()
			return v, v.onEnter()
		}
		v.s = v.def.WithClusters(v.s, msg.clusters)
		v.cursor = 0
		v.save()
		if v.s.Stage != v.def.Rating {
			v.state.App.logger().Warn("final clustering returned no clusters", "flow", v.def.ID)
			return v, v.onEnter()
		}
		return v, nil

	case clustersSavedMsg:
		v.busy = false
		if msg.err != nil {
			v.state.App.logger().Error("saving clusters", "flow", v.def.ID, "session", v.s.SessionID, "error", msg.err)
			return v, flash(formatter.Error(msg.err))
		}
		v.s = v.def.Complete(v.s)
		if err := v.mirror.Clear(); err != nil {
			v.state.App.logger().Warn("clearing flow progress", "flow", v.def.ID, "error", err)
		}
		return v, nil

	case spinner.TickMsg:
		if v.busy {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil

	case tea.KeyMsg:
		if v.trans.Animating() || v.busy {
			return v, nil
		}
		return v.handleKey(msg)
	}

	if v.isQuestion() && len(v.inputs) > 0 {
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *discoveryView[S]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := v.s.Stage
	k := msg.String()

	switch {
	case v.isQuestion():
		return v.handleQuestionKey(msg)

	case st == v.def.Welcome:
		switch k {
		case "enter":
			return v, v.advance()
		case "esc":
			return v, popView()
		}

	case v.def.IsPreview(st):
		switch k {
		case "enter":
			return v, v.advance()
		case "r":
			if v.s.PreviewError != "" {
				v.s.PreviewError = ""
				return v, v.runPreview()
			}
		case "esc":
			return v, v.back()
		}

	case v.def.ErrorStage != "" && st == v.def.ErrorStage:
		switch k {
		case "r":
			v.s = v.def.Retry(v.s)
			v.save()
			return v, v.onEnter()
		case "esc":
			v.s = v.def.Abandon(v.s)
			v.save()
			return v, v.onEnter()
		}

	case st == v.def.Rating:
		return v.handleRatingKey(k)

	case st == v.def.Success:
		switch k {
		case "n":
			if v.next != nil {
				return v, replaceView(v.next(v.state))
			}
		case "enter", "esc":
			return v, popView()
		}

	case st == v.def.Processing:
		return v, nil

	default:
		// Stages without questions, such as the persona confirmation.
		switch k {
		case "enter":
			return v, v.advance()
		case "esc":
			return v, v.back()
		}
	}
	return v, nil
}

func (v *discoveryView[S]) advance() tea.Cmd {
	if !v.def.CanAdvance(v.s) {
		if v.isQuestion() {
			return flash(formatter.StyleYellow.Render(flow.MinAnswersHint))
		}
		return nil
	}
	next := v.def.Next(v.s)
	return v.begin(func() {
		v.s = next
		v.focus = 0
	})
}

func (v *discoveryView[S]) back() tea.Cmd {
	prev := v.def.GoBack(v.s)
	if prev.Stage == v.s.Stage {
		return popView()
	}
	return v.begin(func() {
		v.s = prev
		v.focus = 0
	})
}

func (v *discoveryView[S]) handleQuestionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.advance()
	case "esc":
		return v, v.back()
	case "tab", "down":
		return v, v.focusInput((v.focus + 1) % len(v.inputs))
	case "shift+tab", "up":
		return v, v.focusInput((v.focus - 1 + len(v.inputs)) % len(v.inputs))
	case "ctrl+n":
		k, _ := v.def.QuestionKey(v.s.Stage)
		v.s = v.def.AddInput(v.s, k)
		v.save()
		v.focus = len(v.s.Responses[k]) - 1
		return v, v.syncInputs()
	}

	if len(v.inputs) == 0 {
		return v, nil
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	k, _ := v.def.QuestionKey(v.s.Stage)
	if val := v.inputs[v.focus].Value(); val != v.fieldValue(k, v.focus) {
		v.s = v.def.SetAnswer(v.s, k, v.focus, val)
		v.save()
	}
	return v, cmd
}

func (v *discoveryView[S]) fieldValue(k string, i int) string {
	fields := v.s.Responses[k]
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func (v *discoveryView[S]) handleRatingKey(k string) (tea.Model, tea.Cmd) {
	levels := v.def.Scale.Levels
	switch k {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.s.Clusters)-1 {
			v.cursor++
		}
	case "enter":
		if !v.def.CanAdvance(v.s) {
			return v, flash(formatter.StyleYellow.Render("Rate every cluster to continue."))
		}
		return v, v.saveFinal()
	default:
		for i, level := range levels {
			if k != fmt.Sprint(i+1) {
				continue
			}
			rated, err := v.def.Rate(v.s, v.cursor, level)
			if err != nil {
				return v, flash(formatter.Error(err))
			}
			v.s = rated
			v.save()
			if v.cursor < len(v.s.Clusters)-1 {
				v.cursor++
			}
		}
	}
	return v, nil
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *discoveryView[S]) View() string {
	var b strings.Builder
	b.WriteString("\n")
	st := v.s.Stage

	switch {
	case v.isQuestion():
		v.renderQuestion(&b)
	case st == v.def.Welcome:
		b.WriteString("  " + formatter.StyleHeader.Render(strings.ToUpper(v.info.Title)) + "\n\n")
		b.WriteString(formatter.Wrap(v.info.Intro, 68, "  ") + "\n\n")
		b.WriteString("  " + formatter.Dim("Press enter to begin.") + "\n")
	case v.def.IsPreview(st):
		v.renderPreview(&b)
	case st == v.def.Processing:
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Finding the patterns in your answers...") + "\n")
	case v.def.ErrorStage != "" && st == v.def.ErrorStage:
		b.WriteString("  " + formatter.StyleRed.Render(v.s.Error) + "\n\n")
		b.WriteString("  " + formatter.Dim("Press r to retry or esc to go back to your answers.") + "\n")
	case st == v.def.Rating:
		v.renderRating(&b)
	case st == v.def.Success:
		v.renderSuccess(&b)
	default:
		b.WriteString("  " + formatter.StyleHeader.Render(strings.ToUpper(v.info.Title)) + "\n\n")
		for _, line := range v.info.Confirm {
			b.WriteString(formatter.Wrap(line, 68, "  ") + "\n\n")
		}
		if v.s.Error != "" {
			b.WriteString("  " + formatter.StyleRed.Render(v.s.Error) + "\n\n")
		}
		b.WriteString("  " + formatter.Dim("Press enter to continue.") + "\n")
	}
	return b.String()
}

func (v *discoveryView[S]) renderQuestion(b *strings.Builder) {
	k, _ := v.def.QuestionKey(v.s.Stage)
	q, _ := v.info.Question(k)

	b.WriteString("  " + formatter.Dim(v.def.StepLabel(v.s.Stage)) + "\n")
	b.WriteString("  " + formatter.Bold(q.Title) + "\n")
	if q.Subtext != "" {
		b.WriteString(formatter.Dim(formatter.Wrap(q.Subtext, 68, "  ")) + "\n")
	}
	b.WriteString("\n")
	for i, in := range v.inputs {
		marker := "  "
		if i == v.focus {
			marker = formatter.StyleGreen.Render("▸ ")
		}
		b.WriteString(marker + in.View() + "\n")
	}

	filled := len(v.s.Responses.Filled(k))
	count := fmt.Sprintf("%d of %d answers", filled, flow.MinAnswers)
	if filled >= flow.MinAnswers {
		b.WriteString("\n  " + formatter.StyleGreen.Render("✓ "+count) + "\n")
	} else {
		b.WriteString("\n  " + formatter.Dim(count) + "\n")
	}
	if v.s.Error != "" {
		b.WriteString("  " + formatter.StyleRed.Render(v.s.Error) + "\n")
	}
}

func (v *discoveryView[S]) renderPreview(b *strings.Builder) {
	switch {
	case v.busy:
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Looking for early patterns...") + "\n")
	case v.s.PreviewError != "":
		b.WriteString("  " + formatter.StyleYellow.Render(v.s.PreviewError) + "\n")
	case len(v.s.Preview) > 0:
		b.WriteString(formatter.FormatClusters("Early patterns", v.s.Preview))
		b.WriteString("\n  " + formatter.Dim("These will sharpen as you answer more. Press enter to continue.") + "\n")
	default:
		b.WriteString("  " + formatter.Dim("Nice work so far. Press enter to continue.") + "\n")
	}
}

func (v *discoveryView[S]) renderRating(b *strings.Builder) {
	overlay := v.def.Overlay(v.s)
	levels := v.def.Scale.Levels

	b.WriteString("  " + formatter.Bold(v.def.Scale.Prompt) + "\n\n")
	for i, c := range v.s.Clusters {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleGreen.Render("▸ ")
		}
		b.WriteString(marker + formatter.Bold(c.Label) + formatter.Dim(fmt.Sprintf("  (%d items)", len(c.Items))) + "\n")
		if c.Insight != "" {
			b.WriteString(formatter.Dim(formatter.Wrap(c.Insight, 66, "    ")) + "\n")
		}
		current := overlay.Get(rating.ClusterKey(i))
		var pills []string
		for j, level := range levels {
			label := fmt.Sprintf("[%d] %s", j+1, level)
			if level == current {
				pills = append(pills, formatter.StylePurple.Render(label+" ✓"))
			} else {
				pills = append(pills, formatter.Dim(label))
			}
		}
		b.WriteString("    " + strings.Join(pills, "  ") + "\n\n")
	}
	if v.busy {
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Saving...") + "\n")
	}
}

func (v *discoveryView[S]) renderSuccess(b *strings.Builder) {
	rated := v.def.Rated(v.s)
	b.WriteString("  " + formatter.StyleGreen.Render("✓ "+v.info.CompleteTitle) + "\n\n")
	b.WriteString(formatter.FormatClusters("", rated))

	w, err := v.state.App.Taxonomy.Wheel(v.def.ClusterType)
	if err == nil {
		b.WriteString("\n" + w.RenderTerminal(w.LitCells(rated)) + "\n")
	}
}
