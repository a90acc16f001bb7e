package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/flow"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type profileLoadedMsg struct {
	counts map[domain.ClusterType]int
	err    error
}

type analysisMsg struct {
	analysis *domain.CareerAnalysis
	err      error
}

type downloadMsg struct {
	path string
	err  error
}

// integrationView runs the career analysis over everything the session
// has stored.
type integrationView struct {
	state  *SharedState
	mirror *progress.Mirror[flow.IntegrationState]
	s      flow.IntegrationState

	loading bool
	busy    bool
	spinner spinner.Model
	results viewport.Model
	ready   bool
}

func newIntegrationView(state *SharedState) View {
	app := state.App
	v := &integrationView{
		state:   state,
		mirror:  progress.NewMirror[flow.IntegrationState](progressStore(app), progress.KeyIntegration, app.logger()),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
	}
	saved, ok, err := v.mirror.Load()
	if err != nil {
		app.logger().Warn("loading integration progress", "error", err)
	}
	var prev *flow.IntegrationState
	if ok {
		prev = &saved
	}
	v.s = flow.RestoreIntegration(prev, flow.NewIntegrationSessionID)
	v.s.SessionID = flow.EffectiveSessionID(state.QuizSession, v.s.SessionID)
	return v
}

func (v *integrationView) ID() ViewID    { return ViewIntegration }
func (v *integrationView) Title() string { return "Career Analysis" }

func (v *integrationView) ShortHelp() []key.Binding {
	switch v.s.Stage {
	case flow.IntegrationWelcome:
		if v.s.HasData() {
			return []key.Binding{binding("enter", "analyze"), binding("esc", "back")}
		}
		return []key.Binding{binding("esc", "back")}
	case flow.IntegrationResults:
		return []key.Binding{binding("↑/↓", "scroll"), binding("d", "download"), binding("esc", "back")}
	case flow.IntegrationError:
		return []key.Binding{binding("r", "retry"), binding("esc", "go back")}
	}
	return nil
}

func (v *integrationView) Init() tea.Cmd {
	v.save()
	if v.s.Stage == flow.IntegrationResults {
		v.layoutResults()
		return nil
	}
	return v.loadProfile()
}

func (v *integrationView) save() {
	if err := v.mirror.Save(v.s); err != nil {
		v.state.App.logger().Warn("saving integration progress", "error", err)
	}
}

func (v *integrationView) loadProfile() tea.Cmd {
	v.loading = true
	app, ctx, sid := v.state.App, v.state.Ctx, v.s.SessionID
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		p, err := app.Integration.LoadProfile(ctx, sid)
		if err != nil {
			return profileLoadedMsg{err: err}
		}
		return profileLoadedMsg{counts: p.Counts()}
	})
}

func (v *integrationView) analyze() tea.Cmd {
	v.busy = true
	app, ctx, sid := v.state.App, v.state.Ctx, v.s.SessionID
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		a, err := app.Integration.Analyze(ctx, sid)
		return analysisMsg{analysis: a, err: err}
	})
}

func (v *integrationView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.state.App.logger().Error("loading profile", "session", v.s.SessionID, "error", msg.err)
			return v, flash(formatter.Error(msg.err))
		}
		v.s = v.s.WithCounts(msg.counts)
		v.save()
		return v, nil

	case analysisMsg:
		v.busy = false
		if msg.err != nil {
			v.state.App.logger().Error("career analysis failed", "session", v.s.SessionID, "error", msg.err)
			v.s = v.s.WithFailure(analysisErrorText(msg.err))
		} else {
			v.s = v.s.WithAnalysis(msg.analysis)
			v.layoutResults()
		}
		v.save()
		return v, nil

	case downloadMsg:
		if msg.err != nil {
			if hint := service.EmailMessage(msg.err); hint != "" {
				return v, flash(formatter.StyleRed.Render(hint))
			}
			return v, flash(formatter.Error(msg.err))
		}
		return v, flash(formatter.StyleGreen.Render("Saved " + msg.path))

	case spinner.TickMsg:
		if v.busy || v.loading {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil

	case tea.WindowSizeMsg:
		if v.s.Stage == flow.IntegrationResults {
			v.layoutResults()
		}
		return v, nil

	case tea.KeyMsg:
		if v.busy || v.loading {
			return v, nil
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *integrationView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch v.s.Stage {
	case flow.IntegrationWelcome:
		switch msg.String() {
		case "enter":
			if !v.s.HasData() {
				return v, flash(formatter.StyleYellow.Render(flow.NoDiscoveryDataMessage))
			}
			v.s = v.s.Start()
			v.save()
			return v, v.analyze()
		case "esc":
			return v, popView()
		}

	case flow.IntegrationError:
		switch msg.String() {
		case "r":
			v.s = v.s.Retry()
			v.save()
			return v, v.analyze()
		case "esc":
			v.s = v.s.GoBack()
			v.save()
			return v, v.loadProfile()
		}

	case flow.IntegrationResults:
		switch msg.String() {
		case "d":
			return v, v.downloadForm()
		case "esc":
			return v, popView()
		}
		var cmd tea.Cmd
		v.results, cmd = v.results.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *integrationView) downloadForm() tea.Cmd {
	var email string
	app, ctx, sid, a := v.state.App, v.state.Ctx, v.s.SessionID, v.s.Analysis
	dir := exportDir(app)
	form := newEmailForm("Download your results", "Enter your email to download the results file.", &email)
	return pushView(newWizardView(v.state, "Download", form, func() tea.Cmd {
		return func() tea.Msg { return applyDownload(ctx, app, sid, email, a, dir) }
	}))
}

// applyDownload records the download email and writes the results file
// into dir.
func applyDownload(ctx context.Context, app *App, sessionID, email string, a *domain.CareerAnalysis, dir string) tea.Msg {
	if err := app.Integration.CaptureDownloadEmail(ctx, sessionID, strings.TrimSpace(email)); err != nil {
		app.logger().Warn("capturing download email", "session", sessionID, "error", err)
		return downloadMsg{err: err}
	}
	path, err := writeExport(dir, a, app.now())
	if err != nil {
		return downloadMsg{err: err}
	}
	return downloadMsg{path: path}
}

// writeExport writes the plain-text results file for a into dir.
func writeExport(dir string, a *domain.CareerAnalysis, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, service.ExportFilename(now))
	if err := os.WriteFile(path, []byte(service.ExportText(a, now)), 0o644); err != nil {
		return "", fmt.Errorf("writing results file: %w", err)
	}
	return path, nil
}

// exportDir is where the TUI saves downloads: the data dir's exports
// folder when configured, else the working directory.
func exportDir(app *App) string {
	if app.Config != nil && app.Config.DataDir != "" {
		return filepath.Join(app.Config.DataDir, "exports")
	}
	return "."
}

func analysisErrorText(err error) string {
	if errors.Is(err, intelligence.ErrNoAnalysisData) {
		return intelligence.NoAnalysisDataMessage
	}
	return flow.AnalysisErrorMessage
}

func (v *integrationView) layoutResults() {
	width := v.state.Width
	if width <= 0 {
		width = 80
	}
	if !v.ready {
		v.results = viewport.New(width, v.state.viewportHeight())
		v.ready = true
	} else {
		v.results.Width = width
		v.results.Height = v.state.viewportHeight()
	}
	v.results.SetContent(service.ExportText(v.s.Analysis, v.state.App.now()))
}

func (v *integrationView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	switch v.s.Stage {
	case flow.IntegrationWelcome:
		b.WriteString("  " + formatter.StyleHeader.Render("CAREER ANALYSIS") + "\n")
		b.WriteString("  " + formatter.Dim("Turns your quiz and discovery results into concrete next steps.") + "\n\n")
		switch {
		case v.loading:
			b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Loading your results...") + "\n")
		case !v.s.HasData():
			b.WriteString("  " + formatter.StyleYellow.Render(flow.NoDiscoveryDataMessage) + "\n")
		default:
			b.WriteString(formatter.FormatCounts(v.s.Counts))
			b.WriteString("\n  " + formatter.Dim("Press enter to generate your analysis.") + "\n")
		}

	case flow.IntegrationProcessing:
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Analyzing your profile. This can take a minute...") + "\n")

	case flow.IntegrationResults:
		b.WriteString(v.results.View() + "\n")

	case flow.IntegrationError:
		b.WriteString("  " + formatter.StyleRed.Render(v.s.Error) + "\n\n")
		b.WriteString("  " + formatter.Dim("Press r to retry or esc to go back.") + "\n")
	}
	return b.String()
}
