package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/config"
	"github.com/alexanderramin/clarity/internal/metrics"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// App holds references to all services and settings used by CLI commands.
type App struct {
	Catalog     *catalog.Catalog
	Taxonomy    *wheel.Taxonomy
	Quiz        service.QuizService
	Sessions    service.FlowSessionService
	Discovery   service.DiscoveryService
	Integration service.IntegrationService
	Progress    progress.Store
	Logger      *slog.Logger

	Config   *config.Config
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Boot finishes wiring once flags are parsed. It runs before every
	// command; nil means the App is already wired.
	Boot func(cmd *cobra.Command) error

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// tuiAnnotation marks commands that hand the terminal to the TUI, so Boot
// can route logs away from it.
const tuiAnnotation = "clarity.tui"

// OwnsTerminal reports whether cmd runs the full-screen TUI.
func OwnsTerminal(cmd *cobra.Command) bool {
	return cmd.Annotations[tuiAnnotation] == "true"
}

// NewRootCmd creates the top-level "clarity" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "clarity",
		Short:         "Career clarity quiz and Flow Finder discovery flows",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{tuiAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Boot == nil {
				return nil
			}
			return app.Boot(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runTUI(commandContext(cmd), app, newHomeView)
		},
	}

	root.PersistentFlags().String("db", "", "SQLite database path (default ~/.clarity/clarity.db)")
	root.PersistentFlags().String("config", "", "config file (default ~/.clarity/clarity.yaml)")

	root.AddCommand(
		newQuizCmd(app),
		newFlowCmd(app),
		newResultCmd(app),
		newExportCmd(app),
		newWheelCmd(app),
		newIdentityCmd(app),
		newProgressCmd(app),
		newServeCmd(app),
		newMCPCmd(app),
	)

	return root
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
