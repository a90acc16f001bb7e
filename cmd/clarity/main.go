package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/cli"
	"github.com/alexanderramin/clarity/internal/config"
	"github.com/alexanderramin/clarity/internal/db"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/llm"
	"github.com/alexanderramin/clarity/internal/metrics"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// clusterCacheSize bounds the in-process cache of clustering responses.
const clusterCacheSize = 128

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	tax, err := wheel.Load()
	if err != nil {
		return fmt.Errorf("loading wheel taxonomy: %w", err)
	}

	app := &cli.App{
		Catalog:  cat,
		Taxonomy: tax,
	}

	// Detect interactive terminal for the TUI entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	app.Boot = func(cmd *cobra.Command) error {
		cfg, err := config.Load(config.Options{Flags: cmd.Flags()})
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		app.Config = cfg

		logOut, err := logOutput(cfg, cli.OwnsTerminal(cmd) && app.IsInteractive())
		if err != nil {
			return err
		}
		if f, ok := logOut.(*os.File); ok && f != os.Stderr {
			closers = append(closers, f)
		}
		logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
		app.Logger = logger

		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		closers = append(closers, database)

		wire(app, cfg, database, logger, logOut)
		return nil
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// wire builds repositories, model clients and services over an open database.
func wire(app *cli.App, cfg *config.Config, database *sql.DB, logger *slog.Logger, logOut io.Writer) {
	quizzes := repository.NewSQLiteQuizResultRepo(database)
	sessions := repository.NewSQLiteFlowSessionRepo(database)
	clusters := repository.NewSQLiteClusterRepo(database)
	captures := repository.NewSQLiteEmailCaptureRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)
	app.Metrics = m
	app.Gatherer = reg

	useCases := service.MultiUseCaseObserver{service.NewSlogUseCaseObserver(logger), m}

	var llmObserver llm.Observer = m
	if cfg.LLM.LogCalls {
		llmObserver = llm.MultiObserver{m, llm.NewLogObserver(logOut)}
	}

	var (
		clusterer intelligence.ClusterService
		analyzer  intelligence.CareerAnalysisService
	)
	client, err := llm.NewClient(cfg.LLM, llmObserver)
	if err != nil {
		logger.Info("llm unavailable", "provider", cfg.LLM.Provider, "error", err)
		u := intelligence.Unavailable{Reason: err}
		clusterer, analyzer = u, u
	} else {
		clusterer = intelligence.NewClusterService(client, clusterCacheSize)
		analyzer = intelligence.NewCareerAnalysisService(client)
	}

	app.Quiz = service.NewQuizService(app.Catalog, quizzes, captures, uow, logger, useCases)
	app.Sessions = service.NewFlowSessionService(sessions, useCases)
	app.Discovery = service.NewDiscoveryService(clusterer, clusters, uow, useCases)
	app.Integration = service.NewIntegrationService(analyzer, quizzes, clusters, sessions, captures, logger, useCases)
	app.Progress = progress.NewFileStore(cfg.ProgressDir)
}

// logOutput is stderr, or the configured log file when the TUI owns the
// terminal.
func logOutput(cfg *config.Config, tui bool) (io.Writer, error) {
	if !tui || cfg.LogFile == "" {
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
