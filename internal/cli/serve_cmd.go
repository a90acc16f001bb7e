package cli

import (
	"github.com/alexanderramin/clarity/internal/config"
	"github.com/alexanderramin/clarity/internal/mcpserver"
	"github.com/alexanderramin/clarity/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quiz and discovery API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.ServerConfig{Addr: "127.0.0.1:8080"}
			if app.Config != nil {
				cfg = app.Config.Server
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			srv := server.New(cfg, server.Deps{
				Catalog:     app.Catalog,
				Taxonomy:    app.Taxonomy,
				Quiz:        app.Quiz,
				Sessions:    app.Sessions,
				Discovery:   app.Discovery,
				Integration: app.Integration,
				Metrics:     app.Metrics,
				Gatherer:    app.Gatherer,
				Logger:      app.logger(),
				Now:         app.Now,
			})
			return srv.Run(commandContext(cmd))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default 127.0.0.1:8080)")
	return cmd
}

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the quiz and discovery tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Serve(mcpserver.Deps{
				Catalog:     app.Catalog,
				Taxonomy:    app.Taxonomy,
				Quiz:        app.Quiz,
				Discovery:   app.Discovery,
				Integration: app.Integration,
				Now:         app.Now,
			})
		},
	}
}
