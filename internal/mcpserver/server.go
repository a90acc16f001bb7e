// Package mcpserver exposes quiz scoring, clustering, wheels and the career
// export as MCP tools over stdio.
package mcpserver

import (
	"time"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

type Deps struct {
	Catalog     *catalog.Catalog
	Taxonomy    *wheel.Taxonomy
	Quiz        service.QuizService
	Discovery   service.DiscoveryService
	Integration service.IntegrationService
	Now         func() time.Time
}

// New registers every tool on a fresh MCP server.
func New(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"clarity",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, t := range Tools(deps) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

func (d Deps) withDefaults() Deps {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Taxonomy == nil {
		d.Taxonomy = wheel.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(deps Deps) error {
	return server.ServeStdio(New(deps))
}

const instructions = `clarity helps people work out what kind of work fits them.
Use list_needs to see the quiz, score_quiz to classify answers into the job or own-thing path,
cluster_answers to group free-text discovery answers, render_wheel to draw a session's wheel,
and career_export for the full career analysis of a session.`
