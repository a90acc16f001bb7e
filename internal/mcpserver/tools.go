package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/importer"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is one registered MCP tool.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Tools returns every tool in registration order.
func Tools(deps Deps) []Tool {
	deps = deps.withDefaults()
	return []Tool{
		&listNeedsTool{deps: deps},
		&scoreQuizTool{deps: deps},
		&clusterAnswersTool{deps: deps},
		&renderWheelTool{deps: deps},
		&careerExportTool{deps: deps},
	}
}

type listNeedsTool struct{ deps Deps }

func (t *listNeedsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_needs",
		mcp.WithDescription("List the six needs and five structural questions of the career clarity quiz, with the answer values score_quiz accepts."),
	)
}

func (t *listNeedsTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("# Needs\n")
	b.WriteString("Answer each with selection left (accomplish), right (connect) or both, and met yes, partial or no.\n\n")
	for _, n := range t.deps.Catalog.Needs {
		fmt.Fprintf(&b, "- %s (%s): %s\n", n.ID, n.Name, n.Question)
		fmt.Fprintf(&b, "  left: %s. %s\n", n.Accomplish.Name, n.Accomplish.Description)
		fmt.Fprintf(&b, "  right: %s. %s\n", n.Connect.Name, n.Connect.Description)
	}
	b.WriteString("\n# Structural questions\n")
	for _, q := range t.deps.Catalog.Questions {
		fmt.Fprintf(&b, "- %s (%s): %s\n", q.ID, q.Name, q.Question)
		fmt.Fprintf(&b, "  %s: %s\n", q.OptionA.Value, q.OptionA.Label)
		fmt.Fprintf(&b, "  %s: %s\n", q.OptionB.Value, q.OptionB.Label)
	}
	return mcp.NewToolResultText(b.String()), nil
}

type scoreQuizTool struct{ deps Deps }

func (t *scoreQuizTool) Definition() mcp.Tool {
	return mcp.NewTool("score_quiz",
		mcp.WithDescription("Score a completed quiz and save it. Returns the recommended path, quadrant and the result narrative."),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description(`JSON object: {"need_answers": {"growth": {"selection": "left", "met": "yes"}, ...}, "structural_answers": {"locus": "...", ...}}`),
		),
		mcp.WithString("session_id",
			mcp.Description("Existing quiz session id. A new one is minted when omitted."),
		),
	)
}

func (t *scoreQuizTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("answers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	schema, err := importer.ParseAnswersSchema([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answers is not valid JSON: %v", err)), nil
	}
	if errs := importer.ValidateAnswersSchema(t.deps.Catalog, schema); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = "- " + e.Error()
		}
		return mcp.NewToolResultError("every need and structural question must be answered with a listed value; call list_needs for the ids\n" +
			strings.Join(msgs, "\n")), nil
	}
	needs, structural := importer.Convert(schema)

	out, err := t.deps.Quiz.Submit(ctx, req.GetString("session_id", ""), needs, structural)
	if err != nil {
		if errors.Is(err, service.ErrIncompleteAnswers) {
			return mcp.NewToolResultError("every need and structural question must be answered; call list_needs for the ids"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := out.Result
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", out.SessionID)
	fmt.Fprintf(&b, "Path: %s\n", r.Path)
	fmt.Fprintf(&b, "Quadrant: %s\n", r.Quadrant)
	fmt.Fprintf(&b, "Accomplish %d / Connect %d, employment signals %d / independence signals %d\n",
		r.AccomplishCount, r.ConnectCount, r.EmploymentSignals, r.IndependenceSignals)
	if len(r.UnmetNeeds) > 0 {
		ids := make([]string, len(r.UnmetNeeds))
		for i, id := range r.UnmetNeeds {
			ids[i] = string(id)
		}
		fmt.Fprintf(&b, "Unmet needs: %s\n", strings.Join(ids, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n%s\n\n%s\n", out.Content.Headline, out.Content.Subhead, out.Content.ClarityMessage)
	for _, g := range out.Guidance {
		fmt.Fprintf(&b, "\n- %s: %s\n", g.Name, g.Seen)
	}
	if out.Record == nil {
		b.WriteString("\n(result was not saved)\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

type clusterAnswersTool struct{ deps Deps }

func (t *clusterAnswersTool) Definition() mcp.Tool {
	return mcp.NewTool("cluster_answers",
		mcp.WithDescription("Group free-text discovery answers into labelled clusters. Needs a configured language model."),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description("Answers, one per line."),
		),
		mcp.WithString("cluster_type",
			mcp.Required(),
			mcp.Description("Which discovery flow the answers come from."),
			mcp.Enum(string(domain.ClusterProblems), string(domain.ClusterSkills), string(domain.ClusterPersona)),
		),
		mcp.WithString("stage",
			mcp.Description("preview or final (default final)."),
			mcp.Enum(string(domain.ClusterStagePreview), string(domain.ClusterStageFinal)),
		),
	)
}

func (t *clusterAnswersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := req.RequireString("items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typ := domain.ClusterType(req.GetString("cluster_type", ""))
	if !domain.ValidClusterTypes[typ] {
		return mcp.NewToolResultError(fmt.Sprintf("unknown cluster_type %q", typ)), nil
	}
	final := req.GetString("stage", string(domain.ClusterStageFinal)) != string(domain.ClusterStagePreview)

	clusters, err := t.deps.Discovery.Cluster(ctx, typ, intelligence.SplitItems([]string{items}), final)
	if err != nil {
		if errors.Is(err, intelligence.ErrNoClusterer) {
			return mcp.NewToolResultError("clustering is unavailable: enable a language model with CLARITY_LLM_ENABLED=true"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(clusters) == 0 {
		return mcp.NewToolResultText("No clusters: there were no answers to group."), nil
	}

	var b strings.Builder
	for i, c := range clusters {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Label)
		if c.Insight != "" {
			fmt.Fprintf(&b, "   %s\n", c.Insight)
		}
		for _, it := range c.Items {
			fmt.Fprintf(&b, "   - %s\n", it.Text)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

type renderWheelTool struct{ deps Deps }

func (t *renderWheelTool) Definition() mcp.Tool {
	return mcp.NewTool("render_wheel",
		mcp.WithDescription("Render a discovery wheel as SVG, lit from a session's final clusters."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Enum(string(domain.ClusterSkills), string(domain.ClusterProblems), string(domain.ClusterPersona)),
		),
		mcp.WithString("session_id",
			mcp.Description("Session whose stored clusters light the wheel. Omit for an empty wheel."),
		),
	)
}

func (t *renderWheelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := domain.ClusterType(req.GetString("kind", ""))
	w, err := t.deps.Taxonomy.Wheel(kind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lit := wheel.CellSet{}
	if sessionID := req.GetString("session_id", ""); sessionID != "" {
		clusters, err := t.deps.Discovery.List(ctx, sessionID, kind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lit = w.LitCells(clusters)
	}

	var buf bytes.Buffer
	if err := w.RenderSVG(&buf, lit, wheel.SVGOptions{ShowLabels: true}); err != nil {
		return nil, fmt.Errorf("rendering %s wheel: %w", kind, err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

type careerExportTool struct{ deps Deps }

func (t *careerExportTool) Definition() mcp.Tool {
	return mcp.NewTool("career_export",
		mcp.WithDescription("Run the career analysis for a session and return the plain-text results file."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session with a quiz result or completed discovery flows."),
		),
	)
}

func (t *careerExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := t.deps.Integration.Analyze(ctx, sessionID)
	if err != nil {
		if errors.Is(err, intelligence.ErrNoAnalysisData) {
			return mcp.NewToolResultError(intelligence.NoAnalysisDataMessage), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(service.ExportText(a, t.deps.Now())), nil
}
