package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/alexanderramin/clarity/internal/scoring"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/spf13/cobra"
)

func newResultCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "result",
		Short: "Show the stored quiz result and discovery clusters of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			w := cmd.OutOrStdout()

			rec, err := app.Quiz.Get(ctx, sessionID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				fmt.Fprintln(w, formatter.Dim("No quiz result for this session."))
			case err != nil:
				return fmt.Errorf("loading quiz result: %w", err)
			default:
				r := scoring.Score(app.Catalog, rec.NeedAnswers, rec.StructuralAnswers)
				fmt.Fprint(w, formatter.FormatQuizResult(app.Catalog, r,
					scoring.PathContentFor(r), scoring.NeedGuidanceFor(app.Catalog, r)))
				if rec.Email != "" {
					fmt.Fprintf(w, "%s %s\n", formatter.Dim("Email:"), rec.Email)
				}
				fmt.Fprintf(w, "%s %s\n", formatter.Dim("Taken:"), formatter.HumanDateFrom(rec.CreatedAt, app.now()))
			}

			for _, kind := range wheel.Kinds {
				clusters, err := app.Discovery.List(ctx, sessionID, kind)
				if err != nil {
					return fmt.Errorf("loading %s clusters: %w", kind, err)
				}
				fmt.Fprintln(w)
				fmt.Fprint(w, formatter.FormatClusters(clusterHeading(kind), clusters))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func clusterHeading(t domain.ClusterType) string {
	switch t {
	case domain.ClusterSkills:
		return "Skills"
	case domain.ClusterProblems:
		return "Problems"
	case domain.ClusterPersona:
		return "Persona"
	}
	return string(t)
}
