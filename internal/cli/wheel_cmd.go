package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/spf13/cobra"
)

func newWheelCmd(app *App) *cobra.Command {
	var sessionID, kind, out string
	var labels bool

	cmd := &cobra.Command{
		Use:   "wheel",
		Short: "Draw a session's discovery wheel",
		Long: `Wheel lights the cells matched by the session's final clusters.
Without --out it draws the wheel in the terminal; with --out it writes an SVG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			typ := domain.ClusterType(kind)
			w, err := app.Taxonomy.Wheel(typ)
			if err != nil {
				return err
			}
			clusters, err := app.Discovery.List(ctx, sessionID, typ)
			if err != nil {
				return fmt.Errorf("loading %s clusters: %w", typ, err)
			}
			lit := w.LitCells(clusters)

			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), w.RenderTerminal(lit))
				return nil
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := w.RenderSVG(f, lit, wheel.SVGOptions{ShowLabels: labels, CenterLabel: clusterHeading(typ)}); err != nil {
				_ = f.Close()
				return fmt.Errorf("rendering wheel: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d cells lit)\n", out, len(lit))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	cmd.Flags().StringVar(&kind, "kind", string(domain.ClusterSkills), "Wheel kind: skills, problems or persona")
	cmd.Flags().StringVar(&out, "out", "", "Write an SVG to this file")
	cmd.Flags().BoolVar(&labels, "labels", false, "Label segments in the SVG")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func newIdentityCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Show the combined identity from all three wheels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			byKind := make(map[domain.ClusterType][]domain.Cluster, len(wheel.Kinds))
			for _, kind := range wheel.Kinds {
				clusters, err := app.Discovery.List(ctx, sessionID, kind)
				if err != nil {
					return fmt.Errorf("loading %s clusters: %w", kind, err)
				}
				byKind[kind] = clusters
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIdentity(app.Taxonomy.IdentityFor(byKind)))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}
