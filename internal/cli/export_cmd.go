package cli

import (
	"fmt"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var sessionID, outDir, email string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run the career analysis and save the results file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			w := cmd.OutOrStdout()

			if email != "" {
				if err := app.Integration.CaptureDownloadEmail(ctx, sessionID, email); err != nil {
					return err
				}
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Analyzing your profile...")
			}
			a, err := app.Integration.Analyze(ctx, sessionID)
			stop()
			if err != nil {
				return fmt.Errorf("%s: %w", analysisErrorText(err), err)
			}

			path, err := saveExport(app, outDir, a)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the results file to")
	cmd.Flags().StringVar(&email, "email", "", "Email address to record with the download")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func saveExport(app *App, dir string, a *domain.CareerAnalysis) (string, error) {
	if dir == "" {
		dir = "."
	}
	return writeExport(dir, a, app.now())
}
