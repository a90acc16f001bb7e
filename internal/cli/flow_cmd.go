package cli

import (
	"github.com/spf13/cobra"
)

func newFlowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Run a Flow Finder discovery flow",
	}

	cmd.AddCommand(
		newFlowRunCmd(app, "problems", "Discover the problems you care about", newProblemsView),
		newFlowRunCmd(app, "persona", "Discover who you want to help", newPersonaView),
		newFlowRunCmd(app, "skills", "Discover your skills", newSkillsView),
		newFlowRunCmd(app, "integration", "Run the career analysis", newIntegrationView),
	)
	return cmd
}

func newFlowRunCmd(app *App, use, short string, first func(*SharedState) View) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:         use,
		Short:       short,
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			return runTUI(commandContext(cmd), app, func(state *SharedState) View {
				if sessionID != "" {
					state.QuizSession = sessionID
				}
				return first(state)
			})
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Quiz session to attach results to")
	return cmd
}
