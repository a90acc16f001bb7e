package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/progress"
	"github.com/spf13/cobra"
)

// progressNames maps the names accepted on the command line to store keys.
var progressNames = map[string]string{
	"quiz":        progress.KeyQuiz,
	"problems":    progress.KeyProblems,
	"persona":     progress.KeyPersona,
	"skills":      progress.KeySkills,
	"integration": progress.KeyIntegration,
}

var progressOrder = []string{"quiz", "problems", "persona", "skills", "integration"}

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect or reset saved in-progress flows",
	}
	cmd.AddCommand(
		newProgressListCmd(app),
		newProgressResetCmd(app),
	)
	return cmd
}

func newProgressListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved flow progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := progressStore(app)
			var rows [][]string
			for _, name := range progressOrder {
				data, ok, err := store.Get(progressNames[name])
				if err != nil {
					return err
				}
				if !ok {
					rows = append(rows, []string{name, formatter.Dim("-"), ""})
					continue
				}
				var head struct {
					Stage     string `json:"stage"`
					SessionID string `json:"sessionId"`
				}
				if err := json.Unmarshal(data, &head); err != nil {
					rows = append(rows, []string{name, formatter.StyleRed.Render("unreadable"), ""})
					continue
				}
				rows = append(rows, []string{name, head.Stage, formatter.TruncID(head.SessionID)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"FLOW", "STAGE", "SESSION"}, rows))
			return nil
		},
	}
}

func newProgressResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:       "reset [flow...|all]",
		Short:     "Discard saved progress so flows start over",
		ValidArgs: append(slices.Clone(progressOrder), "all"),
		Args:      cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := progressKeys(args)
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to reset without --yes")
				}
				confirmed := false
				form := wizardConfirm(fmt.Sprintf("Reset %s?", strings.Join(args, ", ")), &confirmed)
				if err := form.RunWithContext(commandContext(cmd)); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			store := progressStore(app)
			for _, k := range keys {
				if err := store.Remove(k); err != nil {
					return fmt.Errorf("resetting %s: %w", k, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d saved flow(s).\n", len(keys))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation")
	return cmd
}

func progressKeys(args []string) ([]string, error) {
	if slices.Contains(args, "all") {
		return progress.AllKeys, nil
	}
	keys := make([]string, 0, len(args))
	for _, a := range args {
		k, ok := progressNames[a]
		if !ok {
			return nil, fmt.Errorf("unknown flow %q (want one of %s or all)", a, strings.Join(progressOrder, ", "))
		}
		keys = append(keys, k)
	}
	return keys, nil
}
