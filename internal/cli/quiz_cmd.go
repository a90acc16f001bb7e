package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/clarity/internal/cli/formatter"
	"github.com/alexanderramin/clarity/internal/importer"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/spf13/cobra"
)

// errNotInteractive is returned by commands that need the TUI when stdin is
// not a terminal.
var errNotInteractive = errors.New("this command needs an interactive terminal")

func newQuizCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "quiz",
		Short:       "Take the career clarity quiz",
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			return runTUI(commandContext(cmd), app, newQuizView)
		},
	}

	cmd.AddCommand(
		newQuizScoreCmd(app),
		newQuizEmailCmd(app),
	)
	return cmd
}

func newQuizScoreCmd(app *App) *cobra.Command {
	var file, sessionID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a set of quiz answers from a JSON file",
		Long: `Score reads answers shaped like
  {"need_answers": {"growth": {"selection": "left", "met": "yes"}, ...},
   "structural_answers": {"locus": "a", ...}}
and saves the result under the session. Use --file - to read stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := readQuizAnswers(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if errs := importer.ValidateAnswersSchema(app.Catalog, schema); len(errs) > 0 {
				joined := errors.Join(errs...)
				if errors.Is(joined, importer.ErrInvalidAnswer) {
					return fmt.Errorf("invalid answers:\n%w", joined)
				}
				return fmt.Errorf("%w:\n%w", service.ErrIncompleteAnswers, joined)
			}
			needs, structural := importer.Convert(schema)
			if sessionID == "" {
				sessionID = schema.SessionID
			}

			out, err := app.Quiz.Submit(commandContext(cmd), sessionID, needs, structural)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"session_id":     out.SessionID,
					"quiz_result_id": out.QuizResultID(),
					"result":         out.Result,
				})
			}
			fmt.Fprint(w, formatter.FormatQuizResult(app.Catalog, out.Result, out.Content, out.Guidance))
			fmt.Fprintf(w, "\n%s %s\n", formatter.Dim("Session:"), out.SessionID)
			if out.Record == nil {
				fmt.Fprintln(w, formatter.StyleYellow.Render("The result could not be saved."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Answers JSON file (- for stdin)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: a new quiz session)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readQuizAnswers(stdin io.Reader, file string) (*importer.AnswersSchema, error) {
	if file != "-" {
		schema, err := importer.LoadAnswersSchema(file)
		if err != nil {
			return nil, fmt.Errorf("reading answers: %w", err)
		}
		return schema, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	return importer.ParseAnswersSchema(data)
}

func newQuizEmailCmd(app *App) *cobra.Command {
	var sessionID, email string

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Attach an email address to a scored quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			rec, err := app.Quiz.Get(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("finding quiz result: %w", err)
			}
			if err := app.Quiz.CaptureEmail(ctx, rec.ID, email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved email for session %s\n", sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
