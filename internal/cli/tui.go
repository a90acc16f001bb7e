package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI runs the full-screen program starting at the view first builds.
func runTUI(ctx context.Context, app *App, first func(*SharedState) View) error {
	m := newAppModel(ctx, app, first)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
