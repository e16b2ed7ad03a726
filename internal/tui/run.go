package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fraudsight/fraudsight/internal/report"
)

// Run starts the dashboard and blocks until the user quits.
func Run(ctx *report.Context) error {
	program := tea.NewProgram(New(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
