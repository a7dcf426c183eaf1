package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dallionking/talenthub/internal/tui/models"
	"github.com/Dallionking/talenthub/internal/wizard"
)

// RunApply launches the application wizard TUI over ctrl. It blocks until
// the candidate quits. A submission still in flight when the program exits
// is cancelled.
func RunApply(ctrl *wizard.Controller, opts models.ApplyOptions) error {
	model := models.NewApplicationModel(ctrl, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("application wizard failed: %w", err)
	}
	return nil
}
