package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/talenthub/internal/tui/styles"
)

// ProgressStep shows the wizard's step indicator.
type ProgressStep struct {
	Steps   []string     // step labels
	Current int          // 0-indexed current step
	Invalid map[int]bool // steps holding validation errors
	Width   int
}

// Render returns the styled progress indicator.
// Completed steps get a filled green dot, the current step a bold accent
// dot, and future steps an empty muted circle. A step with errors is drawn
// in red whatever its position.
func (p ProgressStep) Render() string {
	if len(p.Steps) == 0 {
		return ""
	}

	var parts []string

	for i, label := range p.Steps {
		var style lipgloss.Style
		dot := "●"

		switch {
		case p.Invalid[i]:
			style = lipgloss.NewStyle().Foreground(styles.StatusError)
			dot = "✗"
			if i == p.Current {
				style = style.Bold(true)
			}
		case i < p.Current:
			style = lipgloss.NewStyle().Foreground(styles.StatusOK)
		case i == p.Current:
			style = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(styles.TextMuted)
			dot = "○"
		}

		parts = append(parts, style.Render(dot)+" "+style.Render(label))
	}

	out := strings.Join(parts, "  ")
	if p.Width > 0 && lipgloss.Width(out) > p.Width && p.Current >= 0 && p.Current < len(p.Steps) {
		// Too narrow for every label.
		return lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).
			Render(fmt.Sprintf("Step %d of %d: %s", p.Current+1, len(p.Steps), p.Steps[p.Current]))
	}
	return out
}
