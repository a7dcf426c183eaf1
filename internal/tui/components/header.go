package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/talenthub/internal/tui/styles"
)

// Header renders the app header bar: logo, the position being applied for
// and a short status on the right (last autosave, submission state).
type Header struct {
	Position string
	Status   string
	Width    int
}

// Render returns the styled header string.
func (h Header) Render() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	logo := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Render(styles.CompactLogo)

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")

	position := h.Position
	if position == "" {
		position = "Job application"
	}
	left := logo + sep + lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true).Render(position)

	right := styles.Dim(h.Status)
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)

	headerStyle := lipgloss.NewStyle().
		Background(styles.BgDeep).
		Foreground(styles.TextPrimary).
		Width(width).
		PaddingLeft(1).
		PaddingRight(1)

	return headerStyle.Render(content)
}
