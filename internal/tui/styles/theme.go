package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RoundedBorder is used for panels and dialogs.
var RoundedBorder = lipgloss.RoundedBorder()

// ThinBorder is used for inline boxes such as the explain panel.
var ThinBorder = lipgloss.NormalBorder()

// ---------------------------------------------------------------------------
// Panel styles
// ---------------------------------------------------------------------------

// Panel is the step body: rounded border in BorderNormal with horizontal
// padding.
var Panel = lipgloss.NewStyle().
	Border(RoundedBorder).
	BorderForeground(BorderNormal).
	Padding(0, 1)

// Card frames one entry of a repeatable section.
var Card = lipgloss.NewStyle().
	Border(ThinBorder).
	BorderForeground(BorderNormal).
	PaddingLeft(1).
	PaddingRight(1)

// CardFocused frames the entry that holds the focused field.
var CardFocused = Card.BorderForeground(BorderFocused)

// ---------------------------------------------------------------------------
// Badge helpers
// ---------------------------------------------------------------------------

// Badge returns an inline colored badge such as "● SUBMITTED".
func Badge(text string, color lipgloss.Color) string {
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	label := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(text)
	return dot + " " + label
}

// StatusBadge returns a badge for notice levels and submission states.
func StatusBadge(status string) string {
	switch strings.ToLower(status) {
	case "success", "submitted":
		return Badge(strings.ToUpper(status), StatusOK)
	case "warn", "withdrawn":
		return Badge(strings.ToUpper(status), StatusWarn)
	case "error":
		return Badge("ERROR", StatusError)
	default:
		return Badge(strings.ToUpper(status), StatusInfo)
	}
}

// ---------------------------------------------------------------------------
// Typography styles
// ---------------------------------------------------------------------------

// Title is bold AccentPrimary text for step headings.
var Title = lipgloss.NewStyle().
	Foreground(AccentPrimary).
	Bold(true)

// Subtitle is used for section headings inside a step.
var Subtitle = lipgloss.NewStyle().
	Foreground(AccentSecondary).
	Bold(true)

// Label is TextSecondary text for field labels.
var Label = lipgloss.NewStyle().
	Foreground(TextSecondary)

// LabelFocused highlights the label of the focused field.
var LabelFocused = lipgloss.NewStyle().
	Foreground(AccentPrimary).
	Bold(true)

// Value is TextPrimary text for entered values.
var Value = lipgloss.NewStyle().
	Foreground(TextPrimary)

// Placeholder is shown for empty values.
var Placeholder = lipgloss.NewStyle().
	Foreground(TextMuted).
	Italic(true)

// ErrorText renders an inline field error.
var ErrorText = lipgloss.NewStyle().
	Foreground(StatusError)

// HelpText renders hints under a field.
var HelpText = lipgloss.NewStyle().
	Foreground(TextMuted)

// ---------------------------------------------------------------------------
// Divider
// ---------------------------------------------------------------------------

// Divider returns a horizontal rule of the given width using the ─ character
// rendered in BorderNormal color.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	line := strings.Repeat("─", width)
	return lipgloss.NewStyle().Foreground(BorderNormal).Render(line)
}
