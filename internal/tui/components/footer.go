package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/talenthub/internal/tui/styles"
)

// KeyHint describes a single keybinding hint for display in the footer.
type KeyHint struct {
	Key  string // "tab", "ctrl+s"
	Desc string // "next field", "save"
}

// Footer renders context-aware keybinding hints.
type Footer struct {
	Hints []KeyHint
	Width int
}

// Render returns the styled footer string.
func (f Footer) Render() string {
	width := f.Width
	if width <= 0 {
		width = 80
	}

	keyStyle := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	sepStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var parts []string
	for _, h := range f.Hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}

	content := strings.Join(parts, sepStyle.Render(" • "))

	footerStyle := lipgloss.NewStyle().
		Background(styles.BgDeep).
		Foreground(styles.TextMuted).
		Width(width).
		PaddingLeft(1).
		PaddingRight(1)

	return footerStyle.Render(content)
}

// StepFooter returns the hints for a form step. On the review step enter
// submits; while a submission is in flight only quitting is offered.
func StepFooter(width int, review, submitting bool) Footer {
	if submitting {
		return Footer{Hints: []KeyHint{{Key: "ctrl+c", Desc: "quit"}}, Width: width}
	}
	enter := KeyHint{Key: "enter", Desc: "next"}
	if review {
		enter = KeyHint{Key: "enter", Desc: "submit"}
	}
	return Footer{
		Hints: []KeyHint{
			{Key: "tab", Desc: "next field"},
			{Key: "shift+tab", Desc: "prev field"},
			enter,
			{Key: "esc", Desc: "back"},
			{Key: "ctrl+s", Desc: "save draft"},
			{Key: "ctrl+e", Desc: "explain"},
		},
		Width: width,
	}
}

// ListFooter adds the entry shortcuts shown when the focused field belongs
// to a repeatable section.
func ListFooter(width int) Footer {
	return Footer{
		Hints: []KeyHint{
			{Key: "ctrl+n", Desc: "add entry"},
			{Key: "ctrl+x", Desc: "remove entry"},
			{Key: "space", Desc: "toggle"},
		},
		Width: width,
	}
}
