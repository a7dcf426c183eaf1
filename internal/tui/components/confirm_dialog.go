package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/talenthub/internal/tui/styles"
)

// ConfirmDialog is a modal two-choice dialog. Confirmed reports whether the
// first choice was taken once Done is set.
type ConfirmDialog struct {
	Title     string
	Message   string
	YesLabel  string
	NoLabel   string
	Confirmed bool
	Done      bool
	selected  int // 0 = yes, 1 = no
}

// NewConfirmDialog creates a Yes/No dialog with No preselected.
func NewConfirmDialog(title, message string) ConfirmDialog {
	return ConfirmDialog{
		Title:    title,
		Message:  message,
		YesLabel: "Yes",
		NoLabel:  "No",
		selected: 1,
	}
}

// NewChoiceDialog creates a dialog with custom labels and the first choice
// preselected.
func NewChoiceDialog(title, message, yes, no string) ConfirmDialog {
	d := NewConfirmDialog(title, message)
	d.YesLabel = yes
	d.NoLabel = no
	d.selected = 0
	return d
}

// Init satisfies tea.Model. No initial command needed.
func (d ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input for the dialog.
func (d ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			d.Confirmed = true
			d.Done = true
		case "n", "N", "esc":
			d.Confirmed = false
			d.Done = true
		case "enter":
			d.Confirmed = d.selected == 0
			d.Done = true
		case "left", "h", "shift+tab":
			d.selected = 0
		case "right", "l", "tab":
			d.selected = 1
		}
	}
	return d, nil
}

// View returns the styled dialog.
func (d ConfirmDialog) View() string {
	title := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Render(d.Title)

	message := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(d.Message)

	selectedStyle := lipgloss.NewStyle().
		Background(styles.AccentPrimary).
		Foreground(styles.BgDeep).
		Bold(true).
		Padding(0, 1)

	unselectedStyle := lipgloss.NewStyle().
		Background(styles.BgSurface).
		Foreground(styles.TextSecondary).
		Padding(0, 1)

	yesBtn, noBtn := unselectedStyle.Render(d.YesLabel), selectedStyle.Render(d.NoLabel)
	if d.selected == 0 {
		yesBtn, noBtn = selectedStyle.Render(d.YesLabel), unselectedStyle.Render(d.NoLabel)
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn)

	hint := lipgloss.NewStyle().Foreground(styles.TextMuted).
		Render("y/n or ←→ + enter")

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		message,
		"",
		buttons,
		"",
		hint,
	)

	dialogStyle := lipgloss.NewStyle().
		Background(styles.BgPanel).
		Border(styles.RoundedBorder).
		BorderForeground(styles.AccentSecondary).
		Padding(1, 2).
		Width(52).
		Align(lipgloss.Center)

	return dialogStyle.Render(content)
}
