package styles

import "github.com/charmbracelet/lipgloss"

// Harbor palette: slate backgrounds, a teal brand accent and amber for
// anything that needs the candidate's attention.

var (
	// Backgrounds (darkest to lightest)
	BgDeep    = lipgloss.Color("#0f172a")
	BgPanel   = lipgloss.Color("#131c31")
	BgSurface = lipgloss.Color("#1e293b")

	// Accents
	AccentPrimary   = lipgloss.Color("#2dd4bf") // teal, focus and primary actions
	AccentSecondary = lipgloss.Color("#818cf8") // indigo, explain panel and headings
	AccentGold      = lipgloss.Color("#fbbf24") // required markers, highlights

	// Status
	StatusOK    = lipgloss.Color("#22c55e")
	StatusWarn  = lipgloss.Color("#f59e0b")
	StatusError = lipgloss.Color("#f87171")
	StatusInfo  = lipgloss.Color("#38bdf8")

	// Text
	TextPrimary   = lipgloss.Color("#e2e8f0")
	TextSecondary = lipgloss.Color("#94a3b8")
	TextMuted     = lipgloss.Color("#64748b")

	// Borders
	BorderNormal  = lipgloss.Color("#334155")
	BorderFocused = lipgloss.Color("#2dd4bf")
)
