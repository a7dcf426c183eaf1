package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/tui/styles"
)

// FormatReport renders the report for `talenthub doctor`: the stored draft
// and outbox first, then the checks by category with hints under anything
// that did not pass.
func FormatReport(r *Report) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render("TalentHub Doctor")
	b.WriteString("\n  " + title + "  " + overallBadge(r) + "\n")
	b.WriteString("  " + styles.Divider(56) + "\n")
	writeState(&b, r.State)

	catStyle := lipgloss.NewStyle().Foreground(styles.AccentSecondary).Bold(true)
	nameStyle := lipgloss.NewStyle().Width(16).Foreground(styles.TextPrimary)
	msgStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	for _, cat := range Categories() {
		var rows []string
		for _, res := range r.Results {
			if res.Category != cat {
				continue
			}
			rows = append(rows, fmt.Sprintf("  %s %s %s", statusSymbol(res.Status),
				nameStyle.Render(res.Name), msgStyle.Render(styles.TruncateWithEllipsis(res.Message, 48))))
			if res.Status != StatusPass && res.Hint != "" {
				rows = append(rows, "      "+hintStyle.Render("→ "+res.Hint))
			}
		}
		if len(rows) == 0 {
			continue
		}
		b.WriteString("\n  " + catStyle.Render(cat.Label()) + "\n")
		b.WriteString(strings.Join(rows, "\n") + "\n")
	}

	b.WriteString("\n  " + styles.Divider(56) + "\n")
	summary := fmt.Sprintf("%d/%d passed", r.Passed, r.Total)
	if r.Warned > 0 {
		summary += fmt.Sprintf(", %d warning(s)", r.Warned)
	}
	if r.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", r.Failed)
	}
	summary += " in " + formatDuration(r.Duration)
	b.WriteString("  " + msgStyle.Render(summary) + "\n")

	return b.String()
}

func writeState(b *strings.Builder, st State) {
	label := lipgloss.NewStyle().Width(9).Foreground(styles.TextMuted)
	line := func(name, value string) {
		b.WriteString("  " + label.Render(name) + " " + value + "\n")
	}

	source := st.ConfigSource
	if source == "" {
		source = styles.Dim("defaults")
	}
	line("Config", source)
	line("Data", st.DataDir)

	if d := st.Draft; d != nil {
		who := d.Candidate
		if who == "" {
			who = "unnamed"
		}
		if d.Position != "" {
			who += " for " + d.Position
		}
		where := fmt.Sprintf("step %d of %d (%s)", int(d.Step)+1, application.StepCount, d.Step)
		if !d.SavedAt.IsZero() {
			where += ", saved " + d.SavedAt.Local().Format("Jan 2 15:04")
		}
		line("Draft", who+", "+where)
	} else {
		line("Draft", styles.Dim("none"))
	}

	usage := application.HumanBytes(st.DraftBytes)
	if st.DraftQuota > 0 {
		usage += " of " + application.HumanBytes(st.DraftQuota)
	}
	line("Storage", usage)
	line("Outbox", fmt.Sprintf("%d submitted, %d withdrawn", st.Submitted, st.Withdrawn))
}

func statusSymbol(s Status) string {
	color := styles.TextMuted
	switch s {
	case StatusPass:
		color = styles.StatusOK
	case StatusWarn:
		color = styles.StatusWarn
	case StatusFail:
		color = styles.StatusError
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(s.Symbol())
}

func overallBadge(r *Report) string {
	switch {
	case r.Failed > 0:
		return styles.Badge("UNHEALTHY", styles.StatusError)
	case r.Warned > 0:
		return styles.Badge("NEEDS ATTENTION", styles.StatusWarn)
	}
	return styles.Badge("HEALTHY", styles.StatusOK)
}

func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1 {
		return "<1ms"
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000.0)
}
