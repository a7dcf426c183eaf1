package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/tui/styles"
)

// PanelProps is everything a step panel needs to draw itself.
type PanelProps struct {
	Step     application.Step
	Data     *application.FormData
	Errors   application.ErrorMap
	Specs    []fieldSpec
	Focus    int
	Input    string // the rendered text input of the focused row
	Required func(application.FieldKey) bool
	Markdown func(string) string
	Policy   application.UploadPolicy
	Width    int
}

// panelRenderers holds one renderer per wizard step.
var panelRenderers = map[application.Step]func(PanelProps) string{
	application.StepPersonal:          renderPersonal,
	application.StepSummary:           renderSummary,
	application.StepExperience:        renderExperience,
	application.StepProjectsEducation: renderProjectsEducation,
	application.StepDocuments:         renderDocuments,
	application.StepReview:            renderReview,
}

// RenderPanel draws the panel of p.Step.
func RenderPanel(p PanelProps) string {
	fn, ok := panelRenderers[p.Step]
	if !ok {
		return ""
	}
	body := fn(p)
	return styles.Panel.Width(clampWidth(p.Width-4, 96)).Render(body)
}

func renderPersonal(p PanelProps) string {
	return panelHead(p, "Tell us how to reach you.") + renderRows(p, p.Specs)
}

func renderSummary(p PanelProps) string {
	return panelHead(p, "What role are you after, and what do you bring? Add at least one skill.") +
		renderRows(p, p.Specs)
}

func renderExperience(p PanelProps) string {
	return panelHead(p, "Most recent position first. Leave the end date empty for your current job.") +
		renderRows(p, p.Specs)
}

func renderProjectsEducation(p PanelProps) string {
	return panelHead(p, "Projects are optional. At least one education entry is required.") +
		renderRows(p, p.Specs)
}

func renderDocuments(p PanelProps) string {
	intro := fmt.Sprintf("Attach documents by path (%s, up to %s).",
		strings.Join(p.Policy.AllowedExtensions, " "), application.HumanBytes(p.Policy.MaxBytes))
	return panelHead(p, intro) + renderRows(p, p.Specs)
}

// renderReview shows a read-only summary followed by the two consent
// toggles.
func renderReview(p PanelProps) string {
	var b strings.Builder
	b.WriteString(panelHead(p, "Check everything below, then accept the terms and press enter to submit."))

	md := reviewMarkdown(p.Data)
	if p.Markdown != nil {
		md = p.Markdown(md)
	}
	b.WriteString(md)
	b.WriteString("\n\n")
	b.WriteString(renderRows(p, p.Specs))
	return b.String()
}

func panelHead(p PanelProps, intro string) string {
	return styles.Title.Render(p.Step.Title()) + "\n" + styles.HelpText.Render(intro) + "\n\n"
}

// renderRows draws specs in order. Entry rows get a heading whenever a new
// entry starts.
func renderRows(p PanelProps, specs []fieldSpec) string {
	var b strings.Builder
	lastEntry := ""
	for i, spec := range specs {
		focused := i == p.Focus
		if sec, idx, ok := spec.entry(); ok && idx >= 0 {
			id := fmt.Sprintf("%s/%d", sec, idx)
			if id != lastEntry {
				lastEntry = id
				b.WriteString("  " + styles.Dim(fmt.Sprintf("%s #%d", entryNoun(sec), idx+1)) + "\n")
			}
		}
		b.WriteString(renderRow(p, spec, focused))
	}
	return b.String()
}

func renderRow(p PanelProps, spec fieldSpec, focused bool) string {
	var b strings.Builder
	indent := ""
	if _, idx, ok := spec.entry(); ok && idx >= 0 {
		indent = "    "
	}

	label := spec.Label
	if p.Required != nil && spec.Kind != kindSection && spec.Kind != kindAdder && p.Required(spec.Key) {
		label = styles.Required(label)
	}
	labelStyle := styles.Label
	marker := "  "
	if focused {
		labelStyle = styles.LabelFocused
		marker = styles.Cyan("› ")
	}

	switch spec.Kind {
	case kindToggle:
		value, _ := p.Data.Get(spec.Key)
		box := "[ ]"
		if value == "true" {
			box = styles.Green("[x]")
		}
		b.WriteString(indent + marker + box + " " + labelStyle.Render(label) + "\n")

	case kindSection:
		count := p.Data.Len(application.Section(spec.Key.Field))
		b.WriteString("\n" + marker + styles.Subtitle.Render(label) + " " + styles.Dim(fmt.Sprintf("(%d)", count)) + "\n")
		if focused {
			b.WriteString("    " + styles.HelpText.Render("ctrl+n adds an entry") + "\n")
		}

	case kindAdder:
		sec := application.Section(spec.Key.Field)
		b.WriteString("\n" + marker + styles.Subtitle.Render(label) + " " + styles.Dim(chips(p.Data, sec)) + "\n")
		if focused {
			b.WriteString("    " + p.Input + "\n")
			b.WriteString("    " + styles.HelpText.Render("type a name, optionally \", level\", then ctrl+n") + "\n")
		}

	default:
		b.WriteString(indent + marker + labelStyle.Render(label) + "\n")
		switch {
		case focused:
			b.WriteString(indent + "    " + p.Input + "\n")
		case spec.Kind == kindFile:
			b.WriteString(indent + "    " + fileValue(p.Data, spec.Key, spec.Placeholder) + "\n")
		default:
			value, _ := p.Data.Get(spec.Key)
			b.WriteString(indent + "    " + displayValue(value, spec, p.Width) + "\n")
		}
	}

	if msg := p.Errors[spec.Key]; msg != "" {
		b.WriteString(indent + "    " + styles.ErrorText.Render("✗ "+msg) + "\n")
	}
	return b.String()
}

func displayValue(value string, spec fieldSpec, width int) string {
	if strings.TrimSpace(value) == "" {
		if spec.Placeholder != "" {
			return styles.Placeholder.Render(spec.Placeholder)
		}
		return styles.Placeholder.Render("empty")
	}
	if spec.Kind == kindLong {
		return styles.Value.Width(clampWidth(width-14, 80)).Render(value)
	}
	return styles.Value.Render(value)
}

func fileValue(data *application.FormData, key application.FieldKey, placeholder string) string {
	ref := fileRef(data, key)
	if ref == nil {
		return styles.Placeholder.Render(placeholder)
	}
	return styles.Value.Render(ref.Name) + " " + styles.Dim(fmt.Sprintf("(%s, %s)", application.HumanBytes(ref.Size), ref.MIMEType))
}

func fileRef(data *application.FormData, key application.FieldKey) *application.FileRef {
	switch key.Field {
	case application.FieldResume:
		return data.Resume
	case application.FieldCoverLetter:
		return data.CoverLetter
	}
	return nil
}

// chips summarises a quick-add list on one line.
func chips(data *application.FormData, sec application.Section) string {
	var names []string
	for i := 0; i < data.Len(sec); i++ {
		name, _ := data.Get(application.EntryKey(sec, i, application.FieldName))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "none yet"
	}
	return strings.Join(names, " · ")
}

func entryNoun(sec application.Section) string {
	switch sec {
	case application.SectionExperiences:
		return "Position"
	case application.SectionProjects:
		return "Project"
	case application.SectionEducation:
		return "School"
	case application.SectionSkills:
		return "Skill"
	case application.SectionLanguages:
		return "Language"
	case application.SectionHobbies:
		return "Hobby"
	}
	return "Entry"
}

// reviewMarkdown renders the application as a markdown document.
func reviewMarkdown(d *application.FormData) string {
	var b strings.Builder
	line := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "_not provided_"
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
	}

	b.WriteString("## Personal information\n\n")
	line("Name", strings.TrimSpace(d.FirstName+" "+d.LastName))
	line("Email", d.Email)
	line("Phone", d.Phone)
	line("Location", d.Location)
	line("LinkedIn", d.LinkedIn)
	line("Portfolio", d.Portfolio)

	b.WriteString("\n## Professional summary\n\n")
	line("Desired position", d.DesiredPosition)
	line("Years of experience", d.YearsOfExperience)
	if s := strings.TrimSpace(d.ProfessionalSummary); s != "" {
		b.WriteString("\n> " + strings.ReplaceAll(s, "\n", "\n> ") + "\n")
	}
	if len(d.Skills) > 0 {
		b.WriteString("\n**Skills:** ")
		var parts []string
		for _, s := range d.Skills {
			if s.Level != "" {
				parts = append(parts, fmt.Sprintf("%s (%s)", s.Name, s.Level))
			} else {
				parts = append(parts, s.Name)
			}
		}
		b.WriteString(strings.Join(parts, ", ") + "\n")
	}
	if len(d.Languages) > 0 {
		b.WriteString("\n**Languages:** ")
		var parts []string
		for _, l := range d.Languages {
			if l.Proficiency != "" {
				parts = append(parts, fmt.Sprintf("%s (%s)", l.Name, l.Proficiency))
			} else {
				parts = append(parts, l.Name)
			}
		}
		b.WriteString(strings.Join(parts, ", ") + "\n")
	}

	b.WriteString("\n## Work experience\n\n")
	for _, e := range d.Experiences {
		end := e.EndDate
		if e.CurrentlyWorking {
			end = "Present"
		}
		fmt.Fprintf(&b, "### %s at %s\n\n%s to %s", e.JobTitle, e.Company, e.StartDate, end)
		if e.Location != "" {
			b.WriteString(", " + e.Location)
		}
		b.WriteString("\n\n")
		if e.Description != "" {
			b.WriteString(e.Description + "\n\n")
		}
	}

	if len(d.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		for _, p := range d.Projects {
			fmt.Fprintf(&b, "### %s\n\n", p.Name)
			if p.Role != "" {
				line("Role", p.Role)
			}
			if p.Technologies != "" {
				line("Technologies", p.Technologies)
			}
			if p.URL != "" {
				line("URL", p.URL)
			}
			if p.Description != "" {
				b.WriteString("\n" + p.Description + "\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Education\n\n")
	for _, e := range d.Education {
		years := e.StartYear
		if e.EndYear != "" {
			years += " to " + e.EndYear
		}
		fmt.Fprintf(&b, "- **%s**, %s in %s (%s)", e.Institution, e.Degree, e.FieldOfStudy, years)
		if e.GPA != "" {
			b.WriteString(", GPA " + e.GPA)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Documents\n\n")
	for _, f := range []struct {
		label string
		ref   *application.FileRef
	}{{"Resume", d.Resume}, {"Cover letter", d.CoverLetter}} {
		if f.ref == nil {
			line(f.label, "")
			continue
		}
		line(f.label, fmt.Sprintf("%s (%s)", f.ref.Name, application.HumanBytes(f.ref.Size)))
	}
	line("Expected salary", d.ExpectedSalary)
	line("Available from", d.AvailableFrom)
	if len(d.Hobbies) > 0 {
		var names []string
		for _, h := range d.Hobbies {
			names = append(names, h.Name)
		}
		line("Hobbies", strings.Join(names, ", "))
	}
	return b.String()
}

// markdownRenderer caches a glamour renderer for the current width.
type markdownRenderer struct {
	width int
	r     *glamour.TermRenderer
}

func (m *markdownRenderer) render(md string, width int) string {
	if m.r == nil || m.width != width {
		style := "dark"
		if lipgloss.ColorProfile() == termenv.Ascii {
			style = "notty"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		m.r, m.width = r, width
	}
	out, err := m.r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

func clampWidth(val, max int) int {
	if val > max {
		return max
	}
	if val < 10 {
		return 10
	}
	return val
}
