package models

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/draft"
	"github.com/Dallionking/talenthub/internal/logging"
	"github.com/Dallionking/talenthub/internal/tui/components"
	"github.com/Dallionking/talenthub/internal/tui/styles"
	"github.com/Dallionking/talenthub/internal/wizard"
)

// ---------------------------------------------------------------------------
// Tea messages
// ---------------------------------------------------------------------------

type submitDoneMsg struct {
	receipt wizard.Receipt
	err     error
}

type resetMsg struct{}

// ApplyOptions configures the application model.
type ApplyOptions struct {
	Explain    bool
	ResetDelay time.Duration
	Logger     *slog.Logger
}

// ---------------------------------------------------------------------------
// ApplicationModel
// ---------------------------------------------------------------------------

// ApplicationModel implements tea.Model for `talenthub apply`. It is a thin
// view over a wizard.Controller: one text input is bound to the focused
// row and every edit is forwarded to the controller, which owns validation
// and autosave.
type ApplicationModel struct {
	ctrl   *wizard.Controller
	opts   ApplyOptions
	logger *slog.Logger

	specs []fieldSpec
	focus int
	input textinput.Model
	spin  spinner.Model
	md    *markdownRenderer

	// Restore prompt shown when a saved draft exists.
	dialog  *components.ConfirmDialog
	pending draft.Snapshot

	notices []wizard.Notice
	cancel  context.CancelFunc
	explain bool

	width  int
	height int
}

// NewApplicationModel creates the wizard model over ctrl.
func NewApplicationModel(ctrl *wizard.Controller, opts ApplyOptions) ApplicationModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)

	ti := textinput.New()
	ti.CharLimit = 2000
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.AccentPrimary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := ApplicationModel{
		ctrl:    ctrl,
		opts:    opts,
		logger:  logger,
		input:   ti,
		spin:    s,
		md:      &markdownRenderer{},
		explain: opts.Explain,
		width:   90,
		height:  40,
	}

	if snap, ok := ctrl.PendingDraft(); ok {
		msg := "You have an unfinished application. Restore it?"
		if !snap.SavedAt.IsZero() {
			msg = fmt.Sprintf("You have an unfinished application from %s. Restore it?",
				snap.SavedAt.Local().Format("Jan 2 15:04"))
		}
		d := components.NewChoiceDialog("Saved draft found", msg, "Restore", "Start over")
		m.dialog = &d
		m.pending = snap
	}

	m.refresh()
	return m
}

// Controller exposes the controller driving the model.
func (m ApplicationModel) Controller() *wizard.Controller {
	return m.ctrl
}

// ---------------------------------------------------------------------------
// tea.Model interface
// ---------------------------------------------------------------------------

// Init is called when the program starts.
func (m ApplicationModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes messages and key events.
func (m ApplicationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < 60 {
			m.width = 60
		}
		m.height = msg.Height
		m.input.Width = clampWidth(m.width-16, 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitDoneMsg:
		m.cancel = nil
		err := m.ctrl.FinishSubmit(msg.receipt, msg.err)
		m.drainNotices()
		if err != nil {
			return m, nil
		}
		return m, tea.Tick(m.opts.ResetDelay, func(time.Time) tea.Msg { return resetMsg{} })

	case resetMsg:
		m.ctrl.Reset()
		m.focus = 0
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.Submitting() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editable() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the header, progress, current panel, notices and footer.
func (m ApplicationModel) View() string {
	var sections []string

	header := components.Header{
		Position: m.ctrl.Data().DesiredPosition,
		Status:   m.headerStatus(),
		Width:    m.width,
	}
	sections = append(sections, header.Render(), "")

	progress := components.ProgressStep{
		Steps:   application.StepLabels(),
		Current: int(m.ctrl.Step()),
		Invalid: m.invalidSteps(),
		Width:   m.width - 4,
	}
	sections = append(sections, "  "+progress.Render(), "")

	if m.dialog != nil {
		sections = append(sections, "  "+m.dialog.View())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.explain {
		if text := explainContent(m.ctrl.Step()); text != "" {
			boxStyle := lipgloss.NewStyle().
				Foreground(styles.AccentSecondary).
				Border(styles.ThinBorder).
				BorderForeground(styles.AccentSecondary).
				Padding(0, 1).
				Width(clampWidth(m.width-6, 90))
			sections = append(sections, "  "+boxStyle.Render(styles.Gold("[explain] ")+text), "")
		}
	}

	v := m.ctrl.Validator()
	data := m.ctrl.Data()
	sections = append(sections, RenderPanel(PanelProps{
		Step:     m.ctrl.Step(),
		Data:     data,
		Errors:   m.ctrl.Errors(),
		Specs:    m.specs,
		Focus:    m.focus,
		Input:    m.input.View(),
		Required: func(k application.FieldKey) bool { return v.Required(k, data) },
		Markdown: func(md string) string { return m.md.render(md, clampWidth(m.width-10, 90)) },
		Policy:   v.Policy(),
		Width:    m.width,
	}))

	if m.ctrl.Submitting() {
		sections = append(sections, "", "  "+m.spin.View()+" "+styles.Cyan("Submitting your application..."))
	}
	if r, ok := m.ctrl.Receipt(); ok {
		sections = append(sections, "", "  "+styles.Green("Reference "+r.ID)+" "+
			styles.Dim("submitted "+r.SubmittedAt.Local().Format("Jan 2 15:04")))
	}

	for _, n := range m.notices {
		sections = append(sections, "  "+noticeLine(n))
	}

	sections = append(sections, "", "  "+styles.Divider(clampWidth(m.width-4, 96)))
	footer := components.StepFooter(m.width, m.ctrl.Step() == application.StepReview, m.ctrl.Locked())
	sections = append(sections, footer.Render())
	if _, _, ok := m.current().entry(); ok && !m.ctrl.Locked() {
		sections = append(sections, components.ListFooter(m.width).Render())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// ---------------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------------

func (m ApplicationModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	if m.dialog != nil {
		d, _ := m.dialog.Update(msg)
		if !d.Done {
			m.dialog = &d
			return m, nil
		}
		if d.Confirmed {
			m.ctrl.RestoreDraft(m.pending)
		} else {
			m.ctrl.DiscardDraft()
		}
		m.dialog = nil
		m.pending = draft.Snapshot{}
		m.focus = 0
		m.refresh()
		m.drainNotices()
		return m, textinput.Blink
	}

	// The form is frozen from submit until the post-success reset.
	if m.ctrl.Locked() {
		return m, nil
	}

	switch key {
	case "ctrl+e":
		m.explain = !m.explain
		return m, nil
	case "tab", "down":
		return m.move(1)
	case "shift+tab", "up":
		return m.move(-1)
	case "enter":
		return m.advance()
	case "esc":
		m.commit()
		m.ctrl.Back()
		m.focus = 0
		m.refresh()
		m.drainNotices()
		return m, nil
	case "ctrl+s":
		m.commit()
		_ = m.ctrl.SaveDraft()
		m.drainNotices()
		return m, nil
	case "ctrl+n":
		return m.addEntry()
	case "ctrl+x":
		return m.removeEntry()
	case " ":
		if m.current().Kind == kindToggle {
			m.toggle()
			return m, nil
		}
	}

	if !m.editable() {
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.edit()
	}
	return m, cmd
}

// move commits the focused row and focuses the next or previous one.
func (m ApplicationModel) move(delta int) (tea.Model, tea.Cmd) {
	m.commit()
	if n := len(m.specs); n > 0 {
		m.focus = (m.focus + delta + n) % n
	}
	m.loadInput()
	m.drainNotices()
	return m, textinput.Blink
}

// advance moves to the next step, or submits from the review step.
func (m ApplicationModel) advance() (tea.Model, tea.Cmd) {
	m.commit()
	if m.ctrl.Step() == application.StepReview {
		return m.submit()
	}
	if m.ctrl.Next() {
		m.focus = 0
	}
	m.refresh()
	m.focusFirstError()
	m.drainNotices()
	return m, nil
}

func (m ApplicationModel) submit() (tea.Model, tea.Cmd) {
	sub := m.ctrl.Submitter()
	if sub == nil {
		m.notices = []wizard.Notice{{Level: wizard.LevelError, Message: "Submitting is not configured"}}
		return m, nil
	}
	payload, err := m.ctrl.BeginSubmit()
	if err != nil {
		if errors.Is(err, wizard.ErrValidation) {
			m.focus = 0
			m.refresh()
			m.focusFirstError()
		}
		m.drainNotices()
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.notices = nil
	m.logger.Info("submitting application", "candidate", payload.Email)

	run := func() tea.Msg {
		r, err := sub.Submit(ctx, payload)
		return submitDoneMsg{receipt: r, err: err}
	}
	return m, tea.Batch(run, m.spin.Tick)
}

// addEntry appends an entry to the section of the focused row. On a
// quick-add row the typed text becomes the entry.
func (m ApplicationModel) addEntry() (tea.Model, tea.Cmd) {
	spec := m.current()
	sec, _, ok := spec.entry()
	if !ok {
		return m, nil
	}
	m.commit()

	if spec.Kind == kindAdder {
		name, detail := splitQuickAdd(m.input.Value())
		var added bool
		switch sec {
		case application.SectionSkills:
			added = m.ctrl.AddSkill(name, detail)
		case application.SectionLanguages:
			added = m.ctrl.AddLanguage(name, detail)
		case application.SectionHobbies:
			added = m.ctrl.AddHobby(name)
		}
		if added {
			m.input.SetValue("")
		}
		m.refresh()
		m.drainNotices()
		return m, nil
	}

	i, err := m.ctrl.AddArrayItem(sec)
	if err != nil {
		m.logger.Warn("add entry", "section", sec, "error", err)
		return m, nil
	}
	m.refresh()
	for j, s := range m.specs {
		if s.Key.Section == sec && s.Key.Index == i {
			m.focus = j
			break
		}
	}
	m.loadInput()
	m.drainNotices()
	return m, textinput.Blink
}

// removeEntry deletes the entry holding the focused row.
func (m ApplicationModel) removeEntry() (tea.Model, tea.Cmd) {
	sec, idx, ok := m.current().entry()
	if !ok || idx < 0 {
		return m, nil
	}
	if err := m.ctrl.RemoveArrayItem(sec, idx); err != nil {
		m.logger.Warn("remove entry", "section", sec, "index", idx, "error", err)
		return m, nil
	}
	m.refresh()
	for j, s := range m.specs {
		if s.Key.IsFlat() && s.Key.Field == string(sec) {
			m.focus = j
			break
		}
	}
	m.loadInput()
	m.drainNotices()
	return m, nil
}

func (m *ApplicationModel) toggle() {
	key := m.current().Key
	value, _ := m.ctrl.Data().Get(key)
	next := "true"
	if value == "true" {
		next = "false"
	}
	if err := m.ctrl.SetField(key, next); err != nil {
		m.logger.Warn("toggle", "field", key.String(), "error", err)
	}
	m.ctrl.Blur(key)
	m.specs = stepSpecs(m.ctrl.Step(), m.ctrl.Data())
	m.drainNotices()
}

// edit forwards the input of a text row to the controller. Formatting
// applied by the controller is written back to the input.
func (m *ApplicationModel) edit() {
	spec := m.current()
	if spec.Kind != kindText && spec.Kind != kindLong {
		return
	}
	if err := m.ctrl.SetField(spec.Key, m.input.Value()); err != nil {
		m.logger.Warn("set field", "field", spec.Key.String(), "error", err)
		return
	}
	if stored, _ := m.ctrl.Data().Get(spec.Key); stored != m.input.Value() {
		m.input.SetValue(stored)
	}
	m.drainNotices()
}

// commit is the blur of the focused row.
func (m *ApplicationModel) commit() {
	spec := m.current()
	switch spec.Kind {
	case kindText, kindLong:
		m.ctrl.Blur(spec.Key)
	case kindFile:
		path := strings.TrimSpace(m.input.Value())
		ref := fileRef(m.ctrl.Data(), spec.Key)
		switch {
		case path == "" && ref != nil:
			_ = m.ctrl.ClearFile(spec.Key)
			m.ctrl.Blur(spec.Key)
		case path == "":
			m.ctrl.Blur(spec.Key)
		case ref == nil || ref.Path != expandHome(path):
			if err := m.ctrl.AttachFilePath(spec.Key, expandHome(path)); err != nil {
				m.logger.Info("attachment rejected", "field", spec.Key.String(), "error", err)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Focus and input binding
// ---------------------------------------------------------------------------

func (m *ApplicationModel) refresh() {
	m.specs = stepSpecs(m.ctrl.Step(), m.ctrl.Data())
	if m.focus >= len(m.specs) {
		m.focus = len(m.specs) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	m.loadInput()
}

func (m ApplicationModel) current() fieldSpec {
	if m.focus < 0 || m.focus >= len(m.specs) {
		return fieldSpec{Kind: kindSection}
	}
	return m.specs[m.focus]
}

func (m ApplicationModel) editable() bool {
	switch m.current().Kind {
	case kindText, kindLong, kindFile, kindAdder:
		return m.dialog == nil && !m.ctrl.Locked()
	}
	return false
}

// loadInput binds the text input to the focused row.
func (m *ApplicationModel) loadInput() {
	spec := m.current()
	m.input.Placeholder = spec.Placeholder
	switch spec.Kind {
	case kindText, kindLong:
		value, _ := m.ctrl.Data().Get(spec.Key)
		m.input.SetValue(value)
	case kindFile:
		value := ""
		if ref := fileRef(m.ctrl.Data(), spec.Key); ref != nil {
			value = ref.Path
		}
		m.input.SetValue(value)
	case kindAdder:
		m.input.SetValue("")
	default:
		m.input.SetValue("")
		m.input.Blur()
		return
	}
	m.input.Focus()
}

func (m *ApplicationModel) focusFirstError() {
	errs := m.ctrl.Errors()
	for i, s := range m.specs {
		if errs.Has(s.Key) {
			m.focus = i
			break
		}
	}
	m.loadInput()
}

func (m ApplicationModel) invalidSteps() map[int]bool {
	out := map[int]bool{}
	for key := range m.ctrl.Errors() {
		out[int(application.StepOf(key))] = true
	}
	return out
}

func (m *ApplicationModel) drainNotices() {
	if n := m.ctrl.Notices(); len(n) > 0 {
		m.notices = n
	}
}

func (m ApplicationModel) headerStatus() string {
	if m.ctrl.Submitting() {
		return "submitting"
	}
	for i := len(m.notices) - 1; i >= 0; i-- {
		if m.notices[i].Message == "Draft saved" {
			return "draft saved " + m.notices[i].At.Local().Format("15:04")
		}
	}
	return "autosave on"
}

func noticeLine(n wizard.Notice) string {
	switch n.Level {
	case wizard.LevelSuccess:
		return styles.StatusBadge("success") + " " + n.Message
	case wizard.LevelWarn:
		return styles.StatusBadge("warn") + " " + n.Message
	case wizard.LevelError:
		return styles.StatusBadge("error") + " " + n.Message
	default:
		return styles.StatusBadge("info") + " " + n.Message
	}
}

// splitQuickAdd parses "Go, Expert" into a name and an optional level.
func splitQuickAdd(s string) (string, string) {
	name, detail, _ := strings.Cut(s, ",")
	return strings.TrimSpace(name), strings.TrimSpace(detail)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// ---------------------------------------------------------------------------
// Explain content per step
// ---------------------------------------------------------------------------

func explainContent(s application.Step) string {
	switch s {
	case application.StepPersonal:
		return "Names take letters, spaces, apostrophes, dots and hyphens. The phone number is formatted as you type and a LinkedIn handle is expanded to a full profile URL when you leave the field."
	case application.StepSummary:
		return "The summary must be between 50 and 1000 characters. Add skills and languages with the quick-add rows: type \"Go, Expert\" and press ctrl+n."
	case application.StepExperience:
		return "Dates use YYYY-MM. The end date may not precede the start date; ticking \"I currently work here\" clears it."
	case application.StepProjectsEducation:
		return "Years have four digits and start at 1900; an expected graduation year may lie up to six years ahead. GPA is optional and goes from 0 to 10."
	case application.StepDocuments:
		return "Documents are checked for size and real content type before they are attached. A rejected file leaves the previous one in place."
	case application.StepReview:
		return "Every step is validated again on submit. If anything is wrong you are sent back to the first step with every problem highlighted."
	}
	return ""
}
