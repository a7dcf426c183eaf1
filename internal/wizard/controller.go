// Package wizard drives the six-step application: field edits, step
// navigation, draft autosave, uploads and the final submission.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/draft"
	"github.com/Dallionking/talenthub/internal/logging"
)

var (
	// ErrValidation is returned by Submit when any step has errors.
	ErrValidation = errors.New("application has validation errors")
	// ErrNotOnReview is returned by Submit before the review step.
	ErrNotOnReview = errors.New("submit is only available on the review step")
	// ErrSubmitting is returned while a submission is in flight, and after a
	// successful one until Reset.
	ErrSubmitting = errors.New("submission already in progress")
)

// Controller owns the wizard state. It is not safe for concurrent use; the
// UI calls it from its update loop only.
type Controller struct {
	validator *application.Validator
	store     *draft.Store
	submitter Submitter
	logger    *slog.Logger
	now       func() time.Time

	step    application.Step
	data    *application.FormData
	errs    application.ErrorMap
	touched map[application.FieldKey]bool
	notices []Notice

	submitting bool
	submitted  bool
	receipt    *Receipt
}

// Option configures a Controller.
type Option func(*Controller)

// WithValidator replaces the field validator.
func WithValidator(v *application.Validator) Option {
	return func(c *Controller) { c.validator = v }
}

// WithStore enables draft autosave.
func WithStore(s *draft.Store) Option {
	return func(c *Controller) { c.store = s }
}

// WithSubmitter sets where validated applications go.
func WithSubmitter(s Submitter) Option {
	return func(c *Controller) { c.submitter = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock replaces the clock used to stamp notices.
func WithClock(fn func() time.Time) Option {
	return func(c *Controller) { c.now = fn }
}

// New returns a controller on the first step with an empty application.
func New(opts ...Option) *Controller {
	c := &Controller{
		validator: application.NewValidator(),
		logger:    logging.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetState()
	return c
}

func (c *Controller) resetState() {
	c.step = application.StepPersonal
	c.data = application.NewFormData()
	c.errs = application.ErrorMap{}
	c.touched = make(map[application.FieldKey]bool)
	c.receipt = nil
	c.submitting = false
	c.submitted = false
}

// Step returns the current step.
func (c *Controller) Step() application.Step { return c.step }

// Data returns the live application. Callers must not modify it.
func (c *Controller) Data() *application.FormData { return c.data }

// Errors returns the current error map. Callers must not modify it.
func (c *Controller) Errors() application.ErrorMap { return c.errs }

// Error returns the message for key, or "".
func (c *Controller) Error(key application.FieldKey) string { return c.errs[key] }

// Touched reports whether key has been visited.
func (c *Controller) Touched(key application.FieldKey) bool { return c.touched[key] }

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool { return c.submitting }

// Submitted reports whether the application went through and the wizard is
// waiting for Reset. The form is read-only until then.
func (c *Controller) Submitted() bool { return c.submitted }

// Locked reports whether edits and submission are refused.
func (c *Controller) Locked() bool { return c.submitting || c.submitted }

// Receipt returns the receipt of the last successful submission, if any.
func (c *Controller) Receipt() (Receipt, bool) {
	if c.receipt == nil {
		return Receipt{}, false
	}
	return *c.receipt, true
}

// Validator returns the validator in use.
func (c *Controller) Validator() *application.Validator { return c.validator }

// Submitter returns the configured submitter, or nil.
func (c *Controller) Submitter() Submitter { return c.submitter }

// Notices returns and clears the pending notices.
func (c *Controller) Notices() []Notice {
	n := c.notices
	c.notices = nil
	return n
}

func (c *Controller) notify(level Level, format string, args ...any) {
	c.notices = append(c.notices, Notice{Level: level, Message: fmt.Sprintf(format, args...), At: c.now()})
}

// SetField stores value under key. The phone number is formatted as it is
// typed. A touched field is re-validated immediately, together with any
// field whose rule depends on it.
func (c *Controller) SetField(key application.FieldKey, value string) error {
	if key.IsFlat() && key.Field == application.FieldPhone {
		value = application.FormatPhone(value)
	}
	if err := c.data.Set(key, value); err != nil {
		return err
	}
	if key.Section == application.SectionExperiences && key.Field == application.FieldCurrentlyWorking && c.data.Experiences[key.Index].CurrentlyWorking {
		c.data.Experiences[key.Index].EndDate = ""
	}

	c.revalidate(key)
	for _, dep := range dependents(key) {
		c.revalidate(dep)
	}
	c.autosave()
	return nil
}

// Blur marks key touched and validates it. The LinkedIn field is normalized
// on blur.
func (c *Controller) Blur(key application.FieldKey) {
	if key.IsFlat() && key.Field == application.FieldLinkedIn {
		if v := application.NormalizeLinkedIn(c.data.LinkedIn); v != c.data.LinkedIn {
			c.data.LinkedIn = v
			c.autosave()
		}
	}
	c.touched[key] = true
	c.revalidate(key)
}

func (c *Controller) revalidate(key application.FieldKey) {
	if !c.touched[key] && !c.errs.Has(key) {
		return
	}
	value, ok := c.data.Get(key)
	if !ok {
		return
	}
	c.errs.Apply(key, c.validator.ValidateField(key, value, c.data))
}

// dependents lists the fields whose rule reads key.
func dependents(key application.FieldKey) []application.FieldKey {
	switch {
	case key.Section == application.SectionExperiences &&
		(key.Field == application.FieldStartDate || key.Field == application.FieldCurrentlyWorking):
		return []application.FieldKey{application.EntryKey(key.Section, key.Index, application.FieldEndDate)}
	case key.Section == application.SectionEducation && key.Field == application.FieldStartYear:
		return []application.FieldKey{application.EntryKey(key.Section, key.Index, application.FieldEndYear)}
	}
	return nil
}

// Next validates the current step. With errors it stays put and reports
// false; otherwise it advances one step and saves the draft.
func (c *Controller) Next() bool {
	errs := c.validator.ValidateStep(c.step, c.data)
	c.replaceStepErrors(c.step, errs)
	for _, key := range application.StepFields(c.step, c.data) {
		c.touched[key] = true
	}
	if !errs.Empty() {
		return false
	}
	if c.step >= application.StepReview {
		return false
	}
	c.step++
	c.autosave()
	return true
}

// Back moves one step back without validating.
func (c *Controller) Back() bool {
	if c.step <= application.StepPersonal {
		return false
	}
	c.step--
	c.autosave()
	return true
}

func (c *Controller) replaceStepErrors(s application.Step, errs application.ErrorMap) {
	for key := range c.errs {
		if application.StepOf(key) == s {
			delete(c.errs, key)
		}
	}
	c.errs.Merge(errs)
}

// SaveDraft writes the current state without changing step.
func (c *Controller) SaveDraft() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(c.data, c.step); err != nil {
		c.notify(LevelWarn, "Could not save your draft: %v", err)
		return err
	}
	c.notify(LevelInfo, "Draft saved")
	return nil
}

func (c *Controller) autosave() {
	if c.store == nil || c.Locked() {
		return
	}
	if err := c.store.Save(c.data, c.step); err != nil {
		c.notify(LevelWarn, "Could not save your draft: %v", err)
	}
}

// BeginSubmit validates every step. When anything is invalid the wizard
// returns to the first step with every error shown and ErrValidation is
// returned. Otherwise the controller enters the submitting state and hands
// back a copy of the application for the Submitter.
func (c *Controller) BeginSubmit() (*application.FormData, error) {
	if c.Locked() {
		return nil, ErrSubmitting
	}
	if c.step != application.StepReview {
		return nil, ErrNotOnReview
	}
	errs := c.validator.ValidateAll(c.data)
	if !errs.Empty() {
		c.errs = errs
		for key := range errs {
			c.touched[key] = true
		}
		c.step = application.StepPersonal
		first, _ := application.FirstInvalidStep(errs)
		c.logger.Info("submit blocked by validation", "errors", errs.Strings())
		c.notify(LevelError, "Please fix the %d highlighted field(s) before submitting, starting with %s", len(errs), first)
		c.autosave()
		return nil, ErrValidation
	}
	c.submitting = true
	return c.data.Clone(), nil
}

// FinishSubmit records the outcome of the Submitter. On failure the data is
// kept so the candidate can retry.
func (c *Controller) FinishSubmit(r Receipt, err error) error {
	c.submitting = false
	if err != nil {
		c.logger.Error("submission failed", "error", err)
		if errors.Is(err, context.Canceled) {
			c.notify(LevelWarn, "Submission cancelled")
		} else {
			c.notify(LevelError, "Submission failed: %v", err)
		}
		c.autosave()
		return err
	}
	c.receipt = &r
	c.submitted = true
	c.notify(LevelSuccess, "Application submitted. Reference %s", r.ID)
	return nil
}

// Submit runs BeginSubmit, the Submitter and FinishSubmit in one call.
func (c *Controller) Submit(ctx context.Context) (Receipt, error) {
	if c.submitter == nil {
		return Receipt{}, errors.New("no submitter configured")
	}
	payload, err := c.BeginSubmit()
	if err != nil {
		return Receipt{}, err
	}
	r, err := c.submitter.Submit(ctx, payload)
	if err := c.FinishSubmit(r, err); err != nil {
		return Receipt{}, err
	}
	return r, nil
}

// Reset clears the application, errors, touched set and stored draft and
// returns to the first step.
func (c *Controller) Reset() {
	c.resetState()
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			c.notify(LevelWarn, "Could not clear your draft: %v", err)
		}
	}
}

// AttachFile sets the resume or cover letter. A file breaking the upload
// policy is rejected: the previous file stays and the field shows the error.
func (c *Controller) AttachFile(key application.FieldKey, ref application.FileRef) error {
	slot, err := c.fileSlot(key)
	if err != nil {
		return err
	}
	c.touched[key] = true
	policy := c.validator.Policy()
	if err := policy.Check(ref); err != nil {
		c.errs[key] = policy.Message(err)
		return err
	}
	*slot = &ref
	delete(c.errs, key)
	c.autosave()
	return nil
}

// AttachFilePath reads size and content type from disk and attaches the
// file at path.
func (c *Controller) AttachFilePath(key application.FieldKey, path string) error {
	if _, err := c.fileSlot(key); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		c.touched[key] = true
		c.errs[key] = "Could not read the file"
		if err == nil {
			err = fmt.Errorf("%s is a directory", path)
		}
		return err
	}
	mt, err := mimetype.DetectFile(abs)
	if err != nil {
		c.touched[key] = true
		c.errs[key] = "Could not read the file"
		return fmt.Errorf("detect type of %s: %w", path, err)
	}
	return c.AttachFile(key, application.FileRef{
		Name:     filepath.Base(abs),
		Path:     abs,
		Size:     info.Size(),
		MIMEType: mt.String(),
	})
}

// ClearFile removes an attached file.
func (c *Controller) ClearFile(key application.FieldKey) error {
	slot, err := c.fileSlot(key)
	if err != nil {
		return err
	}
	*slot = nil
	c.revalidate(key)
	c.autosave()
	return nil
}

func (c *Controller) fileSlot(key application.FieldKey) (**application.FileRef, error) {
	if key.IsFlat() {
		switch key.Field {
		case application.FieldResume:
			return &c.data.Resume, nil
		case application.FieldCoverLetter:
			return &c.data.CoverLetter, nil
		}
	}
	return nil, fmt.Errorf("attach to %s: %w", key, application.ErrUnknownField)
}

// AddArrayItem appends an empty entry to s and returns its index.
func (c *Controller) AddArrayItem(s application.Section) (int, error) {
	i, err := c.data.Append(s)
	if err != nil {
		return 0, err
	}
	delete(c.errs, application.Key(string(s)))
	c.autosave()
	return i, nil
}

// RemoveArrayItem deletes entry i of s and drops the errors and touched
// marks recorded for that index. Keys of other indices are left alone.
func (c *Controller) RemoveArrayItem(s application.Section, i int) error {
	if err := c.data.Remove(s, i); err != nil {
		return err
	}
	c.errs.PurgeEntry(s, i)
	for key := range c.touched {
		if key.Section == s && key.Index == i {
			delete(c.touched, key)
		}
	}
	c.autosave()
	return nil
}

// AddSkill appends a named skill. Blank and duplicate names are ignored.
func (c *Controller) AddSkill(name, level string) bool {
	name = strings.TrimSpace(name)
	for _, s := range c.data.Skills {
		if strings.EqualFold(s.Name, name) {
			return false
		}
	}
	return c.addNamed(application.SectionSkills, name, func(i int) {
		c.data.Skills[i] = application.Skill{Name: name, Level: strings.TrimSpace(level)}
	})
}

// RemoveSkill removes skill i.
func (c *Controller) RemoveSkill(i int) error {
	return c.RemoveArrayItem(application.SectionSkills, i)
}

// AddLanguage appends a language. Blank and duplicate names are ignored.
func (c *Controller) AddLanguage(name, proficiency string) bool {
	name = strings.TrimSpace(name)
	for _, l := range c.data.Languages {
		if strings.EqualFold(l.Name, name) {
			return false
		}
	}
	return c.addNamed(application.SectionLanguages, name, func(i int) {
		c.data.Languages[i] = application.Language{Name: name, Proficiency: strings.TrimSpace(proficiency)}
	})
}

// RemoveLanguage removes language i.
func (c *Controller) RemoveLanguage(i int) error {
	return c.RemoveArrayItem(application.SectionLanguages, i)
}

// AddHobby appends a hobby. Blank and duplicate names are ignored.
func (c *Controller) AddHobby(name string) bool {
	name = strings.TrimSpace(name)
	for _, h := range c.data.Hobbies {
		if strings.EqualFold(h.Name, name) {
			return false
		}
	}
	return c.addNamed(application.SectionHobbies, name, func(i int) {
		c.data.Hobbies[i] = application.Hobby{Name: name}
	})
}

// RemoveHobby removes hobby i.
func (c *Controller) RemoveHobby(i int) error {
	return c.RemoveArrayItem(application.SectionHobbies, i)
}

func (c *Controller) addNamed(s application.Section, name string, fill func(i int)) bool {
	if name == "" {
		return false
	}
	i, err := c.data.Append(s)
	if err != nil {
		return false
	}
	fill(i)
	delete(c.errs, application.Key(string(s)))
	c.autosave()
	return true
}

// PendingDraft returns a stored draft worth offering to restore.
func (c *Controller) PendingDraft() (draft.Snapshot, bool) {
	if c.store == nil {
		return draft.Snapshot{}, false
	}
	snap, ok := c.store.Load()
	if !ok || !draft.HasMeaningfulData(snap.Data) {
		return draft.Snapshot{}, false
	}
	return snap, true
}

// RestoreDraft replaces the current state with snap.
func (c *Controller) RestoreDraft(snap draft.Snapshot) {
	c.resetState()
	if snap.Data != nil {
		c.data = snap.Data
	}
	if snap.Step.Valid() {
		c.step = snap.Step
	}
	if snap.SavedAt.IsZero() {
		c.notify(LevelInfo, "Draft restored")
	} else {
		c.notify(LevelInfo, "Draft from %s restored", snap.SavedAt.Local().Format("Jan 2 15:04"))
	}
}

// DiscardDraft deletes the stored draft.
func (c *Controller) DiscardDraft() {
	if c.store == nil {
		return
	}
	if err := c.store.Clear(); err != nil {
		c.notify(LevelWarn, "Could not discard your draft: %v", err)
		return
	}
	c.notify(LevelInfo, "Draft discarded")
}
