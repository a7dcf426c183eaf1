package wizard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/application/applicationtest"
	"github.com/Dallionking/talenthub/internal/draft"
)

type fakeSubmitter struct {
	calls int
	got   *application.FormData
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, data *application.FormData) (Receipt, error) {
	f.calls++
	f.got = data
	if f.err != nil {
		return Receipt{}, f.err
	}
	return Receipt{ID: "r-1", SubmittedAt: applicationtest.Now}, nil
}

type harness struct {
	c     *Controller
	mem   *draft.MemoryStorage
	store *draft.Store
	sub   *fakeSubmitter
}

func newHarness(t *testing.T, quota int64) *harness {
	t.Helper()
	mem := draft.NewMemoryStorage(quota)
	store := draft.NewStore(mem, draft.WithClock(applicationtest.Clock))
	sub := &fakeSubmitter{}
	c := New(
		WithValidator(application.NewValidator(application.WithNow(applicationtest.Clock))),
		WithStore(store),
		WithSubmitter(sub),
		WithClock(applicationtest.Clock),
	)
	return &harness{c: c, mem: mem, store: store, sub: sub}
}

// load puts data into the controller as a restored draft on step.
func (h *harness) load(data *application.FormData, step application.Step) {
	h.c.RestoreDraft(draft.Snapshot{Data: data, Step: step})
	h.c.Notices()
}

func key(f string) application.FieldKey { return application.Key(f) }

func TestNextStaysOnInvalidStep(t *testing.T) {
	h := newHarness(t, 0)
	if h.c.Next() {
		t.Fatal("advanced past an empty personal step")
	}
	if h.c.Step() != application.StepPersonal {
		t.Errorf("step = %v", h.c.Step())
	}
	if h.c.Error(key(application.FieldEmail)) != application.MsgRequired {
		t.Errorf("errors = %v", h.c.Errors().Strings())
	}
	if !h.c.Touched(key(application.FieldFirstName)) {
		t.Error("Next did not mark the step touched")
	}
}

func TestNextAdvancesAndPersists(t *testing.T) {
	h := newHarness(t, 0)
	h.load(applicationtest.Valid(), application.StepPersonal)

	for want := application.StepSummary; want <= application.StepReview; want++ {
		if !h.c.Next() {
			t.Fatalf("Next failed on %v: %v", h.c.Step(), h.c.Errors().Strings())
		}
		if h.c.Step() != want {
			t.Fatalf("step = %v, want %v", h.c.Step(), want)
		}
	}
	if h.c.Next() {
		t.Error("Next moved past the review step")
	}

	snap, ok := h.store.Load()
	if !ok || snap.Step != application.StepReview {
		t.Errorf("draft step = %v, %v", snap.Step, ok)
	}
}

func TestBack(t *testing.T) {
	h := newHarness(t, 0)
	if h.c.Back() {
		t.Error("Back moved before the first step")
	}
	h.load(application.NewFormData(), application.StepExperience)
	if !h.c.Back() || h.c.Step() != application.StepSummary {
		t.Errorf("step = %v", h.c.Step())
	}
	if !h.c.Errors().Empty() {
		t.Error("Back validated")
	}
}

func TestSetFieldFormatsAndRevalidatesTouched(t *testing.T) {
	h := newHarness(t, 0)
	phone := key(application.FieldPhone)

	if err := h.c.SetField(phone, "555"); err != nil {
		t.Fatal(err)
	}
	if h.c.Error(phone) != "" {
		t.Error("untouched field validated while typing")
	}
	h.c.Blur(phone)
	if h.c.Error(phone) == "" {
		t.Error("blur did not validate")
	}
	if err := h.c.SetField(phone, "5551234567"); err != nil {
		t.Fatal(err)
	}
	if h.c.Data().Phone != "(555) 123-4567" {
		t.Errorf("phone = %q", h.c.Data().Phone)
	}
	if h.c.Error(phone) != "" {
		t.Errorf("error not cleared: %q", h.c.Error(phone))
	}

	if err := h.c.SetField(key("nickname"), "x"); !errors.Is(err, application.ErrUnknownField) {
		t.Errorf("unknown field: %v", err)
	}
}

func TestBlurNormalizesLinkedIn(t *testing.T) {
	h := newHarness(t, 0)
	li := key(application.FieldLinkedIn)
	h.c.SetField(li, "jdoe")
	h.c.Blur(li)
	if h.c.Data().LinkedIn != "https://linkedin.com/in/jdoe" {
		t.Errorf("linkedIn = %q", h.c.Data().LinkedIn)
	}
	if h.c.Error(li) != "" {
		t.Errorf("error = %q", h.c.Error(li))
	}
}

func TestCurrentlyWorkingClearsEndDate(t *testing.T) {
	h := newHarness(t, 0)
	end := application.EntryKey(application.SectionExperiences, 0, application.FieldEndDate)
	h.c.Blur(end)
	if h.c.Error(end) != application.MsgRequired {
		t.Fatalf("error = %q", h.c.Error(end))
	}
	h.c.SetField(application.EntryKey(application.SectionExperiences, 0, application.FieldCurrentlyWorking), "true")
	if h.c.Error(end) != "" {
		t.Errorf("end date still flagged: %q", h.c.Error(end))
	}
}

func TestAutosaveFailureBecomesNotice(t *testing.T) {
	h := newHarness(t, 32)
	if err := h.c.SetField(key(application.FieldFirstName), "Jane"); err != nil {
		t.Fatalf("save failure leaked out of SetField: %v", err)
	}
	notices := h.c.Notices()
	if len(notices) == 0 || notices[0].Level != LevelWarn {
		t.Fatalf("notices = %+v", notices)
	}
	if h.c.Data().FirstName != "Jane" {
		t.Error("edit lost on save failure")
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	h := newHarness(t, 0)
	if _, err := h.c.Submit(context.Background()); !errors.Is(err, ErrNotOnReview) {
		t.Errorf("got %v", err)
	}
}

func TestSubmitInvalidReturnsToFirstStep(t *testing.T) {
	h := newHarness(t, 0)
	data := applicationtest.Valid()
	data.Email = "bad"
	data.TermsAccepted = false
	h.load(data, application.StepReview)

	_, err := h.c.Submit(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if h.c.Step() != application.StepPersonal {
		t.Errorf("step = %v", h.c.Step())
	}
	want := map[string]string{
		"email":         "Please enter a valid email address",
		"termsAccepted": "You must accept the terms and conditions",
	}
	if diff := cmp.Diff(want, h.c.Errors().Strings()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if h.sub.calls != 0 {
		t.Error("submitter called with invalid data")
	}
}

func TestSubmitInvalidNamesFirstBadStep(t *testing.T) {
	h := newHarness(t, 0)
	data := applicationtest.Valid()
	data.DesiredPosition = ""
	h.load(data, application.StepReview)

	if _, err := h.c.BeginSubmit(); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v", err)
	}
	notices := h.c.Notices()
	if len(notices) == 0 || !strings.Contains(notices[len(notices)-1].Message, "starting with Summary") {
		t.Errorf("notices = %+v", notices)
	}
}

func TestSubmitSuccessThenReset(t *testing.T) {
	h := newHarness(t, 0)
	h.load(applicationtest.Valid(), application.StepReview)
	h.c.SaveDraft()

	r, err := h.c.Submit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "r-1" || h.sub.calls != 1 {
		t.Errorf("receipt = %+v, calls = %d", r, h.sub.calls)
	}
	if diff := cmp.Diff(applicationtest.Valid(), h.sub.got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("submitted data (-want +got):\n%s", diff)
	}
	notices := h.c.Notices()
	if len(notices) == 0 || notices[len(notices)-1].Level != LevelSuccess {
		t.Errorf("notices = %+v", notices)
	}

	// Until Reset the same application cannot go out again.
	if !h.c.Submitted() || !h.c.Locked() {
		t.Error("controller not locked after success")
	}
	if _, err := h.c.BeginSubmit(); !errors.Is(err, ErrSubmitting) {
		t.Errorf("second submit: %v", err)
	}

	h.c.Reset()
	if h.c.Locked() {
		t.Error("still locked after reset")
	}
	if h.c.Step() != application.StepPersonal || !h.c.Errors().Empty() {
		t.Errorf("state after reset: %v %v", h.c.Step(), h.c.Errors().Strings())
	}
	if diff := cmp.Diff(application.NewFormData(), h.c.Data()); diff != "" {
		t.Errorf("data after reset (-want +got):\n%s", diff)
	}
	for _, key := range draft.Keys() {
		if _, ok, _ := h.mem.Get(key); ok {
			t.Errorf("draft key %s not cleared", key)
		}
	}
}

func TestSubmitFailureKeepsData(t *testing.T) {
	h := newHarness(t, 0)
	h.sub.err = errors.New("disk full")
	h.load(applicationtest.Valid(), application.StepReview)

	if _, err := h.c.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if h.c.Submitting() {
		t.Error("still submitting")
	}
	if h.c.Step() != application.StepReview || h.c.Data().FirstName != "Jane" {
		t.Error("failure changed the wizard state")
	}
	notices := h.c.Notices()
	if len(notices) == 0 || notices[0].Level != LevelError {
		t.Errorf("notices = %+v", notices)
	}
}

func TestBeginSubmitTwice(t *testing.T) {
	h := newHarness(t, 0)
	h.load(applicationtest.Valid(), application.StepReview)
	if _, err := h.c.BeginSubmit(); err != nil {
		t.Fatal(err)
	}
	if _, err := h.c.BeginSubmit(); !errors.Is(err, ErrSubmitting) {
		t.Errorf("got %v", err)
	}
}

func TestAttachFileRejectsOversizeAndKeepsPrevious(t *testing.T) {
	h := newHarness(t, 0)
	resume := key(application.FieldResume)
	good := application.FileRef{Name: "cv.pdf", Size: 1024, MIMEType: "application/pdf"}
	if err := h.c.AttachFile(resume, good); err != nil {
		t.Fatal(err)
	}

	big := application.FileRef{Name: "big.pdf", Size: 6 * 1024 * 1024, MIMEType: "application/pdf"}
	err := h.c.AttachFile(resume, big)
	if !errors.Is(err, application.ErrFileTooLarge) {
		t.Fatalf("got %v", err)
	}
	if h.c.Data().Resume.Name != "cv.pdf" {
		t.Errorf("resume replaced by rejected file: %+v", h.c.Data().Resume)
	}
	if h.c.Error(resume) != "File must be 5 MB or smaller" {
		t.Errorf("error = %q", h.c.Error(resume))
	}

	if err := h.c.AttachFile(key(application.FieldEmail), good); !errors.Is(err, application.ErrUnknownField) {
		t.Errorf("attach to text field: %v", err)
	}
}

func TestAttachFilePathDetectsType(t *testing.T) {
	h := newHarness(t, 0)
	dir := t.TempDir()
	pdf := filepath.Join(dir, "cv.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.c.AttachFilePath(key(application.FieldResume), pdf); err != nil {
		t.Fatalf("AttachFilePath: %v", err)
	}
	got := h.c.Data().Resume
	if got.MIMEType != "application/pdf" || got.Name != "cv.pdf" || got.Path != pdf {
		t.Errorf("resume = %+v", got)
	}

	fake := filepath.Join(dir, "notes.pdf")
	if err := os.WriteFile(fake, []byte("just some text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.c.AttachFilePath(key(application.FieldCoverLetter), fake); !errors.Is(err, application.ErrFileType) {
		t.Errorf("text renamed to .pdf: %v", err)
	}

	if err := h.c.AttachFilePath(key(application.FieldCoverLetter), filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestRemoveArrayItemPurgesOnlyThatIndex(t *testing.T) {
	h := newHarness(t, 0)
	h.c.AddArrayItem(application.SectionExperiences)
	h.load(h.c.Data(), application.StepExperience)
	h.c.Next()

	if !h.c.Errors().Has(application.EntryKey(application.SectionExperiences, 1, application.FieldJobTitle)) {
		t.Fatalf("expected errors on entry 1: %v", h.c.Errors().Strings())
	}
	if err := h.c.RemoveArrayItem(application.SectionExperiences, 1); err != nil {
		t.Fatal(err)
	}
	for k := range h.c.Errors() {
		if k.Section == application.SectionExperiences && k.Index == 1 {
			t.Errorf("stale key %s", k)
		}
	}
	if !h.c.Errors().Has(application.EntryKey(application.SectionExperiences, 0, application.FieldJobTitle)) {
		t.Error("entry 0 errors dropped")
	}
	if !h.c.Errors().Has(application.EntryKey(application.SectionExperiences, 2, application.FieldJobTitle)) {
		t.Error("entry 2 errors dropped")
	}
	if len(h.c.Data().Experiences) != 2 {
		t.Errorf("experiences = %d", len(h.c.Data().Experiences))
	}
}

func TestSkillsLanguagesHobbies(t *testing.T) {
	h := newHarness(t, 0)
	if h.c.AddSkill("  ", "expert") {
		t.Error("blank skill added")
	}
	if !h.c.AddSkill("Go", "expert") || h.c.AddSkill("go", "") {
		t.Error("duplicate handling")
	}
	h.c.AddLanguage("English", "native")
	h.c.AddHobby("chess")
	h.c.AddHobby("climbing")

	if err := h.c.RemoveHobby(0); err != nil {
		t.Fatal(err)
	}
	want := []application.Hobby{{Name: "climbing"}}
	if diff := cmp.Diff(want, h.c.Data().Hobbies); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if err := h.c.RemoveLanguage(3); !errors.Is(err, application.ErrIndexOutOfRange) {
		t.Errorf("got %v", err)
	}
	if len(h.c.Data().Skills) != 1 || h.c.Data().Skills[0].Level != "expert" {
		t.Errorf("skills = %+v", h.c.Data().Skills)
	}
}

func TestPendingDraftRestoreDiscard(t *testing.T) {
	h := newHarness(t, 0)
	if _, ok := h.c.PendingDraft(); ok {
		t.Fatal("draft offered on empty storage")
	}

	// A blank form is saved but not worth offering.
	h.c.SaveDraft()
	if _, ok := h.c.PendingDraft(); ok {
		t.Error("blank draft offered")
	}

	h.store.Save(applicationtest.Valid(), application.StepExperience)
	fresh := New(WithStore(h.store), WithClock(applicationtest.Clock))
	snap, ok := fresh.PendingDraft()
	if !ok {
		t.Fatal("draft not offered")
	}
	fresh.RestoreDraft(snap)
	if fresh.Step() != application.StepExperience || fresh.Data().Email != "jane.doe@example.com" {
		t.Errorf("restored %v %q", fresh.Step(), fresh.Data().Email)
	}

	fresh.DiscardDraft()
	if _, ok := h.store.Load(); ok {
		t.Error("draft survived discard")
	}
}
