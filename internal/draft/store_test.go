package draft

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/application/applicationtest"
)

func newStore(s Storage) *Store {
	return NewStore(s, WithClock(applicationtest.Clock))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	storages := map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage { return NewMemoryStorage(0) },
		"file": func(t *testing.T) Storage {
			fs, err := NewFileStorage(t.TempDir(), 0)
			if err != nil {
				t.Fatal(err)
			}
			return fs
		},
	}
	for name, mk := range storages {
		t.Run(name, func(t *testing.T) {
			store := newStore(mk(t))
			data := applicationtest.Valid()

			if err := store.Save(data, application.StepDocuments); err != nil {
				t.Fatalf("Save: %v", err)
			}
			snap, ok := store.Load()
			if !ok {
				t.Fatal("Load reported no draft")
			}
			if diff := cmp.Diff(data, snap.Data, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("data mismatch (-want +got):\n%s", diff)
			}
			if snap.Step != application.StepDocuments {
				t.Errorf("step = %v, want %v", snap.Step, application.StepDocuments)
			}
			if !snap.SavedAt.Equal(applicationtest.Now.Truncate(time.Second)) {
				t.Errorf("savedAt = %v", snap.SavedAt)
			}
		})
	}
}

func TestLoadAbsent(t *testing.T) {
	store := newStore(NewMemoryStorage(0))
	if _, ok := store.Load(); ok {
		t.Fatal("empty storage produced a draft")
	}
}

func TestLoadTreatsCorruptDataAsAbsent(t *testing.T) {
	mem := NewMemoryStorage(0)
	store := newStore(mem)
	if err := store.Save(applicationtest.Valid(), application.StepSummary); err != nil {
		t.Fatal(err)
	}
	mem.Set(KeyData, `{"firstName": "Jane",`)
	if _, ok := store.Load(); ok {
		t.Fatal("corrupt JSON produced a draft")
	}
}

func TestLoadIgnoresOtherSchemaVersion(t *testing.T) {
	mem := NewMemoryStorage(0)
	store := newStore(mem)
	if err := store.Save(applicationtest.Valid(), application.StepSummary); err != nil {
		t.Fatal(err)
	}

	mem.Set(KeySchemaVersion, "0")
	if _, ok := store.Load(); ok {
		t.Error("old schema version produced a draft")
	}
	mem.Remove(KeySchemaVersion)
	if _, ok := store.Load(); ok {
		t.Error("missing schema version produced a draft")
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	mem := NewMemoryStorage(0)
	mem.Set(KeySchemaVersion, SchemaVersion)
	mem.Set(KeyData, `{"firstName":"Jane","obsolete":true}`)
	mem.Set(KeyStep, "42")

	snap, ok := newStore(mem).Load()
	if !ok {
		t.Fatal("no draft")
	}
	want := application.NewFormData()
	want.FirstName = "Jane"
	if diff := cmp.Diff(want, snap.Data); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if snap.Step != application.StepPersonal {
		t.Errorf("out of range step loaded as %v", snap.Step)
	}
}

func TestSaveReportsQuota(t *testing.T) {
	store := newStore(NewMemoryStorage(64))
	err := store.Save(applicationtest.Valid(), application.StepPersonal)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("got %v, want ErrQuotaExceeded", err)
	}
}

func TestFileStorageQuotaIgnoresOverwrittenKey(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set("a", strings.Repeat("x", 8)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Set("a", strings.Repeat("y", 10)); err != nil {
		t.Errorf("overwrite within quota: %v", err)
	}
	if err := fs.Set("b", "z"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("got %v, want ErrQuotaExceeded", err)
	}
	used, _ := fs.Used()
	if used != 10 {
		t.Errorf("used = %d", used)
	}
}

func TestClearRemovesEveryKey(t *testing.T) {
	mem := NewMemoryStorage(0)
	store := newStore(mem)
	if err := store.Save(applicationtest.Valid(), application.StepReview); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	for _, key := range Keys() {
		if _, ok, _ := mem.Get(key); ok {
			t.Errorf("%s left after Clear", key)
		}
	}
	if _, ok := store.Load(); ok {
		t.Error("draft still loads after Clear")
	}
}

func TestHasMeaningfulData(t *testing.T) {
	if HasMeaningfulData(application.NewFormData()) {
		t.Error("new form reported meaningful")
	}
	if HasMeaningfulData(nil) {
		t.Error("nil form reported meaningful")
	}

	blank := application.NewFormData()
	blank.FirstName = "   "
	if HasMeaningfulData(blank) {
		t.Error("whitespace reported meaningful")
	}

	cases := map[string]func(d *application.FormData){
		"scalar":     func(d *application.FormData) { d.Email = "a@b.co" },
		"nested":     func(d *application.FormData) { d.Education[0].Degree = "BSc" },
		"list entry": func(d *application.FormData) { d.Hobbies = append(d.Hobbies, application.Hobby{Name: "chess"}) },
		"checkbox":   func(d *application.FormData) { d.TermsAccepted = true },
		"file":       func(d *application.FormData) { d.CoverLetter = &application.FileRef{Name: "cl.pdf"} },
	}
	for name, mutate := range cases {
		d := application.NewFormData()
		mutate(d)
		if !HasMeaningfulData(d) {
			t.Errorf("%s: not reported meaningful", name)
		}
	}
}
