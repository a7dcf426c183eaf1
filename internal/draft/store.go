// Package draft persists the in-progress application so a candidate can
// close the wizard and pick up where they left off.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/logging"
)

// Storage keys.
const (
	KeyData          = "hiring_form_data"
	KeyStep          = "hiring_form_current_step"
	KeyTimestamp     = "hiring_form_timestamp"
	KeySchemaVersion = "hiring_form_schema_version"
)

// SchemaVersion is written with every save. A stored draft with another
// version is ignored on load.
const SchemaVersion = "1"

// Keys lists every key the store owns.
func Keys() []string {
	return []string{KeyData, KeyStep, KeyTimestamp, KeySchemaVersion}
}

// Snapshot is a loaded draft.
type Snapshot struct {
	Data    *application.FormData `json:"data" yaml:"data"`
	Step    application.Step      `json:"step" yaml:"step"`
	SavedAt time.Time             `json:"savedAt" yaml:"savedAt"`
}

// Store reads and writes drafts through a Storage.
type Store struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger parse and storage failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces the clock used for the saved timestamp.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// NewStore returns a Store backed by storage.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage, logger: logging.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes data and step. The keys are written one after another; a
// failure part way leaves the earlier keys in place and is returned.
func (s *Store) Save(data *application.FormData, step application.Step) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	writes := []struct{ key, value string }{
		{KeySchemaVersion, SchemaVersion},
		{KeyData, string(payload)},
		{KeyStep, strconv.Itoa(int(step))},
		{KeyTimestamp, s.now().UTC().Format(time.RFC3339)},
	}
	for _, w := range writes {
		if err := s.storage.Set(w.key, w.value); err != nil {
			s.logger.Warn("draft save failed", "key", w.key, "error", err)
			return fmt.Errorf("save draft: %w", err)
		}
	}
	return nil
}

// Load returns the stored draft. Missing, unreadable, corrupt or
// version-mismatched drafts are reported as absent and logged.
func (s *Store) Load() (Snapshot, bool) {
	raw, ok := s.get(KeyData)
	if !ok {
		return Snapshot{}, false
	}

	if version, _ := s.get(KeySchemaVersion); version != SchemaVersion {
		s.logger.Warn("ignoring draft with different schema version",
			"stored", version, "want", SchemaVersion)
		return Snapshot{}, false
	}

	data := application.NewFormData()
	if err := json.Unmarshal([]byte(raw), data); err != nil {
		s.logger.Warn("ignoring corrupt draft", "error", err)
		return Snapshot{}, false
	}

	snap := Snapshot{Data: data, Step: application.StepPersonal}
	if v, ok := s.get(KeyStep); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && application.Step(n).Valid() {
			snap.Step = application.Step(n)
		} else {
			s.logger.Warn("ignoring bad draft step", "value", v)
		}
	}
	if v, ok := s.get(KeyTimestamp); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			snap.SavedAt = t
		}
	}
	return snap, true
}

// Clear removes every key. All removals are attempted.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range Keys() {
		if err := s.storage.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("draft clear failed", "error", err)
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

func (s *Store) get(key string) (string, bool) {
	v, ok, err := s.storage.Get(key)
	if err != nil {
		s.logger.Warn("draft read failed", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

// HasMeaningfulData reports whether the candidate has typed anything: any
// non-blank scalar, any ticked box, any attached file or any nested entry
// with a non-blank field. The blank experience and education rows of a new
// form do not count.
func HasMeaningfulData(data *application.FormData) bool {
	if data == nil {
		return false
	}
	if data.Resume != nil || data.CoverLetter != nil {
		return true
	}
	for s := application.StepPersonal; s <= application.StepReview; s++ {
		for _, key := range application.StepFields(s, data) {
			v, _ := data.Get(key)
			v = strings.TrimSpace(v)
			if v == "" || (isBool(key) && v == "false") {
				continue
			}
			return true
		}
	}
	return false
}

func isBool(key application.FieldKey) bool {
	switch key.Field {
	case application.FieldTermsAccepted, application.FieldPrivacyAccepted, application.FieldCurrentlyWorking:
		return true
	}
	return false
}
