package application

import (
	"fmt"
	"strconv"
	"strings"
)

// Section names a nested, ordered list inside FormData.
type Section string

const (
	SectionExperiences Section = "experiences"
	SectionProjects    Section = "projects"
	SectionEducation   Section = "education"
	SectionSkills      Section = "skills"
	SectionLanguages   Section = "languages"
	SectionHobbies     Section = "hobbies"
)

// AllSections returns every nested section in form order.
func AllSections() []Section {
	return []Section{
		SectionSkills, SectionLanguages, SectionExperiences,
		SectionProjects, SectionEducation, SectionHobbies,
	}
}

// FieldKey identifies a single field of the application. A flat field has
// an empty Section; a nested one points at entry Index of Section.
type FieldKey struct {
	Section Section
	Index   int
	Field   string
}

// Key returns the key of a flat field.
func Key(field string) FieldKey {
	return FieldKey{Field: field}
}

// EntryKey returns the key of a field inside a nested entry.
func EntryKey(s Section, index int, field string) FieldKey {
	return FieldKey{Section: s, Index: index, Field: field}
}

// IsFlat reports whether k names a top-level field.
func (k FieldKey) IsFlat() bool {
	return k.Section == ""
}

// String renders the composite form used in the draft and error payloads:
// "email" or "experiences_0_jobTitle".
func (k FieldKey) String() string {
	if k.IsFlat() {
		return k.Field
	}
	return fmt.Sprintf("%s_%d_%s", k.Section, k.Index, k.Field)
}

// MarshalText implements encoding.TextMarshaler so ErrorMap keys encode as
// strings.
func (k FieldKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FieldKey) UnmarshalText(b []byte) error {
	parsed, err := ParseFieldKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseFieldKey parses the string form produced by FieldKey.String.
func ParseFieldKey(s string) (FieldKey, error) {
	if s == "" {
		return FieldKey{}, fmt.Errorf("parse field key: empty")
	}
	parts := strings.Split(s, "_")
	switch len(parts) {
	case 1:
		return Key(s), nil
	case 3:
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 {
			return FieldKey{}, fmt.Errorf("parse field key %q: bad index", s)
		}
		sec := Section(parts[0])
		if !knownSection(sec) {
			return FieldKey{}, fmt.Errorf("parse field key %q: unknown section", s)
		}
		return EntryKey(sec, idx, parts[2]), nil
	default:
		return FieldKey{}, fmt.Errorf("parse field key %q: malformed", s)
	}
}

func knownSection(s Section) bool {
	for _, known := range AllSections() {
		if s == known {
			return true
		}
	}
	return false
}
