package application

import "strings"

// Step is a wizard screen index. The wizard only ever moves one step at a
// time, in this order.
type Step int

const (
	StepPersonal Step = iota
	StepSummary
	StepExperience
	StepProjectsEducation
	StepDocuments
	StepReview
)

// StepCount is the number of wizard steps.
const StepCount = 6

// StepLabels returns the labels shown in the progress indicator.
func StepLabels() []string {
	return []string{"Personal", "Summary", "Experience", "Projects", "Documents", "Review"}
}

// String returns the step label.
func (s Step) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return StepLabels()[s]
}

// Valid reports whether s is one of the six wizard steps.
func (s Step) Valid() bool {
	return s >= StepPersonal && int(s) < StepCount
}

// Title is the heading of the step panel.
func (s Step) Title() string {
	switch s {
	case StepPersonal:
		return "Personal Information"
	case StepSummary:
		return "Professional Summary"
	case StepExperience:
		return "Work Experience"
	case StepProjectsEducation:
		return "Projects & Education"
	case StepDocuments:
		return "Documents"
	case StepReview:
		return "Review & Submit"
	}
	return ""
}

// StepFields lists the keys validated on step s, in display order. Nested
// sections expand to one key per entry field.
func StepFields(s Step, data *FormData) []FieldKey {
	var keys []FieldKey
	flat := func(fields ...string) {
		for _, f := range fields {
			keys = append(keys, Key(f))
		}
	}
	entries := func(sec Section, fields ...string) {
		for i := 0; i < data.Len(sec); i++ {
			for _, f := range fields {
				keys = append(keys, EntryKey(sec, i, f))
			}
		}
	}

	switch s {
	case StepPersonal:
		flat(FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldLocation, FieldLinkedIn, FieldPortfolio)
	case StepSummary:
		flat(FieldDesiredPosition, FieldProfessionalSummary, FieldYearsOfExperience)
		entries(SectionSkills, FieldName, FieldLevel)
		entries(SectionLanguages, FieldName, FieldProficiency)
	case StepExperience:
		entries(SectionExperiences, FieldJobTitle, FieldCompany, FieldLocation,
			FieldStartDate, FieldEndDate, FieldCurrentlyWorking, FieldDescription)
	case StepProjectsEducation:
		entries(SectionProjects, FieldName, FieldRole, FieldURL, FieldTechnologies, FieldDescription)
		entries(SectionEducation, FieldInstitution, FieldDegree, FieldFieldOfStudy,
			FieldStartYear, FieldEndYear, FieldGPA)
	case StepDocuments:
		flat(FieldResume, FieldCoverLetter, FieldExpectedSalary, FieldAvailableFrom)
		entries(SectionHobbies, FieldName)
	case StepReview:
		flat(FieldTermsAccepted, FieldPrivacyAccepted)
	}
	return keys
}

// StepOf returns the step that owns key.
func StepOf(key FieldKey) Step {
	sec := key.Section
	if key.IsFlat() {
		sec = Section(key.Field)
	}
	switch sec {
	case SectionSkills, SectionLanguages:
		return StepSummary
	case SectionExperiences:
		return StepExperience
	case SectionProjects, SectionEducation:
		return StepProjectsEducation
	case SectionHobbies:
		return StepDocuments
	}
	empty := NewFormData()
	for s := StepPersonal; s <= StepReview; s++ {
		for _, k := range StepFields(s, empty) {
			if k.IsFlat() && k.Field == key.Field {
				return s
			}
		}
	}
	return StepPersonal
}

// ValidateStep returns every error on step s. The map is empty exactly when
// the step may be left going forward.
func (v *Validator) ValidateStep(s Step, data *FormData) ErrorMap {
	errs := ErrorMap{}
	for _, key := range StepFields(s, data) {
		value, _ := data.Get(key)
		errs.Apply(key, v.ValidateField(key, value, data))
	}

	switch s {
	case StepSummary:
		if !hasNamed(data.Skills, func(sk Skill) string { return sk.Name }) {
			errs[Key(string(SectionSkills))] = "Add at least one skill"
		}
	case StepExperience:
		if len(data.Experiences) == 0 {
			errs[Key(string(SectionExperiences))] = "Add at least one work experience"
		}
	case StepProjectsEducation:
		if len(data.Education) == 0 {
			errs[Key(string(SectionEducation))] = "Add at least one education entry"
		}
	}
	return errs
}

// ValidateAll merges the errors of every step.
func (v *Validator) ValidateAll(data *FormData) ErrorMap {
	errs := ErrorMap{}
	for s := StepPersonal; s <= StepReview; s++ {
		errs.Merge(v.ValidateStep(s, data))
	}
	return errs
}

// FirstInvalidStep returns the lowest step that has an error in errs, or
// false when errs is empty.
func FirstInvalidStep(errs ErrorMap) (Step, bool) {
	if errs.Empty() {
		return 0, false
	}
	first := StepReview
	for k := range errs {
		if s := StepOf(k); s < first {
			first = s
		}
	}
	return first, true
}

// ValidateStep checks step s with the default validator.
func ValidateStep(s Step, data *FormData) ErrorMap {
	return defaultValidator.ValidateStep(s, data)
}

// ValidateAll checks every step with the default validator.
func ValidateAll(data *FormData) ErrorMap {
	return defaultValidator.ValidateAll(data)
}

func hasNamed[T any](items []T, name func(T) string) bool {
	for _, it := range items {
		if strings.TrimSpace(name(it)) != "" {
			return true
		}
	}
	return false
}
