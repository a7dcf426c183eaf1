package application

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MsgRequired is the message every required field shows when left blank.
const MsgRequired = "This field is required"

const minYear = 1900

var (
	nameRegex     = regexp.MustCompile(`^\p{L}[\p{L} '.-]{1,49}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9\s().-]+$`)
	linkedInRegex = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/in/[A-Za-z0-9_-]{3,100}/?$`)
	urlRegex      = regexp.MustCompile(`^https?://[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(:\d+)?(/.*)?$`)
	locationRegex = regexp.MustCompile(`^[\p{L}0-9][\p{L}0-9 ,.'()-]{1,99}$`)
	monthRegex    = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)
	yearRegex     = regexp.MustCompile(`^\d{4}$`)
)

// Validator checks single fields. It is stateless apart from the injected
// clock and upload policy, so one value can be shared freely.
type Validator struct {
	now    func() time.Time
	policy UploadPolicy
}

// Option configures a Validator.
type Option func(*Validator)

// WithNow replaces the clock used for year and date bounds.
func WithNow(fn func() time.Time) Option {
	return func(v *Validator) { v.now = fn }
}

// WithUploadPolicy sets the policy attached documents are checked against.
func WithUploadPolicy(p UploadPolicy) Option {
	return func(v *Validator) { v.policy = p }
}

// NewValidator returns a Validator using the wall clock and the default
// upload policy unless overridden.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{now: time.Now, policy: DefaultUploadPolicy()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Policy returns the upload policy in use.
func (v *Validator) Policy() UploadPolicy {
	return v.policy
}

// CurrentYear is the upper bound for past dates.
func (v *Validator) CurrentYear() int {
	return v.now().Year()
}

// Required reports whether key must be filled in, given the rest of data.
func (v *Validator) Required(key FieldKey, data *FormData) bool {
	if key.IsFlat() {
		switch key.Field {
		case FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldLocation,
			FieldDesiredPosition, FieldProfessionalSummary, FieldYearsOfExperience,
			FieldResume, FieldTermsAccepted, FieldPrivacyAccepted:
			return true
		}
		return false
	}
	switch key.Section {
	case SectionExperiences:
		switch key.Field {
		case FieldJobTitle, FieldCompany, FieldStartDate, FieldDescription:
			return true
		case FieldEndDate:
			if data != nil && key.Index < len(data.Experiences) {
				return !data.Experiences[key.Index].CurrentlyWorking
			}
			return true
		}
	case SectionProjects:
		return key.Field == FieldName || key.Field == FieldDescription
	case SectionEducation:
		switch key.Field {
		case FieldInstitution, FieldDegree, FieldFieldOfStudy, FieldStartYear:
			return true
		}
	case SectionSkills, SectionLanguages, SectionHobbies:
		return key.Field == FieldName
	}
	return false
}

// ValidateField returns the error message for value in the field named by
// key, or "" when it is valid. The required check always runs first, so a
// blank required field never reports a pattern message.
func (v *Validator) ValidateField(key FieldKey, value string, data *FormData) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if v.Required(key, data) {
			return MsgRequired
		}
		return ""
	}
	if key.IsFlat() {
		return v.flat(key.Field, trimmed, data)
	}
	switch key.Section {
	case SectionExperiences:
		return v.experience(key, trimmed, data)
	case SectionProjects:
		return v.project(key.Field, trimmed)
	case SectionEducation:
		return v.education(key, trimmed, data)
	case SectionSkills, SectionLanguages, SectionHobbies:
		return v.listEntry(key.Section, key.Field, trimmed)
	}
	return ""
}

func (v *Validator) flat(field, value string, data *FormData) string {
	switch field {
	case FieldFirstName, FieldLastName:
		if !nameRegex.MatchString(value) {
			return "Name must be 2-50 letters"
		}
	case FieldEmail:
		if !emailRegex.MatchString(value) {
			return "Please enter a valid email address"
		}
	case FieldPhone:
		n := len(digitsOnly(value))
		if !phoneRegex.MatchString(value) || n < 10 || n > 15 {
			return "Please enter a valid phone number"
		}
	case FieldLocation:
		if !locationRegex.MatchString(value) {
			return "Please enter a valid location"
		}
	case FieldLinkedIn:
		if !linkedInRegex.MatchString(value) {
			return "Please enter a valid LinkedIn profile URL"
		}
	case FieldPortfolio:
		if !urlRegex.MatchString(value) {
			return "Please enter a valid URL"
		}
	case FieldDesiredPosition:
		return lengthBetween("Position", value, 2, 100)
	case FieldProfessionalSummary:
		n := utf8.RuneCountInString(value)
		if n < 50 {
			return fmt.Sprintf("Summary must be at least 50 characters (%d so far)", n)
		}
		if n > 1000 {
			return "Summary must be at most 1000 characters"
		}
	case FieldYearsOfExperience:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 60 {
			return "Years of experience must be a whole number between 0 and 60"
		}
	case FieldExpectedSalary:
		f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
		if err != nil || f < 0 {
			return "Expected salary must be a positive number"
		}
	case FieldAvailableFrom:
		t, err := time.Parse(time.DateOnly, value)
		if err != nil {
			return "Use the YYYY-MM-DD format"
		}
		now := v.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if t.Before(today) {
			return "Availability date cannot be in the past"
		}
	case FieldResume, FieldCoverLetter:
		return v.document(field, data)
	case FieldTermsAccepted:
		if !parseBool(value) {
			return "You must accept the terms and conditions"
		}
	case FieldPrivacyAccepted:
		if !parseBool(value) {
			return "You must accept the privacy policy"
		}
	}
	return ""
}

func (v *Validator) document(field string, data *FormData) string {
	if data == nil {
		return ""
	}
	ref := data.Resume
	if field == FieldCoverLetter {
		ref = data.CoverLetter
	}
	if ref == nil {
		return ""
	}
	return v.policy.Message(v.policy.Check(*ref))
}

func (v *Validator) experience(key FieldKey, value string, data *FormData) string {
	switch key.Field {
	case FieldJobTitle:
		return lengthBetween("Job title", value, 2, 100)
	case FieldCompany:
		return lengthBetween("Company", value, 2, 100)
	case FieldLocation:
		if !locationRegex.MatchString(value) {
			return "Please enter a valid location"
		}
	case FieldDescription:
		return lengthBetween("Description", value, 20, 2000)
	case FieldStartDate:
		_, msg := v.month(value)
		return msg
	case FieldEndDate:
		end, msg := v.month(value)
		if msg != "" {
			return msg
		}
		if data != nil && key.Index < len(data.Experiences) {
			start, startMsg := v.month(strings.TrimSpace(data.Experiences[key.Index].StartDate))
			if startMsg == "" && end.Before(start) {
				return "End date cannot be before start date"
			}
		}
	}
	return ""
}

// month parses a YYYY-MM value and checks its year against 1900..current.
func (v *Validator) month(value string) (time.Time, string) {
	m := monthRegex.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, "Use the YYYY-MM format"
	}
	year, _ := strconv.Atoi(m[1])
	if msg := v.yearInRange(year, v.CurrentYear()); msg != "" {
		return time.Time{}, msg
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, "Use the YYYY-MM format"
	}
	return t, ""
}

func (v *Validator) yearInRange(year, max int) string {
	if year < minYear || year > max {
		return fmt.Sprintf("Year must be between %d and %d", minYear, max)
	}
	return ""
}

func (v *Validator) project(field, value string) string {
	switch field {
	case FieldName:
		return lengthBetween("Project name", value, 2, 100)
	case FieldRole:
		return lengthBetween("Role", value, 2, 100)
	case FieldURL:
		if !urlRegex.MatchString(value) {
			return "Please enter a valid URL"
		}
	case FieldTechnologies:
		if utf8.RuneCountInString(value) > 200 {
			return "Technologies must be at most 200 characters"
		}
	case FieldDescription:
		return lengthBetween("Description", value, 20, 1000)
	}
	return ""
}

func (v *Validator) education(key FieldKey, value string, data *FormData) string {
	switch key.Field {
	case FieldInstitution:
		return lengthBetween("Institution", value, 2, 100)
	case FieldDegree:
		return lengthBetween("Degree", value, 2, 100)
	case FieldFieldOfStudy:
		return lengthBetween("Field of study", value, 2, 100)
	case FieldStartYear:
		if !yearRegex.MatchString(value) {
			return "Use a four-digit year"
		}
		year, _ := strconv.Atoi(value)
		return v.yearInRange(year, v.CurrentYear())
	case FieldEndYear:
		if !yearRegex.MatchString(value) {
			return "Use a four-digit year"
		}
		year, _ := strconv.Atoi(value)
		// Expected graduation may lie a few years ahead.
		if msg := v.yearInRange(year, v.CurrentYear()+6); msg != "" {
			return msg
		}
		if data != nil && key.Index < len(data.Education) {
			start, err := strconv.Atoi(strings.TrimSpace(data.Education[key.Index].StartYear))
			if err == nil && year < start {
				return "End year cannot be before start year"
			}
		}
	case FieldGPA:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 10 {
			return "GPA must be a number between 0 and 10"
		}
	}
	return ""
}

func (v *Validator) listEntry(s Section, field, value string) string {
	label := map[Section]string{
		SectionSkills:    "Skill",
		SectionLanguages: "Language",
		SectionHobbies:   "Hobby",
	}[s]
	switch field {
	case FieldName:
		return lengthBetween(label, value, 1, 50)
	case FieldLevel, FieldProficiency:
		if utf8.RuneCountInString(value) > 30 {
			return "Must be at most 30 characters"
		}
	}
	return ""
}

func lengthBetween(label, value string, lo, hi int) string {
	n := utf8.RuneCountInString(value)
	if n < lo || n > hi {
		return fmt.Sprintf("%s must be between %d and %d characters", label, lo, hi)
	}
	return ""
}

var defaultValidator = NewValidator()

// ValidateField checks a single field with the default validator.
func ValidateField(key FieldKey, value string, data *FormData) string {
	return defaultValidator.ValidateField(key, value, data)
}
