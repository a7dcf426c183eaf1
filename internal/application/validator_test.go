package application_test

import (
	"strings"
	"testing"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/application/applicationtest"
)

func newValidator() *application.Validator {
	return application.NewValidator(application.WithNow(applicationtest.Clock))
}

func TestRequiredFieldsReportRequiredMessage(t *testing.T) {
	v := newValidator()
	data := application.NewFormData()

	required := []application.FieldKey{
		application.Key(application.FieldFirstName),
		application.Key(application.FieldLastName),
		application.Key(application.FieldEmail),
		application.Key(application.FieldPhone),
		application.Key(application.FieldLocation),
		application.Key(application.FieldDesiredPosition),
		application.Key(application.FieldProfessionalSummary),
		application.Key(application.FieldYearsOfExperience),
		application.Key(application.FieldResume),
		application.Key(application.FieldTermsAccepted),
		application.Key(application.FieldPrivacyAccepted),
		application.EntryKey(application.SectionExperiences, 0, application.FieldJobTitle),
		application.EntryKey(application.SectionExperiences, 0, application.FieldEndDate),
		application.EntryKey(application.SectionEducation, 0, application.FieldInstitution),
	}
	for _, key := range required {
		for _, blank := range []string{"", "   ", "\t"} {
			if got := v.ValidateField(key, blank, data); got != application.MsgRequired {
				t.Errorf("ValidateField(%s, %q) = %q, want required message", key, blank, got)
			}
		}
	}
}

func TestOptionalFieldsAcceptBlank(t *testing.T) {
	v := newValidator()
	data := application.NewFormData()
	for _, f := range []string{application.FieldLinkedIn, application.FieldPortfolio, application.FieldExpectedSalary, application.FieldAvailableFrom, application.FieldCoverLetter} {
		if got := v.ValidateField(application.Key(f), "", data); got != "" {
			t.Errorf("ValidateField(%s, \"\") = %q, want valid", f, got)
		}
	}
}

func TestEndDateOptionalWhileCurrentlyWorking(t *testing.T) {
	v := newValidator()
	data := application.NewFormData()
	data.Experiences[0].CurrentlyWorking = true

	key := application.EntryKey(application.SectionExperiences, 0, application.FieldEndDate)
	if got := v.ValidateField(key, "", data); got != "" {
		t.Fatalf("end date with currentlyWorking = %q, want valid", got)
	}
}

func TestFlatPatterns(t *testing.T) {
	v := newValidator()
	data := application.NewFormData()

	tests := []struct {
		field string
		value string
		valid bool
	}{
		{application.FieldFirstName, "Jane", true},
		{application.FieldFirstName, "J", false},
		{application.FieldFirstName, "Jane3", false},
		{application.FieldLastName, "O'Neil-Smith", true},
		{application.FieldEmail, "jane@example.com", true},
		{application.FieldEmail, "jane@", false},
		{application.FieldPhone, "(555) 123-4567", true},
		{application.FieldPhone, "+44 20 7946 0958", true},
		{application.FieldPhone, "12345", false},
		{application.FieldPhone, "call me", false},
		{application.FieldLocation, "Austin, TX", true},
		{application.FieldLocation, "!!", false},
		{application.FieldLinkedIn, "https://linkedin.com/in/jdoe", true},
		{application.FieldLinkedIn, "https://www.linkedin.com/in/jane-doe/", true},
		{application.FieldLinkedIn, "https://example.com/in/jdoe", false},
		{application.FieldPortfolio, "https://janedoe.dev/work", true},
		{application.FieldPortfolio, "janedoe", false},
		{application.FieldProfessionalSummary, strings.Repeat("a", 50), true},
		{application.FieldProfessionalSummary, strings.Repeat("a", 49), false},
		{application.FieldProfessionalSummary, strings.Repeat("a", 1001), false},
		{application.FieldYearsOfExperience, "0", true},
		{application.FieldYearsOfExperience, "61", false},
		{application.FieldYearsOfExperience, "five", false},
		{application.FieldExpectedSalary, "95,000", true},
		{application.FieldExpectedSalary, "-1", false},
		{application.FieldAvailableFrom, "2026-11-01", true},
		{application.FieldAvailableFrom, "2026-10-17", false},
		{application.FieldAvailableFrom, "next week", false},
		{application.FieldTermsAccepted, "true", true},
		{application.FieldTermsAccepted, "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.value, func(t *testing.T) {
			got := v.ValidateField(application.Key(tt.field), tt.value, data)
			if tt.valid && got != "" {
				t.Errorf("got %q, want valid", got)
			}
			if !tt.valid && got == "" {
				t.Errorf("got valid, want an error")
			}
			if !tt.valid && got == application.MsgRequired {
				t.Errorf("non-empty value reported the required message")
			}
		})
	}
}

func TestExperienceDates(t *testing.T) {
	v := newValidator()
	data := application.NewFormData()
	data.Experiences[0].StartDate = "2020-05"

	start := application.EntryKey(application.SectionExperiences, 0, application.FieldStartDate)
	end := application.EntryKey(application.SectionExperiences, 0, application.FieldEndDate)

	tests := []struct {
		name string
		key  application.FieldKey
		val  string
		want string
	}{
		{"valid start", start, "2020-05", ""},
		{"bad format", start, "05/2020", "Use the YYYY-MM format"},
		{"before 1900", start, "1899-12", "Year must be between 1900 and 2026"},
		{"future year", start, "2027-01", "Year must be between 1900 and 2026"},
		{"end after start", end, "2022-01", ""},
		{"end before start", end, "2019-12", "End date cannot be before start date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.ValidateField(tt.key, tt.val, data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEducationYears(t *testing.T) {
	v := newValidator()
	data := application.NewFormData()
	data.Education[0].StartYear = "2024"

	end := application.EntryKey(application.SectionEducation, 0, application.FieldEndYear)
	if got := v.ValidateField(end, "2028", data); got != "" {
		t.Errorf("expected graduation year rejected: %q", got)
	}
	if got := v.ValidateField(end, "2023", data); got != "End year cannot be before start year" {
		t.Errorf("got %q", got)
	}
	if got := v.ValidateField(end, "2040", data); got == "" {
		t.Error("far future end year accepted")
	}
	gpa := application.EntryKey(application.SectionEducation, 0, application.FieldGPA)
	if got := v.ValidateField(gpa, "11", data); got == "" {
		t.Error("gpa 11 accepted")
	}
}

func TestDocumentPolicy(t *testing.T) {
	v := newValidator()
	data := application.NewFormData()
	data.Resume = &application.FileRef{Name: "cv.exe", Size: 10, MIMEType: "application/x-msdownload"}

	got := v.ValidateField(application.Key(application.FieldResume), "cv.exe", data)
	if got != "Only PDF, DOC, DOCX files are allowed" {
		t.Errorf("got %q", got)
	}
}

func TestValidatorIsDeterministic(t *testing.T) {
	v := newValidator()
	data := applicationtest.Valid()
	key := application.Key(application.FieldEmail)
	first := v.ValidateField(key, "nope", data)
	for i := 0; i < 5; i++ {
		if got := v.ValidateField(key, "nope", data); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}
