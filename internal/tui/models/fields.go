package models

import (
	"github.com/Dallionking/talenthub/internal/application"
)

// fieldKind decides how a row is edited and drawn.
type fieldKind int

const (
	kindText    fieldKind = iota
	kindLong              // multi-sentence text, drawn wrapped
	kindToggle            // boolean, space flips it
	kindFile              // a path, attached on blur
	kindSection           // heading of a repeatable section; ctrl+n adds an entry
	kindAdder             // quick-add input for skills, languages and hobbies
)

// fieldSpec is one focusable row of a step.
type fieldSpec struct {
	Key         application.FieldKey
	Label       string
	Kind        fieldKind
	Placeholder string
}

// entry reports the repeatable section and index the row belongs to.
func (f fieldSpec) entry() (application.Section, int, bool) {
	switch f.Kind {
	case kindSection, kindAdder:
		return application.Section(f.Key.Field), -1, true
	}
	if f.Key.IsFlat() {
		return "", 0, false
	}
	return f.Key.Section, f.Key.Index, true
}

var fieldLabels = map[string]string{
	application.FieldFirstName:           "First name",
	application.FieldLastName:            "Last name",
	application.FieldEmail:               "Email",
	application.FieldPhone:               "Phone",
	application.FieldLocation:            "Location",
	application.FieldLinkedIn:            "LinkedIn profile",
	application.FieldPortfolio:           "Portfolio URL",
	application.FieldDesiredPosition:     "Desired position",
	application.FieldProfessionalSummary: "Professional summary",
	application.FieldYearsOfExperience:   "Years of experience",
	application.FieldResume:              "Resume",
	application.FieldCoverLetter:         "Cover letter",
	application.FieldExpectedSalary:      "Expected salary",
	application.FieldAvailableFrom:       "Available from",
	application.FieldTermsAccepted:       "I accept the terms and conditions",
	application.FieldPrivacyAccepted:     "I accept the privacy policy",
	application.FieldJobTitle:            "Job title",
	application.FieldCompany:             "Company",
	application.FieldStartDate:           "Start date",
	application.FieldEndDate:             "End date",
	application.FieldCurrentlyWorking:    "I currently work here",
	application.FieldDescription:         "Description",
	application.FieldName:                "Name",
	application.FieldRole:                "Role",
	application.FieldURL:                 "URL",
	application.FieldTechnologies:        "Technologies",
	application.FieldInstitution:         "Institution",
	application.FieldDegree:              "Degree",
	application.FieldFieldOfStudy:        "Field of study",
	application.FieldStartYear:           "Start year",
	application.FieldEndYear:             "End year",
	application.FieldGPA:                 "GPA",
	application.FieldLevel:               "Level",
	application.FieldProficiency:         "Proficiency",
}

var fieldPlaceholders = map[string]string{
	application.FieldEmail:             "you@example.com",
	application.FieldPhone:             "(555) 123-4567",
	application.FieldLinkedIn:          "linkedin.com/in/your-name",
	application.FieldPortfolio:         "https://",
	application.FieldYearsOfExperience: "0-60",
	application.FieldResume:            "path to a PDF or Word file",
	application.FieldCoverLetter:       "path to a PDF or Word file (optional)",
	application.FieldAvailableFrom:     "YYYY-MM-DD",
	application.FieldStartDate:         "YYYY-MM",
	application.FieldEndDate:           "YYYY-MM",
	application.FieldStartYear:         "YYYY",
	application.FieldEndYear:           "YYYY",
	application.FieldURL:               "https://",
}

var sectionLabels = map[application.Section]string{
	application.SectionExperiences: "Work experience",
	application.SectionProjects:     "Projects",
	application.SectionEducation:    "Education",
	application.SectionSkills:       "Skills",
	application.SectionLanguages:    "Languages",
	application.SectionHobbies:      "Hobbies & interests",
}

var adderPlaceholders = map[application.Section]string{
	application.SectionSkills:    "Go, Expert",
	application.SectionLanguages: "Spanish, Fluent",
	application.SectionHobbies:   "Climbing",
}

func kindOf(key application.FieldKey) fieldKind {
	switch key.Field {
	case application.FieldTermsAccepted, application.FieldPrivacyAccepted, application.FieldCurrentlyWorking:
		return kindToggle
	case application.FieldResume, application.FieldCoverLetter:
		return kindFile
	case application.FieldProfessionalSummary, application.FieldDescription:
		return kindLong
	}
	return kindText
}

func specFor(key application.FieldKey) fieldSpec {
	return fieldSpec{
		Key:         key,
		Label:       fieldLabels[key.Field],
		Kind:        kindOf(key),
		Placeholder: fieldPlaceholders[key.Field],
	}
}

func sectionRow(s application.Section, kind fieldKind) fieldSpec {
	return fieldSpec{
		Key:         application.Key(string(s)),
		Label:       sectionLabels[s],
		Kind:        kind,
		Placeholder: adderPlaceholders[s],
	}
}

// stepSpecs lists the focusable rows of step s in display order. Entry rows
// follow the section they belong to.
func stepSpecs(s application.Step, data *application.FormData) []fieldSpec {
	var specs []fieldSpec
	bySection := map[application.Section][]fieldSpec{}
	for _, key := range application.StepFields(s, data) {
		if key.IsFlat() {
			specs = append(specs, specFor(key))
			continue
		}
		bySection[key.Section] = append(bySection[key.Section], specFor(key))
	}

	section := func(sec application.Section, kind fieldKind) {
		specs = append(specs, sectionRow(sec, kind))
		specs = append(specs, bySection[sec]...)
	}

	switch s {
	case application.StepSummary:
		section(application.SectionSkills, kindAdder)
		section(application.SectionLanguages, kindAdder)
	case application.StepExperience:
		section(application.SectionExperiences, kindSection)
	case application.StepProjectsEducation:
		section(application.SectionProjects, kindSection)
		section(application.SectionEducation, kindSection)
	case application.StepDocuments:
		section(application.SectionHobbies, kindAdder)
	}
	return specs
}
