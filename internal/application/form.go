// Package application holds the job application record filled in by the
// hiring wizard, together with the field and step validators that gate it.
package application

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Flat field names. They double as the JSON keys of the persisted draft.
const (
	FieldFirstName           = "firstName"
	FieldLastName            = "lastName"
	FieldEmail               = "email"
	FieldPhone               = "phone"
	FieldLocation            = "location"
	FieldLinkedIn            = "linkedIn"
	FieldPortfolio           = "portfolio"
	FieldDesiredPosition     = "desiredPosition"
	FieldProfessionalSummary = "professionalSummary"
	FieldYearsOfExperience   = "yearsOfExperience"
	FieldResume              = "resume"
	FieldCoverLetter         = "coverLetter"
	FieldExpectedSalary      = "expectedSalary"
	FieldAvailableFrom       = "availableFrom"
	FieldTermsAccepted       = "termsAccepted"
	FieldPrivacyAccepted     = "privacyAccepted"
)

// Nested entry field names.
const (
	FieldJobTitle         = "jobTitle"
	FieldCompany          = "company"
	FieldStartDate        = "startDate"
	FieldEndDate          = "endDate"
	FieldCurrentlyWorking = "currentlyWorking"
	FieldDescription      = "description"
	FieldName             = "name"
	FieldRole             = "role"
	FieldURL              = "url"
	FieldTechnologies     = "technologies"
	FieldInstitution      = "institution"
	FieldDegree           = "degree"
	FieldFieldOfStudy     = "fieldOfStudy"
	FieldStartYear        = "startYear"
	FieldEndYear          = "endYear"
	FieldGPA              = "gpa"
	FieldLevel            = "level"
	FieldProficiency      = "proficiency"
)

var (
	// ErrUnknownField is returned when a key does not name a field of FormData.
	ErrUnknownField = errors.New("unknown field")
	// ErrIndexOutOfRange is returned when a composite key points past the end
	// of its section.
	ErrIndexOutOfRange = errors.New("entry index out of range")
)

// Skill is a single entry of the skills list.
type Skill struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
}

// Language is a spoken language and the candidate's proficiency.
type Language struct {
	Name        string `json:"name" yaml:"name"`
	Proficiency string `json:"proficiency" yaml:"proficiency"`
}

// Hobby is a free-form interest.
type Hobby struct {
	Name string `json:"name" yaml:"name"`
}

// Experience is one row of the work history.
type Experience struct {
	JobTitle         string `json:"jobTitle" yaml:"jobTitle"`
	Company          string `json:"company" yaml:"company"`
	Location         string `json:"location" yaml:"location"`
	StartDate        string `json:"startDate" yaml:"startDate"` // YYYY-MM
	EndDate          string `json:"endDate" yaml:"endDate"`     // YYYY-MM
	CurrentlyWorking bool   `json:"currentlyWorking" yaml:"currentlyWorking"`
	Description      string `json:"description" yaml:"description"`
}

// Project is a portfolio project.
type Project struct {
	Name         string `json:"name" yaml:"name"`
	Role         string `json:"role" yaml:"role"`
	URL          string `json:"url" yaml:"url"`
	Technologies string `json:"technologies" yaml:"technologies"`
	Description  string `json:"description" yaml:"description"`
}

// Education is one school or degree.
type Education struct {
	Institution  string `json:"institution" yaml:"institution"`
	Degree       string `json:"degree" yaml:"degree"`
	FieldOfStudy string `json:"fieldOfStudy" yaml:"fieldOfStudy"`
	StartYear    string `json:"startYear" yaml:"startYear"`
	EndYear      string `json:"endYear" yaml:"endYear"`
	GPA          string `json:"gpa" yaml:"gpa"`
}

// FileRef describes an attached document. Only metadata is kept in the
// record; the file itself stays where the candidate put it.
type FileRef struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	Size     int64  `json:"size" yaml:"size"`
	MIMEType string `json:"mimeType" yaml:"mimeType"`
}

// FormData is the whole application across all six wizard steps.
type FormData struct {
	// Personal
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	Location  string `json:"location" yaml:"location"`
	LinkedIn  string `json:"linkedIn" yaml:"linkedIn"`
	Portfolio string `json:"portfolio" yaml:"portfolio"`

	// Summary
	DesiredPosition     string     `json:"desiredPosition" yaml:"desiredPosition"`
	ProfessionalSummary string     `json:"professionalSummary" yaml:"professionalSummary"`
	YearsOfExperience   string     `json:"yearsOfExperience" yaml:"yearsOfExperience"`
	Skills              []Skill    `json:"skills" yaml:"skills"`
	Languages           []Language `json:"languages" yaml:"languages"`

	// Experience
	Experiences []Experience `json:"experiences" yaml:"experiences"`

	// Projects and education
	Projects  []Project   `json:"projects" yaml:"projects"`
	Education []Education `json:"education" yaml:"education"`

	// Documents
	Resume         *FileRef `json:"resume" yaml:"resume"`
	CoverLetter    *FileRef `json:"coverLetter" yaml:"coverLetter"`
	ExpectedSalary string   `json:"expectedSalary" yaml:"expectedSalary"`
	AvailableFrom  string   `json:"availableFrom" yaml:"availableFrom"` // YYYY-MM-DD
	Hobbies        []Hobby  `json:"hobbies" yaml:"hobbies"`

	// Review
	TermsAccepted   bool `json:"termsAccepted" yaml:"termsAccepted"`
	PrivacyAccepted bool `json:"privacyAccepted" yaml:"privacyAccepted"`
}

// NewFormData returns the initial empty application: one blank experience
// row and one blank education row so the matching steps have something to
// fill in.
func NewFormData() *FormData {
	return &FormData{
		Skills:      []Skill{},
		Languages:   []Language{},
		Experiences: []Experience{{}},
		Projects:    []Project{},
		Education:   []Education{{}},
		Hobbies:     []Hobby{},
	}
}

// Clone returns a deep copy of d.
func (d *FormData) Clone() *FormData {
	c := *d
	c.Skills = slices.Clone(d.Skills)
	c.Languages = slices.Clone(d.Languages)
	c.Experiences = slices.Clone(d.Experiences)
	c.Projects = slices.Clone(d.Projects)
	c.Education = slices.Clone(d.Education)
	c.Hobbies = slices.Clone(d.Hobbies)
	if d.Resume != nil {
		r := *d.Resume
		c.Resume = &r
	}
	if d.CoverLetter != nil {
		cl := *d.CoverLetter
		c.CoverLetter = &cl
	}
	return &c
}

// Len returns the number of entries in a nested section.
func (d *FormData) Len(s Section) int {
	switch s {
	case SectionExperiences:
		return len(d.Experiences)
	case SectionProjects:
		return len(d.Projects)
	case SectionEducation:
		return len(d.Education)
	case SectionSkills:
		return len(d.Skills)
	case SectionLanguages:
		return len(d.Languages)
	case SectionHobbies:
		return len(d.Hobbies)
	}
	return 0
}

// Append adds an empty entry to a nested section and returns its index.
func (d *FormData) Append(s Section) (int, error) {
	switch s {
	case SectionExperiences:
		d.Experiences = append(d.Experiences, Experience{})
	case SectionProjects:
		d.Projects = append(d.Projects, Project{})
	case SectionEducation:
		d.Education = append(d.Education, Education{})
	case SectionSkills:
		d.Skills = append(d.Skills, Skill{})
	case SectionLanguages:
		d.Languages = append(d.Languages, Language{})
	case SectionHobbies:
		d.Hobbies = append(d.Hobbies, Hobby{})
	default:
		return 0, fmt.Errorf("append to %q: %w", s, ErrUnknownField)
	}
	return d.Len(s) - 1, nil
}

// Remove deletes entry i of a nested section, keeping the order of the rest.
func (d *FormData) Remove(s Section, i int) error {
	if i < 0 || i >= d.Len(s) {
		return fmt.Errorf("remove %s[%d]: %w", s, i, ErrIndexOutOfRange)
	}
	switch s {
	case SectionExperiences:
		d.Experiences = append(d.Experiences[:i], d.Experiences[i+1:]...)
	case SectionProjects:
		d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
	case SectionEducation:
		d.Education = append(d.Education[:i], d.Education[i+1:]...)
	case SectionSkills:
		d.Skills = append(d.Skills[:i], d.Skills[i+1:]...)
	case SectionLanguages:
		d.Languages = append(d.Languages[:i], d.Languages[i+1:]...)
	case SectionHobbies:
		d.Hobbies = append(d.Hobbies[:i], d.Hobbies[i+1:]...)
	default:
		return fmt.Errorf("remove from %q: %w", s, ErrUnknownField)
	}
	return nil
}

// Get returns the string form of the field named by key. Booleans render as
// "true"/"false" and files as their name.
func (d *FormData) Get(key FieldKey) (string, bool) {
	if key.IsFlat() {
		return d.getFlat(key.Field)
	}
	if key.Index < 0 || key.Index >= d.Len(key.Section) {
		return "", false
	}
	i := key.Index
	switch key.Section {
	case SectionExperiences:
		e := &d.Experiences[i]
		return pick(key.Field, map[string]*string{
			FieldJobTitle: &e.JobTitle, FieldCompany: &e.Company, FieldLocation: &e.Location,
			FieldStartDate: &e.StartDate, FieldEndDate: &e.EndDate, FieldDescription: &e.Description,
		}, map[string]*bool{FieldCurrentlyWorking: &e.CurrentlyWorking})
	case SectionProjects:
		p := &d.Projects[i]
		return pick(key.Field, map[string]*string{
			FieldName: &p.Name, FieldRole: &p.Role, FieldURL: &p.URL,
			FieldTechnologies: &p.Technologies, FieldDescription: &p.Description,
		}, nil)
	case SectionEducation:
		e := &d.Education[i]
		return pick(key.Field, map[string]*string{
			FieldInstitution: &e.Institution, FieldDegree: &e.Degree, FieldFieldOfStudy: &e.FieldOfStudy,
			FieldStartYear: &e.StartYear, FieldEndYear: &e.EndYear, FieldGPA: &e.GPA,
		}, nil)
	case SectionSkills:
		s := &d.Skills[i]
		return pick(key.Field, map[string]*string{FieldName: &s.Name, FieldLevel: &s.Level}, nil)
	case SectionLanguages:
		l := &d.Languages[i]
		return pick(key.Field, map[string]*string{FieldName: &l.Name, FieldProficiency: &l.Proficiency}, nil)
	case SectionHobbies:
		h := &d.Hobbies[i]
		return pick(key.Field, map[string]*string{FieldName: &h.Name}, nil)
	}
	return "", false
}

// Set stores value in the field named by key. File fields cannot be set
// through Set; use the upload path instead.
func (d *FormData) Set(key FieldKey, value string) error {
	if key.IsFlat() {
		return d.setFlat(key.Field, value)
	}
	if key.Index < 0 || key.Index >= d.Len(key.Section) {
		return fmt.Errorf("set %s: %w", key, ErrIndexOutOfRange)
	}
	i := key.Index
	var strs map[string]*string
	var bools map[string]*bool
	switch key.Section {
	case SectionExperiences:
		e := &d.Experiences[i]
		strs = map[string]*string{
			FieldJobTitle: &e.JobTitle, FieldCompany: &e.Company, FieldLocation: &e.Location,
			FieldStartDate: &e.StartDate, FieldEndDate: &e.EndDate, FieldDescription: &e.Description,
		}
		bools = map[string]*bool{FieldCurrentlyWorking: &e.CurrentlyWorking}
	case SectionProjects:
		p := &d.Projects[i]
		strs = map[string]*string{
			FieldName: &p.Name, FieldRole: &p.Role, FieldURL: &p.URL,
			FieldTechnologies: &p.Technologies, FieldDescription: &p.Description,
		}
	case SectionEducation:
		e := &d.Education[i]
		strs = map[string]*string{
			FieldInstitution: &e.Institution, FieldDegree: &e.Degree, FieldFieldOfStudy: &e.FieldOfStudy,
			FieldStartYear: &e.StartYear, FieldEndYear: &e.EndYear, FieldGPA: &e.GPA,
		}
	case SectionSkills:
		s := &d.Skills[i]
		strs = map[string]*string{FieldName: &s.Name, FieldLevel: &s.Level}
	case SectionLanguages:
		l := &d.Languages[i]
		strs = map[string]*string{FieldName: &l.Name, FieldProficiency: &l.Proficiency}
	case SectionHobbies:
		strs = map[string]*string{FieldName: &d.Hobbies[i].Name}
	}
	if p, ok := strs[key.Field]; ok {
		*p = value
		return nil
	}
	if p, ok := bools[key.Field]; ok {
		*p = parseBool(value)
		return nil
	}
	return fmt.Errorf("set %s: %w", key, ErrUnknownField)
}

func (d *FormData) flatStrings() map[string]*string {
	return map[string]*string{
		FieldFirstName:           &d.FirstName,
		FieldLastName:            &d.LastName,
		FieldEmail:               &d.Email,
		FieldPhone:               &d.Phone,
		FieldLocation:            &d.Location,
		FieldLinkedIn:            &d.LinkedIn,
		FieldPortfolio:           &d.Portfolio,
		FieldDesiredPosition:     &d.DesiredPosition,
		FieldProfessionalSummary: &d.ProfessionalSummary,
		FieldYearsOfExperience:   &d.YearsOfExperience,
		FieldExpectedSalary:      &d.ExpectedSalary,
		FieldAvailableFrom:       &d.AvailableFrom,
	}
}

func (d *FormData) flatBools() map[string]*bool {
	return map[string]*bool{
		FieldTermsAccepted:   &d.TermsAccepted,
		FieldPrivacyAccepted: &d.PrivacyAccepted,
	}
}

func (d *FormData) getFlat(field string) (string, bool) {
	switch field {
	case FieldResume:
		return fileName(d.Resume), true
	case FieldCoverLetter:
		return fileName(d.CoverLetter), true
	}
	return pick(field, d.flatStrings(), d.flatBools())
}

func (d *FormData) setFlat(field, value string) error {
	if p, ok := d.flatStrings()[field]; ok {
		*p = value
		return nil
	}
	if p, ok := d.flatBools()[field]; ok {
		*p = parseBool(value)
		return nil
	}
	return fmt.Errorf("set %q: %w", field, ErrUnknownField)
}

func pick(field string, strs map[string]*string, bools map[string]*bool) (string, bool) {
	if p, ok := strs[field]; ok {
		return *p, true
	}
	if p, ok := bools[field]; ok {
		return strconv.FormatBool(*p), true
	}
	return "", false
}

func fileName(f *FileRef) string {
	if f == nil {
		return ""
	}
	return f.Name
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "1", "yes", "y":
		return true
	}
	return false
}
