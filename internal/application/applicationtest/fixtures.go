// Package applicationtest provides application records for tests.
package applicationtest

import (
	"time"

	"github.com/Dallionking/talenthub/internal/application"
)

// Now is the fixed clock the fixtures are valid against.
var Now = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// Valid returns an application that passes every step.
func Valid() *application.FormData {
	return &application.FormData{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		Phone:     "(555) 123-4567",
		Location:  "Austin, TX",
		LinkedIn:  "https://linkedin.com/in/janedoe",
		Portfolio: "https://janedoe.dev",

		DesiredPosition:     "Senior Backend Engineer",
		ProfessionalSummary: "Backend engineer with eight years of experience building payment and billing systems in Go.",
		YearsOfExperience:   "8",
		Skills:              []application.Skill{{Name: "Go", Level: "expert"}},
		Languages:           []application.Language{{Name: "English", Proficiency: "native"}},

		Experiences: []application.Experience{{
			JobTitle:         "Backend Engineer",
			Company:          "Acme Corp",
			Location:         "Remote",
			StartDate:        "2019-03",
			CurrentlyWorking: true,
			Description:      "Built and operated the payment services in Go.",
		}},
		Projects: []application.Project{},
		Education: []application.Education{{
			Institution:  "State University",
			Degree:       "BSc",
			FieldOfStudy: "Computer Science",
			StartYear:    "2010",
			EndYear:      "2014",
			GPA:          "3.7",
		}},

		Resume: &application.FileRef{
			Name:     "resume.pdf",
			Path:     "/tmp/resume.pdf",
			Size:     120_000,
			MIMEType: "application/pdf",
		},
		ExpectedSalary: "120000",
		Hobbies:        []application.Hobby{},

		TermsAccepted:   true,
		PrivacyAccepted: true,
	}
}
