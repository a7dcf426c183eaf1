package outbox

import (
	"time"

	"github.com/Dallionking/talenthub/internal/application"
)

// Status of a submission record
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusWithdrawn Status = "withdrawn"
)

// Submission is one application handed in through the wizard.
type Submission struct {
	ID          string                `json:"id" yaml:"id"`
	SubmittedAt time.Time             `json:"submitted_at" yaml:"submitted_at"`
	Status      Status                `json:"status" yaml:"status"`
	WithdrawnAt *time.Time            `json:"withdrawn_at,omitempty" yaml:"withdrawn_at,omitempty"`
	Application *application.FormData `json:"application" yaml:"application"`
}

// Candidate returns the applicant's display name.
func (s Submission) Candidate() string {
	if s.Application == nil {
		return ""
	}
	return s.Application.FirstName + " " + s.Application.LastName
}

// Position returns the role applied for.
func (s Submission) Position() string {
	if s.Application == nil {
		return ""
	}
	return s.Application.DesiredPosition
}

// Depth summarizes the outbox
type Depth struct {
	Submitted int
	Withdrawn int
}

// Total is the number of records in either state.
func (d Depth) Total() int {
	return d.Submitted + d.Withdrawn
}
