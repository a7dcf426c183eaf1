package wizard

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/logging"
	"github.com/Dallionking/talenthub/internal/outbox"
)

// Receipt confirms an accepted submission.
type Receipt struct {
	ID          string
	SubmittedAt time.Time
}

// Submitter hands a validated application off.
type Submitter interface {
	Submit(ctx context.Context, data *application.FormData) (Receipt, error)
}

// DefaultSubmitDelay is the simulated round trip of StubSubmitter.
const DefaultSubmitDelay = 2 * time.Second

// StubSubmitter stands in for a hiring backend. It waits Delay, strips
// markup from free text and records the application in the outbox.
type StubSubmitter struct {
	Delay  time.Duration
	Outbox *outbox.Outbox
	Logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewStubSubmitter returns a StubSubmitter writing to box.
func NewStubSubmitter(box *outbox.Outbox, delay time.Duration, logger *slog.Logger) *StubSubmitter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StubSubmitter{
		Delay:  delay,
		Outbox: box,
		Logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Submit implements Submitter. Cancelling ctx during the delay aborts the
// submission without writing anything.
func (s *StubSubmitter) Submit(ctx context.Context, data *application.FormData) (Receipt, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, fmt.Errorf("submit application: %w", ctx.Err())
		case <-t.C:
		}
	}

	sub := outbox.Submission{
		ID:          s.newID(),
		SubmittedAt: s.now().UTC(),
		Status:      outbox.StatusSubmitted,
		Application: Sanitize(data),
	}
	if s.Outbox == nil {
		return Receipt{}, fmt.Errorf("submit application: no outbox configured")
	}
	if err := s.Outbox.Push(sub); err != nil {
		s.Logger.Error("submission write failed", "id", sub.ID, "error", err)
		return Receipt{}, fmt.Errorf("submit application: %w", err)
	}
	s.Logger.Info("application submitted", "id", sub.ID, "position", sub.Position())
	return Receipt{ID: sub.ID, SubmittedAt: sub.SubmittedAt}, nil
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// StrictPolicy escapes what it keeps; the record stores plain text.
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(trimmed)))
}

// Sanitize returns a copy of data with markup removed from every free-text
// field.
func Sanitize(data *application.FormData) *application.FormData {
	c := data.Clone()
	for _, p := range []*string{
		&c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Location, &c.LinkedIn, &c.Portfolio,
		&c.DesiredPosition, &c.ProfessionalSummary, &c.YearsOfExperience,
		&c.ExpectedSalary, &c.AvailableFrom,
	} {
		*p = sanitizeText(*p)
	}
	for i := range c.Skills {
		c.Skills[i].Name = sanitizeText(c.Skills[i].Name)
		c.Skills[i].Level = sanitizeText(c.Skills[i].Level)
	}
	for i := range c.Languages {
		c.Languages[i].Name = sanitizeText(c.Languages[i].Name)
		c.Languages[i].Proficiency = sanitizeText(c.Languages[i].Proficiency)
	}
	for i := range c.Hobbies {
		c.Hobbies[i].Name = sanitizeText(c.Hobbies[i].Name)
	}
	for i := range c.Experiences {
		e := &c.Experiences[i]
		for _, p := range []*string{&e.JobTitle, &e.Company, &e.Location, &e.StartDate, &e.EndDate, &e.Description} {
			*p = sanitizeText(*p)
		}
	}
	for i := range c.Projects {
		p := &c.Projects[i]
		for _, s := range []*string{&p.Name, &p.Role, &p.URL, &p.Technologies, &p.Description} {
			*s = sanitizeText(*s)
		}
	}
	for i := range c.Education {
		e := &c.Education[i]
		for _, p := range []*string{&e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartYear, &e.EndYear, &e.GPA} {
			*p = sanitizeText(*p)
		}
	}
	return c
}
