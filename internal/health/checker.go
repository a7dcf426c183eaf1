// Package health implements `talenthub doctor`: checks over the
// configuration, the draft directory and the outbox, plus a snapshot of what
// is currently stored there.
package health

import (
	"context"
	"strings"
	"time"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/config"
	"github.com/Dallionking/talenthub/internal/draft"
	"github.com/Dallionking/talenthub/internal/outbox"
)

// Status is the outcome of one check.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name in JSON reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Symbol is the glyph printed in front of a result.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "!"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// Category groups checks by what they inspect.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryStorage Category = "storage"
	CategoryOutbox  Category = "outbox"
)

// Categories lists the categories in report order.
func Categories() []Category {
	return []Category{CategoryConfig, CategoryStorage, CategoryOutbox}
}

// Label is the section heading used in the report.
func (c Category) Label() string {
	switch c {
	case CategoryConfig:
		return "Configuration"
	case CategoryStorage:
		return "Draft Storage"
	case CategoryOutbox:
		return "Submission Outbox"
	}
	return string(c)
}

// CheckResult is the outcome of one check. Hint tells the candidate what to
// run or change when the check did not pass.
type CheckResult struct {
	Name     string
	Category Category
	Status   Status
	Message  string
	Hint     string `json:",omitempty"`
	Duration time.Duration
}

// DraftState describes the saved draft.
type DraftState struct {
	Candidate string
	Position  string
	Step      application.Step
	SavedAt   time.Time
}

// State is what doctor found on disk. Fields stay zero when the location
// could not be read; the checks report why.
type State struct {
	ConfigSource string
	DataDir      string
	Draft        *DraftState `json:",omitempty"`
	DraftBytes   int64
	DraftQuota   int64
	Submitted    int
	Withdrawn    int
}

// Report holds the results of a run.
type Report struct {
	State    State
	Results  []CheckResult
	Passed   int
	Warned   int
	Failed   int
	Total    int
	Duration time.Duration
	Healthy  bool
}

// Check is a named check in a category.
type Check struct {
	Name     string
	Category Category
	Fn       func(ctx context.Context) CheckResult
}

// Checker runs the checks against one configuration.
type Checker struct {
	checks []Check
	cfg    *config.Config
	paths  *config.Paths
}

// NewChecker creates a checker for cfg.
func NewChecker(cfg *config.Config) *Checker {
	c := &Checker{
		cfg:   cfg,
		paths: config.NewPaths(cfg),
	}
	c.registerChecks()
	return c
}

func (c *Checker) add(name string, cat Category, fn func(ctx context.Context) CheckResult) {
	c.checks = append(c.checks, Check{Name: name, Category: cat, Fn: fn})
}

// Checks returns the registered checks in run order.
func (c *Checker) Checks() []Check {
	return c.checks
}

// RunAll runs every check.
func (c *Checker) RunAll(ctx context.Context) *Report {
	return c.run(ctx, func(Check) bool { return true })
}

// RunCategory runs the checks of one category. An unknown category yields
// an empty report.
func (c *Checker) RunCategory(ctx context.Context, category string) *Report {
	cat := Category(category)
	return c.run(ctx, func(ch Check) bool { return ch.Category == cat })
}

func (c *Checker) run(ctx context.Context, keep func(Check) bool) *Report {
	start := time.Now()
	r := &Report{}

	for _, ch := range c.checks {
		if !keep(ch) {
			continue
		}
		res := CheckResult{Status: StatusFail, Message: "context cancelled"}
		if ctx.Err() == nil {
			t := time.Now()
			res = ch.Fn(ctx)
			res.Duration = time.Since(t)
		}
		res.Name, res.Category = ch.Name, ch.Category
		r.add(res)
	}
	if ctx.Err() == nil {
		r.State = c.inspect()
	}

	r.Duration = time.Since(start)
	r.Healthy = r.Failed == 0
	return r
}

func (r *Report) add(res CheckResult) {
	r.Results = append(r.Results, res)
	r.Total++
	switch res.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warned++
	case StatusFail:
		r.Failed++
	}
}

// inspect reads the saved draft and the outbox counts.
func (c *Checker) inspect() State {
	st := State{
		ConfigSource: c.cfg.Source,
		DataDir:      c.paths.Data,
		DraftQuota:   c.cfg.Draft.QuotaBytes,
	}
	if fs, err := draft.NewFileStorage(c.paths.Draft, c.cfg.Draft.QuotaBytes); err == nil {
		st.DraftBytes, _ = fs.Used()
		if snap, ok := draft.NewStore(fs).Load(); ok {
			st.Draft = &DraftState{
				Candidate: strings.TrimSpace(snap.Data.FirstName + " " + snap.Data.LastName),
				Position:  snap.Data.DesiredPosition,
				Step:      snap.Step,
				SavedAt:   snap.SavedAt,
			}
		}
	}
	if box, err := outbox.New(c.paths.Outbox); err == nil {
		if d, err := box.Count(); err == nil {
			st.Submitted, st.Withdrawn = d.Submitted, d.Withdrawn
		}
	}
	return st
}
