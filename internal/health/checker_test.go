package health

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/application/applicationtest"
	"github.com/Dallionking/talenthub/internal/config"
	"github.com/Dallionking/talenthub/internal/draft"
	"github.com/Dallionking/talenthub/internal/outbox"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Source = filepath.Join(cfg.DataDir, "talenthub.yaml")
	return cfg
}

func byName(r *Report) map[string]CheckResult {
	m := make(map[string]CheckResult, len(r.Results))
	for _, res := range r.Results {
		m[res.Name] = res
	}
	return m
}

func TestRunAllHealthy(t *testing.T) {
	cfg := testConfig(t)
	r := NewChecker(cfg).RunAll(context.Background())

	if !r.Healthy || r.Failed != 0 {
		t.Fatalf("report not healthy: %+v", r.Results)
	}
	if r.Total != len(NewChecker(cfg).Checks()) {
		t.Errorf("total = %d", r.Total)
	}
	got := byName(r)
	if got["draft"].Message != "no saved draft" {
		t.Errorf("draft message = %q", got["draft"].Message)
	}
	if got["outbox-records"].Message != "0 submitted, 0 withdrawn" {
		t.Errorf("outbox message = %q", got["outbox-records"].Message)
	}
}

func TestRunCategory(t *testing.T) {
	r := NewChecker(testConfig(t)).RunCategory(context.Background(), "outbox")
	var names []string
	for _, res := range r.Results {
		names = append(names, res.Name)
	}
	if diff := cmp.Diff([]string{"outbox-dir", "outbox-records"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Uploads.MaxBytes = 0
	r := NewChecker(cfg).RunCategory(context.Background(), "config")
	res := byName(r)["config-valid"]
	if res.Status != StatusFail || !strings.Contains(res.Message, "uploads.maxBytes") {
		t.Errorf("config-valid = %+v", res)
	}
	if r.Healthy {
		t.Error("report should be unhealthy")
	}
}

func TestDraftAndOutboxState(t *testing.T) {
	cfg := testConfig(t)
	paths := config.NewPaths(cfg)

	fs, err := draft.NewFileStorage(paths.Draft, cfg.Draft.QuotaBytes)
	if err != nil {
		t.Fatal(err)
	}
	if err := draft.NewStore(fs).Save(applicationtest.Valid(), application.StepProjectsEducation); err != nil {
		t.Fatal(err)
	}
	box, err := outbox.New(paths.Outbox)
	if err != nil {
		t.Fatal(err)
	}
	if err := box.Push(outbox.Submission{ID: "a1", Status: outbox.StatusSubmitted, Application: applicationtest.Valid()}); err != nil {
		t.Fatal(err)
	}

	r := NewChecker(cfg).RunAll(context.Background())
	got := byName(r)
	if want := "draft on step " + application.StepProjectsEducation.String(); got["draft"].Message != want {
		t.Errorf("draft = %q, want %q", got["draft"].Message, want)
	}
	if got["outbox-records"].Message != "1 submitted, 0 withdrawn" {
		t.Errorf("outbox = %q", got["outbox-records"].Message)
	}

	want := &DraftState{
		Candidate: "Jane Doe",
		Position:  "Senior Backend Engineer",
		Step:      application.StepProjectsEducation,
	}
	if diff := cmp.Diff(want, r.State.Draft, cmpopts.IgnoreFields(DraftState{}, "SavedAt")); diff != "" {
		t.Errorf("draft state (-want +got):\n%s", diff)
	}
	if r.State.Submitted != 1 || r.State.DraftBytes == 0 {
		t.Errorf("state = %+v", r.State)
	}

	out := FormatReport(r)
	for _, s := range []string{"Jane Doe for Senior Backend Engineer", "step 4 of 6 (Projects)", "1 submitted, 0 withdrawn"} {
		if !strings.Contains(out, s) {
			t.Errorf("report missing %q:\n%s", s, out)
		}
	}
}

func TestCorruptDraftWarns(t *testing.T) {
	cfg := testConfig(t)
	paths := config.NewPaths(cfg)
	if err := os.MkdirAll(paths.Draft, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(paths.Draft, draft.KeyData), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewChecker(cfg).RunCategory(context.Background(), "storage")
	res := byName(r)["draft"]
	if res.Status != StatusWarn {
		t.Errorf("draft status = %v (%s)", res.Status, res.Message)
	}
	if r.State.Draft != nil {
		t.Errorf("corrupt draft reported as %+v", r.State.Draft)
	}
	if !strings.Contains(FormatReport(r), "→ run 'talenthub draft clear'") {
		t.Error("report has no hint for the corrupt draft")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewChecker(testConfig(t)).RunAll(ctx)
	if r.Failed != r.Total || r.Healthy {
		t.Errorf("expected every check to fail, got %+v", r)
	}
}

func TestFormatReport(t *testing.T) {
	r := NewChecker(testConfig(t)).RunAll(context.Background())
	out := FormatReport(r)
	for _, want := range []string{"TalentHub Doctor", "HEALTHY", "Configuration", "Draft Storage", "Submission Outbox", "Draft", "none", "0 submitted, 0 withdrawn"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
