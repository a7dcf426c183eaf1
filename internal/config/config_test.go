package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Dallionking/talenthub/internal/application"
)

func TestDefaultsMatchUploadPolicy(t *testing.T) {
	cfg := Default()
	if diff := cmp.Diff(application.DefaultUploadPolicy(), cfg.UploadPolicy()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if cfg.Submission.Delay != 2*time.Second {
		t.Errorf("delay = %v", cfg.Submission.Delay)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("defaults invalid: %v", errs)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talenthub.yaml")
	body := `dataDir: ` + dir + `
uploads:
  maxBytes: 1048576
  allowedExtensions: [PDF, docx]
submission:
  delay: 500ms
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TALENTHUB_SUBMISSION_RESETDELAY", "10s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source != path {
		t.Errorf("source = %q", cfg.Source)
	}
	if cfg.Uploads.MaxBytes != 1<<20 || cfg.Submission.Delay != 500*time.Millisecond {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Submission.ResetDelay != 10*time.Second {
		t.Errorf("env override not applied: %v", cfg.Submission.ResetDelay)
	}
	if diff := cmp.Diff([]string{".pdf", ".docx"}, cfg.UploadPolicy().AllowedExtensions); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	cfg.Uploads.MaxBytes = 0
	cfg.Uploads.AllowedTypes = []string{"pdf"}
	cfg.Submission.Delay = -time.Second
	cfg.Log.Level = "chatty"

	got := map[string]bool{}
	for _, e := range Validate(cfg) {
		got[e.Field] = true
	}
	for _, field := range []string{"dataDir", "uploads.maxBytes", "uploads.allowedTypes", "submission.delay", "log.level"} {
		if !got[field] {
			t.Errorf("missing error for %s (got %v)", field, got)
		}
	}
}

func TestNewPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	cfg.Draft.Dir = "drafts"
	cfg.Submission.OutboxDir = "/srv/outbox"

	got := NewPaths(cfg)
	want := &Paths{
		Data:    "/data",
		Draft:   filepath.Join("/data", "drafts"),
		Outbox:  "/srv/outbox",
		LogFile: filepath.Join("/data", "talenthub.log"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.DataDir = dir
	cfg.Submission.Delay = 750 * time.Millisecond

	path := filepath.Join(dir, "talenthub.yaml")
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	loaded.Source = ""
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
