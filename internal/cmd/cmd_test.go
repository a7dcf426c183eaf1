package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/application/applicationtest"
	"github.com/Dallionking/talenthub/internal/outbox"
)

// setup writes a config rooted in a temp dir and returns its path along
// with the data dir.
func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "talenthub.yaml")
	body := "dataDir: " + dir + "\nsubmission:\n  delay: 0s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		draftJSON, validateJSON, submissionsJSON, doctorJSON, configJSON = false, false, false, false, false
		doctorCategory = ""
		draftStep = 1
		configForce, withdrawYes, draftYes = false, false, false
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeApplication(t *testing.T, name string, data *application.FormData) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := writeFile(path, data); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateCommand(t *testing.T) {
	cfgPath, _ := setup(t)

	valid := writeApplication(t, "valid.yaml", applicationtest.Valid())
	out, err := run(t, "--config", cfgPath, "--no-color", "validate", valid)
	if err != nil {
		t.Fatalf("valid file: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Application is valid") {
		t.Errorf("output = %q", out)
	}

	bad := applicationtest.Valid()
	bad.Email = "not-an-email"
	bad.Experiences[0].CurrentlyWorking = false
	invalid := writeApplication(t, "invalid.json", bad)

	out, err = run(t, "--config", cfgPath, "--no-color", "validate", invalid)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{"email", "experiences_0_endDate", "2 problem(s) found"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, _ = run(t, "--config", cfgPath, "validate", "--json", invalid)
	if !strings.Contains(out, `"experiences_0_endDate"`) {
		t.Errorf("json output = %s", out)
	}
}

func TestDraftImportExport(t *testing.T) {
	cfgPath, _ := setup(t)

	out, err := run(t, "--config", cfgPath, "draft", "show")
	if err != nil || !strings.Contains(out, "No saved draft") {
		t.Fatalf("empty show = %q, %v", out, err)
	}

	want := applicationtest.Valid()
	in := writeApplication(t, "in.yaml", want)
	if out, err := run(t, "--config", cfgPath, "draft", "import", "--step", "3", in); err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}

	out, err = run(t, "--config", cfgPath, "--no-color", "draft", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"Jane Doe", "Senior Backend Engineer", "3. Experience"} {
		if !strings.Contains(out, s) {
			t.Errorf("show missing %q:\n%s", s, out)
		}
	}

	exported := filepath.Join(t.TempDir(), "out.json")
	if _, err := run(t, "--config", cfgPath, "draft", "export", exported); err != nil {
		t.Fatal(err)
	}
	got, err := readApplication(exported)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	if _, err := run(t, "--config", cfgPath, "draft", "clear", "--yes"); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, "--config", cfgPath, "draft", "show")
	if !strings.Contains(out, "No saved draft") {
		t.Errorf("draft still present after clear: %q", out)
	}
}

func TestDraftImportRejectsBadStep(t *testing.T) {
	cfgPath, _ := setup(t)
	in := writeApplication(t, "in.yaml", applicationtest.Valid())
	_, err := run(t, "--config", cfgPath, "draft", "import", "--step", "9", in)
	if err == nil || !strings.Contains(err.Error(), "between 1 and 6") {
		t.Fatalf("step 9: %v", err)
	}
}

func TestSubmissionsListAndWithdraw(t *testing.T) {
	cfgPath, dir := setup(t)

	box, err := outbox.New(filepath.Join(dir, "outbox"))
	if err != nil {
		t.Fatal(err)
	}
	id := "3c59dc04-8f6b-4a5e-9c1a-52d8a8d3e0b1"
	if err := box.Push(outbox.Submission{
		ID:          id,
		SubmittedAt: applicationtest.Now,
		Status:      outbox.StatusSubmitted,
		Application: applicationtest.Valid(),
	}); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", cfgPath, "--no-color", "submissions", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"3c59dc04", "Jane Doe", "submitted", "1 total"} {
		if !strings.Contains(out, s) {
			t.Errorf("list missing %q:\n%s", s, out)
		}
	}

	if _, err := run(t, "--config", cfgPath, "submissions", "withdraw", "--yes", "3c59"); err != nil {
		t.Fatal(err)
	}
	sub, err := box.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Status != outbox.StatusWithdrawn {
		t.Errorf("status = %s", sub.Status)
	}

	if _, err := run(t, "--config", cfgPath, "submissions", "show", "nope"); err == nil || !strings.Contains(err.Error(), "no submission matches") {
		t.Errorf("missing id err = %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	cfgPath, dir := setup(t)
	target := filepath.Join(dir, "nested", "talenthub.yaml")

	if _, err := run(t, "--config", cfgPath, "config", "init", target); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", cfgPath, "config", "init", target); err == nil {
		t.Error("overwrote existing file without --force")
	}

	out, err := run(t, "--config", cfgPath, "config", "path")
	if err != nil || strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q, %v", out, err)
	}
}

func TestDoctor(t *testing.T) {
	cfgPath, _ := setup(t)
	out, err := run(t, "--config", cfgPath, "--no-color", "doctor", "--category", "storage")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Draft Storage") {
		t.Errorf("report = %s", out)
	}
	if _, err := run(t, "--config", cfgPath, "doctor", "--category", "network"); err == nil {
		t.Error("unknown category accepted")
	}
}
