package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/config"
	"github.com/Dallionking/talenthub/internal/draft"
	"github.com/Dallionking/talenthub/internal/outbox"
)

// registerChecks registers the checks across the config, storage and outbox
// categories.
func (c *Checker) registerChecks() {
	c.add("config-valid", CategoryConfig, c.checkConfigValid)
	c.add("config-file", CategoryConfig, c.checkConfigFile)
	c.add("upload-policy", CategoryConfig, c.checkUploadPolicy)

	c.add("data-dir", CategoryStorage, c.checkDataDir)
	c.add("draft", CategoryStorage, c.checkDraft)
	c.add("draft-quota", CategoryStorage, c.checkDraftQuota)
	c.add("log-file", CategoryStorage, c.checkLogFile)

	c.add("outbox-dir", CategoryOutbox, c.checkOutboxDir)
	c.add("outbox-records", CategoryOutbox, c.checkOutboxRecords)
}

// ---------------------------------------------------------------------------
// Config checks
// ---------------------------------------------------------------------------

func (c *Checker) checkConfigValid(_ context.Context) CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return CheckResult{Status: StatusPass, Message: "configuration is valid"}
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return CheckResult{
		Status:  StatusFail,
		Message: strings.Join(msgs, "; "),
		Hint:    "fix " + c.configName() + " or regenerate it with 'talenthub config init --force'",
	}
}

func (c *Checker) checkConfigFile(_ context.Context) CheckResult {
	if c.cfg.Source == "" {
		return CheckResult{
			Status:  StatusWarn,
			Message: "no config file, using defaults",
			Hint:    "run 'talenthub config init' to write one",
		}
	}
	return CheckResult{Status: StatusPass, Message: c.cfg.Source}
}

func (c *Checker) checkUploadPolicy(_ context.Context) CheckResult {
	p := c.cfg.UploadPolicy()
	msg := fmt.Sprintf("%s up to %s", strings.Join(p.AllowedExtensions, " "), application.HumanBytes(p.MaxBytes))
	for _, t := range p.AllowedTypes {
		if t == "application/pdf" {
			return CheckResult{Status: StatusPass, Message: msg}
		}
	}
	return CheckResult{
		Status:  StatusWarn,
		Message: "PDF is not an allowed resume type",
		Hint:    "add application/pdf to uploads.allowedTypes",
	}
}

// ---------------------------------------------------------------------------
// Storage checks
// ---------------------------------------------------------------------------

func (c *Checker) checkDataDir(_ context.Context) CheckResult {
	if err := writable(c.paths.Data); err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error(), Hint: "point dataDir at a writable directory"}
	}
	return CheckResult{Status: StatusPass, Message: c.paths.Data}
}

func (c *Checker) checkDraft(_ context.Context) CheckResult {
	fs, err := draft.NewFileStorage(c.paths.Draft, c.cfg.Draft.QuotaBytes)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	if _, ok, err := fs.Get(draft.KeyData); err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	} else if !ok {
		return CheckResult{Status: StatusPass, Message: "no saved draft"}
	}
	snap, ok := draft.NewStore(fs).Load()
	if !ok {
		return CheckResult{
			Status:  StatusWarn,
			Message: "saved draft is unreadable and will be ignored",
			Hint:    "run 'talenthub draft clear' to remove it",
		}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("draft on step %s", snap.Step)}
}

func (c *Checker) checkDraftQuota(_ context.Context) CheckResult {
	fs, err := draft.NewFileStorage(c.paths.Draft, c.cfg.Draft.QuotaBytes)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	if fs.Quota() == 0 {
		return CheckResult{Status: StatusPass, Message: "no quota"}
	}
	used, err := fs.Used()
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	pct := float64(used) / float64(fs.Quota()) * 100
	msg := fmt.Sprintf("%s of %s (%.0f%%)", application.HumanBytes(used), application.HumanBytes(fs.Quota()), pct)
	if pct >= 80 {
		return CheckResult{Status: StatusWarn, Message: msg, Hint: "raise draft.quotaBytes; saves fail once the quota is reached"}
	}
	return CheckResult{Status: StatusPass, Message: msg}
}

func (c *Checker) checkLogFile(_ context.Context) CheckResult {
	if err := writable(filepath.Dir(c.paths.LogFile)); err != nil {
		return CheckResult{Status: StatusWarn, Message: err.Error(), Hint: "set log.file; the wizard runs without a log"}
	}
	return CheckResult{Status: StatusPass, Message: c.paths.LogFile}
}

// ---------------------------------------------------------------------------
// Outbox checks
// ---------------------------------------------------------------------------

func (c *Checker) checkOutboxDir(_ context.Context) CheckResult {
	box, err := outbox.New(c.paths.Outbox)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	if err := writable(box.Dir()); err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	return CheckResult{Status: StatusPass, Message: box.Dir()}
}

func (c *Checker) checkOutboxRecords(_ context.Context) CheckResult {
	box, err := outbox.New(c.paths.Outbox)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	depth, err := box.Count()
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%d submitted, %d withdrawn", depth.Submitted, depth.Withdrawn),
	}
}

func (c *Checker) configName() string {
	if c.cfg.Source == "" {
		return "the TALENTHUB_* environment"
	}
	return c.cfg.Source
}

// writable creates dir if needed and proves a file can be written in it.
func writable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%s is not writable", dir)
		}
		return fmt.Errorf("write to %s: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
