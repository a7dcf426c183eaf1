package config

import (
	"fmt"
	"strings"

	"github.com/Dallionking/talenthub/internal/logging"
)

// ValidationError describes a single config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for a single validation error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks the Config for completeness and consistency. It returns a
// slice of all discovered issues rather than stopping at the first one.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(cfg.DataDir) == "" {
		errs = append(errs, ValidationError{Field: "dataDir", Message: "required field is empty"})
	}

	// --- Draft ---
	if cfg.Draft.QuotaBytes < 0 {
		errs = append(errs, ValidationError{
			Field:   "draft.quotaBytes",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.Draft.QuotaBytes),
		})
	}

	// --- Uploads ---
	if cfg.Uploads.MaxBytes <= 0 {
		errs = append(errs, ValidationError{
			Field:   "uploads.maxBytes",
			Message: fmt.Sprintf("must be > 0, got %d", cfg.Uploads.MaxBytes),
		})
	}
	if len(cfg.Uploads.AllowedTypes) == 0 {
		errs = append(errs, ValidationError{
			Field:   "uploads.allowedTypes",
			Message: "at least one MIME type is required",
		})
	}
	for _, t := range cfg.Uploads.AllowedTypes {
		if !strings.Contains(t, "/") {
			errs = append(errs, ValidationError{
				Field:   "uploads.allowedTypes",
				Message: fmt.Sprintf("%q is not a MIME type", t),
			})
		}
	}
	if len(cfg.Uploads.AllowedExtensions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "uploads.allowedExtensions",
			Message: "at least one extension is required",
		})
	}

	// --- Submission ---
	if cfg.Submission.Delay < 0 {
		errs = append(errs, ValidationError{
			Field:   "submission.delay",
			Message: fmt.Sprintf("must be >= 0, got %s", cfg.Submission.Delay),
		})
	}
	if cfg.Submission.ResetDelay < 0 {
		errs = append(errs, ValidationError{
			Field:   "submission.resetDelay",
			Message: fmt.Sprintf("must be >= 0, got %s", cfg.Submission.ResetDelay),
		})
	}

	// --- Log ---
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	return errs
}
