package application

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxUploadBytes is the largest document the wizard accepts.
const DefaultMaxUploadBytes int64 = 5 * 1024 * 1024

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrFileType     = errors.New("file type not allowed")
)

// UploadPolicy bounds what may be attached as a resume or cover letter.
type UploadPolicy struct {
	MaxBytes          int64
	AllowedTypes      []string
	AllowedExtensions []string
}

// DefaultUploadPolicy accepts PDF and Word documents up to 5 MB.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxBytes: DefaultMaxUploadBytes,
		AllowedTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		AllowedExtensions: []string{".pdf", ".doc", ".docx"},
	}
}

// Check returns ErrFileTooLarge or ErrFileType (wrapped) when ref breaks the
// policy.
func (p UploadPolicy) Check(ref FileRef) error {
	if p.MaxBytes > 0 && ref.Size > p.MaxBytes {
		return fmt.Errorf("%s is %s: %w", ref.Name, HumanBytes(ref.Size), ErrFileTooLarge)
	}
	if len(p.AllowedExtensions) > 0 && ref.Name != "" {
		ext := strings.ToLower(filepath.Ext(ref.Name))
		if !slices.Contains(p.AllowedExtensions, ext) {
			return fmt.Errorf("%s: extension %q: %w", ref.Name, ext, ErrFileType)
		}
	}
	if len(p.AllowedTypes) > 0 && !p.AllowsType(ref.MIMEType) {
		return fmt.Errorf("%s: type %q: %w", ref.Name, ref.MIMEType, ErrFileType)
	}
	return nil
}

// AllowsType reports whether mimeType is on the allow-list. Parameters such
// as "; charset=binary" are ignored.
func (p UploadPolicy) AllowsType(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	return slices.Contains(p.AllowedTypes, strings.TrimSpace(strings.ToLower(base)))
}

// Message turns a Check error into the text shown under the field.
func (p UploadPolicy) Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("File must be %s or smaller", HumanBytes(p.MaxBytes))
	case errors.Is(err, ErrFileType):
		return "Only " + strings.ToUpper(strings.Join(trimDots(p.AllowedExtensions), ", ")) + " files are allowed"
	default:
		return "Could not read the file"
	}
}

func trimDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}
	return out
}

// HumanBytes renders a file size the way the upload messages do.
func HumanBytes(n int64) string {
	const mb = 1024 * 1024
	const kb = 1024
	switch {
	case n >= mb:
		if n%mb == 0 {
			return fmt.Sprintf("%d MB", n/mb)
		}
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%d KB", n/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
