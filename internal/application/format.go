package application

import (
	"regexp"
	"strings"
)

var linkedInHandle = regexp.MustCompile(`^[A-Za-z0-9_-]{3,100}$`)

// FormatPhone renders North American numbers as "(555) 123-4567" while the
// candidate types. Partial input is formatted progressively, eleven digits
// with a leading 1 get a "+1 " prefix, and anything else (international
// numbers, free text) is returned unchanged.
func FormatPhone(raw string) string {
	digits := digitsOnly(raw)
	if digits == "" {
		return raw
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "+") && !(len(digits) == 11 && digits[0] == '1') {
		return raw
	}
	switch {
	case len(digits) == 11 && digits[0] == '1':
		return "+1 " + formatTen(digits[1:])
	case len(digits) > 10:
		return raw
	default:
		return formatTen(digits)
	}
}

func formatTen(d string) string {
	switch {
	case len(d) <= 3:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}

// NormalizeLinkedIn turns a bare handle or a scheme-less profile address
// into a full https URL. Full URLs and unrecognised input are kept.
func NormalizeLinkedIn(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return v
	}
	if strings.HasPrefix(lower, "linkedin.com/") || strings.HasPrefix(lower, "www.linkedin.com/") {
		return "https://" + v
	}
	handle := strings.TrimPrefix(strings.TrimPrefix(v, "@"), "in/")
	handle = strings.TrimSuffix(handle, "/")
	if linkedInHandle.MatchString(handle) {
		return "https://linkedin.com/in/" + handle
	}
	return v
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
