package application_test

import (
	"testing"

	"github.com/Dallionking/talenthub/internal/application"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"15551234567", "+1 (555) 123-4567"},
		{"+1 555 123 4567", "+1 (555) 123-4567"},
		{"555", "(555"},
		{"55512", "(555) 12"},
		{"+44 20 7946 0958", "+44 20 7946 0958"},
		{"", ""},
		{"n/a", "n/a"},
	}
	for _, tt := range tests {
		if got := application.FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLinkedIn(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jdoe", "https://linkedin.com/in/jdoe"},
		{"@jdoe", "https://linkedin.com/in/jdoe"},
		{"linkedin.com/in/jdoe", "https://linkedin.com/in/jdoe"},
		{"www.linkedin.com/in/jdoe", "https://www.linkedin.com/in/jdoe"},
		{"https://linkedin.com/in/jdoe", "https://linkedin.com/in/jdoe"},
		{"  ", ""},
		{"not a handle", "not a handle"},
	}
	for _, tt := range tests {
		if got := application.NormalizeLinkedIn(tt.in); got != tt.want {
			t.Errorf("NormalizeLinkedIn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
