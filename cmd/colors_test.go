package cmd

import (
	"testing"

	"github.com/fatih/color"

	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

func TestFormatStatusWithColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		name   string
		status scanner.Status
		want   string
	}{
		{name: "pass", status: scanner.StatusPass, want: "pass"},
		{name: "warning", status: scanner.StatusWarning, want: "warning"},
		{name: "fail", status: scanner.StatusFail, want: "fail"},
		{name: "info", status: scanner.StatusInfo, want: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatusWithColor(tt.status); got != tt.want {
				t.Fatalf("formatStatusWithColor(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestFormatScore(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		score int
		want  string
	}{
		{100, "100/100"},
		{80, "80/100"},
		{50, "50/100"},
		{0, "0/100"},
	}

	for _, tt := range tests {
		if got := formatScore(tt.score); got != tt.want {
			t.Errorf("formatScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSectionHeading(t *testing.T) {
	tests := []struct {
		kind scanner.Kind
		want string
	}{
		{scanner.KindSSL, "SSL Certificate"},
		{scanner.KindPorts, "Open Ports"},
		{scanner.KindSubdomains, "Subdomains"},
		{scanner.KindHeaders, "Security Headers"},
	}

	for _, tt := range tests {
		if got := sectionHeading(tt.kind); got != tt.want {
			t.Errorf("sectionHeading(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
