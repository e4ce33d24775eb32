package afk

import (
	"strings"
	"testing"
)

func TestTimestamps(t *testing.T) {
	if got := RelativeTimestamp(0); got != "N/A" {
		t.Errorf("RelativeTimestamp(0) = %q", got)
	}
	if got := RelativeTimestamp(1700000000); got != "<t:1700000000:R>" {
		t.Errorf("RelativeTimestamp = %q", got)
	}
	if got := FullTimestamp(1700000000); got != "<t:1700000000:R> (<t:1700000000:f>)" {
		t.Errorf("FullTimestamp = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int64]string{
		0:      "0s",
		-5:     "0s",
		45:     "45s",
		90:     "90s",
		600:    "10m",
		5400:   "90m",
		7200:   "2h",
		172800: "2d",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAutoReplyText(t *testing.T) {
	got := AutoReplyText("Mina", "Back at 3", 1700000000)
	want := "Mina is currently AFK.\nMessage: Back at 3\nAFK since: <t:1700000000:R>"
	if got != want {
		t.Errorf("AutoReplyText = %q, want %q", got, want)
	}
}

func TestWelcomeBackText(t *testing.T) {
	tests := []struct {
		name  string
		since int64
		now   int64
		want  string
	}{
		{"two hours", 1000, 1000 + 7200, "You were AFK for 2 hours."},
		{"instant", 1000, 1000, "You were AFK for a moment."},
		{"unknown start", 0, 1000, "Your AFK status has been cleared."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WelcomeBackText("42", tt.since, tt.now)
			if !strings.HasPrefix(got, "Welcome back, <@42>!") || !strings.HasSuffix(got, tt.want) {
				t.Errorf("WelcomeBackText = %q, want suffix %q", got, tt.want)
			}
		})
	}
}
