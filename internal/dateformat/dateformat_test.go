package dateformat

import (
	"testing"
	"time"

	"github.com/prettymuchbryce/autorename/internal/config"
)

func fixedClock() time.Time {
	// a Monday afternoon
	return time.Date(2025, time.December, 1, 15, 3, 4, 56_000_000, time.UTC)
}

func TestMoment_Format(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"YYYY-MM-DD", "2025-12-01"},
		{"YYYYMMDDHHmmss", "20251201150304"},
		{"YY", "25"},
		{"M/D", "12/1"},
		{"MMM MMMM", "Dec December"},
		{"Do", "1st"},
		{"DDDD", "335"},
		{"ddd dddd d", "Mon Monday 1"},
		{"h:mm a", "3:03 pm"},
		{"hh A", "03 PM"},
		{"H:m:s", "15:3:4"},
		{"ss.SSS", "04.056"},
		{"X", "1764601384"},
		{"ZZ", "+0000"},
		{"Z", "+00:00"},
		{"[Week of] YYYY", "Week of 2025"},
		{"100%", "100%"},
		{"", ""},
		{"[", "["},
	}

	f := &Moment{Now: fixedClock}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := f.Format(tt.pattern); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestStrftime_Format(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"%Y-%m-%d", "2025-12-01"},
		{"%H%M%S", "150304"},
		{"%A", "Monday"},
		{"plain", "plain"},
	}

	f := &Strftime{Now: fixedClock}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := f.Format(tt.pattern); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 31: "31st",
	}
	for n, want := range tests {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(config.DateStyleStrftime).(*Strftime); !ok {
		t.Error("expected Strftime for strftime style")
	}
	if _, ok := New(config.DateStyleMoment).(*Moment); !ok {
		t.Error("expected Moment for moment style")
	}
	if _, ok := New("").(*Moment); !ok {
		t.Error("expected Moment by default")
	}
}

func TestMoment_DefaultClock(t *testing.T) {
	got := (&Moment{}).Format("YYYY")
	if len(got) != 4 {
		t.Errorf("expected a 4 digit year, got %q", got)
	}
}
