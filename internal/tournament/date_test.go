package tournament

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	tests := []struct {
		text     string
		expected string
	}{
		{"2025-06-14", "2025-06-14"},
		{"Jun 14, 2025", "2025-06-14"},
		{"June 14, 2025", "2025-06-14"},
		{"Jun 14 2025", "2025-06-14"},
		{"06/14/2025", "2025-06-14"},
		{"6/14/2025", "2025-06-14"},
		{"06/14/25", "2025-06-14"},
		{"6.14.25", "2025-06-14"},
		{"Sept 5th, 2025", "2025-09-05"},
		{"Saturday, June 14th, 2025", "2025-06-14"},
		{"Tournament runs 2025-06-14 at the main courts", "2025-06-14"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, err := parseDateAt(tt.text, today)
			if err != nil {
				t.Fatalf("parseDateAt(%q) failed: %v", tt.text, err)
			}
			if d.String() != tt.expected {
				t.Errorf("parseDateAt(%q) = %s, expected %s", tt.text, d, tt.expected)
			}
		})
	}
}

func TestParseDateYearInference(t *testing.T) {
	today := NewDate(2025, time.August, 20)

	tests := []struct {
		text     string
		expected string
	}{
		// Future month this year stays in the current year.
		{"Oct 4", "2025-10-04"},
		// A day that already passed rolls into next year.
		{"Mar 15", "2026-03-15"},
		// Today itself does not roll.
		{"Aug 20", "2025-08-20"},
		// A year appearing shortly after the date is inherited.
		{"Jun 14 Summer Series 2026", "2026-06-14"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, err := parseDateAt(tt.text, today)
			if err != nil {
				t.Fatalf("parseDateAt(%q) failed: %v", tt.text, err)
			}
			if d.String() != tt.expected {
				t.Errorf("parseDateAt(%q) = %s, expected %s", tt.text, d, tt.expected)
			}
		})
	}
}

func TestParseDateFailure(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	for _, text := range []string{"", "sometime in spring", "TBD", "weekly on Tuesdays"} {
		t.Run(text, func(t *testing.T) {
			_, err := parseDateAt(text, today)
			if err == nil {
				t.Fatalf("parseDateAt(%q) succeeded, expected error", text)
			}
			var parseErr *DateParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("parseDateAt(%q) error = %v, expected *DateParseError", text, err)
			}
		})
	}
}

func TestParseSpan(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	tests := []struct {
		text  string
		start string
		end   string
		days  int
	}{
		{"May 3 - May 4, 2025", "2025-05-03", "2025-05-04", 1},
		{"May 3-4, 2025", "2025-05-03", "2025-05-04", 1},
		{"May 3 to Jun 21, 2025", "2025-05-03", "2025-06-21", 49},
		{"Sep 5th – Sep 6th", "2025-09-05", "2025-09-06", 1},
		{"Dec 28 - Jan 3, 2025", "2025-12-28", "2026-01-03", 6},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			span, ok := parseSpanAt(tt.text, today)
			if !ok {
				t.Fatalf("parseSpanAt(%q) found no range", tt.text)
			}
			if span.Start.String() != tt.start || span.End.String() != tt.end {
				t.Errorf("parseSpanAt(%q) = %s..%s, expected %s..%s",
					tt.text, span.Start, span.End, tt.start, tt.end)
			}
			if span.Days() != tt.days {
				t.Errorf("span.Days() = %d, expected %d", span.Days(), tt.days)
			}
		})
	}

	if _, ok := parseSpanAt("Jun 14, 2025", today); ok {
		t.Error("single date should not parse as a range")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.June, 14)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(data) != `"2025-06-14"` {
		t.Errorf("MarshalJSON = %s, expected %q", data, "2025-06-14")
	}

	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip mismatch: %s != %s", back, d)
	}
}
