package tournament

import (
	"errors"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	raw := RawEvent{
		Title:    "  Revco   Spring Open  Register ",
		DateText: "May 3, 2025",
		Location: "Austin, TX",
		Link:     "https://512beach.com/events/42",
	}

	rec, span, err := normalizeAt("512 Beach", raw, today)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if rec.Title != "Revco Spring Open" {
		t.Errorf("title = %q, expected cleaned title", rec.Title)
	}
	if rec.Date.String() != "2025-05-03" {
		t.Errorf("date = %s, expected 2025-05-03", rec.Date)
	}
	if rec.Source != "512 Beach" {
		t.Errorf("source = %q", rec.Source)
	}
	if rec.Location != "Austin, TX" || rec.Link != "https://512beach.com/events/42" {
		t.Errorf("location/link not passed through: %q %q", rec.Location, rec.Link)
	}
	if span.Days() != 0 {
		t.Errorf("single-day listing should have zero span, got %d", span.Days())
	}
}

func TestNormalizeEmptyTitle(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	for _, title := range []string{"", "   ", "Register", "learn more | details"} {
		_, _, err := normalizeAt("512 Beach", RawEvent{Title: title, DateText: "May 3, 2025"}, today)
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("title %q: err = %v, expected ErrEmptyTitle", title, err)
		}
	}
}

func TestNormalizeUnparseableDate(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	_, _, err := normalizeAt("512 Beach", RawEvent{Title: "Spring Open", DateText: "sometime in spring"}, today)
	var parseErr *DateParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, expected *DateParseError", err)
	}
}

func TestNormalizeOptionalFields(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	rec, _, err := normalizeAt("512 Beach", RawEvent{Title: "Spring Open", DateText: "May 3, 2025"}, today)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if rec.Location != "" || rec.Link != "" {
		t.Errorf("missing optional fields should default to empty, got %q %q", rec.Location, rec.Link)
	}
}

func TestNormalizeRange(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	rec, span, err := normalizeAt("Sports Garden DFW", RawEvent{
		Title:    "Summer League Session",
		DateText: "May 3 to Jun 21, 2025",
	}, today)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if rec.Date.String() != "2025-05-03" {
		t.Errorf("range should normalize to its start, got %s", rec.Date)
	}
	if span.Days() != 49 {
		t.Errorf("span.Days() = %d, expected 49", span.Days())
	}
}

func TestNormalizeExplicitEnd(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	_, span, err := normalizeAt("VolleyballLife", RawEvent{
		Title:    "Juniors Beach Series",
		DateText: "2025-06-07",
		EndText:  "2025-06-08",
	}, today)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if span.Start.String() != "2025-06-07" || span.End.String() != "2025-06-08" {
		t.Errorf("span = %s..%s", span.Start, span.End)
	}
}

func TestNormalizeHostOverride(t *testing.T) {
	today := NewDate(2025, time.March, 1)

	rec, _, err := normalizeAt("VolleyballLife", RawEvent{
		Title:    "Coed 4s Open",
		DateText: "2025-06-07",
		Host:     "ATX Beach",
	}, today)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if rec.Source != "ATX Beach" {
		t.Errorf("source = %q, expected host override", rec.Source)
	}
}
