package tournament

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a single calendar day in UTC. It marshals as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate creates a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	t := d.Time.AddDate(0, 0, n)
	return NewDate(t.Year(), t.Month(), t.Day())
}

// DaysUntil returns the number of days from d to end.
func (d Date) DaysUntil(end Date) int {
	return int(end.Time.Sub(d.Time).Hours() / 24)
}

// MarshalJSON encodes the date as "2006-01-02", or "" for the zero date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "2006-01-02" string; "" yields the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = NewDate(t.Year(), t.Month(), t.Day())
	return nil
}

// Span is the original date range of a listing. Single-day listings have
// Start == End.
type Span struct {
	Start Date
	End   Date
}

// Days returns the length of the span in days, 0 for a single day.
func (s Span) Days() int {
	if s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	return s.Start.DaysUntil(s.End)
}

// DateParseError reports date text no known format matched.
type DateParseError struct {
	Text string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparseable date: %q", e.Text)
}

const monthToken = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)`

var (
	isoDatePattern = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	yearPattern    = regexp.MustCompile(`\b(20\d{2})\b`)
	monthPattern   = regexp.MustCompile(
		`(?i)\b(` + monthToken + `)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(20\d{2}))?\b`)
	rangePattern = regexp.MustCompile(
		`(?i)\b(` + monthToken + `)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*(?:-|–|—|\bto\b)\s*(?:(` + monthToken + `)[a-z]*\.?\s+)?(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(20\d{2}))?\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func monthFromToken(tok string) (time.Month, bool) {
	tok = strings.ToLower(tok)
	if len(tok) > 3 {
		tok = tok[:3]
	}
	m, ok := months[tok]
	return m, ok
}

// Plain layouts tried before falling back to fuzzy extraction.
var dateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1.2.06",
	"1.2.2006",
}

// ParseDate resolves date text to a calendar day. Text without an
// explicit year resolves to the current year, rolled forward one year if
// the day has already passed. Fails with *DateParseError when no format
// matches.
func ParseDate(text string) (Date, error) {
	return parseDateAt(text, Today())
}

func parseDateAt(text string, today Date) (Date, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Date{}, &DateParseError{Text: text}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}

	if m := isoDatePattern.FindStringSubmatch(trimmed); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := makeDate(year, time.Month(month), day); ok {
			return d, nil
		}
	}

	m := monthPattern.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return Date{}, &DateParseError{Text: text}
	}
	monthTok := sliceGroup(trimmed, m, 1)
	dayTok := sliceGroup(trimmed, m, 2)
	yearTok := sliceGroup(trimmed, m, 3)

	month, ok := monthFromToken(monthTok)
	if !ok {
		return Date{}, &DateParseError{Text: text}
	}
	day, err := strconv.Atoi(dayTok)
	if err != nil {
		return Date{}, &DateParseError{Text: text}
	}

	if yearTok == "" {
		// Only inherit a year appearing close after the matched date text,
		// to avoid picking up footer years from unrelated page text.
		window := trimmed[m[1]:min(len(trimmed), m[1]+80)]
		if years := yearPattern.FindAllString(window, -1); len(years) > 0 {
			yearTok = years[len(years)-1]
		}
	}

	if yearTok != "" {
		year, _ := strconv.Atoi(yearTok)
		if d, ok := makeDate(year, month, day); ok {
			return d, nil
		}
		return Date{}, &DateParseError{Text: text}
	}

	d, ok := makeDate(today.Year(), month, day)
	if !ok {
		return Date{}, &DateParseError{Text: text}
	}
	if d.Before(today) {
		d, ok = makeDate(today.Year()+1, month, day)
		if !ok {
			return Date{}, &DateParseError{Text: text}
		}
	}
	return d, nil
}

// ParseSpan extracts a start-end date range such as "May 3 - Jun 21" or
// "Sep 5th to Sep 6th, 2026" from text. Reports ok=false when the text
// holds no recognizable range.
func ParseSpan(text string) (Span, bool) {
	return parseSpanAt(text, Today())
}

func parseSpanAt(text string, today Date) (Span, bool) {
	m := rangePattern.FindStringSubmatchIndex(text)
	if m == nil {
		return Span{}, false
	}

	startMonthTok := sliceGroup(text, m, 1)
	startDayTok := sliceGroup(text, m, 2)
	endMonthTok := sliceGroup(text, m, 3)
	endDayTok := sliceGroup(text, m, 4)
	yearTok := sliceGroup(text, m, 5)

	if endMonthTok == "" {
		endMonthTok = startMonthTok
	}

	startMonth, ok := monthFromToken(startMonthTok)
	if !ok {
		return Span{}, false
	}
	endMonth, ok := monthFromToken(endMonthTok)
	if !ok {
		return Span{}, false
	}
	startDay, err := strconv.Atoi(startDayTok)
	if err != nil {
		return Span{}, false
	}
	endDay, err := strconv.Atoi(endDayTok)
	if err != nil {
		return Span{}, false
	}

	var year int
	switch {
	case yearTok != "":
		year, _ = strconv.Atoi(yearTok)
	case yearPattern.MatchString(text):
		year, _ = strconv.Atoi(yearPattern.FindString(text))
	default:
		start, err := parseDateAt(fmt.Sprintf("%s %d", startMonthTok, startDay), today)
		if err != nil {
			return Span{}, false
		}
		year = start.Year()
	}

	start, ok := makeDate(year, startMonth, startDay)
	if !ok {
		return Span{}, false
	}
	end, ok := makeDate(year, endMonth, endDay)
	if !ok {
		return Span{}, false
	}
	if end.Before(start) {
		// Ranges like "Dec 28 - Jan 3" wrap into the next year.
		end, ok = makeDate(year+1, endMonth, endDay)
		if !ok {
			return Span{}, false
		}
	}
	return Span{Start: start, End: end}, true
}

// makeDate validates that the components name a real calendar day.
func makeDate(year int, month time.Month, day int) (Date, bool) {
	if day < 1 || day > 31 {
		return Date{}, false
	}
	d := NewDate(year, month, day)
	if d.Month() != month || d.Day() != day {
		return Date{}, false
	}
	return d, true
}

func sliceGroup(s string, m []int, group int) string {
	lo, hi := m[2*group], m[2*group+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}
