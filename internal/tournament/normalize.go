package tournament

import (
	"errors"
	"regexp"
	"strings"
)

// RawEvent is a source-shaped listing before normalization. Adapters fill
// whatever fields their source exposes; Normalize resolves the rest.
type RawEvent struct {
	Title    string
	DateText string // single date or a textual range like "May 3 - Jun 21"
	EndText  string // explicit range end when the source reports one
	Location string
	Link     string
	Host     string // overrides the adapter source when the listing names a facility
}

// ErrEmptyTitle reports a listing whose title is empty after cleanup.
var ErrEmptyTitle = errors.New("empty title after cleanup")

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	ctaPattern        = regexp.MustCompile(`(?i)\b(register|details|learn more|click here)\b`)
)

// NormalizeWhitespace collapses runs of whitespace to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// TidyTitle cleans a scraped title: collapses whitespace and strips
// call-to-action noise the facility sites embed in listing text.
func TidyTitle(s string) string {
	s = NormalizeWhitespace(s)
	s = ctaPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "|", " ")
	return NormalizeWhitespace(s)
}

// Normalize converts a raw listing into a canonical record plus its
// original date span. The record's date is always the span start; the
// span itself feeds league classification. Location and link pass
// through verbatim and may be empty.
func Normalize(source string, raw RawEvent) (Tournament, Span, error) {
	return normalizeAt(source, raw, Today())
}

func normalizeAt(source string, raw RawEvent, today Date) (Tournament, Span, error) {
	title := TidyTitle(raw.Title)
	if title == "" {
		return Tournament{}, Span{}, ErrEmptyTitle
	}

	span, err := resolveSpan(raw, today)
	if err != nil {
		return Tournament{}, Span{}, err
	}

	if raw.Host != "" {
		source = NormalizeWhitespace(raw.Host)
	}

	return Tournament{
		Title:    title,
		Date:     span.Start,
		Source:   source,
		Location: strings.TrimSpace(raw.Location),
		Link:     strings.TrimSpace(raw.Link),
	}, span, nil
}

func resolveSpan(raw RawEvent, today Date) (Span, error) {
	start, err := parseDateAt(raw.DateText, today)
	if err != nil {
		return Span{}, err
	}

	if raw.EndText != "" {
		end, err := parseDateAt(raw.EndText, today)
		if err == nil {
			if end.Before(start) {
				end = NewDate(end.Year()+1, end.Month(), end.Day())
			}
			return Span{Start: start, End: end}, nil
		}
		// A malformed end date degrades to a single-day span; the start
		// date is still fully resolved.
	}

	if span, ok := parseSpanAt(raw.DateText, today); ok {
		return span, nil
	}

	return Span{Start: start, End: start}, nil
}
