package scraper

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/txbeach/sandcal/internal/tournament"
)

const (
	thirdCoastName     = "Third Coast VB"
	thirdCoastURL      = "https://thirdcoastvolleyball.com/tournaments/tournament-schedule/"
	thirdCoastLocation = "Houston, TX"
)

var rowYearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// pastSectionMarkers end the upcoming-schedule portion of the page; rows
// after them are historical results.
var pastSectionMarkers = []string{
	"past tournament", "past event", "past result", "previous tournament",
}

// ThirdCoast scrapes the Third Coast VB schedule table: one row per
// tournament with a date cell and a name cell.
type ThirdCoast struct {
	client *http.Client
	url    string
}

// NewThirdCoast creates the Third Coast VB adapter.
func NewThirdCoast() *ThirdCoast {
	return &ThirdCoast{client: newHTTPClient(), url: thirdCoastURL}
}

func (s *ThirdCoast) Name() string { return thirdCoastName }

// MixesLeagues is false: the schedule page lists tournaments only.
func (s *ThirdCoast) MixesLeagues() bool { return false }

func (s *ThirdCoast) Fetch(ctx context.Context) ([]tournament.RawEvent, error) {
	doc, err := getDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	return s.parseSchedule(doc), nil
}

func (s *ThirdCoast) parseSchedule(doc *goquery.Document) []tournament.RawEvent {
	events := make([]tournament.RawEvent, 0)
	currentYear := tournament.Today().Year()

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		// Section markers often sit in a single spanning cell, so check
		// the whole row before the two-cell gate.
		if isPastSection(tournament.NormalizeWhitespace(row.Text())) {
			return false
		}

		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return true
		}

		dateText := tournament.NormalizeWhitespace(cells.Eq(0).Text())
		nameText := tournament.NormalizeWhitespace(cells.Eq(1).Text())

		if isHeaderRow(dateText, nameText) {
			return true
		}

		title := tournament.TidyTitle(nameText)
		if title == "" {
			return true
		}

		// Rows carrying an explicit prior year are historical leftovers.
		if m := rowYearPattern.FindString(dateText + " " + nameText); m != "" {
			if year, err := strconv.Atoi(m); err == nil && year < currentYear {
				return true
			}
		}

		events = append(events, tournament.RawEvent{
			Title:    title,
			DateText: dateText,
			Location: thirdCoastLocation,
			Link:     s.rowLink(row),
		})
		return true
	})

	return events
}

func (s *ThirdCoast) rowLink(row *goquery.Selection) string {
	link := s.url
	row.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		link = resolveLink(s.url, href)
		return false
	})
	return link
}

func isHeaderRow(dateText, nameText string) bool {
	if dateText == "" || nameText == "" {
		return true
	}
	return strings.EqualFold(dateText, "date") && strings.EqualFold(nameText, "name")
}

func isPastSection(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range pastSectionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
