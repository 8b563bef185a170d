package scraper

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/txbeach/sandcal/internal/tournament"
)

const (
	atxBeachName     = "ATX Beach"
	atxBeachURL      = "https://www.atxbeach.com/events"
	atxBeachLocation = "Austin, TX"
)

// ATXBeach scrapes the ATX Beach upcoming-events list, a Squarespace
// event calendar with one article per listing.
type ATXBeach struct {
	client *http.Client
	url    string
}

// NewATXBeach creates the ATX Beach adapter.
func NewATXBeach() *ATXBeach {
	return &ATXBeach{client: newHTTPClient(), url: atxBeachURL}
}

func (s *ATXBeach) Name() string { return atxBeachName }

// MixesLeagues is false: the events calendar lists tournaments only;
// leagues live on a separate page.
func (s *ATXBeach) MixesLeagues() bool { return false }

func (s *ATXBeach) Fetch(ctx context.Context) ([]tournament.RawEvent, error) {
	doc, err := getDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	return s.parseEvents(doc), nil
}

func (s *ATXBeach) parseEvents(doc *goquery.Document) []tournament.RawEvent {
	events := make([]tournament.RawEvent, 0)

	doc.Find("article.eventlist-event, .eventlist-event").Each(func(_ int, item *goquery.Selection) {
		title := tournament.TidyTitle(item.Find(".eventlist-title").First().Text())
		if title == "" {
			return
		}

		// Squarespace encodes the machine-readable date on a <time>
		// element; the visible meta text is the fallback.
		dateText, ok := item.Find("time[datetime]").First().Attr("datetime")
		if !ok || dateText == "" {
			dateText = tournament.NormalizeWhitespace(item.Find(".eventlist-meta-date").First().Text())
		}
		if dateText == "" {
			dateText = tournament.NormalizeWhitespace(item.Text())
		}

		link := ""
		if href, ok := item.Find("a.eventlist-title-link, a[href]").First().Attr("href"); ok {
			link = resolveLink(s.url, href)
		}

		events = append(events, tournament.RawEvent{
			Title:    title,
			DateText: dateText,
			Location: atxBeachLocation,
			Link:     link,
		})
	})

	return events
}
