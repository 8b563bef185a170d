package scraper

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/txbeach/sandcal/internal/tournament"
)

const (
	beach210Name     = "210 Beach Sideliners"
	beach210URL      = "https://www.210beach.com/tournaments"
	beach210Location = "San Antonio, TX"
)

// Beach210 scrapes the 210 Beach Sideliners tournament list. The page
// renders each tournament as a card; the markup shifts between site
// updates, so the parser accepts several card shapes and falls back to
// fuzzy date extraction from the card text.
type Beach210 struct {
	client *http.Client
	url    string
}

// NewBeach210 creates the 210 Beach Sideliners adapter.
func NewBeach210() *Beach210 {
	return &Beach210{client: newHTTPClient(), url: beach210URL}
}

func (s *Beach210) Name() string { return beach210Name }

// MixesLeagues is false: the tournaments page is separate from league
// signups.
func (s *Beach210) MixesLeagues() bool { return false }

func (s *Beach210) Fetch(ctx context.Context) ([]tournament.RawEvent, error) {
	doc, err := getDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	return s.parseEvents(doc), nil
}

func (s *Beach210) parseEvents(doc *goquery.Document) []tournament.RawEvent {
	events := make([]tournament.RawEvent, 0)
	seen := make(map[string]bool)

	doc.Find(".event-card, .event-item, article, li.event").Each(func(_ int, card *goquery.Selection) {
		title := bestTitle([]string{
			card.Find("h1, h2, h3, h4").First().Text(),
			card.Find(".event-title, .title").First().Text(),
		})
		if title == "" {
			return
		}

		cardText := tournament.NormalizeWhitespace(card.Text())
		if seen[title+"|"+cardText] {
			return
		}
		seen[title+"|"+cardText] = true

		link := ""
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			link = resolveLink(s.url, href)
		}

		events = append(events, tournament.RawEvent{
			Title:    title,
			DateText: cardText,
			Location: beach210Location,
			Link:     link,
		})
	})

	return events
}
