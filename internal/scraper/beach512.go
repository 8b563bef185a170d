package scraper

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/txbeach/sandcal/internal/tournament"
)

const (
	beach512Name     = "512 Beach"
	beach512URL      = "https://512beach.com/events"
	beach512Location = "Austin, TX"
)

var beach512LinkPattern = regexp.MustCompile(`(?i)https?://512beach\.com/events/\d+\b|/events/\d+\b`)

// Beach512 scrapes 512beach.com. The listing page links out to numbered
// event detail pages; titles and dates live on the detail pages, with
// the sitemap as a discovery fallback when the listing yields nothing.
type Beach512 struct {
	client  *http.Client
	baseURL string
}

// NewBeach512 creates the 512 Beach adapter.
func NewBeach512() *Beach512 {
	return &Beach512{client: newHTTPClient(), baseURL: beach512URL}
}

func (s *Beach512) Name() string { return beach512Name }

// MixesLeagues is false: 512 Beach publishes tournaments exclusively.
func (s *Beach512) MixesLeagues() bool { return false }

// Fetch discovers event links and scrapes each detail page. Individual
// detail pages that fail to fetch or yield no usable title are skipped.
func (s *Beach512) Fetch(ctx context.Context) ([]tournament.RawEvent, error) {
	links := make(map[string]bool)

	doc, listErr := getDocument(ctx, s.client, s.baseURL)
	if listErr == nil {
		s.collectListingLinks(doc, links)
	}
	if len(links) == 0 {
		s.collectSitemapLinks(ctx, links)
	}
	if len(links) == 0 {
		if listErr != nil {
			return nil, listErr
		}
		return []tournament.RawEvent{}, nil
	}

	events := make([]tournament.RawEvent, 0, len(links))
	for _, link := range sortedEventLinks(links) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if raw, ok := s.scrapeDetail(ctx, link); ok {
			events = append(events, raw)
		}
	}
	return events, nil
}

func (s *Beach512) collectListingLinks(doc *goquery.Document, links map[string]bool) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link := canonicalEventLink(resolveLink(s.baseURL, href))
		if isEventLink(link) {
			links[link] = true
		}
	})

	// Scripts occasionally embed event URLs the anchor scan misses.
	html, err := doc.Html()
	if err != nil {
		return
	}
	for _, match := range beach512LinkPattern.FindAllString(html, -1) {
		link := canonicalEventLink(resolveLink(s.baseURL, match))
		if isEventLink(link) {
			links[link] = true
		}
	}
}

func (s *Beach512) collectSitemapLinks(ctx context.Context, links map[string]bool) {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return
	}
	root := base.Scheme + "://" + base.Host
	for _, path := range []string{"/sitemap.xml", "/sitemap_index.xml"} {
		body, err := get(ctx, s.client, root+path)
		if err != nil {
			continue
		}
		for _, match := range beach512LinkPattern.FindAllString(string(body), -1) {
			link := canonicalEventLink(resolveLink(s.baseURL, match))
			if isEventLink(link) {
				links[link] = true
			}
		}
	}
}

func (s *Beach512) scrapeDetail(ctx context.Context, link string) (tournament.RawEvent, bool) {
	doc, err := getDocument(ctx, s.client, link)
	if err != nil {
		return tournament.RawEvent{}, false
	}

	blocks := jsonLDBlocks(doc)
	candidates := titleCandidates(doc)
	candidates = append(candidates, jsonLDNames(blocks)...)

	title := bestTitle(candidates)
	if title == "" {
		return tournament.RawEvent{}, false
	}

	dateText := jsonLDStartDate(blocks)
	if dateText == "" {
		dateText = tournament.NormalizeWhitespace(doc.Find("body").Text())
	}

	return tournament.RawEvent{
		Title:    title,
		DateText: dateText,
		Location: beach512Location,
		Link:     link,
	}, true
}

// titleCandidates gathers the usual places an event page hides its name.
func titleCandidates(doc *goquery.Document) []string {
	candidates := make([]string, 0, 8)
	for _, sel := range []struct {
		selector string
		attr     string
	}{
		{`meta[property="og:title"]`, "content"},
		{`meta[name="twitter:title"]`, "content"},
		{"h1", ""},
		{"h2", ""},
		{"h3", ""},
		{"h4", ""},
		{"title", ""},
	} {
		node := doc.Find(sel.selector).First()
		if node.Length() == 0 {
			continue
		}
		if sel.attr != "" {
			if value, ok := node.Attr(sel.attr); ok {
				candidates = append(candidates, value)
			}
			continue
		}
		candidates = append(candidates, node.Text())
	}
	return candidates
}

// sortedEventLinks orders links by descending event id so the newest
// listings are scraped first.
func sortedEventLinks(links map[string]bool) []string {
	ordered := make([]string, 0, len(links))
	for link := range links {
		ordered = append(ordered, link)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return eventID(ordered[i]) > eventID(ordered[j])
	})
	return ordered
}

func eventID(link string) int {
	m := eventPathPattern.FindStringSubmatch(pathOf(link))
	if m == nil {
		return 0
	}
	id, _ := strconv.Atoi(m[1])
	return id
}
