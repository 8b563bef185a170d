package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/txbeach/sandcal/internal/tournament"
)

// Source is one external site whose event listings are independently
// fetched and parsed. Adapters are stateless across calls: each Fetch
// owns its network resources for the duration of the call and respects
// the deadline on ctx. Zero listings is a valid empty result, not an
// error.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]tournament.RawEvent, error)
	// MixesLeagues reports whether the source publishes league schedules
	// in the same feed as tournaments, requiring span-based filtering.
	MixesLeagues() bool
}

// FetchError reports a failure reaching or parsing one source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TimeoutError reports a source exceeding its fetch budget.
type TimeoutError struct {
	Source string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: fetch exceeded %s budget", e.Source, e.Budget)
}

// DefaultSources returns every registered facility adapter in stable
// invocation order. The order matters: deduplication keeps the
// first-encountered record, so earlier sources win ties.
func DefaultSources() []Source {
	return []Source{
		NewBeach512(),
		NewATXBeach(),
		NewBeach210(),
		NewSportsGarden(),
		NewThirdCoast(),
		NewVolleyballLife(),
	}
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// get fetches a page with browser-like headers, retrying transient
// failures with exponential backoff. Client errors (4xx) and context
// expiry are not retried.
func get(ctx context.Context, client *http.Client, pageURL string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// getDocument fetches a page and parses it into a goquery document.
func getDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	body, err := get(ctx, client, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

var eventPathPattern = regexp.MustCompile(`(?i)^/events?/(\d+)$`)

// canonicalEventLink strips query, fragment and trailing slash so the
// same event page always yields the same link.
func canonicalEventLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String()
}

// isEventLink reports whether link points at a numbered event page.
func isEventLink(link string) bool {
	return eventPathPattern.MatchString(pathOf(link))
}

func pathOf(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimRight(parsed.Path, "/")
}

// resolveLink makes href absolute against base.
func resolveLink(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
