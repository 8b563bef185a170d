package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// apiPathTokens mark request URLs that plausibly carry event listings.
var apiPathTokens = []string{
	"/event", "/events", "graphql", "search", "calendar", "list", "summary",
}

// CapturedResponse is one JSON body recorded off the wire, paired with
// the request URL that produced it.
type CapturedResponse struct {
	URL  string
	Body []byte
}

// Session owns a headless Chrome process. Sessions are single-use per
// page visit and must be closed to release the browser.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession launches headless Chrome bound to parent's deadline.
func NewSession(parent context.Context) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser up front so launch failures surface here rather
	// than inside the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	return &Session{ctx: ctx, cancel: cancel, allocCancel: allocCancel}, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// CaptureJSON navigates to pageURL and records the bodies of XHR and
// fetch responses whose URL looks like an event API call. It scrolls the
// page rounds times to trigger lazy-loaded batches, waiting settle
// between rounds for in-flight requests to finish.
func (s *Session) CaptureJSON(pageURL string, rounds int, settle time.Duration) ([]CapturedResponse, error) {
	var (
		mu       sync.Mutex
		captured []CapturedResponse
		pending  = make(map[network.RequestID]string)
		inflight sync.WaitGroup
	)

	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			if ev.Type != network.ResourceTypeXHR && ev.Type != network.ResourceTypeFetch {
				return
			}
			if !looksLikeAPICall(ev.Response.URL) {
				return
			}
			mu.Lock()
			pending[ev.RequestID] = ev.Response.URL
			mu.Unlock()
		case *network.EventLoadingFinished:
			mu.Lock()
			reqURL, ok := pending[ev.RequestID]
			delete(pending, ev.RequestID)
			mu.Unlock()
			if !ok {
				return
			}
			// Bodies are only retrievable once loading finished; fetch
			// off the event loop so the listener never blocks CDP.
			inflight.Add(1)
			go func(id network.RequestID, reqURL string) {
				defer inflight.Done()
				c := chromedp.FromContext(s.ctx)
				body, err := network.GetResponseBody(id).Do(cdp.WithExecutor(s.ctx, c.Target))
				if err != nil || len(body) == 0 {
					return
				}
				mu.Lock()
				captured = append(captured, CapturedResponse{URL: reqURL, Body: body})
				mu.Unlock()
			}(ev.RequestID, reqURL)
		}
	})

	actions := []chromedp.Action{
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(settle),
	}
	for i := 0; i < rounds; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(settle),
		)
	}

	if err := chromedp.Run(s.ctx, actions...); err != nil {
		return nil, fmt.Errorf("capturing %s: %w", pageURL, err)
	}
	inflight.Wait()

	mu.Lock()
	defer mu.Unlock()
	return captured, nil
}

func looksLikeAPICall(reqURL string) bool {
	lower := strings.ToLower(reqURL)
	for _, token := range apiPathTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
