package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const beach512Detail12 = `
<html><head>
<title>AVP Next Qualifier | 512 Beach</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Event","name":"AVP Next Qualifier","startDate":"2025-06-14"}
</script>
</head><body><h1>AVP Next Qualifier</h1></body></html>`

const beach512Detail7 = `
<html><head><title>Spring Fling Open</title></head>
<body><h1>Spring Fling Open</h1><p>Join us May 3, 2025 for doubles.</p></body></html>`

func newBeach512TestServer(t *testing.T, listing string) (*httptest.Server, *Beach512) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listing))
	})
	mux.HandleFunc("/events/12", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(beach512Detail12))
	})
	mux.HandleFunc("/events/7", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(beach512Detail7))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := &Beach512{client: newHTTPClient(), baseURL: srv.URL + "/events"}
	return srv, s
}

func TestBeach512Fetch(t *testing.T) {
	listing := `<html><body>
	  <a href="/events/7">View Event</a>
	  <a href="/events/12?utm=home">View Event</a>
	  <a href="/about">About</a>
	</body></html>`
	srv, s := newBeach512TestServer(t, listing)

	events, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}

	// Newest event id is scraped first.
	if events[0].Title != "AVP Next Qualifier" {
		t.Errorf("events[0].Title = %q", events[0].Title)
	}
	if events[0].DateText != "2025-06-14" {
		t.Errorf("events[0].DateText = %q, want JSON-LD startDate", events[0].DateText)
	}
	if want := srv.URL + "/events/12"; events[0].Link != want {
		t.Errorf("events[0].Link = %q, want canonical %q", events[0].Link, want)
	}

	if events[1].Title != "Spring Fling Open" {
		t.Errorf("events[1].Title = %q", events[1].Title)
	}
	if events[1].DateText == "" {
		t.Error("events[1].DateText empty, want body text fallback")
	}
}

func TestBeach512FetchEmptyListing(t *testing.T) {
	_, s := newBeach512TestServer(t, `<html><body><p>No events yet.</p></body></html>`)

	events, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}
