package scraper

import "testing"

func TestDecodeVBLEvents(t *testing.T) {
	payload := []byte(`{
	  "data": {
	    "results": [
	      {
	        "id": 9341,
	        "name": "Sand Bash Doubles",
	        "startDate": "2025-06-14",
	        "endDate": "2025-06-14",
	        "teamCount": 32,
	        "hostName": "Sports Garden",
	        "locations": [{"name": "Dallas, TX"}]
	      },
	      {
	        "id": 9342,
	        "name": "Monday Night League",
	        "startDate": "2025-06-02",
	        "endDate": "2025-08-04",
	        "eventType": "League",
	        "statusId": 1
	      },
	      {
	        "name": "Not An Event",
	        "startDate": "2025-06-14"
	      }
	    ]
	  }
	}`)

	events := decodeVBLEvents(payload)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	ev := events[0]
	if ev.Title != "Sand Bash Doubles" {
		t.Errorf("Title = %q", ev.Title)
	}
	if ev.DateText != "2025-06-14" || ev.EndText != "2025-06-14" {
		t.Errorf("dates = %q..%q", ev.DateText, ev.EndText)
	}
	if ev.Location != "Dallas, TX" {
		t.Errorf("Location = %q, want nested locations entry", ev.Location)
	}
	if ev.Host != "Sports Garden DFW" {
		t.Errorf("Host = %q, want canonical facility name", ev.Host)
	}
	if want := "https://volleyballlife.com/event/9341"; ev.Link != want {
		t.Errorf("Link = %q, want %q", ev.Link, want)
	}
}

func TestDecodeVBLEventsLeagueLabel(t *testing.T) {
	payload := []byte(`[
	  {
	    "name": "Spring Tournament Series",
	    "eventType": "League",
	    "startDate": "2026-03-07",
	    "endDate": "2026-03-07"
	  },
	  {
	    "name": "Friday Fours",
	    "eventType": "League Tournament",
	    "startDate": "2026-03-13",
	    "endDate": "2026-03-13"
	  },
	  {
	    "name": "Monday Night Sixes",
	    "eventType": "League",
	    "startDate": "2026-03-02",
	    "endDate": "2026-05-04"
	  }
	]`)

	events := decodeVBLEvents(payload)
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Title != "Spring Tournament Series" {
		t.Errorf("tournament-titled listing dropped on league label, got %q first", events[0].Title)
	}
	if events[1].Title != "Friday Fours" {
		t.Errorf("tournament-labeled listing dropped on league label, got %q second", events[1].Title)
	}
}

func TestDecodeVBLEventsPrefersExplicitURL(t *testing.T) {
	payload := []byte(`[{
	  "id": 12,
	  "name": "Spring Open",
	  "startDate": "2025-03-01",
	  "urlTag": "spring-open-25",
	  "url": "https://volleyballlife.com/event/spring-open-2025"
	}]`)

	events := decodeVBLEvents(payload)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if want := "https://volleyballlife.com/event/spring-open-2025"; events[0].Link != want {
		t.Errorf("Link = %q, want %q", events[0].Link, want)
	}
}

func TestDecodeVBLEventsMalformedPayload(t *testing.T) {
	if events := decodeVBLEvents([]byte("<html>not json</html>")); len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sports Garden DFW Volleyball", "Sports Garden DFW"},
		{"512 BEACH", "512 Beach"},
		{"Sideliners SA", "210 Beach Sideliners"},
		{"Some Other Club", "Some Other Club"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeHost(tt.in); got != tt.want {
			t.Errorf("normalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
