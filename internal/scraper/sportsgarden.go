package scraper

import (
	"context"
	"time"

	"github.com/txbeach/sandcal/internal/browser"
	"github.com/txbeach/sandcal/internal/tournament"
)

const (
	sportsGardenName     = "Sports Garden DFW"
	sportsGardenURL      = "https://www.sportsgardendfw.com/tournaments"
	sportsGardenLocation = "Dallas, TX"
)

// SportsGarden scrapes the Sports Garden DFW tournament page, which
// embeds a VolleyballLife calendar widget and renders nothing without
// JavaScript. Listings come from the widget's JSON API calls.
type SportsGarden struct {
	url     string
	rounds  int
	settle  time.Duration
	session func(ctx context.Context) (*browser.Session, error)
}

// NewSportsGarden creates the Sports Garden DFW adapter.
func NewSportsGarden() *SportsGarden {
	return &SportsGarden{
		url:     sportsGardenURL,
		rounds:  2,
		settle:  2 * time.Second,
		session: browser.NewSession,
	}
}

func (s *SportsGarden) Name() string { return sportsGardenName }

// MixesLeagues is true: the embedded calendar shows league seasons
// alongside tournaments.
func (s *SportsGarden) MixesLeagues() bool { return true }

func (s *SportsGarden) Fetch(ctx context.Context) ([]tournament.RawEvent, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	responses, err := sess.CaptureJSON(s.url, s.rounds, s.settle)
	if err != nil {
		return nil, err
	}

	events := make([]tournament.RawEvent, 0)
	seen := make(map[string]bool)
	for _, resp := range responses {
		for _, raw := range decodeVBLEvents(resp.Body) {
			key := raw.Title + "|" + raw.DateText
			if seen[key] {
				continue
			}
			seen[key] = true

			// Everything on this page is hosted here; the widget's own
			// host field is redundant and the venue is fixed.
			raw.Host = ""
			if raw.Location == "" {
				raw.Location = sportsGardenLocation
			}
			events = append(events, raw)
		}
	}
	return events, nil
}
