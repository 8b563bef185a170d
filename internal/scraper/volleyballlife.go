package scraper

import (
	"context"
	"time"

	"github.com/txbeach/sandcal/internal/browser"
	"github.com/txbeach/sandcal/internal/tournament"
)

const (
	volleyballLifeName = "VolleyballLife"
	volleyballLifeURL  = "https://volleyballlife.com/#/search?state=TX&type=beach"
)

// VolleyballLife scrapes the statewide VolleyballLife search. The page
// is a JavaScript application, so listings are taken from the JSON API
// responses it issues rather than from the rendered DOM. Listings name
// the hosting facility; records are attributed to that host when it is
// one of the facilities tracked here.
type VolleyballLife struct {
	url     string
	rounds  int
	settle  time.Duration
	session func(ctx context.Context) (*browser.Session, error)
}

// NewVolleyballLife creates the VolleyballLife adapter.
func NewVolleyballLife() *VolleyballLife {
	return &VolleyballLife{
		url:     volleyballLifeURL,
		rounds:  3,
		settle:  2 * time.Second,
		session: browser.NewSession,
	}
}

func (s *VolleyballLife) Name() string { return volleyballLifeName }

// MixesLeagues is true: the search feed interleaves league seasons with
// tournaments, so multi-week spans must be filtered out.
func (s *VolleyballLife) MixesLeagues() bool { return true }

func (s *VolleyballLife) Fetch(ctx context.Context) ([]tournament.RawEvent, error) {
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
			events = append(events, raw)
		}
	}
	return events, nil
}
