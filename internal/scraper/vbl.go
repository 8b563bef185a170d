package scraper

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/txbeach/sandcal/internal/tournament"
)

// vblIndicatorKeys are fields peculiar to VolleyballLife event objects.
// A JSON object matching at least two of them is treated as an event;
// one match alone is too easy to hit on unrelated payloads.
var vblIndicatorKeys = []string{
	"startDate", "endDate", "teamCount", "divisionNames", "statusId",
	"urlTag", "locations", "dates", "sanctionedBy", "ibvl", "isPublic",
	"coordinates",
}

const vblIndicatorThreshold = 2

// vblHostAliases maps hosting-club names as they appear in
// VolleyballLife listings onto the facility names used elsewhere in the
// dataset, so records from both paths deduplicate against each other.
var vblHostAliases = map[string]string{
	"sports garden":     "Sports Garden DFW",
	"sports garden dfw": "Sports Garden DFW",
	"512 beach":         "512 Beach",
	"atx beach":         "ATX Beach",
	"210 beach":         "210 Beach Sideliners",
	"sideliners":        "210 Beach Sideliners",
	"third coast":       "Third Coast VB",
}

// vblEvent is one event decoded out of a captured payload.
type vblEvent struct {
	Title    string
	Start    string
	End      string
	Location string
	Host     string
	League   bool
}

// vblLink builds the public event page URL, preferring an explicit url
// field and falling back to the numeric event id.
func vblLink(obj map[string]any) string {
	if u := firstString(obj, "url", "eventUrl", "registrationUrl", "publicUrl", "link"); u != "" {
		return u
	}
	if tag := firstString(obj, "urlTag"); tag != "" {
		return "https://volleyballlife.com/event/" + tag
	}
	switch id := obj["id"].(type) {
	case float64:
		return fmt.Sprintf("https://volleyballlife.com/event/%d", int64(id))
	case string:
		if id != "" {
			return "https://volleyballlife.com/event/" + id
		}
	}
	return ""
}

// decodeVBLEvents extracts event records from one captured JSON body.
// Payload shapes vary by endpoint, so it walks the whole document and
// keeps any object that carries enough event-specific fields.
func decodeVBLEvents(body []byte) []tournament.RawEvent {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	events := make([]tournament.RawEvent, 0)
	walkObjects(payload, func(obj map[string]any) {
		hits := 0
		for _, key := range vblIndicatorKeys {
			if _, ok := obj[key]; ok {
				hits++
			}
		}
		if hits < vblIndicatorThreshold {
			return
		}

		ev := vblEvent{
			Title:    firstString(obj, "name", "title", "eventName"),
			Start:    firstString(obj, "startDate", "start", "beginDate"),
			End:      firstString(obj, "endDate", "end"),
			Location: vblLocation(obj),
			Host:     normalizeHost(firstString(obj, "hostName", "host", "club", "organizer")),
		}
		ev.League = vblIsLeague(obj, ev.Title)
		if ev.Title == "" || ev.Start == "" || ev.League {
			return
		}

		events = append(events, tournament.RawEvent{
			Title:    ev.Title,
			DateText: ev.Start,
			EndText:  ev.End,
			Location: ev.Location,
			Link:     vblLink(obj),
			Host:     ev.Host,
		})
	})
	return events
}

func vblLocation(obj map[string]any) string {
	if loc := firstString(obj, "location", "city", "venue"); loc != "" {
		return loc
	}
	// locations may be a list of objects with name/city fields.
	if list, ok := obj["locations"].([]any); ok {
		for _, item := range list {
			nested, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if loc := firstString(nested, "name", "city", "address"); loc != "" {
				return loc
			}
		}
	}
	return ""
}

var vblTournamentTitlePattern = regexp.MustCompile(`(?i)\btournament\b`)

// vblIsLeague reports whether the event labels itself a league without
// also marking itself a tournament. Events run under a league banner but
// advertised as tournaments ("Spring Tournament Series") stay in; plain
// leagues are dropped up front rather than relying on span filtering.
func vblIsLeague(obj map[string]any, title string) bool {
	label := strings.ToLower(firstString(obj, "eventType", "type", "category", "label", "format"))
	if !strings.Contains(label, "league") {
		return false
	}
	if strings.Contains(label, "tournament") {
		return false
	}
	return !vblTournamentTitlePattern.MatchString(title)
}

func normalizeHost(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}
	for alias, canonical := range vblHostAliases {
		if strings.Contains(lower, alias) {
			return canonical
		}
	}
	return strings.TrimSpace(name)
}
