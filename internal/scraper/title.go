package scraper

import (
	"regexp"
	"strings"

	"github.com/txbeach/sandcal/internal/tournament"
)

// Facility pages rarely expose one unambiguous event title: the best
// candidate may sit in an og:title tag, an h1, a JSON-LD block, or the
// page <title>. bestTitle scores every candidate and picks the winner,
// rejecting pages where nothing scores like a real event name.

var (
	nonTitlePattern   = regexp.MustCompile(`(?i)\b(view event|view tournament|register|more details|details|learn more|information|pricing|deadline|ticket|registration)\b`)
	titleHintPattern  = regexp.MustCompile(`(?i)\b(tournament|men'?s|women'?s|coed|avp|blind draw|byo|revco|stop|series|triple crown|purse|spring|summer|fall|open|classic)\b`)
	dateLikePattern   = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}\b`)
	siteSuffixPattern = regexp.MustCompile(`(?i)\s*[-|•]\s*(512 Beach|VolleyballLife|Sports Garden DFW|ATX Beach|210 Beach).*$`)
	lowercasePattern  = regexp.MustCompile(`[a-z]`)
	bareYearPattern   = regexp.MustCompile(`\b\d{4}\b`)
)

// minTitleScore is the acceptance threshold: candidates scoring below it
// are treated as page chrome, not event names.
const minTitleScore = 8

func cleanTitle(raw string) string {
	title := tournament.TidyTitle(raw)
	title = siteSuffixPattern.ReplaceAllString(title, "")
	title = strings.TrimPrefix(strings.TrimSpace(title), "Tournament:")
	title = strings.Trim(title, " *|-:\t")
	return tournament.NormalizeWhitespace(title)
}

func scoreTitle(title string) int {
	if title == "" {
		return -10_000
	}

	score := 0
	if nonTitlePattern.MatchString(title) {
		score -= 220
	}
	if titleHintPattern.MatchString(title) {
		score += 35
	}
	if n := len(title); n >= 4 && n <= 140 {
		score += 8
	} else {
		score -= 10
	}
	if dateLikePattern.MatchString(title) {
		score -= 7
	}
	if bareYearPattern.MatchString(title) {
		score -= 3
	}
	if lowercasePattern.MatchString(title) {
		score += 3
	}
	return score
}

// bestTitle picks the highest-scoring cleaned candidate, or "" when no
// candidate looks like a genuine event name.
func bestTitle(candidates []string) string {
	best := ""
	bestScore := minTitleScore - 1
	seen := make(map[string]bool, len(candidates))

	for _, raw := range candidates {
		cleaned := cleanTitle(raw)
		key := strings.ToLower(cleaned)
		if cleaned == "" || seen[key] {
			continue
		}
		seen[key] = true
		if score := scoreTitle(cleaned); score > bestScore {
			best = cleaned
			bestScore = score
		}
	}
	return best
}
