package tournament

// LeagueSpanDays is the league classification boundary: a listing whose
// date span runs strictly longer than this many days is a recurring
// league block, not a tournament. Weekend and week-long events sit at or
// under the boundary. Tunable policy constant; calibrate against real
// listings before changing it.
const LeagueSpanDays = 7

// IsLeague classifies a date span. Spans of exactly LeagueSpanDays are
// tournaments; only strictly longer spans are leagues.
func IsLeague(span Span) bool {
	return span.Days() > LeagueSpanDays
}
